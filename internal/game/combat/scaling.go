// Package combat holds the pure damage and scaling formulas shared by the
// encounter engine. Everything here is deterministic: dice (crits, evasion,
// avoid rolls) are adjudicated by the player-combat collaborator before the
// engine sees the numbers.
package combat

import (
	"fmt"

	"github.com/reddust-rpg/reddust/internal/model"
)

// ScaledStats are the session-wide stats derived from participant count.
// Computed once at session creation and immutable thereafter: mid-fight
// joins and leaves never re-scale, so damage numbers and client telegraphs
// stay stable.
type ScaledStats struct {
	MaxHealth float64
	Damage    float64

	// Mechanics available to this session, by id. Mechanics gated behind a
	// larger party stay dormant for the whole session.
	Mechanics map[string]bool
}

// Scale derives session stats from the definition and participant count.
//
//	maxHealth = base × (1 + (n-1) × healthPerPlayer/100)
//	damage    = base × (1 + (n-1) × damagePerPlayer/100)
func Scale(def *model.EncounterDefinition, participants int) (ScaledStats, error) {
	if participants < 1 {
		return ScaledStats{}, fmt.Errorf("scaling %s: need at least one participant", def.ID)
	}
	if participants > def.PlayerLimit {
		return ScaledStats{}, fmt.Errorf("scaling %s: %d participants exceeds player limit %d",
			def.ID, participants, def.PlayerLimit)
	}

	extra := float64(participants - 1)
	stats := ScaledStats{
		MaxHealth: def.BaseHealth * (1 + extra*def.Scaling.HealthPerPlayer/100),
		Damage:    def.BaseDamage * (1 + extra*def.Scaling.DamagePerPlayer/100),
		Mechanics: make(map[string]bool, len(def.SpecialMechanics)),
	}

	// Mechanics without an unlock rule are always available; gated ones
	// unlock when the party meets the threshold.
	gated := make(map[string]int, len(def.Scaling.UnlockMechanics))
	for _, u := range def.Scaling.UnlockMechanics {
		gated[u.MechanicID] = u.PlayerCount
	}
	for i := range def.SpecialMechanics {
		id := def.SpecialMechanics[i].ID
		need, isGated := gated[id]
		if !isGated || participants >= need {
			stats.Mechanics[id] = true
		}
	}

	return stats, nil
}
