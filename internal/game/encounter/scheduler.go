package encounter

import (
	"fmt"

	"github.com/reddust-rpg/reddust/internal/model"
)

// Scheduler selects the boss ability each turn and owns the session's
// cooldown table (ability id → remaining turns).
type Scheduler struct {
	def       *model.EncounterDefinition
	cooldowns map[string]int
}

// NewScheduler creates a scheduler with every ability off cooldown.
func NewScheduler(def *model.EncounterDefinition) *Scheduler {
	return &Scheduler{
		def:       def,
		cooldowns: make(map[string]int, len(def.Abilities)),
	}
}

// Remaining returns the remaining cooldown for an ability id.
func (s *Scheduler) Remaining(abilityID string) int {
	return s.cooldowns[abilityID]
}

// Select picks the ability the boss uses this turn and commits its cooldown.
//
// Eligible = listed by the phase, requires_phase satisfied, cooldown at 0.
// Highest priority wins; ties break by the phase ability list's declaration
// order, so selection is stable and reproducible. An empty eligible set
// falls back to the phase's zero-cooldown baseline, which content validation
// guarantees to exist.
func (s *Scheduler) Select(phase *model.Phase) (*model.Ability, error) {
	var pick *model.Ability
	for _, id := range phase.Abilities {
		a := s.def.AbilityByID(id)
		if a == nil {
			// Unreachable past content validation.
			return nil, fmt.Errorf("phase %d references unknown ability %q", phase.Number, id)
		}
		if a.RequiresPhase > phase.Number {
			continue
		}
		if s.cooldowns[a.ID] > 0 {
			continue
		}
		if pick == nil || a.Priority > pick.Priority {
			pick = a
		}
	}

	if pick == nil {
		pick = s.baseline(phase)
		if pick == nil {
			return nil, fmt.Errorf("phase %d has no usable ability", phase.Number)
		}
	}

	// 0 stays 0: the ability is immediately reusable.
	s.cooldowns[pick.ID] = pick.Cooldown
	return pick, nil
}

// baseline is the phase's zero-cooldown, lowest-priority ability.
func (s *Scheduler) baseline(phase *model.Phase) *model.Ability {
	var base *model.Ability
	for _, id := range phase.Abilities {
		a := s.def.AbilityByID(id)
		if a == nil || a.Cooldown != 0 || a.RequiresPhase > phase.Number {
			continue
		}
		if base == nil || a.Priority < base.Priority {
			base = a
		}
	}
	return base
}

// EndTurn decrements every remaining cooldown by 1, floored at 0. Called
// once at end of turn, after selection, so an ability picked on turn N with
// cooldown C is eligible again on turn N+C.
func (s *Scheduler) EndTurn() {
	for id, cd := range s.cooldowns {
		if cd > 0 {
			s.cooldowns[id] = cd - 1
		}
	}
}
