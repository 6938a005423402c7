package data

import (
	"errors"
	"fmt"

	"github.com/reddust-rpg/reddust/internal/model"
)

// ContentError is a single load-time content defect. Validation collects all
// defects for a definition rather than stopping at the first.
type ContentError struct {
	Encounter string
	Where     string
	Msg       string
}

func (e *ContentError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Encounter, e.Where, e.Msg)
}

// validateDefinition checks every content invariant the engine relies on.
// A definition that passes is safe for any session: the engine never
// re-checks these at runtime.
func validateDefinition(def *model.EncounterDefinition) error {
	var errs []error
	fail := func(where, format string, args ...any) {
		errs = append(errs, &ContentError{
			Encounter: def.ID,
			Where:     where,
			Msg:       fmt.Sprintf(format, args...),
		})
	}

	if def.ID == "" {
		fail("id", "missing")
	}
	if def.BaseHealth <= 0 {
		fail("base_health", "must be positive, got %v", def.BaseHealth)
	}
	if def.PlayerLimit < 1 {
		fail("player_limit", "must be at least 1, got %d", def.PlayerLimit)
	}
	if def.EnrageTimer < 0 {
		fail("enrage_timer", "must not be negative, got %d", def.EnrageTimer)
	}
	if len(def.Phases) == 0 {
		fail("phases", "at least one phase is required")
	}

	// Phase thresholds: strictly decreasing, starting at 100.
	for i := range def.Phases {
		p := &def.Phases[i]
		where := fmt.Sprintf("phases[%d]", i)
		if i == 0 && p.HealthThreshold != 100 {
			fail(where, "first phase threshold must be 100, got %v", p.HealthThreshold)
		}
		if i > 0 && p.HealthThreshold >= def.Phases[i-1].HealthThreshold {
			fail(where, "thresholds must be strictly decreasing: %v >= %v",
				p.HealthThreshold, def.Phases[i-1].HealthThreshold)
		}
		if p.HealthThreshold < 0 {
			fail(where, "threshold must not be negative, got %v", p.HealthThreshold)
		}
		if p.EnvironmentalHazard != nil && p.EnvironmentalHazard.DamagePerTurn <= 0 {
			fail(where+".environmental_hazard", "damage_per_turn must be positive")
		}
		if p.SummonMinions != nil && p.SummonMinions.Count < 1 {
			fail(where+".summon_minions", "count must be at least 1")
		}

		// Every referenced ability must be declared, and every phase needs a
		// zero-cooldown ability it can actually use: the scheduler's
		// fallback is validated content, not a runtime guess.
		hasBaseline := false
		for _, id := range p.Abilities {
			a := def.AbilityByID(id)
			if a == nil {
				fail(where, "references undeclared ability %q", id)
				continue
			}
			if a.Cooldown == 0 && a.RequiresPhase <= p.Number {
				hasBaseline = true
			}
		}
		if len(p.Abilities) > 0 && !hasBaseline {
			fail(where, "no usable zero-cooldown ability")
		}
		if len(p.Abilities) == 0 {
			fail(where, "phase has no abilities")
		}
	}

	for i := range def.Abilities {
		a := &def.Abilities[i]
		where := fmt.Sprintf("abilities[%s]", a.ID)
		if a.ID == "" {
			fail(fmt.Sprintf("abilities[%d]", i), "missing id")
		}
		if a.Cooldown < 0 {
			fail(where, "cooldown must not be negative, got %d", a.Cooldown)
		}
		if a.RequiresPhase > len(def.Phases) {
			fail(where, "requires_phase %d exceeds declared phase count %d",
				a.RequiresPhase, len(def.Phases))
		}
		if a.TargetType != model.TargetSingle && a.TargetType != model.TargetAll {
			fail(where, "unknown target_type %q", a.TargetType)
		}
		if a.Damage > 0 && !knownDamageType(a.DamageType) {
			fail(where, "unknown damage_type %q", a.DamageType)
		}
		if a.Avoidable && a.AvoidMechanic == "" {
			fail(where, "avoidable ability must name an avoid_mechanic")
		}
		validateEffect(a.Effect, where+".effect", fail)
	}

	for dt := range def.Weaknesses {
		if !knownDamageType(dt) {
			fail("weaknesses", "unknown damage type %q", dt)
		}
		if def.Weaknesses[dt] <= 0 {
			fail("weaknesses", "%s multiplier must be positive", dt)
		}
	}
	for _, dt := range def.Immunities {
		if !knownDamageType(dt) {
			fail("immunities", "unknown damage type %q", dt)
		}
	}

	for i := range def.SpecialMechanics {
		m := &def.SpecialMechanics[i]
		where := fmt.Sprintf("special_mechanics[%s]", m.ID)
		if m.ID == "" {
			fail(fmt.Sprintf("special_mechanics[%d]", i), "missing id")
		}
		validateBranch(&m.OnSuccess, where+".on_success", fail)
		validateBranch(&m.OnFailure, where+".on_failure", fail)
	}

	for i := range def.EnvironmentEffects {
		h := &def.EnvironmentEffects[i]
		where := fmt.Sprintf("environment_effects[%s]", h.ID)
		switch h.Trigger {
		case model.TriggerStart:
		case model.TriggerPeriodic:
			if h.Interval < 1 {
				fail(where, "periodic trigger needs interval >= 1, got %d", h.Interval)
			}
		case model.TriggerPhaseChange:
			if h.Phase < 0 || h.Phase > len(def.Phases) {
				fail(where, "phase %d out of range", h.Phase)
			}
		default:
			fail(where, "unknown trigger %q", h.Trigger)
		}
		if !knownEffectTarget(h.Target) {
			fail(where, "unknown target %q", h.Target)
		}
		if h.Damage <= 0 && h.Effect == nil {
			fail(where, "trigger has neither damage nor effect")
		}
		validateEffect(h.Effect, where+".effect", fail)
	}

	if def.Scaling.HealthPerPlayer < 0 || def.Scaling.DamagePerPlayer < 0 {
		fail("scaling", "per-player percentages must not be negative")
	}
	for _, u := range def.Scaling.UnlockMechanics {
		where := fmt.Sprintf("scaling.unlock_mechanics[%s]", u.MechanicID)
		if def.MechanicByID(u.MechanicID) == nil {
			fail(where, "references undeclared mechanic")
		}
		if u.PlayerCount < 1 || u.PlayerCount > def.PlayerLimit {
			fail(where, "player_count %d outside 1..%d", u.PlayerCount, def.PlayerLimit)
		}
	}

	if def.FleeConsequence != nil && !def.CanFlee {
		fail("flee_consequence", "declared but can_flee is false")
	}
	validateEffect(def.FleeConsequence, "flee_consequence", fail)

	return errors.Join(errs...)
}

func validateBranch(b *model.MechanicBranch, where string, fail func(string, string, ...any)) {
	if b.Damage < 0 {
		fail(where, "damage must not be negative")
	}
	if (b.Damage > 0 || b.Effect != nil) && !knownEffectTarget(b.Target) {
		fail(where, "unknown target %q", b.Target)
	}
	validateEffect(b.Effect, where+".effect", fail)
}

func validateEffect(t *model.EffectTemplate, where string, fail func(string, string, ...any)) {
	if t == nil {
		return
	}
	if !model.IsKnownEffectKind(t.Kind) {
		fail(where, "unknown effect kind %q", t.Kind)
	}
	if t.Duration < 1 {
		fail(where, "duration must be at least 1 turn, got %d", t.Duration)
	}
	if t.Stackable && t.MaxStacks < 1 {
		fail(where, "stackable effect needs max_stacks >= 1, got %d", t.MaxStacks)
	}
	if t.Power < 0 {
		fail(where, "power must not be negative")
	}
}

func knownDamageType(dt model.DamageType) bool {
	switch dt {
	case model.DamagePhysical, model.DamageFire, model.DamagePoison,
		model.DamageOccult, model.DamageSpirit, model.DamageExplosive:
		return true
	}
	return false
}

func knownEffectTarget(t model.EffectTarget) bool {
	switch t {
	case model.TargetPlayers, model.TargetBoss, model.TargetBoth:
		return true
	}
	return false
}
