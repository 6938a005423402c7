package combat

import (
	"github.com/reddust-rpg/reddust/internal/model"
)

// reduceByDefense applies the standard defense curve, floored at 1:
// amount × 100 / (100 + defense). Big defense stays meaningful without
// ever zeroing a landed hit.
func reduceByDefense(amount, defense float64) float64 {
	if defense < 0 {
		defense = 0
	}
	dmg := amount * 100 / (100 + defense)
	if dmg < 1 {
		return 1
	}
	return dmg
}

// BossIncoming computes damage a hit deals to the encounter entity.
// Immunities zero the hit outright; a declared weakness multiplies it; boss
// defense (scaled by the active phase's defense modifier) reduces it.
func BossIncoming(def *model.EncounterDefinition, phase *model.Phase, amount float64, dt model.DamageType) float64 {
	if amount <= 0 {
		return 0
	}
	if def.IsImmune(dt) {
		return 0
	}
	amount *= def.WeaknessMultiplier(dt)
	defense := def.Defense
	if phase != nil {
		defense *= phase.Modifiers.Defense
	}
	return reduceByDefense(amount, defense)
}

// ParticipantIncoming computes damage a boss ability or hazard deals to one
// participant. Defending halves it; a participant immunity zeroes it.
func ParticipantIncoming(p *model.Participant, amount float64, dt model.DamageType, defending bool) float64 {
	if amount <= 0 {
		return 0
	}
	if dt != "" && p.IsImmune(dt) {
		return 0
	}
	if defending {
		amount *= 0.5
	}
	if amount < 1 {
		return 1
	}
	return amount
}

// AbilityDamage is a boss ability's outgoing damage before target-side
// reduction: the declared ability damage scaled by the session damage ratio
// (scaled/base, from party scaling) and the active phase damage modifier.
func AbilityDamage(def *model.EncounterDefinition, phase *model.Phase, ability *model.Ability, scaledDamage float64) float64 {
	if ability.Damage <= 0 {
		return 0
	}
	out := ability.Damage
	if def.BaseDamage > 0 {
		out *= scaledDamage / def.BaseDamage
	}
	if phase != nil {
		out *= phase.Modifiers.Damage
	}
	return out
}
