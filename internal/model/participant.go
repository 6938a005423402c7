package model

// BossTargetID is the reserved target id for the encounter entity itself in
// event logs and the effect tracker.
const BossTargetID = "boss"

// Participant is one roster entry handed to the engine at session creation.
// The engine treats it as read-only; mutable per-fight state (current health,
// defending, incapacitated) lives inside the session.
type Participant struct {
	ID   string
	Name string

	MaxHealth   float64
	AttackPower float64
	DamageType  DamageType

	// CanAvoid marks participants able to counter avoidable boss abilities.
	// The actual avoid roll is resolved by the player-input collaborator and
	// arrives pre-resolved on the turn intent.
	CanAvoid bool

	// Mechanics this participant is capable of attempting, by id.
	Mechanics []string

	// Damage types this participant ignores entirely (trinkets, wards).
	Immunities []DamageType
}

// CanAttempt reports whether the participant is capable of the mechanic.
func (p *Participant) CanAttempt(mechanicID string) bool {
	for _, id := range p.Mechanics {
		if id == mechanicID {
			return true
		}
	}
	return false
}

// IsImmune reports whether the participant ignores the given damage type.
func (p *Participant) IsImmune(dt DamageType) bool {
	for _, im := range p.Immunities {
		if im == dt {
			return true
		}
	}
	return false
}
