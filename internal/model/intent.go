package model

// IntentKind is the action a participant submits for one turn.
type IntentKind string

const (
	IntentAttack   IntentKind = "attack"
	IntentDefend   IntentKind = "defend"
	IntentItem     IntentKind = "item"
	IntentMechanic IntentKind = "mechanic"
	IntentFlee     IntentKind = "flee"
)

// Intent is one participant's submitted action for one turn.
//
// Skill checks are not the engine's job: MechanicSuccess and Avoided arrive
// pre-resolved from the player-input collaborator. A malformed intent
// (unknown mechanic, unknown kind) degrades to a pass for that actor, never
// a session fault.
type Intent struct {
	ParticipantID string
	Kind          IntentKind

	// Mechanic attempt, pre-resolved.
	MechanicID      string
	MechanicSuccess bool

	// Item use: self-heal amount, resolved by the inventory collaborator.
	ItemID   string
	ItemHeal float64

	// Avoided reports whether this participant's avoid roll against an
	// avoidable boss ability (or avoidable hazard) succeeded this turn.
	Avoided bool
}
