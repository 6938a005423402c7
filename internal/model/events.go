package model

import "time"

// SessionStatus is the lifecycle state of a combat session.
// ACTIVE transitions to exactly one terminal status, with no re-entry.
type SessionStatus string

const (
	StatusActive  SessionStatus = "ACTIVE"
	StatusVictory SessionStatus = "VICTORY"
	StatusDefeat  SessionStatus = "DEFEAT"
	StatusFled    SessionStatus = "FLED"
	StatusExpired SessionStatus = "EXPIRED"
)

// IsTerminal reports whether the status ends the session.
func (s SessionStatus) IsTerminal() bool {
	return s != StatusActive
}

// EventSource classifies where a damage or heal event originated.
type EventSource string

const (
	SourceAbility     EventSource = "ability"
	SourceParticipant EventSource = "participant"
	SourceHazard      EventSource = "hazard"
	SourceEffect      EventSource = "effect"
	SourceMechanic    EventSource = "mechanic"
)

// Event is one entry in the ordered session log consumed by downstream
// systems (narrative, loot, achievements).
type Event interface {
	EventTurn() int
}

// DamageEvent records damage applied to a target ("boss" or a participant id).
type DamageEvent struct {
	Turn       int
	Source     EventSource
	SourceID   string // ability/hazard/effect/mechanic id, or attacker id
	Target     string
	Amount     float64
	DamageType DamageType
	Avoided    bool
}

func (e DamageEvent) EventTurn() int { return e.Turn }

// HealEvent records healing applied to a target.
type HealEvent struct {
	Turn     int
	Source   EventSource
	SourceID string
	Target   string
	Amount   float64
}

func (e HealEvent) EventTurn() int { return e.Turn }

// PhaseTransitionEvent fires at most once per health change, for the deepest
// crossed threshold. Skipped intermediate phases never fire.
type PhaseTransitionEvent struct {
	Turn      int
	FromPhase int
	ToPhase   int
	PhaseName string
}

func (e PhaseTransitionEvent) EventTurn() int { return e.Turn }

// MechanicOutcomeEvent records a special mechanic attempt.
type MechanicOutcomeEvent struct {
	Turn          int
	MechanicID    string
	ParticipantID string
	Success       bool
}

func (e MechanicOutcomeEvent) EventTurn() int { return e.Turn }

// MinionSummonEvent asks the spawn collaborator to add minions.
type MinionSummonEvent struct {
	Turn     int
	MinionID string
	Count    int
}

func (e MinionSummonEvent) EventTurn() int { return e.Turn }

// SessionResult is the terminal summary handed to the archiver and reward
// collaborators.
type SessionResult struct {
	SessionID   string
	EncounterID string
	Status      SessionStatus

	Turns    int
	Duration time.Duration

	ParticipantCount int
	Survivors        []string

	// MechanicOutcomes maps mechanic id → whether the last attempt succeeded.
	MechanicOutcomes map[string]bool

	// FleeConsequence is set when Status is FLED and the definition declares
	// one; the caller applies it out-of-band.
	FleeConsequence *EffectTemplate

	StartedAt  time.Time
	FinishedAt time.Time
}
