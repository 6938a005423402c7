package model

// EffectKind is the closed set of status effect types the engine resolves.
// Content referencing any other token is rejected at load time.
type EffectKind string

const (
	EffectBleed   EffectKind = "bleed"
	EffectBurn    EffectKind = "burn"
	EffectPoison  EffectKind = "poison"
	EffectMadness EffectKind = "madness"
	EffectStun    EffectKind = "stun"
	EffectFear    EffectKind = "fear"
	EffectRoot    EffectKind = "root"
	EffectWeaken  EffectKind = "weaken"
	EffectFrenzy  EffectKind = "frenzy"
	EffectMend    EffectKind = "mend"
)

// KnownEffectKinds lists every kind the engine resolves, in a stable order.
var KnownEffectKinds = []EffectKind{
	EffectBleed, EffectBurn, EffectPoison, EffectMadness,
	EffectStun, EffectFear, EffectRoot, EffectWeaken,
	EffectFrenzy, EffectMend,
}

// IsKnownEffectKind reports whether k is resolvable by the engine.
func IsKnownEffectKind(k EffectKind) bool {
	for _, known := range KnownEffectKinds {
		if known == k {
			return true
		}
	}
	return false
}

// EffectTemplate is the content-side description of a status effect.
// Applying one to a target creates or stacks an instance in the tracker.
type EffectTemplate struct {
	Kind     EffectKind `yaml:"kind"`
	Power    float64    `yaml:"power"`
	Duration int        `yaml:"duration"` // turns

	Stackable bool `yaml:"stackable"`
	MaxStacks int  `yaml:"max_stacks"` // cap when stackable; 1 otherwise
}
