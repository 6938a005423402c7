// Package effect tracks active status effects per target: duration, stacks,
// and per-turn ticking.
package effect

import "github.com/reddust-rpg/reddust/internal/model"

// StackingMode decides how stack count changes an effect's magnitude.
type StackingMode int

const (
	// StackLinear effects scale magnitude with stack count (power × stacks).
	StackLinear StackingMode = iota
	// StackBinary effects are presence effects: magnitude is the bare power
	// and stacking only refreshes duration. Stack count is still tracked
	// for display.
	StackBinary
)

// kindBehavior is the engine-side semantics of one effect kind.
// The split between linear and binary kinds is provisional where the content
// does not pin it down; the content team owns the final call.
type kindBehavior struct {
	Mode StackingMode

	// Ticks marks damage-over-time kinds whose magnitude is dealt to the
	// holder every turn.
	Ticks bool

	// Heals marks kinds whose magnitude restores the holder every turn.
	Heals bool

	// Disables marks kinds that suppress the holder's action for the turn.
	Disables bool
}

var kinds = map[model.EffectKind]kindBehavior{
	model.EffectBleed:   {Mode: StackLinear, Ticks: true},
	model.EffectBurn:    {Mode: StackLinear, Ticks: true},
	model.EffectPoison:  {Mode: StackLinear, Ticks: true},
	model.EffectMadness: {Mode: StackLinear, Ticks: true},
	model.EffectStun:    {Mode: StackBinary, Disables: true},
	model.EffectFear:    {Mode: StackBinary, Disables: true},
	model.EffectRoot:    {Mode: StackBinary, Disables: true},
	model.EffectWeaken:  {Mode: StackBinary},
	model.EffectFrenzy:  {Mode: StackLinear},
	model.EffectMend:    {Mode: StackLinear, Heals: true},
}

// behavior returns the semantics for a kind. Unknown kinds are rejected at
// content load, so the zero behavior is only reachable from hand-built tests.
func behavior(k model.EffectKind) kindBehavior {
	return kinds[k]
}

// Magnitude is the effective power of an instance given its kind's
// stacking mode.
func Magnitude(k model.EffectKind, power float64, stacks int) float64 {
	if stacks < 1 {
		stacks = 1
	}
	if behavior(k).Mode == StackBinary {
		return power
	}
	return power * float64(stacks)
}
