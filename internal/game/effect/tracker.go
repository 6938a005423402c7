package effect

import (
	"log/slog"
	"sync"

	"github.com/reddust-rpg/reddust/internal/model"
)

// Instance is one active status effect on one target.
type Instance struct {
	Kind      model.EffectKind
	Power     float64
	Stacks    int
	MaxStacks int

	// RemainingTurns counts down on Tick; the instance is dropped at 0.
	RemainingTurns int

	Stackable bool
}

// Magnitude is the instance's effective power under its kind's stacking mode.
func (in *Instance) Magnitude() float64 {
	return Magnitude(in.Kind, in.Power, in.Stacks)
}

// TickResult reports what one instance did during a tick.
type TickResult struct {
	Target  string
	Kind    model.EffectKind
	Damage  float64
	Healing float64
	Expired bool
}

// Tracker is the per-session bookkeeping of active effects by target id
// (participant ids plus model.BossTargetID).
//
// The session goroutine owns the tracker; the mutex only guards read access
// from outside observers (status queries, tests). Targets tick in first-apply
// order so identical runs produce identical event logs.
type Tracker struct {
	mu        sync.RWMutex
	instances map[string][]*Instance

	// order holds target ids in first-apply order; Tick iterates it instead
	// of the map so results are reproducible.
	order []string
}

// NewTracker returns an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{instances: make(map[string][]*Instance, 8)}
}

// Apply applies an effect template to a target.
//
// Stacking rules:
//   - stackable + instance of same kind present: stack count +1 capped at
//     MaxStacks, duration reset to the template's full duration
//   - non-stackable + instance present: duration refresh only, power unchanged
//   - no instance: new instance at stack count 1
//
// Returns the resulting instance.
func (t *Tracker) Apply(target string, tpl *model.EffectTemplate) *Instance {
	t.mu.Lock()
	defer t.mu.Unlock()

	for _, in := range t.instances[target] {
		if in.Kind != tpl.Kind {
			continue
		}
		if in.Stackable && tpl.Stackable {
			if in.Stacks < in.MaxStacks {
				in.Stacks++
			}
			in.RemainingTurns = tpl.Duration
			return in
		}
		// Re-applying a non-stackable effect refreshes, never doubles.
		in.RemainingTurns = tpl.Duration
		return in
	}

	maxStacks := tpl.MaxStacks
	if maxStacks < 1 {
		maxStacks = 1
	}
	in := &Instance{
		Kind:           tpl.Kind,
		Power:          tpl.Power,
		Stacks:         1,
		MaxStacks:      maxStacks,
		RemainingTurns: tpl.Duration,
		Stackable:      tpl.Stackable,
	}
	if _, known := t.instances[target]; !known {
		t.order = append(t.order, target)
	}
	t.instances[target] = append(t.instances[target], in)
	return in
}

// Tick advances every instance by one turn: DoT/HoT kinds report their
// magnitude, durations decrement, and expired instances are dropped.
// Called once per turn after all actions resolve.
func (t *Tracker) Tick() []TickResult {
	t.mu.Lock()
	defer t.mu.Unlock()

	var results []TickResult
	liveTargets := t.order[:0]
	for _, target := range t.order {
		list := t.instances[target]
		kept := list[:0]
		for _, in := range list {
			res := TickResult{Target: target, Kind: in.Kind}
			b := behavior(in.Kind)
			if b.Ticks {
				res.Damage = in.Magnitude()
			}
			if b.Heals {
				res.Healing = in.Magnitude()
			}

			in.RemainingTurns--
			if in.RemainingTurns <= 0 {
				res.Expired = true
				slog.Debug("status effect expired", "target", target, "kind", in.Kind)
			} else {
				kept = append(kept, in)
			}
			results = append(results, res)
		}
		if len(kept) == 0 {
			delete(t.instances, target)
		} else {
			t.instances[target] = kept
			liveTargets = append(liveTargets, target)
		}
	}
	t.order = liveTargets
	return results
}

// Has reports whether the target currently holds an effect of the kind.
func (t *Tracker) Has(target string, kind model.EffectKind) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, in := range t.instances[target] {
		if in.Kind == kind {
			return true
		}
	}
	return false
}

// Get returns the target's instance of the kind, or nil.
func (t *Tracker) Get(target string, kind model.EffectKind) *Instance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, in := range t.instances[target] {
		if in.Kind == kind {
			return in
		}
	}
	return nil
}

// ActiveOn returns the target's active instances.
func (t *Tracker) ActiveOn(target string) []*Instance {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]*Instance, len(t.instances[target]))
	copy(out, t.instances[target])
	return out
}

// Disabled reports whether a disabling effect (stun, fear, root) suppresses
// the target's action this turn.
func (t *Tracker) Disabled(target string) (model.EffectKind, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	for _, in := range t.instances[target] {
		if behavior(in.Kind).Disables {
			return in.Kind, true
		}
	}
	return "", false
}

// DamageAmp is the outgoing-damage multiplier from the target's frenzy and
// weaken effects: frenzy adds its magnitude as percent, weaken subtracts,
// floored at 0.1.
func (t *Tracker) DamageAmp(target string) float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	amp := 1.0
	for _, in := range t.instances[target] {
		switch in.Kind {
		case model.EffectFrenzy:
			amp += in.Magnitude() / 100
		case model.EffectWeaken:
			amp -= in.Magnitude() / 100
		}
	}
	if amp < 0.1 {
		amp = 0.1
	}
	return amp
}
