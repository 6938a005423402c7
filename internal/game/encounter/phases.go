// Package encounter drives a live boss combat session from a validated
// encounter definition to a terminal outcome: phase selection, ability
// scheduling, hazard triggering, effect ticking, and session lifecycle.
package encounter

import "github.com/reddust-rpg/reddust/internal/model"

// ActivePhase returns the phase for the current health percentage: among
// phases whose threshold is satisfied (currentPct <= threshold), the one
// with the smallest threshold wins.
//
// Most-progressed-phase-wins is a hard invariant, not an accident of
// iteration order: when one hit crosses several thresholds the deepest phase
// is current and the intermediate phases are never visited.
func ActivePhase(def *model.EncounterDefinition, currentPct float64) *model.Phase {
	var active *model.Phase
	for i := range def.Phases {
		p := &def.Phases[i]
		if currentPct > p.HealthThreshold {
			continue
		}
		if active == nil || p.HealthThreshold < active.HealthThreshold {
			active = p
		}
	}
	// Health above every threshold only happens with healing past 100;
	// the opening phase (threshold 100) still applies.
	if active == nil && len(def.Phases) > 0 {
		active = &def.Phases[0]
	}
	return active
}

// TransitionedPhase reports the at-most-one phase transition caused by a
// health change: a phase with prevPct > threshold >= currPct. When a single
// hit crosses several thresholds only the deepest qualifies; skipped
// intermediate phases never fire their dialogue or hazards.
func TransitionedPhase(def *model.EncounterDefinition, prevPct, currPct float64) *model.Phase {
	var crossed *model.Phase
	for i := range def.Phases {
		p := &def.Phases[i]
		if prevPct > p.HealthThreshold && p.HealthThreshold >= currPct {
			if crossed == nil || p.HealthThreshold < crossed.HealthThreshold {
				crossed = p
			}
		}
	}
	return crossed
}
