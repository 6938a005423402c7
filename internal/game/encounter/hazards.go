package encounter

import "github.com/reddust-rpg/reddust/internal/model"

// HazardEngine evaluates the definition's discrete environment triggers and
// exposes the current phase's continuous hazard.
//
// Discrete triggers and the phase-scoped continuous hazard are separate
// damage sources: the session applies them independently, so a participant
// that evades one is not exempted from the other.
type HazardEngine struct {
	def        *model.EncounterDefinition
	startFired bool
}

// NewHazardEngine creates a hazard engine for one session.
func NewHazardEngine(def *model.EncounterDefinition) *HazardEngine {
	return &HazardEngine{def: def}
}

// OnStart returns the start triggers. They fire exactly once, before turn 1;
// later calls return nothing.
func (h *HazardEngine) OnStart() []*model.EnvironmentEffect {
	if h.startFired {
		return nil
	}
	h.startFired = true
	return h.collect(func(e *model.EnvironmentEffect) bool {
		return e.Trigger == model.TriggerStart
	})
}

// OnTurn returns the periodic triggers due this turn
// (turn % interval == 0).
func (h *HazardEngine) OnTurn(turn int) []*model.EnvironmentEffect {
	return h.collect(func(e *model.EnvironmentEffect) bool {
		return e.Trigger == model.TriggerPeriodic && e.Interval > 0 && turn%e.Interval == 0
	})
}

// OnPhaseChange returns the phase_change triggers matching the newly entered
// phase. A trigger with phase 0 matches every transition.
func (h *HazardEngine) OnPhaseChange(newPhase int) []*model.EnvironmentEffect {
	return h.collect(func(e *model.EnvironmentEffect) bool {
		return e.Trigger == model.TriggerPhaseChange && (e.Phase == 0 || e.Phase == newPhase)
	})
}

// Continuous returns the phase's standing hazard, or nil. It applies every
// turn the phase is active, regardless of the discrete trigger list.
func (h *HazardEngine) Continuous(phase *model.Phase) *model.ContinuousHazard {
	if phase == nil {
		return nil
	}
	return phase.EnvironmentalHazard
}

func (h *HazardEngine) collect(match func(*model.EnvironmentEffect) bool) []*model.EnvironmentEffect {
	var out []*model.EnvironmentEffect
	for i := range h.def.EnvironmentEffects {
		if match(&h.def.EnvironmentEffects[i]) {
			out = append(out, &h.def.EnvironmentEffects[i])
		}
	}
	return out
}
