package encounter

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/reddust-rpg/reddust/internal/game/combat"
	"github.com/reddust-rpg/reddust/internal/game/effect"
	"github.com/reddust-rpg/reddust/internal/model"
)

// participantState is the mutable per-fight state wrapped around a read-only
// roster entry.
type participantState struct {
	roster *model.Participant
	health float64

	// Per-turn flags, reset at the top of every resolved turn.
	defending bool
	avoided   bool

	// left marks a participant who abandoned the session; treated as
	// incapacitated for terminal checks, never revived.
	left bool
}

func (ps *participantState) incapacitated() bool {
	return ps.left || ps.health <= 0
}

// Session is one live run of an encounter from start to terminal outcome.
//
// A session is not safe for concurrent use: exactly one goroutine (the
// manager's runner) owns it and resolves turns sequentially. A turn either
// fully resolves or is not committed; there is no half-applied state.
type Session struct {
	id  string
	def *model.EncounterDefinition

	scaled combat.ScaledStats

	participants []*participantState
	byID         map[string]*participantState

	bossHealth float64
	phase      int // current announced phase number, 1-based
	turn       int
	status     model.SessionStatus

	fleeRequested bool

	scheduler *Scheduler
	effects   *effect.Tracker
	hazards   *HazardEngine

	events           []model.Event
	mechanicOutcomes map[string]bool

	startedAt  time.Time
	finishedAt time.Time
	started    bool
}

// NewSession creates a session for the given roster. Scaling is computed
// here, once; the definition must already be registry-validated.
func NewSession(id string, def *model.EncounterDefinition, roster []model.Participant) (*Session, error) {
	scaled, err := combat.Scale(def, len(roster))
	if err != nil {
		return nil, err
	}

	s := &Session{
		id:               id,
		def:              def,
		scaled:           scaled,
		byID:             make(map[string]*participantState, len(roster)),
		bossHealth:       scaled.MaxHealth,
		phase:            1,
		status:           model.StatusActive,
		scheduler:        NewScheduler(def),
		effects:          effect.NewTracker(),
		hazards:          NewHazardEngine(def),
		mechanicOutcomes: make(map[string]bool, len(def.SpecialMechanics)),
		startedAt:        time.Now(),
	}

	for i := range roster {
		p := &roster[i]
		if p.MaxHealth <= 0 {
			return nil, fmt.Errorf("session %s: participant %s has no health", id, p.ID)
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, fmt.Errorf("session %s: duplicate participant id %q", id, p.ID)
		}
		ps := &participantState{roster: p, health: p.MaxHealth}
		s.participants = append(s.participants, ps)
		s.byID[p.ID] = ps
	}

	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Status returns the current lifecycle status.
func (s *Session) Status() model.SessionStatus { return s.status }

// Turn returns the number of fully resolved turns.
func (s *Session) Turn() int { return s.turn }

// BossHealth returns the entity's current health.
func (s *Session) BossHealth() float64 { return s.bossHealth }

// BossHealthPct returns current health as a percentage of scaled max.
func (s *Session) BossHealthPct() float64 {
	return s.bossHealth / s.scaled.MaxHealth * 100
}

// CurrentPhase returns the announced phase number.
func (s *Session) CurrentPhase() int { return s.phase }

// Events returns the ordered event log accumulated so far.
func (s *Session) Events() []model.Event {
	out := make([]model.Event, len(s.events))
	copy(out, s.events)
	return out
}

// Begin fires the start triggers. Called exactly once, before turn 1;
// ResolveTurn calls it implicitly if the caller did not.
func (s *Session) Begin() {
	if s.started {
		return
	}
	s.started = true
	for _, env := range s.hazards.OnStart() {
		s.applyEnvironmentEffect(env)
	}
	slog.Info("encounter session started",
		"session", s.id,
		"encounter", s.def.ID,
		"participants", len(s.participants),
		"maxHealth", s.scaled.MaxHealth)
}

// standing counts participants still able to act.
func (s *Session) standing() int {
	n := 0
	for _, ps := range s.participants {
		if !ps.incapacitated() {
			n++
		}
	}
	return n
}

// MarkLeft records a participant abandoning the fight. No re-scaling
// happens; the empty slot simply counts as incapacitated.
func (s *Session) MarkLeft(participantID string) {
	if ps, ok := s.byID[participantID]; ok {
		ps.left = true
	}
}

// ResolveTurn commits one full turn: participant actions, boss action,
// hazards, effect tick, terminal check, and phase transition. Intents are
// matched to participants by id; a participant without an intent passes.
//
// Calling ResolveTurn on a terminal session is a no-op.
func (s *Session) ResolveTurn(intents []model.Intent) model.SessionStatus {
	if s.status.IsTerminal() {
		return s.status
	}
	s.Begin()

	s.turn++
	prevPct := s.BossHealthPct()

	byActor := make(map[string]*model.Intent, len(intents))
	for i := range intents {
		byActor[intents[i].ParticipantID] = &intents[i]
	}

	// Reset per-turn flags, then bind this turn's pre-resolved avoid rolls.
	for _, ps := range s.participants {
		ps.defending = false
		ps.avoided = false
		if in, ok := byActor[ps.roster.ID]; ok {
			ps.avoided = in.Avoided && ps.roster.CanAvoid
		}
	}

	s.resolveParticipantActions(byActor)

	// Phase for the boss action reflects health as of now, so a threshold
	// crossed by this turn's player damage takes hold immediately.
	phase := ActivePhase(s.def, s.BossHealthPct())
	s.resolveBossAction(phase)

	for _, env := range s.hazards.OnTurn(s.turn) {
		s.applyEnvironmentEffect(env)
	}
	s.applyContinuousHazard(phase)
	s.tickEffects()
	s.scheduler.EndTurn()

	s.checkTerminal()

	// Phase transition announces after the terminal check; a session that
	// just ended never fires phase hazards.
	if s.status == model.StatusActive {
		s.announceTransition(prevPct)
	}

	if s.status.IsTerminal() {
		s.finishedAt = time.Now()
		slog.Info("encounter session finished",
			"session", s.id,
			"encounter", s.def.ID,
			"status", s.status,
			"turns", s.turn)
	}
	return s.status
}

func (s *Session) resolveParticipantActions(byActor map[string]*model.Intent) {
	for _, ps := range s.participants {
		if ps.incapacitated() {
			continue
		}
		if kind, disabled := s.effects.Disabled(ps.roster.ID); disabled {
			slog.Debug("participant action suppressed",
				"session", s.id, "participant", ps.roster.ID, "effect", kind)
			continue
		}

		in, ok := byActor[ps.roster.ID]
		if !ok {
			continue // pass
		}

		switch in.Kind {
		case model.IntentAttack:
			s.participantAttack(ps)
		case model.IntentDefend:
			ps.defending = true
		case model.IntentItem:
			s.participantItem(ps, in)
		case model.IntentMechanic:
			s.resolveMechanic(ps, in)
		case model.IntentFlee:
			if s.def.CanFlee {
				s.fleeRequested = true
			} else {
				slog.Debug("flee rejected, encounter does not allow it",
					"session", s.id, "participant", ps.roster.ID)
			}
		default:
			// Malformed intent degrades to a pass, never a session fault.
			slog.Warn("unknown intent kind, treating as pass",
				"session", s.id, "participant", ps.roster.ID, "kind", in.Kind)
		}
	}
}

func (s *Session) participantAttack(ps *participantState) {
	raw := ps.roster.AttackPower * s.effects.DamageAmp(ps.roster.ID)
	phase := ActivePhase(s.def, s.BossHealthPct())
	dmg := combat.BossIncoming(s.def, phase, raw, ps.roster.DamageType)
	s.damageBoss(dmg, model.SourceParticipant, ps.roster.ID, ps.roster.DamageType)
}

func (s *Session) participantItem(ps *participantState, in *model.Intent) {
	if in.ItemHeal <= 0 {
		return
	}
	healed := min(in.ItemHeal, ps.roster.MaxHealth-ps.health)
	if healed <= 0 {
		return
	}
	ps.health += healed
	s.emit(model.HealEvent{
		Turn:     s.turn,
		Source:   model.SourceParticipant,
		SourceID: in.ItemID,
		Target:   ps.roster.ID,
		Amount:   healed,
	})
}

func (s *Session) resolveMechanic(ps *participantState, in *model.Intent) {
	mech := s.def.MechanicByID(in.MechanicID)
	if mech == nil {
		slog.Warn("unknown mechanic id, treating as pass",
			"session", s.id, "participant", ps.roster.ID, "mechanic", in.MechanicID)
		return
	}
	if !s.scaled.Mechanics[mech.ID] {
		slog.Debug("mechanic dormant at this party size",
			"session", s.id, "mechanic", mech.ID)
		return
	}
	if !ps.roster.CanAttempt(mech.ID) {
		slog.Debug("participant lacks mechanic capability",
			"session", s.id, "participant", ps.roster.ID, "mechanic", mech.ID)
		return
	}

	branch := &mech.OnFailure
	if in.MechanicSuccess {
		branch = &mech.OnSuccess
	}
	s.applyMechanicBranch(ps, mech.ID, branch)

	s.mechanicOutcomes[mech.ID] = in.MechanicSuccess
	s.emit(model.MechanicOutcomeEvent{
		Turn:          s.turn,
		MechanicID:    mech.ID,
		ParticipantID: ps.roster.ID,
		Success:       in.MechanicSuccess,
	})
}

// applyMechanicBranch applies a mechanic consequence. Branch damage is true
// damage: the skill check already decided the outcome, defenses do not
// re-litigate it. Player-side consequences land on the attempter.
func (s *Session) applyMechanicBranch(ps *participantState, mechanicID string, b *model.MechanicBranch) {
	hitBoss := b.Target == model.TargetBoss || b.Target == model.TargetBoth
	hitPlayer := b.Target == model.TargetPlayers || b.Target == model.TargetBoth

	if hitBoss {
		if b.Damage > 0 {
			s.damageBoss(b.Damage, model.SourceMechanic, mechanicID, "")
		}
		if b.Effect != nil {
			s.effects.Apply(model.BossTargetID, b.Effect)
		}
	}
	if hitPlayer {
		if b.Damage > 0 {
			s.damageParticipant(ps, b.Damage, model.SourceMechanic, mechanicID, "")
		}
		if b.Effect != nil {
			s.effects.Apply(ps.roster.ID, b.Effect)
		}
	}
}

func (s *Session) resolveBossAction(phase *model.Phase) {
	if kind, disabled := s.effects.Disabled(model.BossTargetID); disabled {
		slog.Debug("boss action suppressed", "session", s.id, "effect", kind)
		return
	}

	ability, err := s.scheduler.Select(phase)
	if err != nil {
		// Unreachable past content validation; the turn still resolves.
		slog.Error("ability selection failed", "session", s.id, "err", err)
		return
	}

	outgoing := combat.AbilityDamage(s.def, phase, ability, s.scaled.Damage)
	outgoing *= s.effects.DamageAmp(model.BossTargetID)

	for _, ps := range s.targetsFor(ability) {
		if ability.Avoidable && ps.avoided {
			s.emit(model.DamageEvent{
				Turn:       s.turn,
				Source:     model.SourceAbility,
				SourceID:   ability.ID,
				Target:     ps.roster.ID,
				DamageType: ability.DamageType,
				Avoided:    true,
			})
			continue
		}
		if outgoing > 0 {
			dmg := combat.ParticipantIncoming(ps.roster, outgoing, ability.DamageType, ps.defending)
			s.damageParticipant(ps, dmg, model.SourceAbility, ability.ID, ability.DamageType)
		}
		if ability.Effect != nil {
			s.effects.Apply(ps.roster.ID, ability.Effect)
		}
	}
}

// targetsFor picks the ability's victims: every standing participant for
// "all", the first standing participant in roster order for "single" (stable
// for reproducibility; threat tables are the AI collaborator's concern).
func (s *Session) targetsFor(ability *model.Ability) []*participantState {
	var out []*participantState
	for _, ps := range s.participants {
		if ps.incapacitated() {
			continue
		}
		out = append(out, ps)
		if ability.TargetType == model.TargetSingle {
			break
		}
	}
	return out
}

// applyEnvironmentEffect applies one discrete trigger firing exactly once.
func (s *Session) applyEnvironmentEffect(env *model.EnvironmentEffect) {
	hitBoss := env.Target == model.TargetBoss || env.Target == model.TargetBoth
	hitPlayers := env.Target == model.TargetPlayers || env.Target == model.TargetBoth

	if hitBoss {
		if env.Damage > 0 {
			s.damageBoss(env.Damage, model.SourceHazard, env.ID, "")
		}
		if env.Effect != nil {
			s.effects.Apply(model.BossTargetID, env.Effect)
		}
	}
	if hitPlayers {
		for _, ps := range s.participants {
			if ps.incapacitated() {
				continue
			}
			if env.Damage > 0 {
				dmg := combat.ParticipantIncoming(ps.roster, env.Damage, "", ps.defending)
				s.damageParticipant(ps, dmg, model.SourceHazard, env.ID, "")
			}
			if env.Effect != nil {
				s.effects.Apply(ps.roster.ID, env.Effect)
			}
		}
	}
}

// applyContinuousHazard deals the current phase's standing hazard damage to
// every non-avoiding participant. Avoidance here is the participant's own
// pre-resolved roll; evading a discrete trigger grants no exemption.
func (s *Session) applyContinuousHazard(phase *model.Phase) {
	ch := s.hazards.Continuous(phase)
	if ch == nil {
		return
	}
	for _, ps := range s.participants {
		if ps.incapacitated() {
			continue
		}
		if ch.Avoidable && ps.avoided {
			continue
		}
		dmg := combat.ParticipantIncoming(ps.roster, ch.DamagePerTurn, "", ps.defending)
		s.damageParticipant(ps, dmg, model.SourceHazard, ch.Name, "")
	}
}

func (s *Session) tickEffects() {
	for _, res := range s.effects.Tick() {
		switch {
		case res.Damage > 0 && res.Target == model.BossTargetID:
			s.damageBoss(res.Damage, model.SourceEffect, string(res.Kind), "")
		case res.Damage > 0:
			if ps, ok := s.byID[res.Target]; ok && !ps.incapacitated() {
				s.damageParticipant(ps, res.Damage, model.SourceEffect, string(res.Kind), "")
			}
		case res.Healing > 0 && res.Target == model.BossTargetID:
			s.healBoss(res.Healing, string(res.Kind))
		case res.Healing > 0:
			if ps, ok := s.byID[res.Target]; ok && !ps.incapacitated() {
				healed := min(res.Healing, ps.roster.MaxHealth-ps.health)
				if healed > 0 {
					ps.health += healed
					s.emit(model.HealEvent{
						Turn:     s.turn,
						Source:   model.SourceEffect,
						SourceID: string(res.Kind),
						Target:   ps.roster.ID,
						Amount:   healed,
					})
				}
			}
		}
	}
}

func (s *Session) damageBoss(amount float64, src model.EventSource, srcID string, dt model.DamageType) {
	if amount <= 0 {
		return
	}
	s.bossHealth -= amount
	if s.bossHealth < 0 {
		s.bossHealth = 0
	}
	s.emit(model.DamageEvent{
		Turn:       s.turn,
		Source:     src,
		SourceID:   srcID,
		Target:     model.BossTargetID,
		Amount:     amount,
		DamageType: dt,
	})
}

func (s *Session) healBoss(amount float64, srcID string) {
	healed := min(amount, s.scaled.MaxHealth-s.bossHealth)
	if healed <= 0 {
		return
	}
	s.bossHealth += healed
	s.emit(model.HealEvent{
		Turn:     s.turn,
		Source:   model.SourceEffect,
		SourceID: srcID,
		Target:   model.BossTargetID,
		Amount:   healed,
	})
}

func (s *Session) damageParticipant(ps *participantState, amount float64, src model.EventSource, srcID string, dt model.DamageType) {
	if amount <= 0 {
		return
	}
	ps.health -= amount
	if ps.health < 0 {
		ps.health = 0
	}
	s.emit(model.DamageEvent{
		Turn:       s.turn,
		Source:     src,
		SourceID:   srcID,
		Target:     ps.roster.ID,
		Amount:     amount,
		DamageType: dt,
	})
}

// checkTerminal applies the terminal rules in their fixed order.
func (s *Session) checkTerminal() {
	if s.bossHealth <= 0 {
		s.status = model.StatusVictory
		return
	}

	allDown := true
	for _, ps := range s.participants {
		if !ps.incapacitated() {
			allDown = false
			break
		}
	}
	if allDown {
		s.status = model.StatusDefeat
		return
	}

	if s.fleeRequested {
		s.status = model.StatusFled
		return
	}

	if s.def.EnrageTimer > 0 && s.turn >= s.def.EnrageTimer {
		s.status = model.StatusExpired
	}
}

// announceTransition emits the at-most-one phase transition for this turn's
// health change, fires its phase_change hazards, and requests minion summons.
func (s *Session) announceTransition(prevPct float64) {
	tp := TransitionedPhase(s.def, prevPct, s.BossHealthPct())
	if tp == nil || tp.Number <= s.phase {
		return
	}

	from := s.phase
	s.phase = tp.Number
	s.emit(model.PhaseTransitionEvent{
		Turn:      s.turn,
		FromPhase: from,
		ToPhase:   tp.Number,
		PhaseName: tp.Name,
	})
	slog.Info("phase transition",
		"session", s.id, "from", from, "to", tp.Number, "phase", tp.Name)

	for _, env := range s.hazards.OnPhaseChange(tp.Number) {
		s.applyEnvironmentEffect(env)
	}
	if tp.SummonMinions != nil {
		s.emit(model.MinionSummonEvent{
			Turn:     s.turn,
			MinionID: tp.SummonMinions.MinionID,
			Count:    tp.SummonMinions.Count,
		})
	}
}

func (s *Session) emit(ev model.Event) {
	s.events = append(s.events, ev)
}

// Result summarizes the session for the archiver and reward collaborators.
// Meaningful once the status is terminal.
func (s *Session) Result() model.SessionResult {
	res := model.SessionResult{
		SessionID:        s.id,
		EncounterID:      s.def.ID,
		Status:           s.status,
		Turns:            s.turn,
		ParticipantCount: len(s.participants),
		MechanicOutcomes: make(map[string]bool, len(s.mechanicOutcomes)),
		StartedAt:        s.startedAt,
		FinishedAt:       s.finishedAt,
	}
	for id, ok := range s.mechanicOutcomes {
		res.MechanicOutcomes[id] = ok
	}
	for _, ps := range s.participants {
		if !ps.incapacitated() {
			res.Survivors = append(res.Survivors, ps.roster.ID)
		}
	}
	if !s.finishedAt.IsZero() {
		res.Duration = s.finishedAt.Sub(s.startedAt)
	}
	if s.status == model.StatusFled {
		res.FleeConsequence = s.def.FleeConsequence
	}
	return res
}
