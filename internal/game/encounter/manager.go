package encounter

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/reddust-rpg/reddust/internal/model"
)

// Archiver persists a terminal session result. Implementations must be
// idempotent per session id: the manager retries on failure and the session
// cannot be re-run to regenerate its result.
type Archiver interface {
	ArchiveSession(ctx context.Context, res model.SessionResult) error
}

// Defaults for ManagerConfig zero values.
const (
	defaultTurnTimer    = 15 * time.Second
	defaultIntentBuffer = 32
	archiveAttempts     = 3
)

// ManagerConfig tunes session scheduling.
type ManagerConfig struct {
	// TurnTimer bounds how long a turn waits for intents. On expiry the
	// turn resolves with whatever arrived; missing actors pass.
	TurnTimer time.Duration

	// IntentBuffer is the per-session inbox capacity.
	IntentBuffer int
}

func (c ManagerConfig) withDefaults() ManagerConfig {
	if c.TurnTimer <= 0 {
		c.TurnTimer = defaultTurnTimer
	}
	if c.IntentBuffer <= 0 {
		c.IntentBuffer = defaultIntentBuffer
	}
	return c
}

// Manager runs many sessions concurrently, one goroutine per session. Each
// runner owns its session state exclusively: intents flow in through the
// session's inbox channel, so no locks guard session internals.
type Manager struct {
	archiver Archiver
	cfg      ManagerConfig

	ctx    context.Context
	cancel context.CancelFunc
	group  *errgroup.Group

	mu      sync.Mutex
	runners map[string]*runner
	results map[string]model.SessionResult

	seq atomic.Int64
}

type runner struct {
	session *Session
	intents chan model.Intent
	leaves  chan string
}

// NewManager creates a manager whose sessions live under ctx. Cancelling ctx
// drains every session: each finishes its current turn, resolves to a
// terminal state, and is archived before Shutdown returns.
func NewManager(ctx context.Context, archiver Archiver, cfg ManagerConfig) *Manager {
	mctx, cancel := context.WithCancel(ctx)
	g, gctx := errgroup.WithContext(mctx)
	return &Manager{
		archiver: archiver,
		cfg:      cfg.withDefaults(),
		ctx:      gctx,
		cancel:   cancel,
		group:    g,
		runners:  make(map[string]*runner, 16),
		results:  make(map[string]model.SessionResult, 16),
	}
}

// StartSession creates a session for the definition and roster and starts
// its runner. Returns the session id used for Submit/Leave/Result.
func (m *Manager) StartSession(def *model.EncounterDefinition, roster []model.Participant) (string, error) {
	id := fmt.Sprintf("%s-%d", def.ID, m.seq.Add(1))
	session, err := NewSession(id, def, roster)
	if err != nil {
		return "", fmt.Errorf("starting session for %s: %w", def.ID, err)
	}

	r := &runner{
		session: session,
		intents: make(chan model.Intent, m.cfg.IntentBuffer),
		leaves:  make(chan string, 8),
	}

	m.mu.Lock()
	m.runners[id] = r
	m.mu.Unlock()

	m.group.Go(func() error {
		m.run(r)
		return nil
	})
	return id, nil
}

// Submit queues a participant intent for the session's next turn.
func (m *Manager) Submit(sessionID string, in model.Intent) error {
	m.mu.Lock()
	r, ok := m.runners[sessionID]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown session %q", sessionID)
	}
	select {
	case r.intents <- in:
		return nil
	default:
		return fmt.Errorf("session %q intent buffer full", sessionID)
	}
}

// Leave marks a participant as having abandoned the session.
func (m *Manager) Leave(sessionID, participantID string) error {
	m.mu.Lock()
	r, ok := m.runners[sessionID]
	m.mu.Unlock()
	if !ok {
		return fmt.Errorf("unknown session %q", sessionID)
	}
	select {
	case r.leaves <- participantID:
		return nil
	default:
		return fmt.Errorf("session %q leave buffer full", sessionID)
	}
}

// Result returns the terminal result for a finished session.
func (m *Manager) Result(sessionID string) (model.SessionResult, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	res, ok := m.results[sessionID]
	return res, ok
}

// Active returns the number of running sessions.
func (m *Manager) Active() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.runners)
}

// Shutdown drains all sessions and waits for their runners to archive.
func (m *Manager) Shutdown() error {
	m.cancel()
	return m.group.Wait()
}

// run is the session's owning goroutine. A turn resolves when every standing
// participant has an intent queued, or the turn timer expires. Cancellation
// finishes the in-flight turn and forces a terminal state; a turn is never
// left half-applied.
func (m *Manager) run(r *runner) {
	s := r.session
	s.Begin()

	turnTicker := time.NewTicker(m.cfg.TurnTimer)
	defer turnTicker.Stop()

	pending := make(map[string]model.Intent, len(s.participants))

	resolve := func() model.SessionStatus {
		intents := make([]model.Intent, 0, len(pending))
		for _, in := range pending {
			intents = append(intents, in)
		}
		clear(pending)
		turnTicker.Reset(m.cfg.TurnTimer)
		return s.ResolveTurn(intents)
	}

	for {
		select {
		case <-m.ctx.Done():
			// Drain: commit the in-flight turn, then force a terminal
			// state by marking the remaining roster as gone.
			if !resolve().IsTerminal() {
				for _, ps := range s.participants {
					s.MarkLeft(ps.roster.ID)
				}
				s.ResolveTurn(nil)
			}
			m.finish(r)
			return

		case in := <-r.intents:
			pending[in.ParticipantID] = in
			if len(pending) >= s.standing() {
				if resolve().IsTerminal() {
					m.finish(r)
					return
				}
			}

		case id := <-r.leaves:
			s.MarkLeft(id)
			delete(pending, id)
			if s.standing() == 0 {
				resolve()
				m.finish(r)
				return
			}

		case <-turnTicker.C:
			if resolve().IsTerminal() {
				m.finish(r)
				return
			}
		}
	}
}

// finish archives the terminal result with bounded retries. The archive is
// idempotent per session id, so repeating it is safe.
func (m *Manager) finish(r *runner) {
	res := r.session.Result()

	m.mu.Lock()
	m.results[res.SessionID] = res
	delete(m.runners, res.SessionID)
	m.mu.Unlock()

	if m.archiver == nil {
		return
	}

	// Archival must survive manager shutdown; give it its own deadline.
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var err error
	for attempt := 1; attempt <= archiveAttempts; attempt++ {
		if err = m.archiver.ArchiveSession(ctx, res); err == nil {
			return
		}
		slog.Warn("session archive failed",
			"session", res.SessionID, "attempt", attempt, "err", err)
		time.Sleep(time.Duration(attempt) * 100 * time.Millisecond)
	}
	slog.Error("session archive gave up",
		"session", res.SessionID, "status", res.Status, "err", err)
}
