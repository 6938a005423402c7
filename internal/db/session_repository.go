package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/reddust-rpg/reddust/internal/model"
)

// SessionRepository archives terminal sessions and records reward grants.
// It implements encounter.Archiver.
type SessionRepository struct {
	db *DB
}

// NewSessionRepository creates a repository over the given DB.
func NewSessionRepository(db *DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// ArchiveSession stores a terminal session and its mechanic outcomes in one
// transaction. Safe to repeat for the same session id: the session row is
// upserted and mechanic rows replaced, so a retry after a partial failure
// converges on the same state.
func (r *SessionRepository) ArchiveSession(ctx context.Context, res model.SessionResult) error {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning archive tx for %s: %w", res.SessionID, err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO encounter_sessions
		   (session_id, encounter_id, status, turns, duration_ms,
		    participant_count, survivors, started_at, finished_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 ON CONFLICT (session_id) DO UPDATE SET
		   status = EXCLUDED.status,
		   turns = EXCLUDED.turns,
		   duration_ms = EXCLUDED.duration_ms,
		   survivors = EXCLUDED.survivors,
		   finished_at = EXCLUDED.finished_at`,
		res.SessionID, res.EncounterID, string(res.Status), res.Turns,
		res.Duration.Milliseconds(), res.ParticipantCount, res.Survivors,
		res.StartedAt, res.FinishedAt,
	)
	if err != nil {
		return fmt.Errorf("archiving session %s: %w", res.SessionID, err)
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM session_mechanics WHERE session_id = $1`, res.SessionID); err != nil {
		return fmt.Errorf("clearing mechanics for %s: %w", res.SessionID, err)
	}
	for mechanicID, success := range res.MechanicOutcomes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO session_mechanics (session_id, mechanic_id, success)
			 VALUES ($1, $2, $3)`,
			res.SessionID, mechanicID, success); err != nil {
			return fmt.Errorf("archiving mechanic %s for %s: %w", mechanicID, res.SessionID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing archive for %s: %w", res.SessionID, err)
	}

	slog.Info("session archived",
		"session", res.SessionID, "status", res.Status, "turns", res.Turns)
	return nil
}

// GrantRewards records the reward grant for a victorious session. Returns
// true when this call created the grant and false when it was already
// recorded; the reward collaborator may retry freely after a failure
// because the session cannot be re-run to regenerate its result.
func (r *SessionRepository) GrantRewards(ctx context.Context, sessionID string, rewards model.Rewards) (bool, error) {
	tag, err := r.db.pool.Exec(ctx,
		`INSERT INTO session_rewards (session_id, gold, experience, title)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (session_id) DO NOTHING`,
		sessionID, rewards.Gold, rewards.Experience, rewards.Title,
	)
	if err != nil {
		return false, fmt.Errorf("granting rewards for %s: %w", sessionID, err)
	}
	return tag.RowsAffected() == 1, nil
}

// ArchivedSession is one stored session row.
type ArchivedSession struct {
	SessionID        string
	EncounterID      string
	Status           model.SessionStatus
	Turns            int
	Duration         time.Duration
	ParticipantCount int
	Survivors        []string
	StartedAt        time.Time
	FinishedAt       time.Time
}

// GetSession loads an archived session. Returns nil, nil when absent.
func (r *SessionRepository) GetSession(ctx context.Context, sessionID string) (*ArchivedSession, error) {
	var (
		row        ArchivedSession
		status     string
		durationMs int64
	)
	err := r.db.pool.QueryRow(ctx,
		`SELECT session_id, encounter_id, status, turns, duration_ms,
		        participant_count, survivors, started_at, finished_at
		 FROM encounter_sessions WHERE session_id = $1`, sessionID,
	).Scan(&row.SessionID, &row.EncounterID, &status, &row.Turns, &durationMs,
		&row.ParticipantCount, &row.Survivors, &row.StartedAt, &row.FinishedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("querying session %s: %w", sessionID, err)
	}
	row.Status = model.SessionStatus(status)
	row.Duration = time.Duration(durationMs) * time.Millisecond
	return &row, nil
}

// MechanicOutcomes loads the archived mechanic outcomes for a session.
func (r *SessionRepository) MechanicOutcomes(ctx context.Context, sessionID string) (map[string]bool, error) {
	rows, err := r.db.pool.Query(ctx,
		`SELECT mechanic_id, success FROM session_mechanics WHERE session_id = $1`,
		sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying mechanics for %s: %w", sessionID, err)
	}
	defer rows.Close()

	out := make(map[string]bool)
	for rows.Next() {
		var (
			id      string
			success bool
		)
		if err := rows.Scan(&id, &success); err != nil {
			return nil, fmt.Errorf("scanning mechanic row for %s: %w", sessionID, err)
		}
		out[id] = success
	}
	return out, rows.Err()
}
