package integration

import (
	"time"

	"github.com/reddust-rpg/reddust/internal/model"
)

func sampleResult(id string) model.SessionResult {
	started := time.Now().UTC().Add(-2 * time.Minute).Truncate(time.Millisecond)
	return model.SessionResult{
		SessionID:        id,
		EncounterID:      "six_graves_calloway",
		Status:           model.StatusVictory,
		Turns:            12,
		Duration:         90 * time.Second,
		ParticipantCount: 3,
		Survivors:        []string{"tex", "sal"},
		MechanicOutcomes: map[string]bool{
			"shoot_the_dynamite_belt": true,
			"lasso_takedown":          false,
		},
		StartedAt:  started,
		FinishedAt: started.Add(90 * time.Second),
	}
}

func (s *ArchiveSuite) TestArchiveAndLoad() {
	res := sampleResult("it-archive-1")
	s.Require().NoError(s.repo.ArchiveSession(s.ctx, res))

	got, err := s.repo.GetSession(s.ctx, res.SessionID)
	s.Require().NoError(err)
	s.Require().NotNil(got)

	s.Equal(res.SessionID, got.SessionID)
	s.Equal(res.EncounterID, got.EncounterID)
	s.Equal(model.StatusVictory, got.Status)
	s.Equal(res.Turns, got.Turns)
	s.Equal(res.Duration, got.Duration)
	s.Equal(res.ParticipantCount, got.ParticipantCount)
	s.Equal(res.Survivors, got.Survivors)
	s.WithinDuration(res.StartedAt, got.StartedAt, time.Second)
	s.WithinDuration(res.FinishedAt, got.FinishedAt, time.Second)

	mechanics, err := s.repo.MechanicOutcomes(s.ctx, res.SessionID)
	s.Require().NoError(err)
	s.Equal(res.MechanicOutcomes, mechanics)
}

func (s *ArchiveSuite) TestArchiveIsIdempotent() {
	res := sampleResult("it-archive-2")
	s.Require().NoError(s.repo.ArchiveSession(s.ctx, res))

	// A retry after a partial failure re-sends the same result; a later
	// correction may carry updated fields. Both converge on one row.
	res.Turns = 13
	res.Survivors = []string{"tex"}
	s.Require().NoError(s.repo.ArchiveSession(s.ctx, res))

	var count int
	err := s.db.Pool().QueryRow(s.ctx,
		"SELECT count(*) FROM encounter_sessions WHERE session_id = $1",
		res.SessionID).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)

	got, err := s.repo.GetSession(s.ctx, res.SessionID)
	s.Require().NoError(err)
	s.Require().NotNil(got)
	s.Equal(13, got.Turns)
	s.Equal([]string{"tex"}, got.Survivors)

	mechanics, err := s.repo.MechanicOutcomes(s.ctx, res.SessionID)
	s.Require().NoError(err)
	s.Len(mechanics, 2)
}

func (s *ArchiveSuite) TestGetSessionAbsent() {
	got, err := s.repo.GetSession(s.ctx, "never-archived")
	s.Require().NoError(err)
	s.Nil(got)
}

func (s *ArchiveSuite) TestGrantRewardsOnce() {
	res := sampleResult("it-rewards-1")
	s.Require().NoError(s.repo.ArchiveSession(s.ctx, res))

	rewards := model.Rewards{Gold: 500, Experience: 1200, Title: "Gravedigger"}

	applied, err := s.repo.GrantRewards(s.ctx, res.SessionID, rewards)
	s.Require().NoError(err)
	s.True(applied, "first grant must apply")

	// The reward collaborator retries freely; the grant stays single.
	applied, err = s.repo.GrantRewards(s.ctx, res.SessionID, rewards)
	s.Require().NoError(err)
	s.False(applied, "second grant must be a no-op")

	var count int
	err = s.db.Pool().QueryRow(s.ctx,
		"SELECT count(*) FROM session_rewards WHERE session_id = $1",
		res.SessionID).Scan(&count)
	s.Require().NoError(err)
	s.Equal(1, count)
}
