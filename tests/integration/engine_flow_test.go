package integration

import (
	"context"
	"time"

	"github.com/reddust-rpg/reddust/internal/data"
	"github.com/reddust-rpg/reddust/internal/game/encounter"
	"github.com/reddust-rpg/reddust/internal/model"
)

// TestEncounterFlowArchives runs a session from embedded content through the
// manager and verifies the terminal result lands in the archive.
func (s *ArchiveSuite) TestEncounterFlowArchives() {
	registry, err := data.Default()
	s.Require().NoError(err)

	def, ok := registry.Get("six_graves_calloway")
	s.Require().True(ok)

	m := encounter.NewManager(context.Background(), s.repo, encounter.ManagerConfig{
		TurnTimer: time.Second,
	})
	defer m.Shutdown()

	roster := []model.Participant{
		{ID: "tex", Name: "Tex", MaxHealth: 4000, AttackPower: 900, DamageType: model.DamageFire},
		{ID: "sal", Name: "Sal", MaxHealth: 4000, AttackPower: 900, DamageType: model.DamagePhysical},
	}
	id, err := m.StartSession(def, roster)
	s.Require().NoError(err)

	var res model.SessionResult
	deadline := time.Now().Add(15 * time.Second)
	for {
		var done bool
		if res, done = m.Result(id); done {
			break
		}
		s.Require().True(time.Now().Before(deadline), "session did not finish")
		_ = m.Submit(id, model.Intent{ParticipantID: "tex", Kind: model.IntentAttack})
		_ = m.Submit(id, model.Intent{ParticipantID: "sal", Kind: model.IntentAttack})
		time.Sleep(10 * time.Millisecond)
	}
	s.Require().True(res.Status.IsTerminal())

	// The manager archives after publishing the result; poll briefly.
	deadline = time.Now().Add(5 * time.Second)
	for {
		archived, err := s.repo.GetSession(s.ctx, id)
		s.Require().NoError(err)
		if archived != nil {
			s.Equal(def.ID, archived.EncounterID)
			s.Equal(res.Status, archived.Status)
			s.Equal(res.Turns, archived.Turns)
			s.Equal(2, archived.ParticipantCount)
			break
		}
		s.Require().True(time.Now().Before(deadline), "result never archived")
		time.Sleep(20 * time.Millisecond)
	}
}
