package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/frankint/battleship-cli/internal/model"
	"github.com/frankint/battleship-cli/internal/push/pushtest"
	"github.com/frankint/battleship-cli/internal/social"
	"github.com/frankint/battleship-cli/internal/testutil"
)

type EngineSuite struct {
	suite.Suite
	server    *httptest.Server
	transport *pushtest.Transport
	engine    *Engine
	ctx       context.Context

	rejectRequests bool
	joinSnapshot   *model.MatchSnapshot

	declines chan bool
	expired  chan struct{}
	applied  chan *model.MatchSnapshot
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) SetupTest() {
	s.rejectRequests = false
	s.joinSnapshot = waitingSnapshot("m1", "alice")
	s.declines = make(chan bool, 8)
	s.expired = make(chan struct{}, 8)
	s.applied = make(chan *model.MatchSnapshot, 8)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/games", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	mux.HandleFunc("/api/games/m1/join", func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(s.joinSnapshot)
	})
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.rejectRequests {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		mux.ServeHTTP(w, r)
	}))

	s.transport = pushtest.New()
	s.engine = New(Config{
		ServerURL:       s.server.URL,
		CredentialsPath: filepath.Join(s.T().TempDir(), "credentials.json"),
		Logger:          testutil.NopLogger(),
		Transport:       s.transport,
		Events: UIEvents{
			Declined:        func(_ string, forceLobby bool) { s.declines <- forceLobby },
			SessionExpired:  func() { s.expired <- struct{}{} },
			SnapshotApplied: func(snap *model.MatchSnapshot) { s.applied <- snap },
		},
	})
	s.ctx = context.Background()
}

func (s *EngineSuite) TearDownTest() {
	s.server.Close()
}

func waitingSnapshot(matchID model.MatchID, self model.PlayerID) *model.MatchSnapshot {
	return &model.MatchSnapshot{
		MatchID: matchID,
		Phase:   model.PhaseWaitingForOpponent,
		Self:    &model.PlayerView{PlayerID: self},
	}
}

func (s *EngineSuite) login() {
	_, err := s.engine.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
}

// Session tests

func (s *EngineSuite) TestLoginConnectsPushChannel() {
	s.login()

	s.True(s.transport.Connected())
	s.Contains(s.transport.SubscribedTopics(), "/topic/user/alice/notifications")
}

func (s *EngineSuite) TestLogoutTearsDownEverything() {
	s.login()
	_, err := s.engine.EnterMatch(s.ctx, "m1")
	s.Require().NoError(err)

	s.engine.Logout()

	s.False(s.transport.Connected())
	s.Nil(s.engine.Sessions.Current())
	s.Nil(s.engine.View.Snapshot())
}

func (s *EngineSuite) TestSessionExpiryMidFlow() {
	s.login()
	s.rejectRequests = true

	_, err := s.engine.API.ListMatches(s.ctx)
	s.ErrorIs(err, model.ErrUnauthenticated)

	select {
	case <-s.expired:
	case <-time.After(time.Second):
		s.FailNow("expected session expiry signal")
	}
	s.Nil(s.engine.Sessions.Current())
	s.False(s.transport.Connected())
}

func (s *EngineSuite) TestLoginProbeRejectionDoesNotSignalExpiry() {
	s.rejectRequests = true

	_, err := s.engine.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, model.ErrUnauthenticated)

	select {
	case <-s.expired:
		s.FailNow("a rejected login probe must not signal expiry")
	case <-time.After(50 * time.Millisecond):
	}
}

// Match flow tests

func (s *EngineSuite) TestEnterMatchAppliesJoinSnapshot() {
	s.login()

	snap, err := s.engine.EnterMatch(s.ctx, "m1")
	s.Require().NoError(err)

	s.Equal(model.MatchID("m1"), snap.MatchID)
	s.Same(snap, s.engine.View.Snapshot())

	topics := s.transport.SubscribedTopics()
	s.Contains(topics, "/topic/game/m1/alice")
	s.Contains(topics, "/topic/game/m1/alice/error")
}

func (s *EngineSuite) TestPushedSnapshotUpdatesView() {
	s.login()
	_, err := s.engine.EnterMatch(s.ctx, "m1")
	s.Require().NoError(err)
	<-s.applied // join snapshot

	payload := `{"gameId": "m1", "state": "ACTIVE", "currentTurnPlayerId": "alice",
		"self": {"playerId": "alice"}, "opponent": {"playerId": "bob"}}`
	s.Require().True(s.transport.Deliver("/topic/game/m1/alice", []byte(payload)))

	select {
	case snap := <-s.applied:
		s.Equal(model.PhaseActive, snap.Phase)
		s.Equal(model.PhaseActive, s.engine.View.Snapshot().Phase)
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for pushed snapshot")
	}
}

func (s *EngineSuite) TestFirePublishesMove() {
	s.login()
	_, err := s.engine.EnterMatch(s.ctx, "m1")
	s.Require().NoError(err)

	s.Require().NoError(s.engine.Fire(4, 7))

	s.Require().Len(s.transport.Published, 1)
	s.Equal("/app/game/m1/move", s.transport.Published[0].Destination)
	s.Equal("alice", s.transport.Published[0].Headers["playerId"])
}

func (s *EngineSuite) TestFireOutsideMatch() {
	s.login()
	s.ErrorIs(s.engine.Fire(0, 0), model.ErrNotInMatch)
}

func (s *EngineSuite) TestLeaveMatchDropsMatchState() {
	s.login()
	_, err := s.engine.EnterMatch(s.ctx, "m1")
	s.Require().NoError(err)

	s.engine.LeaveMatch()

	s.Nil(s.engine.View.Snapshot())
	s.NotContains(s.transport.SubscribedTopics(), "/topic/game/m1/alice")
	s.Contains(s.transport.SubscribedTopics(), "/topic/user/alice/notifications")
}

// Social tests

func (s *EngineSuite) TestDeclineWhileWaitingReturnsToLobby() {
	s.login()
	_, err := s.engine.EnterMatch(s.ctx, "m1")
	s.Require().NoError(err)

	payload := `{"type": "DECLINED", "message": "bob declined your challenge", "gameId": "m1", "sender": "bob"}`
	s.Require().True(s.transport.Deliver("/topic/user/alice/notifications", []byte(payload)))

	select {
	case forceLobby := <-s.declines:
		s.True(forceLobby)
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for decline signal")
	}

	s.Nil(s.engine.View.Snapshot())
	_, inMatch := s.engine.Channels.CurrentMatch()
	s.False(inMatch)
}

func (s *EngineSuite) TestDeclineWhileActiveDoesNotForceLobby() {
	s.joinSnapshot = &model.MatchSnapshot{
		MatchID:  "m1",
		Phase:    model.PhaseActive,
		Self:     &model.PlayerView{PlayerID: "alice"},
		Opponent: &model.PlayerView{PlayerID: "carol"},
	}
	s.login()
	_, err := s.engine.EnterMatch(s.ctx, "m1")
	s.Require().NoError(err)

	payload := `{"type": "DECLINED", "message": "bob declined your challenge", "sender": "bob"}`
	s.Require().True(s.transport.Deliver("/topic/user/alice/notifications", []byte(payload)))

	select {
	case forceLobby := <-s.declines:
		s.False(forceLobby)
	case <-time.After(time.Second):
		s.FailNow("timed out waiting for decline signal")
	}

	s.NotNil(s.engine.View.Snapshot())
}

func (s *EngineSuite) TestAcceptChallengeEntersMatch() {
	s.login()

	snap, err := s.engine.AcceptChallenge(s.ctx, social.Challenge{MatchID: "m1", Sender: "bob"})
	s.Require().NoError(err)

	s.Equal(model.MatchID("m1"), snap.MatchID)
	s.Contains(s.transport.SubscribedTopics(), "/topic/game/m1/alice")
}
