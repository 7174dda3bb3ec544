package api

import (
	"context"
	"encoding/base64"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/frankint/battleship-cli/internal/model"
	"github.com/frankint/battleship-cli/internal/testutil"
)

type ClientSuite struct {
	suite.Suite
	mux    *http.ServeMux
	server *httptest.Server
	client *Client
	ctx    context.Context

	lastRequest *http.Request
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientSuite))
}

func (s *ClientSuite) SetupTest() {
	s.mux = http.NewServeMux()
	s.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.lastRequest = r.Clone(r.Context())
		s.mux.ServeHTTP(w, r)
	}))
	s.client = NewClient(s.server.URL, testutil.NopLogger())
	s.ctx = context.Background()
}

func (s *ClientSuite) TearDownTest() {
	s.server.Close()
}

func (s *ClientSuite) handle(pattern string, status int, body string) {
	s.mux.HandleFunc(pattern, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	})
}

// Request shape tests

func (s *ClientSuite) TestCredentialsAttached() {
	s.handle("/api/games", http.StatusOK, "[]")
	creds := BasicCredentials("alice", "secret")
	s.client.SetCredentials(&creds)

	_, err := s.client.ListMatches(s.ctx)
	s.Require().NoError(err)

	expected := "Basic " + base64.StdEncoding.EncodeToString([]byte("alice:secret"))
	s.Equal(expected, s.lastRequest.Header.Get("Authorization"))
	s.NotEmpty(s.lastRequest.Header.Get("X-Request-ID"))
}

func (s *ClientSuite) TestNoCredentialsNoHeader() {
	s.handle("/auth/register", http.StatusCreated, "")

	s.Require().NoError(s.client.Register(s.ctx, "alice", "secret"))
	s.Empty(s.lastRequest.Header.Get("Authorization"))
}

// Auth failure tests

func (s *ClientSuite) TestUnauthenticatedFiresHook() {
	s.handle("/api/games", http.StatusUnauthorized, "")
	hookFired := 0
	s.client.OnAuthFailure(func() { hookFired++ })

	_, err := s.client.ListMatches(s.ctx)
	s.ErrorIs(err, model.ErrUnauthenticated)
	s.Equal(1, hookFired)
}

func (s *ClientSuite) TestForbiddenAlsoMapsToUnauthenticated() {
	s.handle("/api/games", http.StatusForbidden, "")

	_, err := s.client.ListMatches(s.ctx)
	s.ErrorIs(err, model.ErrUnauthenticated)
}

// Error mapping tests

func (s *ClientSuite) TestStatusErrorCarriesBody() {
	s.handle("/api/games/m1/join", http.StatusConflict, "game is full")

	_, err := s.client.JoinMatch(s.ctx, "m1")
	s.ErrorIs(err, model.ErrJoinRejected)
	s.Contains(err.Error(), "game is full")
}

func (s *ClientSuite) TestJoinUnknownMatch() {
	s.handle("/api/games/nope/join", http.StatusNotFound, "")

	_, err := s.client.JoinMatch(s.ctx, "nope")
	s.ErrorIs(err, model.ErrMatchNotFound)
}

func (s *ClientSuite) TestPlacementRejection() {
	s.handle("/api/games/m1/place", http.StatusBadRequest, "overlaps existing ship")

	_, err := s.client.PlaceShip(s.ctx, "m1", PlaceShipRequest{
		ShipType:    "Carrier",
		Start:       model.Coordinate{X: 0, Y: 0},
		Orientation: model.Horizontal,
	})
	s.ErrorIs(err, model.ErrPlacementRejected)
	s.Contains(err.Error(), "overlaps existing ship")
}

func (s *ClientSuite) TestInviteRejection() {
	s.handle("/api/social/invite", http.StatusBadRequest, "player is not online")

	_, err := s.client.Invite(s.ctx, "bob")
	s.ErrorIs(err, model.ErrInviteRejected)
	s.Contains(err.Error(), "player is not online")
}

// Response decoding tests

func (s *ClientSuite) TestSnapshotDecoding() {
	s.handle("/api/games/m1/join", http.StatusOK, `{
		"gameId": "m1",
		"state": "ACTIVE",
		"currentTurnPlayerId": "alice",
		"self": {"playerId": "alice", "ships": [{"id": "Destroyer", "size": 2, "sunk": false,
			"coordinates": [{"x": 0, "y": 0}, {"x": 1, "y": 0}]}]},
		"opponent": {"playerId": "bob", "sunkShips": [], "hits": [{"x": 3, "y": 3}]}
	}`)

	snap, err := s.client.JoinMatch(s.ctx, "m1")
	s.Require().NoError(err)

	s.Equal(model.MatchID("m1"), snap.MatchID)
	s.Equal(model.PhaseActive, snap.Phase)
	s.Equal(model.PlayerID("alice"), snap.CurrentTurnPlayerID)
	s.Require().NotNil(snap.Self)
	s.True(snap.Self.HasShip("Destroyer"))
	s.Require().NotNil(snap.Opponent)
	s.Equal([]model.Coordinate{{X: 3, Y: 3}}, snap.Opponent.Hits)
}

func (s *ClientSuite) TestInviteReturnsPlainTextMatchID() {
	s.handle("/api/social/invite", http.StatusOK, "match-42\n")

	matchID, err := s.client.Invite(s.ctx, "bob")
	s.Require().NoError(err)
	s.Equal(model.MatchID("match-42"), matchID)
}

func (s *ClientSuite) TestGuestAccountDecoding() {
	s.handle("/auth/guest", http.StatusOK, `{"username": "guest-7", "password": "pw"}`)

	account, err := s.client.Guest(s.ctx)
	s.Require().NoError(err)
	s.Equal("guest-7", account.Username)
	s.Equal("pw", account.Password)
}

// Credential encoding tests

func (s *ClientSuite) TestBasicCredentials() {
	creds := BasicCredentials("alice", "secret")
	s.Equal("alice", creds.Username)
	s.Equal(base64.StdEncoding.EncodeToString([]byte("alice:secret")), creds.Token)
	s.Equal("Basic "+creds.Token, creds.Header())
}
