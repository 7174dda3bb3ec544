package session

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/frankint/battleship-cli/internal/api"
	"github.com/frankint/battleship-cli/internal/model"
	"github.com/frankint/battleship-cli/internal/testutil"
)

type fakeServer struct {
	creds       *api.Credentials
	probeErr    error
	probeCalls  int
	guestErr    error
	guestIssued int
}

func (f *fakeServer) SetCredentials(creds *api.Credentials) {
	f.creds = creds
}

func (f *fakeServer) ListMatches(context.Context) ([]model.MatchSnapshot, error) {
	f.probeCalls++
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	return nil, nil
}

func (f *fakeServer) Guest(context.Context) (*api.GuestAccount, error) {
	if f.guestErr != nil {
		return nil, f.guestErr
	}
	f.guestIssued++
	return &api.GuestAccount{Username: "guest-1", Password: "pw"}, nil
}

type StoreSuite struct {
	suite.Suite
	server    *fakeServer
	durable   *FileStore
	ephemeral *MemoryStore
	store     *Store
	ctx       context.Context
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreSuite))
}

func (s *StoreSuite) SetupTest() {
	s.server = &fakeServer{}
	s.durable = NewFileStore(filepath.Join(s.T().TempDir(), "credentials.json"))
	s.ephemeral = NewMemoryStore()
	s.store = New(s.server, s.server, s.durable, s.ephemeral, testutil.NopLogger())
	s.ctx = context.Background()
}

// Login tests

func (s *StoreSuite) TestLoginValidatesAndPersists() {
	sess, err := s.store.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	s.Equal(model.PlayerID("alice"), sess.Identity)
	s.False(sess.Guest)
	s.Equal(1, s.server.probeCalls)

	// The credential is attached to the client and saved durably
	s.Require().NotNil(s.server.creds)
	s.Equal("alice", s.server.creds.Username)

	stored, err := s.durable.Load()
	s.Require().NoError(err)
	s.Require().NotNil(stored)
	s.Equal(sess.Creds, *stored)
}

func (s *StoreSuite) TestLoginRejectedPersistsNothing() {
	s.server.probeErr = model.ErrUnauthenticated

	_, err := s.store.Login(s.ctx, "alice", "wrong")
	s.ErrorIs(err, model.ErrUnauthenticated)

	s.Nil(s.server.creds)
	s.Nil(s.store.Current())

	stored, err := s.durable.Load()
	s.Require().NoError(err)
	s.Nil(stored)
}

func (s *StoreSuite) TestLoginGuestStaysEphemeral() {
	sess, err := s.store.LoginGuest(s.ctx)
	s.Require().NoError(err)

	s.Equal(model.PlayerID("guest-1"), sess.Identity)
	s.True(sess.Guest)

	// Guest credentials never touch the durable store
	stored, err := s.durable.Load()
	s.Require().NoError(err)
	s.Nil(stored)

	ephemeral, err := s.ephemeral.Load()
	s.Require().NoError(err)
	s.Require().NotNil(ephemeral)
	s.Equal("guest-1", ephemeral.Username)
}

func (s *StoreSuite) TestLoginReplacesGuestCredential() {
	_, err := s.store.LoginGuest(s.ctx)
	s.Require().NoError(err)

	_, err = s.store.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	ephemeral, err := s.ephemeral.Load()
	s.Require().NoError(err)
	s.Nil(ephemeral)
}

// Restore tests

func (s *StoreSuite) TestRestoreValidCredential() {
	_, err := s.store.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)
	s.store.mu.Lock()
	s.store.current = nil // simulate a fresh process
	s.store.mu.Unlock()

	sess, err := s.store.Restore(s.ctx)
	s.Require().NoError(err)
	s.Equal(model.PlayerID("alice"), sess.Identity)
	s.False(sess.Guest)
}

func (s *StoreSuite) TestRestoreWithNothingStored() {
	_, err := s.store.Restore(s.ctx)
	s.ErrorIs(err, model.ErrNoStoredSession)
}

func (s *StoreSuite) TestRestoreRejectedClearsStorage() {
	s.Require().NoError(s.durable.Save(api.BasicCredentials("alice", "stale")))
	s.server.probeErr = model.ErrUnauthenticated

	_, err := s.store.Restore(s.ctx)
	s.ErrorIs(err, model.ErrNoStoredSession)

	// The stale credential is gone: the next restore does not re-probe
	stored, loadErr := s.durable.Load()
	s.Require().NoError(loadErr)
	s.Nil(stored)
	s.Nil(s.server.creds)
}

func (s *StoreSuite) TestRestoreNetworkErrorKeepsCredential() {
	s.Require().NoError(s.durable.Save(api.BasicCredentials("alice", "secret")))
	s.server.probeErr = errors.New("connection refused")

	_, err := s.store.Restore(s.ctx)
	s.Require().Error(err)
	s.NotErrorIs(err, model.ErrNoStoredSession)

	// An unreachable server is not a rejection; the credential survives
	stored, loadErr := s.durable.Load()
	s.Require().NoError(loadErr)
	s.NotNil(stored)
}

// Logout tests

func (s *StoreSuite) TestLogoutClearsEverything() {
	hookCalls := 0
	s.store.OnLogout(func() { hookCalls++ })

	_, err := s.store.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	s.store.Logout()

	s.Nil(s.store.Current())
	s.Nil(s.server.creds)
	stored, loadErr := s.durable.Load()
	s.Require().NoError(loadErr)
	s.Nil(stored)
	s.Equal(1, hookCalls)
}

func (s *StoreSuite) TestLogoutIsIdempotent() {
	hookCalls := 0
	s.store.OnLogout(func() { hookCalls++ })

	_, err := s.store.Login(s.ctx, "alice", "secret")
	s.Require().NoError(err)

	s.store.Logout()
	s.store.Logout()

	// Hooks run only on the transition out of an active session
	s.Equal(1, hookCalls)
}
