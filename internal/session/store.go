package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frankint/battleship-cli/internal/api"
	"github.com/frankint/battleship-cli/internal/model"
)

// Session is an authenticated identity plus its credential handle. The
// credential is present iff the identity is.
type Session struct {
	Identity model.PlayerID
	Creds    api.Credentials
	Guest    bool
}

// Validator checks a credential against the server with one read-only
// protected request. *api.Client satisfies this via ListMatches.
type Validator interface {
	ListMatches(ctx context.Context) ([]model.MatchSnapshot, error)
	SetCredentials(creds *api.Credentials)
}

// GuestIssuer requests throwaway accounts. *api.Client satisfies this.
type GuestIssuer interface {
	Guest(ctx context.Context) (*api.GuestAccount, error)
}

// Store holds the authenticated session for the lifetime of the process.
// It is created at startup and owns login, restore and logout; every other
// component reads the session through it.
type Store struct {
	client    Validator
	guests    GuestIssuer
	durable   CredentialStore
	ephemeral CredentialStore
	logger    *slog.Logger

	mu       sync.Mutex
	current  *Session
	onLogout []func()
}

// New creates a session store. The durable store keeps registered-account
// credentials across restarts; the ephemeral store keeps guest credentials
// for this process only.
func New(client Validator, guests GuestIssuer, durable, ephemeral CredentialStore, logger *slog.Logger) *Store {
	return &Store{
		client:    client,
		guests:    guests,
		durable:   durable,
		ephemeral: ephemeral,
		logger:    logger,
	}
}

// OnLogout registers a hook run whenever the session is destroyed. The
// channel manager registers its teardown here.
func (s *Store) OnLogout(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onLogout = append(s.onLogout, fn)
}

// Current returns the active session, or nil when unauthenticated
func (s *Store) Current() *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Login exchanges a username/password pair for a validated session and
// persists the credential durably. Nothing is persisted on rejection.
func (s *Store) Login(ctx context.Context, username, password string) (*Session, error) {
	creds := api.BasicCredentials(username, password)
	if err := s.validate(ctx, creds); err != nil {
		return nil, err
	}

	if err := s.durable.Save(creds); err != nil {
		return nil, fmt.Errorf("persist credentials: %w", err)
	}
	// The two stores are mutually exclusive
	_ = s.ephemeral.Clear()

	sess := s.activate(creds, false)
	s.logger.Info("logged in", slog.String("identity", username))
	return sess, nil
}

// LoginGuest obtains a server-issued guest account and logs in with it.
// The credential lives in the ephemeral store only.
func (s *Store) LoginGuest(ctx context.Context) (*Session, error) {
	account, err := s.guests.Guest(ctx)
	if err != nil {
		return nil, err
	}

	creds := api.BasicCredentials(account.Username, account.Password)
	if err := s.validate(ctx, creds); err != nil {
		return nil, err
	}

	if err := s.ephemeral.Save(creds); err != nil {
		return nil, fmt.Errorf("store guest credentials: %w", err)
	}
	_ = s.durable.Clear()

	sess := s.activate(creds, true)
	s.logger.Info("logged in as guest", slog.String("identity", account.Username))
	return sess, nil
}

// Restore re-validates a persisted credential on startup. An invalid
// credential is cleared so a stale session is never surfaced.
func (s *Store) Restore(ctx context.Context) (*Session, error) {
	creds, guest, err := s.loadStored()
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, model.ErrNoStoredSession
	}

	if err := s.validate(ctx, *creds); err != nil {
		if errors.Is(err, model.ErrUnauthenticated) {
			s.logger.Info("stored credential rejected, clearing",
				slog.String("identity", creds.Username))
			_ = s.durable.Clear()
			_ = s.ephemeral.Clear()
			return nil, model.ErrNoStoredSession
		}
		return nil, err
	}

	sess := s.activate(*creds, guest)
	s.logger.Info("session restored", slog.String("identity", creds.Username))
	return sess, nil
}

// Logout clears the persisted credential and the in-memory identity and
// runs the registered teardown hooks. It is idempotent.
func (s *Store) Logout() {
	s.mu.Lock()
	wasActive := s.current != nil
	s.current = nil
	hooks := make([]func(), len(s.onLogout))
	copy(hooks, s.onLogout)
	s.mu.Unlock()

	_ = s.durable.Clear()
	_ = s.ephemeral.Clear()
	s.client.SetCredentials(nil)

	if wasActive {
		s.logger.Info("logged out")
		for _, fn := range hooks {
			fn()
		}
	}
}

func (s *Store) loadStored() (*api.Credentials, bool, error) {
	creds, err := s.durable.Load()
	if err != nil {
		return nil, false, fmt.Errorf("load credentials: %w", err)
	}
	if creds != nil {
		return creds, false, nil
	}

	creds, err = s.ephemeral.Load()
	if err != nil {
		return nil, false, fmt.Errorf("load credentials: %w", err)
	}
	return creds, true, nil
}

// validate issues the read-only probe with the candidate credential. On
// rejection the client is left without credentials.
func (s *Store) validate(ctx context.Context, creds api.Credentials) error {
	s.client.SetCredentials(&creds)
	if _, err := s.client.ListMatches(ctx); err != nil {
		s.client.SetCredentials(nil)
		return err
	}
	return nil
}

func (s *Store) activate(creds api.Credentials, guest bool) *Session {
	sess := &Session{
		Identity: model.PlayerID(creds.Username),
		Creds:    creds,
		Guest:    guest,
	}
	s.mu.Lock()
	s.current = sess
	s.mu.Unlock()
	return sess
}
