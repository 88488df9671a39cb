package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/om_console/internal/cache"
)

// State is the authentication state of the console.
type State int

const (
	Unauthenticated State = iota
	Authenticated
)

func (s State) String() string {
	if s == Authenticated {
		return "authenticated"
	}
	return "unauthenticated"
}

// ErrEmptyToken is returned by SetToken when no access token is supplied.
var ErrEmptyToken = errors.New("session: empty access token")

// Store holds the access token issued by the shop API. It is initialized from
// persistent storage, mutated only through SetToken and Clear, and notifies
// listeners whenever the session ends.
type Store struct {
	storage cache.Store

	mu        sync.RWMutex
	access    string
	refresh   string
	listeners []func()
}

// New creates a session store on top of storage. Call Load before use.
func New(storage cache.Store) *Store {
	return &Store{storage: storage}
}

// Load restores tokens written by an earlier process.
func (s *Store) Load(ctx context.Context) error {
	access, err := s.read(ctx, cache.KeyAccessToken)
	if err != nil {
		return err
	}
	refresh, err := s.read(ctx, cache.KeyRefreshToken)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.access, s.refresh = access, refresh
	s.mu.Unlock()

	if access != "" {
		log.Info().Msg("Session restored from storage")
	}
	return nil
}

func (s *Store) read(ctx context.Context, key string) (string, error) {
	v, err := s.storage.Get(ctx, key)
	if errors.Is(err, cache.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

// Token returns the access token, or "" when signed out. It satisfies
// shopapi.TokenSource.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.access
}

// RefreshToken returns the refresh token saved at login, if any.
func (s *Store) RefreshToken() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refresh
}

// State reports whether an access token is held.
func (s *Store) State() State {
	if s.Token() == "" {
		return Unauthenticated
	}
	return Authenticated
}

// SetToken persists and installs a new token pair. An empty refresh token
// keeps the previous one.
func (s *Store) SetToken(ctx context.Context, access, refresh string) error {
	if access == "" {
		return ErrEmptyToken
	}
	if err := s.storage.Set(ctx, cache.KeyAccessToken, access); err != nil {
		return fmt.Errorf("failed to persist access token: %w", err)
	}
	if refresh != "" {
		if err := s.storage.Set(ctx, cache.KeyRefreshToken, refresh); err != nil {
			return fmt.Errorf("failed to persist refresh token: %w", err)
		}
	}

	s.mu.Lock()
	s.access = access
	if refresh != "" {
		s.refresh = refresh
	}
	s.mu.Unlock()
	return nil
}

// Clear ends the session. The in-memory tokens are dropped even when storage
// fails so the console always returns to the login state.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.access, s.refresh = "", ""
	listeners := append([]func(){}, s.listeners...)
	s.mu.Unlock()

	errAccess := s.storage.Delete(ctx, cache.KeyAccessToken)
	errRefresh := s.storage.Delete(ctx, cache.KeyRefreshToken)

	for _, fn := range listeners {
		fn()
	}
	return errors.Join(errAccess, errRefresh)
}

// ForceLogout is the unauthorized-response hook for the API client.
func (s *Store) ForceLogout() {
	log.Warn().Msg("Session rejected by shop API, signing out")
	if err := s.Clear(context.Background()); err != nil {
		log.Error().Err(err).Msg("Failed to clear persisted session")
	}
}

// OnClear registers fn to run after every Clear.
func (s *Store) OnClear(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

// ExpiresAt reads the exp claim of the access token without verifying its
// signature; only the backend can verify it.
func (s *Store) ExpiresAt() (time.Time, bool) {
	token := s.Token()
	if token == "" {
		return time.Time{}, false
	}
	parsed, _, err := jwt.NewParser().ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}, false
	}
	exp, err := parsed.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// Expired reports whether the access token carries an exp claim at or before
// now. Tokens without a readable exp never count as expired.
func (s *Store) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}
