package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"heartlink/internal/apierr"
)

// Store persists the bearer credential between process restarts.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, token string, ttl time.Duration) error
	Delete(ctx context.Context) error
}

// Session owns the bearer credential for the whole process. It is set on
// login, cleared on logout and injected into every component that talks to
// the API.
type Session struct {
	store Store
	now   func() time.Time

	mu      sync.RWMutex
	token   string
	userID  string
	expires time.Time
}

// New builds a Session backed by store. A nil store keeps the credential in
// memory only.
func New(store Store) *Session {
	if store == nil {
		store = NewMemoryStore()
	}
	return &Session{store: store, now: time.Now}
}

// Restore loads a previously saved credential, if any.
func (s *Session) Restore(ctx context.Context) error {
	token, err := s.store.Load(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	c := parseClaims(token)
	s.mu.Lock()
	s.apply(token, c)
	s.mu.Unlock()
	return nil
}

// Set stores a fresh credential. A token whose expiry has already passed is
// rejected and leaves the current credential untouched.
func (s *Session) Set(ctx context.Context, token string) error {
	if token == "" {
		return apierr.ErrAuthenticationRequired
	}

	c := parseClaims(token)
	var ttl time.Duration
	if !c.expires.IsZero() {
		ttl = c.expires.Sub(s.now())
		if ttl <= 0 {
			return fmt.Errorf("token already expired: %w", apierr.ErrAuthenticationRequired)
		}
	}

	s.mu.Lock()
	s.apply(token, c)
	s.mu.Unlock()

	if err := s.store.Save(ctx, token, ttl); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	return nil
}

// Clear forgets the credential.
func (s *Session) Clear(ctx context.Context) error {
	s.mu.Lock()
	s.apply("", claims{})
	s.mu.Unlock()

	if err := s.store.Delete(ctx); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// Token returns the bearer credential or ErrAuthenticationRequired when none
// is set or the token has expired.
func (s *Session) Token() (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.token == "" {
		return "", apierr.ErrAuthenticationRequired
	}
	if !s.expires.IsZero() && !s.now().Before(s.expires) {
		return "", apierr.ErrAuthenticationRequired
	}
	return s.token, nil
}

// UserID returns the signed-in user's id when the token carries one.
func (s *Session) UserID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.userID
}

type claims struct {
	userID  string
	expires time.Time
}

// parseClaims reads the claims the client needs for local decisions. The API
// signs the token, so the signature is not checked here. Opaque tokens yield
// no claims.
func parseClaims(token string) claims {
	var c claims
	if token == "" {
		return c
	}

	mc := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, mc); err != nil {
		return c
	}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		c.expires = exp.Time
	}
	if sub, err := mc.GetSubject(); err == nil && sub != "" {
		c.userID = sub
		return c
	}
	for _, key := range []string{"id", "userId", "_id"} {
		if v, ok := mc[key].(string); ok && v != "" {
			c.userID = v
			return c
		}
	}
	return c
}

// apply must be called with mu held.
func (s *Session) apply(token string, c claims) {
	s.token = token
	s.userID = c.userID
	s.expires = c.expires
}
