// Package session owns the bearer token of one fulboost client.
//
// All changes to the token go through a single mutation path guarded by a
// mutex, and every change bumps a generation counter, so a login racing a
// 401-triggered eviction is serialized and observable rather than silently
// interleaved.
package session

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/fulboost/fulboost-client/internal/tokenstore"
	"github.com/golang-jwt/jwt/v5"
)

// Session holds the token for one client instance
type Session struct {
	mu         sync.Mutex
	store      tokenstore.TokenStore
	key        string
	generation uint64
}

// New creates a session persisted in store under tokenstore.SessionKey
func New(store tokenstore.TokenStore) *Session {
	return &Session{store: store, key: tokenstore.SessionKey}
}

// NewInMemory creates a session that does not outlive the process
func NewInMemory() *Session {
	return New(tokenstore.NewMemoryStore())
}

// Token returns the current token, or "" when unauthenticated
func (s *Session) Token() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current()
}

// Establish stores token as the live session token, replacing any previous one
func (s *Session) Establish(token string) error {
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("session: refusing to store an empty token")
	}
	_, err := s.swap(nil, token)
	return err
}

// Clear removes the session token unconditionally
func (s *Session) Clear() error {
	_, err := s.swap(nil, "")
	return err
}

// InvalidateIf removes the session token only if it is still the token the caller saw.
//
// It is used when the server rejects a request: the token that was sent is
// evicted, but a token established by a newer login is left alone.
// Reports whether the stored token matched.
func (s *Session) InvalidateIf(token string) (bool, error) {
	return s.swap(&token, "")
}

// Generation increases every time the stored token changes
func (s *Session) Generation() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generation
}

// swap is the only place the stored token is modified.
// When expect is non-nil the change only happens if the current token equals *expect.
// An empty next removes the token.
func (s *Session) swap(expect *string, next string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.current()
	if err != nil {
		return false, err
	}
	if expect != nil && cur != *expect {
		return false, nil
	}
	if cur == next {
		return true, nil
	}

	if next == "" {
		err = s.store.Remove(s.key)
	} else {
		err = s.store.Set(s.key, next)
	}
	if err != nil {
		return false, fmt.Errorf("session: update token store: %w", err)
	}

	s.generation++
	return true, nil
}

func (s *Session) current() (string, error) {
	token, found, err := s.store.Get(s.key)
	if err != nil {
		return "", fmt.Errorf("session: read token store: %w", err)
	}
	if !found {
		return "", nil
	}
	return token, nil
}

// TokenStatus describes what can be known locally about the session token
type TokenStatus int

const (
	TokenMissing TokenStatus = iota // no token: unauthenticated
	TokenInvalid                    // blank or a JWT that cannot be decoded
	TokenExpired                    // JWT whose exp claim is in the past
	TokenValid                      // JWT that has not expired
	TokenOpaque                     // not a JWT, only the server can judge it
)

var tokenStatusNames = []string{"TokenMissing", "TokenInvalid", "TokenExpired", "TokenValid", "TokenOpaque"}

func (t TokenStatus) String() string {
	if t < 0 || int(t) >= len(tokenStatusNames) {
		return fmt.Sprintf("TokenStatus(%d)", int(t))
	}
	return tokenStatusNames[t]
}

// Status classifies the current token
func (s *Session) Status(now time.Time) (TokenStatus, error) {
	token, err := s.Token()
	if err != nil {
		return TokenMissing, err
	}
	return CheckTokenStatus(token, now), nil
}

// CheckTokenStatus classifies a token without verifying its signature.
// Only the expiry is inspected; signature checks are the server's job.
func CheckTokenStatus(token string, now time.Time) TokenStatus {
	if token == "" {
		return TokenMissing
	}
	if strings.TrimSpace(token) == "" {
		return TokenInvalid
	}

	// a compact JWS has exactly three dot separated segments
	if strings.Count(token, ".") != 2 {
		return TokenOpaque
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}

	_, _, err := parser.ParseUnverified(token, claims)
	if err != nil {
		return TokenInvalid
	}

	if claims.ExpiresAt != nil && claims.ExpiresAt.Before(now) {
		return TokenExpired
	}

	return TokenValid
}

// ExpiresAt returns the exp claim of a JWT token, if it has one
func ExpiresAt(token string) (time.Time, bool) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	claims := &jwt.RegisteredClaims{}
	if _, _, err := parser.ParseUnverified(token, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
