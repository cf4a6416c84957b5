package authsvc

import (
	"crypto/subtle"
	"errors"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotConfigured      = errors.New("admin password is not configured")
)

const defaultSessionTTL = 8 * time.Hour

// Session is an issued admin token.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthService guards the admin endpoints with a shared password and opaque session tokens.
type AuthService struct {
	password string
	ttl      time.Duration
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]time.Time
}

// option is a function that configures the AuthService.
type option func(*AuthService)

// MustNewAuthService creates a new AuthService.
// The password comes from ADMIN_PASSWORD unless WithPassword is given.
func MustNewAuthService(opts ...option) *AuthService {
	s := &AuthService{
		password: os.Getenv("ADMIN_PASSWORD"),
		ttl:      defaultSessionTTL,
		now:      time.Now,
		sessions: make(map[string]time.Time),
	}
	if minutes := viper.GetInt("admin.session_ttl_minutes"); minutes > 0 {
		s.ttl = time.Duration(minutes) * time.Minute
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.password == "" {
		slog.Warn("ADMIN_PASSWORD is empty, admin login is disabled")
	}

	return s
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithPassword(password string) option {
	return func(s *AuthService) {
		s.password = password
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithSessionTTL(ttl time.Duration) option {
	return func(s *AuthService) {
		s.ttl = ttl
	}
}

//goland:noinspection GoExportedFuncWithUnexportedType
func WithClock(now func() time.Time) option {
	return func(s *AuthService) {
		s.now = now
	}
}

// Login issues a session token when password matches.
func (s *AuthService) Login(password string) (Session, error) {
	if s.password == "" {
		return Session{}, ErrNotConfigured
	}
	if subtle.ConstantTimeCompare([]byte(password), []byte(s.password)) != 1 {
		return Session{}, ErrInvalidCredentials
	}

	now := s.now()
	session := Session{
		Token:     uuid.NewString(),
		ExpiresAt: now.Add(s.ttl),
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.evictExpired(now)
	s.sessions[session.Token] = session.ExpiresAt

	return session, nil
}

func (s *AuthService) Logout(token string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
}

// Validate returns ErrUnauthorized for unknown or expired tokens.
func (s *AuthService) Validate(token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt, ok := s.sessions[token]
	if !ok {
		return ErrUnauthorized
	}
	if !s.now().Before(expiresAt) {
		delete(s.sessions, token)

		return ErrUnauthorized
	}

	return nil
}

func (s *AuthService) evictExpired(now time.Time) {
	for token, expiresAt := range s.sessions {
		if !now.Before(expiresAt) {
			delete(s.sessions, token)
		}
	}
}
