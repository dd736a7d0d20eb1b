package session

import (
	"context"
	"time"

	"github.com/desertthunder/spotify-stats/internal/shared"
)

// Session is the server-side state bound to one browser cookie.
type Session struct {
	ID           string
	CodeVerifier string
	CreatedAt    time.Time
	ExpiresAt    time.Time
}

// New creates a session with a random ID that expires after ttl.
func New(now time.Time, ttl time.Duration) *Session {
	return &Session{
		ID:        shared.GenerateID(),
		CreatedAt: now.UTC(),
		ExpiresAt: now.UTC().Add(ttl),
	}
}

// SetVerifier stores the pending verifier, replacing any earlier one.
func (s *Session) SetVerifier(verifier string) {
	s.CodeVerifier = verifier
}

// TakeVerifier returns the pending verifier and clears it.
func (s *Session) TakeVerifier() (string, bool) {
	v := s.CodeVerifier
	s.CodeVerifier = ""
	return v, v != ""
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// Store persists sessions by ID.
//
// Get returns [shared.ErrSessionNotFound] for unknown or expired sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Close() error
}
