package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-stats/internal/shared"
)

// MemoryStore is an in-memory [Store] suitable for a single instance.
//
// Expired sessions are treated as missing on read and removed by a background cleanup loop that runs until [MemoryStore.Close].
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	now      func() time.Time
	logger   *log.Logger

	cleanupInterval time.Duration
	stopCleanup     chan struct{}
	closeOnce       sync.Once
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store and starts its cleanup loop.
//
// A non-positive cleanupInterval defaults to one minute. A nil logger falls back to [shared.NewLogger].
func NewMemoryStore(cleanupInterval time.Duration, logger *log.Logger) *MemoryStore {
	if cleanupInterval <= 0 {
		cleanupInterval = time.Minute
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	s := &MemoryStore{
		sessions:        make(map[string]Session),
		now:             time.Now,
		logger:          logger,
		cleanupInterval: cleanupInterval,
		stopCleanup:     make(chan struct{}),
	}

	go s.cleanupLoop()

	return s
}

// Get returns a copy of the stored session.
func (s *MemoryStore) Get(ctx context.Context, id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok || sess.Expired(s.now()) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}

	return &sess, nil
}

// Save stores a copy of sess, replacing any session with the same ID.
func (s *MemoryStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("%w: session without id", shared.ErrInvalidInput)
	}

	s.mu.Lock()
	s.sessions[sess.ID] = *sess
	s.mu.Unlock()

	return nil
}

// Delete removes the session. Deleting an unknown ID is not an error.
func (s *MemoryStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Cleanup removes expired sessions and returns how many were dropped.
func (s *MemoryStore) Cleanup() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// Close stops the cleanup loop. It is safe to call more than once.
func (s *MemoryStore) Close() error {
	s.closeOnce.Do(func() { close(s.stopCleanup) })
	return nil
}

func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(s.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := s.Cleanup(); n > 0 {
				s.logger.Debug("expired sessions removed", "count", n)
			}
		case <-s.stopCleanup:
			return
		}
	}
}
