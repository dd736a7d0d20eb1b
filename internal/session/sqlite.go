package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/spotify-stats/internal/shared"
)

// SQLiteStore is a [Store] backed by the sessions table.
//
// The caller owns the database handle and must run [shared.RunMigrations] first.
type SQLiteStore struct {
	db  *sql.DB
	now func() time.Time
}

var _ Store = (*SQLiteStore)(nil)

// NewSQLiteStore wraps an open database.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db, now: time.Now}
}

// Get loads a session, treating expired rows as missing.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*Session, error) {
	var (
		sess      Session
		createdAt int64
		expiresAt int64
	)

	row := s.db.QueryRowContext(ctx,
		"SELECT id, code_verifier, created_at, expires_at FROM sessions WHERE id = ?", id)
	if err := row.Scan(&sess.ID, &sess.CodeVerifier, &createdAt, &expiresAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
		}
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	sess.CreatedAt = time.Unix(0, createdAt).UTC()
	sess.ExpiresAt = time.Unix(0, expiresAt).UTC()

	if sess.Expired(s.now()) {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}

	return &sess, nil
}

// Save upserts the session row.
func (s *SQLiteStore) Save(ctx context.Context, sess *Session) error {
	if sess == nil || sess.ID == "" {
		return fmt.Errorf("%w: session without id", shared.ErrInvalidInput)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, code_verifier, created_at, expires_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			code_verifier = excluded.code_verifier,
			expires_at = excluded.expires_at
	`, sess.ID, sess.CodeVerifier, sess.CreatedAt.UnixNano(), sess.ExpiresAt.UnixNano())
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// Delete removes the session row.
func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// Cleanup deletes expired rows and returns how many were removed.
func (s *SQLiteStore) Cleanup(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", s.now().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to clean up sessions: %w", err)
	}
	return res.RowsAffected()
}

// Close is a no-op; the database handle belongs to the caller.
func (s *SQLiteStore) Close() error {
	return nil
}
