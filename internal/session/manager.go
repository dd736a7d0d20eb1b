package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/desertthunder/spotify-stats/internal/shared"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jws"
)

// DefaultCookieName is used when [ManagerOpts.CookieName] is empty.
const DefaultCookieName = "spotify_stats_session"

// ManagerOpts configures a [Manager].
type ManagerOpts struct {
	Store      Store
	Secret     []byte
	CookieName string
	TTL        time.Duration
	// Secure marks the cookie Secure and adds the __Host- prefix.
	Secure bool
}

// Manager loads and saves sessions through a signed cookie.
type Manager struct {
	store    Store
	template http.Cookie
	ttl      time.Duration
	secret   []byte
	now      func() time.Time
}

// NewManager validates opts and returns a Manager.
func NewManager(opts ManagerOpts) (*Manager, error) {
	if opts.Store == nil {
		return nil, fmt.Errorf("%w: session store is required", shared.ErrInvalidConfig)
	}
	if len(opts.Secret) == 0 {
		return nil, fmt.Errorf("%w: session secret is required", shared.ErrInvalidConfig)
	}
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Minute
	}

	name := opts.CookieName
	if name == "" {
		name = DefaultCookieName
	}

	// Lax, not Strict: the callback is a cross-site top-level navigation from the authorization server.
	template := http.Cookie{
		Name:     name,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if opts.Secure {
		template.Name = "__Host-" + name
		template.Secure = true
	}

	return &Manager{
		store:    opts.Store,
		template: template,
		ttl:      opts.TTL,
		secret:   opts.Secret,
		now:      time.Now,
	}, nil
}

// CookieName returns the effective cookie name, including any prefix.
func (m *Manager) CookieName() string {
	return m.template.Name
}

// Load returns the session referenced by the request cookie.
//
// A missing, tampered or expired cookie yields a new unsaved session; only store failures are returned as errors.
func (m *Manager) Load(r *http.Request) (*Session, error) {
	id, err := m.sessionID(r)
	if err != nil {
		return New(m.now(), m.ttl), nil
	}

	sess, err := m.store.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, shared.ErrSessionNotFound) {
			return New(m.now(), m.ttl), nil
		}
		return nil, err
	}

	return sess, nil
}

// Save persists sess, extends its expiry and writes the signed cookie.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	sess.ExpiresAt = m.now().UTC().Add(m.ttl)

	if err := m.store.Save(ctx, sess); err != nil {
		return err
	}

	signed, err := jws.Sign([]byte(sess.ID), jws.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return fmt.Errorf("failed to sign session cookie: %w", err)
	}

	cookie := m.template
	cookie.Value = string(signed)
	cookie.MaxAge = int(m.ttl.Seconds())
	http.SetCookie(w, &cookie)

	return nil
}

// TakeVerifier removes the pending verifier from sess and persists the change before returning it, so a replayed
// callback finds nothing.
//
// Returns [shared.ErrMissingVerifier] when no authorization is pending.
func (m *Manager) TakeVerifier(ctx context.Context, sess *Session) (string, error) {
	verifier, ok := sess.TakeVerifier()
	if !ok {
		return "", shared.ErrMissingVerifier
	}

	if err := m.store.Save(ctx, sess); err != nil {
		return "", err
	}

	return verifier, nil
}

// Destroy deletes the session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, sess *Session) error {
	if err := m.store.Delete(ctx, sess.ID); err != nil {
		return err
	}

	cookie := m.template
	cookie.MaxAge = -1
	http.SetCookie(w, &cookie)

	return nil
}

func (m *Manager) sessionID(r *http.Request) (string, error) {
	cookie, err := r.Cookie(m.template.Name)
	if err != nil {
		return "", err
	}

	payload, err := jws.Verify([]byte(cookie.Value), jws.WithKey(jwa.HS256, m.secret))
	if err != nil {
		return "", fmt.Errorf("%w: %v", shared.ErrInvalidSession, err)
	}

	return string(payload), nil
}
