package server

import (
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-stats/internal/pkce"
	"github.com/desertthunder/spotify-stats/internal/services"
	"github.com/desertthunder/spotify-stats/internal/session"
	"github.com/desertthunder/spotify-stats/internal/shared"
)

// OAuthHandler runs the PKCE authorization code flow: /auth starts it and /callback completes it.
type OAuthHandler struct {
	spotify  services.Service
	sessions *session.Manager
	views    *Views
	logger   *log.Logger
}

// NewOAuthHandler creates a new OAuth handler.
func NewOAuthHandler(spotify services.Service, sessions *session.Manager, views *Views, logger *log.Logger) *OAuthHandler {
	return &OAuthHandler{spotify: spotify, sessions: sessions, views: views, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *OAuthHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/auth", Handler: h.Authorize},
		{Method: http.MethodGet, Path: "/callback", Handler: h.Callback},
	}
}

// Authorize stores a fresh verifier in the session, replacing any pending one, and redirects to Spotify with its
// challenge.
func (h *OAuthHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	pair, err := pkce.New()
	if err != nil {
		h.logger.Error("failed to generate code verifier", "err", err)
		h.views.Error(w, http.StatusInternalServerError, "Could not start authorization.")
		return
	}

	sess, err := h.sessions.Load(r)
	if err != nil {
		h.logger.Error("failed to load session", "err", err)
		h.views.Error(w, http.StatusInternalServerError, "Could not start authorization.")
		return
	}

	sess.SetVerifier(pair.Verifier)
	if err := h.sessions.Save(r.Context(), w, sess); err != nil {
		h.logger.Error("failed to save session", "err", err)
		h.views.Error(w, http.StatusInternalServerError, "Could not start authorization.")
		return
	}

	http.Redirect(w, r, h.spotify.AuthURL(pair.Challenge), http.StatusFound)
}

// Callback consumes the session's verifier, exchanges the code and renders the signed-in view.
//
// The verifier is removed before anything else is checked so every callback ends the pending attempt.
func (h *OAuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	sess, err := h.sessions.Load(r)
	if err != nil {
		h.logger.Error("failed to load session", "err", err)
		h.views.Error(w, http.StatusInternalServerError, "Authorization failed.")
		return
	}

	verifier, err := h.sessions.TakeVerifier(ctx, sess)
	if err != nil {
		if errors.Is(err, shared.ErrMissingVerifier) {
			h.logger.Warn("callback without pending authorization", "session", sess.ID)
			h.views.Error(w, http.StatusBadRequest, "No authorization is pending for this browser. Please log in again.")
			return
		}
		h.logger.Error("failed to update session", "err", err)
		h.views.Error(w, http.StatusInternalServerError, "Authorization failed.")
		return
	}

	q := r.URL.Query()
	if reason := q.Get("error"); reason != "" {
		h.logger.Warn("callback rejected", "err", shared.ErrAuthorizationDenied, "reason", reason)
		h.views.Error(w, http.StatusBadRequest, "Spotify did not grant access.")
		return
	}

	code := q.Get("code")
	if code == "" {
		h.logger.Warn("callback without code", "err", shared.ErrMissingCode)
		h.views.Error(w, http.StatusBadRequest, "The authorization response was missing a code.")
		return
	}

	result, err := h.spotify.CompleteAuthorization(ctx, code, verifier)
	if err != nil {
		logExternal(h.logger, "authorization failed", err)
		h.views.Error(w, http.StatusInternalServerError, "Authorization failed.")
		return
	}

	h.logger.Info("user authorized", "display_name", result.DisplayName)

	data := successPage{Title: "Logged in", DisplayName: result.DisplayName, AccessToken: result.AccessToken}
	if err := h.views.Render(w, http.StatusOK, "success", data); err != nil {
		h.logger.Error("failed to render view", "err", err)
	}
}

// logExternal logs the remote payload of an [services.ExternalServiceError], or the error itself.
func logExternal(logger *log.Logger, msg string, err error) {
	var extErr *services.ExternalServiceError
	if errors.As(err, &extErr) {
		logger.Error(msg, "op", extErr.Op, "status", extErr.StatusCode, "detail", extErr.LogValue())
		return
	}
	logger.Error(msg, "err", err)
}
