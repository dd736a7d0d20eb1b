package server

import (
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-stats/internal/services"
	"github.com/desertthunder/spotify-stats/internal/session"
	"github.com/desertthunder/spotify-stats/internal/shared"
)

// PagesHandler serves the landing page, static assets and the health check.
type PagesHandler struct {
	views  *Views
	logger *log.Logger
}

// Routes returns the HTTP routes this handler serves.
func (h *PagesHandler) Routes() []Route {
	static := staticHandler()
	return []Route{
		{Method: http.MethodGet, Path: "/{$}", Handler: h.Home},
		{Method: http.MethodGet, Path: "/static/", Handler: static.ServeHTTP},
		{Method: http.MethodGet, Path: "/healthz", Handler: h.Health},
	}
}

// Home renders the landing page.
func (h *PagesHandler) Home(w http.ResponseWriter, r *http.Request) {
	if err := h.views.Render(w, http.StatusOK, "home", basePage{Title: "Home"}); err != nil {
		h.logger.Error("failed to render view", "err", err)
	}
}

// Health reports that the process is serving.
func (h *PagesHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Opts configures [New].
type Opts struct {
	Spotify  services.Service
	Sessions *session.Manager
	Logger   *log.Logger
}

// New builds the application router with request ID, recovery and access log middleware applied to every route.
func New(opts Opts) (*BasicRouter, error) {
	if opts.Spotify == nil {
		return nil, fmt.Errorf("%w: spotify service is required", shared.ErrInvalidConfig)
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("%w: session manager is required", shared.ErrInvalidConfig)
	}

	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	views, err := NewViews()
	if err != nil {
		return nil, err
	}

	router := NewBasicRouter()
	router.Use(RequestID(), Logger(logger), Recover(logger))

	router.Handler(&PagesHandler{views: views, logger: logger})
	router.Handler(NewOAuthHandler(opts.Spotify, opts.Sessions, views, logger))
	router.Handler(NewStatsHandler(opts.Spotify, views, logger))

	return router, nil
}
