package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-stats/internal/formatter"
	"github.com/desertthunder/spotify-stats/internal/models"
	"github.com/desertthunder/spotify-stats/internal/services"
	"github.com/desertthunder/spotify-stats/internal/shared"
)

// StatsHandler proxies top tracks and artists, as JSON under /api and as rendered views.
type StatsHandler struct {
	spotify services.Service
	views   *Views
	logger  *log.Logger
}

// NewStatsHandler creates a new stats handler.
func NewStatsHandler(spotify services.Service, views *Views, logger *log.Logger) *StatsHandler {
	return &StatsHandler{spotify: spotify, views: views, logger: logger}
}

// Routes returns the HTTP routes this handler serves.
func (h *StatsHandler) Routes() []Route {
	return []Route{
		{Method: http.MethodGet, Path: "/api/topTracks", Handler: h.API(models.CategoryTracks)},
		{Method: http.MethodGet, Path: "/api/topArtists", Handler: h.API(models.CategoryArtists)},
		{Method: http.MethodGet, Path: "/fetchTopTracks", Handler: h.View(models.CategoryTracks)},
		{Method: http.MethodGet, Path: "/fetchTopArtists", Handler: h.View(models.CategoryArtists)},
	}
}

// API responds with the category's [models.TopItems] as JSON.
func (h *StatsHandler) API(category models.Category) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := accessToken(r)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, "missing_token", "provide a bearer token or accessToken query parameter")
			return
		}

		items, err := h.spotify.TopItems(r.Context(), token, category)
		if err != nil {
			logExternal(h.logger, "failed to fetch top "+string(category), err)
			writeJSONError(w, http.StatusInternalServerError, "external_service_error", "")
			return
		}

		writeJSON(w, http.StatusOK, items)
	}
}

// View renders the category's top items as an HTML page.
func (h *StatsHandler) View(category models.Category) http.HandlerFunc {
	otherPath, otherCategory := "/fetchTopArtists", models.CategoryArtists
	if category == models.CategoryArtists {
		otherPath, otherCategory = "/fetchTopTracks", models.CategoryTracks
	}

	return func(w http.ResponseWriter, r *http.Request) {
		token, err := accessToken(r)
		if err != nil {
			h.views.Error(w, http.StatusUnauthorized, "Log in to see your stats.")
			return
		}

		items, err := h.spotify.TopItems(r.Context(), token, category)
		if err != nil {
			logExternal(h.logger, "failed to fetch top "+string(category), err)
			h.views.Error(w, http.StatusInternalServerError, "Could not load your stats from Spotify.")
			return
		}

		sections, err := formatter.Sections(category, items, "")
		if err != nil {
			h.logger.Error("failed to decode top items", "category", category, "err", err)
			h.views.Error(w, http.StatusInternalServerError, "Could not load your stats from Spotify.")
			return
		}

		data := topPage{
			Title:       formatter.Title(category),
			Category:    category,
			Sections:    sections,
			AccessToken: token,
			OtherPath:   otherPath,
			OtherTitle:  formatter.Title(otherCategory),
		}
		if err := h.views.Render(w, http.StatusOK, "top", data); err != nil {
			h.logger.Error("failed to render view", "err", err)
		}
	}
}

// accessToken reads the bearer token from the Authorization header, falling back to the accessToken query parameter.
func accessToken(r *http.Request) (string, error) {
	if auth := r.Header.Get("Authorization"); auth != "" {
		scheme, token, ok := strings.Cut(auth, " ")
		if ok && strings.EqualFold(scheme, "Bearer") && strings.TrimSpace(token) != "" {
			return strings.TrimSpace(token), nil
		}
		return "", errors.Join(shared.ErrMissingToken, shared.ErrInvalidInput)
	}

	if token := r.URL.Query().Get("accessToken"); token != "" {
		return token, nil
	}

	return "", shared.ErrMissingToken
}
