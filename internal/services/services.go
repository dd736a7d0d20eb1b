// package services defines interface Service for talking to the Spotify Web API
package services

import (
	"context"

	"github.com/desertthunder/spotify-stats/internal/models"
)

// Service is the subset of Spotify the HTTP handlers and CLI depend on.
type Service interface {
	// AuthURL returns the authorize URL carrying the S256 code challenge.
	AuthURL(challenge string) string

	// CompleteAuthorization exchanges an authorization code and its verifier for an access token, then resolves the
	// user's display name.
	CompleteAuthorization(ctx context.Context, code, verifier string) (*models.AuthResult, error)

	// TopItems fetches up to ten items per time range for the category.
	TopItems(ctx context.Context, accessToken string, category models.Category) (*models.TopItems, error)
}

var _ Service = (*SpotifyClient)(nil)
