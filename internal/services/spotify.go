// Spotify Web API implementation of [Service]
//
// Spotify API response types based on https://developer.spotify.com/documentation/web-api/reference/
package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-stats/internal/models"
	"github.com/desertthunder/spotify-stats/internal/pkce"
	"github.com/desertthunder/spotify-stats/internal/shared"
	"golang.org/x/oauth2"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	DefaultAccountsURL = "https://accounts.spotify.com"
	DefaultAPIURL      = "https://api.spotify.com/v1"
	DefaultTimeout     = 5 * time.Second

	// TopItemsLimit is the number of items requested per time range.
	TopItemsLimit = 10

	maxPayload = 64 << 10
)

// Scopes requested during authorization: private profile, email and top items.
var Scopes = []string{"user-read-private", "user-read-email", "user-top-read"}

type followers struct {
	Total int `json:"total"`
}

// SpotifyUser represents a Spotify user profile.
type SpotifyUser struct {
	ID          string         `json:"id"`
	DisplayName string         `json:"display_name"`
	Email       string         `json:"email"`
	Country     string         `json:"country"`
	Product     string         `json:"product"` // premium, free, etc.
	Followers   followers      `json:"followers"`
	Images      []SpotifyImage `json:"images"`
}

// SpotifyImage represents an image resource.
type SpotifyImage struct {
	URL    string `json:"url"`
	Height int    `json:"height"`
	Width  int    `json:"width"`
}

type externalURLs struct {
	Spotify string `json:"spotify"`
}

// SpotifyTrack represents a Spotify track.
type SpotifyTrack struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	Artists      []SpotifyArtist `json:"artists"`
	Album        SpotifyAlbum    `json:"album"`
	DurationMS   int             `json:"duration_ms"`
	Explicit     bool            `json:"explicit"`
	Popularity   int             `json:"popularity"`
	URI          string          `json:"uri"`
	ExternalURLs externalURLs    `json:"external_urls"`
}

// ArtistNames joins the credited artists with commas.
func (t SpotifyTrack) ArtistNames() string {
	names := make([]string, 0, len(t.Artists))
	for _, a := range t.Artists {
		names = append(names, a.Name)
	}
	return strings.Join(names, ", ")
}

// SpotifyArtist represents a Spotify artist.
type SpotifyArtist struct {
	ID           string         `json:"id"`
	Name         string         `json:"name"`
	Genres       []string       `json:"genres"`
	Images       []SpotifyImage `json:"images"`
	Popularity   int            `json:"popularity"`
	Followers    followers      `json:"followers"`
	URI          string         `json:"uri"`
	ExternalURLs externalURLs   `json:"external_urls"`
}

// SpotifyAlbum represents a Spotify album.
type SpotifyAlbum struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Artists     []SpotifyArtist `json:"artists"`
	ReleaseDate string          `json:"release_date"`
	TotalTracks int             `json:"total_tracks"`
	Images      []SpotifyImage  `json:"images"`
	URI         string          `json:"uri"`
}

type topItemsPage struct {
	Items []json.RawMessage `json:"items"`
}

// SpotifyOpts configures a [SpotifyClient]. Zero values fall back to Spotify's public endpoints and [DefaultTimeout].
type SpotifyOpts struct {
	ClientID    string
	RedirectURI string
	AccountsURL string
	APIURL      string
	Timeout     time.Duration
	// RateLimit caps outbound requests per second; zero disables throttling.
	RateLimit  float64
	HTTPClient *http.Client
	Logger     *log.Logger
}

// SpotifyClient performs the PKCE authorization code exchange and proxies top item reads.
//
// It holds no per-user state; access tokens are passed on every call.
type SpotifyClient struct {
	config     *oauth2.Config
	apiURL     string
	httpClient *http.Client
	timeout    time.Duration
	logger     *log.Logger
}

// NewSpotifyClient creates a client for a public (secretless) Spotify application.
func NewSpotifyClient(opts SpotifyOpts) (*SpotifyClient, error) {
	if opts.ClientID == "" {
		return nil, fmt.Errorf("%w: client id", shared.ErrMissingCredentials)
	}
	if opts.RedirectURI == "" {
		return nil, fmt.Errorf("%w: redirect uri", shared.ErrMissingConfig)
	}

	accountsURL := strings.TrimRight(opts.AccountsURL, "/")
	if accountsURL == "" {
		accountsURL = DefaultAccountsURL
	}
	apiURL := strings.TrimRight(opts.APIURL, "/")
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	httpClient := &http.Client{}
	if opts.HTTPClient != nil {
		c := *opts.HTTPClient
		httpClient = &c
	}
	if opts.RateLimit > 0 {
		burst := max(len(models.TimeRanges), int(math.Ceil(opts.RateLimit)))
		httpClient.Transport = &limitedTransport{
			base:    httpClient.Transport,
			limiter: rate.NewLimiter(rate.Limit(opts.RateLimit), burst),
		}
	}

	config := &oauth2.Config{
		ClientID:    opts.ClientID,
		RedirectURL: opts.RedirectURI,
		Scopes:      Scopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:  accountsURL + "/authorize",
			TokenURL: accountsURL + "/api/token",
			// Public clients send client_id in the form body.
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}

	return &SpotifyClient{
		config:     config,
		apiURL:     apiURL,
		httpClient: httpClient,
		timeout:    timeout,
		logger:     logger,
	}, nil
}

// AuthURL returns the authorization URL for the given S256 challenge.
func (s *SpotifyClient) AuthURL(challenge string) string {
	return s.config.AuthCodeURL("",
		oauth2.SetAuthURLParam("code_challenge_method", pkce.MethodS256),
		oauth2.SetAuthURLParam("code_challenge", challenge),
	)
}

// Exchange trades an authorization code and its verifier for an access token.
func (s *SpotifyClient) Exchange(ctx context.Context, code, verifier string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, s.httpClient)

	token, err := s.config.Exchange(ctx, code, oauth2.VerifierOption(verifier))
	if err != nil {
		extErr := &ExternalServiceError{Op: "token exchange", Err: err}

		var re *oauth2.RetrieveError
		if errors.As(err, &re) {
			if re.Response != nil {
				extErr.StatusCode = re.Response.StatusCode
			}
			extErr.Payload = string(re.Body)
		}
		return "", extErr
	}

	return token.AccessToken, nil
}

// CurrentUser retrieves the profile of the token's owner.
func (s *SpotifyClient) CurrentUser(ctx context.Context, accessToken string) (*SpotifyUser, error) {
	var user SpotifyUser
	if err := s.doRequest(ctx, "current user", accessToken, "/me", nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

// CompleteAuthorization runs the token exchange followed by the identity lookup.
func (s *SpotifyClient) CompleteAuthorization(ctx context.Context, code, verifier string) (*models.AuthResult, error) {
	accessToken, err := s.Exchange(ctx, code, verifier)
	if err != nil {
		return nil, err
	}

	user, err := s.CurrentUser(ctx, accessToken)
	if err != nil {
		return nil, err
	}

	return &models.AuthResult{DisplayName: user.DisplayName, AccessToken: accessToken}, nil
}

// TopItems fetches all three time ranges concurrently.
//
// The first failure cancels the remaining requests and is returned; no partial result is produced.
func (s *SpotifyClient) TopItems(ctx context.Context, accessToken string, category models.Category) (*models.TopItems, error) {
	results := make([][]json.RawMessage, len(models.TimeRanges))

	g, gctx := errgroup.WithContext(ctx)
	for i, tr := range models.TimeRanges {
		g.Go(func() error {
			items, err := s.topItems(gctx, accessToken, category, tr)
			if err != nil {
				return err
			}
			results[i] = items
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := models.NewTopItems()
	for i, tr := range models.TimeRanges {
		if err := out.Set(tr.Key, results[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// TopTracks is shorthand for [SpotifyClient.TopItems] with [models.CategoryTracks].
func (s *SpotifyClient) TopTracks(ctx context.Context, accessToken string) (*models.TopItems, error) {
	return s.TopItems(ctx, accessToken, models.CategoryTracks)
}

// TopArtists is shorthand for [SpotifyClient.TopItems] with [models.CategoryArtists].
func (s *SpotifyClient) TopArtists(ctx context.Context, accessToken string) (*models.TopItems, error) {
	return s.TopItems(ctx, accessToken, models.CategoryArtists)
}

func (s *SpotifyClient) topItems(ctx context.Context, accessToken string, category models.Category, tr models.TimeRange) ([]json.RawMessage, error) {
	query := url.Values{}
	query.Set("limit", fmt.Sprint(TopItemsLimit))
	query.Set("time_range", tr.Value)

	var page topItemsPage
	op := fmt.Sprintf("top %s (%s)", category, tr.Value)
	if err := s.doRequest(ctx, op, accessToken, "/me/top/"+string(category), query, &page); err != nil {
		return nil, err
	}

	s.logger.Debug("fetched top items", "category", category, "range", tr.Key, "count", len(page.Items))
	return page.Items, nil
}

// doRequest performs an authenticated GET against the Web API, bounded by the client timeout.
func (s *SpotifyClient) doRequest(ctx context.Context, op, accessToken, endpoint string, query url.Values, result any) error {
	if accessToken == "" {
		return fmt.Errorf("%s: %w", op, shared.ErrMissingToken)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	apiURL := s.apiURL + endpoint
	if len(query) > 0 {
		apiURL += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("Accept", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			err = errors.Join(shared.ErrTimeout, err)
		}
		return &ExternalServiceError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, maxPayload))
		return &ExternalServiceError{Op: op, StatusCode: resp.StatusCode, Payload: string(payload)}
	}

	if result != nil {
		if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
			return &ExternalServiceError{Op: op, Err: fmt.Errorf("failed to decode response: %w", err)}
		}
	}

	return nil
}

// limitedTransport waits on a shared limiter before each outbound request.
type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}

	base := t.base
	if base == nil {
		base = http.DefaultTransport
	}
	return base.RoundTrip(req)
}
