// Package services implements the Spotify side of the application behind the [Service] interface.
//
// # Authorization
//
// [SpotifyClient] is configured as a public OAuth client: no client secret, client_id sent in the token request body.
// [SpotifyClient.AuthURL] adds the S256 code_challenge to the authorize URL and [SpotifyClient.Exchange] sends the
// matching code_verifier through [oauth2.VerifierOption].
//
// # Top Items
//
// [SpotifyClient.TopItems] issues one request per [models.TimeRange] concurrently with errgroup. The first failure
// cancels the others and the call returns no partial result.
//
// # Error Handling
//
// Every remote failure is an [*ExternalServiceError], which unwraps to [shared.ErrExternalService]. Its Payload is the
// body Spotify returned and is intended for logs only. Timeouts additionally match [shared.ErrTimeout].
//
// # Rate Limiting
//
// A non-zero [SpotifyOpts.RateLimit] wraps the transport with a token bucket shared by all calls, token exchange
// included. Spotify 429 responses are not retried.
package services
