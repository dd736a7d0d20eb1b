// Package server provides HTTP routing, middleware and the handlers for the spotify-stats web app.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support. [Middleware] wraps handlers in reverse order
// (last added executes first). The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// Handlers implement [Handler], returning their [Route] list so route definitions live next to the code serving them.
//
// # Authorization
//
// [OAuthHandler] runs the PKCE authorization code flow:
//
//	GET /auth      → store a fresh code verifier in the session, 302 to Spotify with its S256 challenge
//	GET /callback  → take the verifier, exchange the code, render the signed-in view
//
// A callback without a pending verifier is answered with 400. The verifier is cleared and persisted before the token
// exchange so a replayed callback is rejected the same way.
//
// # Stats
//
// [StatsHandler] serves top tracks and artists:
//
//	GET /api/topTracks     → JSON {"last4Weeks": [...], "last6Months": [...], "allTime": [...]}
//	GET /api/topArtists    → same shape
//	GET /fetchTopTracks    → HTML view
//	GET /fetchTopArtists   → HTML view
//
// The access token is read from an Authorization: Bearer header, or from the accessToken query parameter.
// Remote failures are logged with Spotify's payload and reported to the client without detail.
//
// # Middleware
//
// [RequestID], [Logger] and [Recover] wrap every route. The access log records the path only, never the query.
package server
