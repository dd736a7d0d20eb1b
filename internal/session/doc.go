// Package session holds server-side state for in-flight authorizations.
//
// # Sessions
//
// A [Session] carries at most one pending PKCE code verifier. Starting a new authorization overwrites the previous
// verifier; completing one takes it, so each verifier is read exactly once.
//
// # Stores
//
// [Store] abstracts persistence. [MemoryStore] keeps sessions in a map and expires them lazily and on a background
// cleanup interval. [SQLiteStore] keeps them in the sessions table created by the shared migrations, so pending
// authorizations survive a restart.
//
// # Cookies
//
// [Manager] binds a store to the browser. The cookie value is the session ID signed as a compact JWS (HS256) with the
// configured secret; tampered or unknown cookies silently start a fresh session.
package session
