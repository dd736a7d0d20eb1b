// Package models defines the data shapes shared by the Spotify client, the HTTP handlers and the CLI.
//
//   - [TimeRange] : the three fixed windows Spotify buckets top items into
//   - [Category] : tracks or artists
//   - [TopItems] : the per-range result, encoded with keys in a fixed order
//   - [AuthResult] : the outcome of a completed authorization
//
// Top items are kept as raw JSON so API responses pass Spotify's objects through untouched.
package models
