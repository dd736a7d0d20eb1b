package shared

import "errors"

var (
	// Configuration errors
	ErrMissingConfig      = errors.New("configuration not found")
	ErrInvalidConfig      = errors.New("invalid configuration")
	ErrMissingCredentials = errors.New("missing credentials")

	// Authorization flow errors
	ErrMissingVerifier     = errors.New("no pending authorization for session")
	ErrMissingCode         = errors.New("missing authorization code")
	ErrAuthorizationDenied = errors.New("authorization denied")
	ErrMissingToken        = errors.New("missing access token")
	ErrInvalidSession      = errors.New("invalid session cookie")
	ErrSessionNotFound     = errors.New("session not found")

	// Remote API errors
	ErrExternalService = errors.New("external service error")
	ErrTimeout         = errors.New("operation timed out")

	// Input validation errors
	ErrInvalidInput    = errors.New("invalid input")
	ErrMissingArgument = errors.New("missing required argument")
	ErrInvalidArgument = errors.New("invalid argument")
)
