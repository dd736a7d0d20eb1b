package services

import (
	"fmt"

	"github.com/desertthunder/spotify-stats/internal/shared"
)

// ExternalServiceError describes a failed call to Spotify.
//
// Payload holds the response body Spotify returned, if any. It is meant for server logs and must not be shown to
// clients.
type ExternalServiceError struct {
	Op         string
	StatusCode int
	Payload    string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	switch {
	case e.StatusCode != 0:
		return fmt.Sprintf("spotify %s: status %d", e.Op, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("spotify %s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("spotify %s failed", e.Op)
	}
}

// Unwrap exposes both [shared.ErrExternalService] and the underlying cause.
func (e *ExternalServiceError) Unwrap() []error {
	if e.Err == nil {
		return []error{shared.ErrExternalService}
	}
	return []error{shared.ErrExternalService, e.Err}
}

// LogValue returns the most useful diagnostic: the remote payload when present, otherwise the error message.
func (e *ExternalServiceError) LogValue() string {
	if e.Payload != "" {
		return e.Payload
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Error()
}
