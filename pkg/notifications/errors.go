package notifications

import (
	"errors"
	"fmt"
)

// Configuration and parameter errors fail fast before any network call.
var (
	ErrMissingUserID     = errors.New("notifications: user id is required")
	ErrMissingAppToken   = errors.New("notifications: app token is required for sending")
	ErrMissingCredential = errors.New("notifications: a profile or app token is required")
	ErrMissingBaseURL    = errors.New("notifications: base URL is required")
)

// RemoteError is a non-success response from the notification API.
// It is returned to the caller of the failed operation only.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("notifications: API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("notifications: API returned status %d: %s", e.StatusCode, e.Message)
}

// IsRemoteError reports whether err is a RemoteError and returns it.
func IsRemoteError(err error) (*RemoteError, bool) {
	var re *RemoteError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
