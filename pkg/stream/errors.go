package stream

import (
	"errors"
	"fmt"
)

// Configuration errors fail fast before the transport is touched.
var (
	ErrMissingUserID     = errors.New("stream: user id is required")
	ErrMissingCredential = errors.New("stream: profile token is required")
	ErrMissingEndpoint   = errors.New("stream: endpoint is required")
)

// HandshakeError is a non-success HTTP status during the stream handshake.
// It surfaces through the error event like any other transport failure.
type HandshakeError struct {
	StatusCode int
}

func (e *HandshakeError) Error() string {
	return fmt.Sprintf("stream: handshake returned status %d", e.StatusCode)
}
