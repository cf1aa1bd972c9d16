package exchange

import (
	"errors"
	"fmt"
)

// TransportError means the round trip itself failed: unreachable endpoint,
// timeout, reset connection.
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// StatusError is a response with a non-2xx status.
type StatusError struct {
	Endpoint   string
	StatusCode int
	Body       string // truncated response body, for logs only
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("status error: %s returned %d", e.Endpoint, e.StatusCode)
	}
	return fmt.Sprintf("status error: %s returned %d: %s", e.Endpoint, e.StatusCode, e.Body)
}

// ProtocolError is a response that is not structured data or lacks a required field.
type ProtocolError struct {
	Field string // offending field, "body" when the payload does not parse
	Err   error
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("protocol error [%s]: %v", e.Field, e.Err)
}

func (e *ProtocolError) Unwrap() error {
	return e.Err
}

var errMissing = errors.New("missing required field")

// Classify names the failure class of err for logging.
func Classify(err error) string {
	var transportErr *TransportError
	var statusErr *StatusError
	var protocolErr *ProtocolError
	switch {
	case err == nil:
		return "ok"
	case errors.As(err, &transportErr):
		return "transport"
	case errors.As(err, &statusErr):
		return "status"
	case errors.As(err, &protocolErr):
		return "protocol"
	}
	return "unknown"
}
