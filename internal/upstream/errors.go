package upstream

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Error is a non-2xx response from an upstream API. The status and body are
// passed through to our own caller.
type Error struct {
	Provider   string
	StatusCode int
	Payload    json.RawMessage
	URL        string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: upstream returned status %d for %s", e.Provider, e.StatusCode, e.URL)
}

// UnavailableError covers network failures, timeouts, undecodable bodies
// and an open circuit breaker: the upstream gave no usable answer.
type UnavailableError struct {
	Provider string
	Err      error
}

func (e *UnavailableError) Error() string {
	return fmt.Sprintf("%s: upstream unavailable: %v", e.Provider, e.Err)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// AsError extracts an upstream rejection.
func AsError(err error) (*Error, bool) {
	var ue *Error
	if errors.As(err, &ue) {
		return ue, true
	}
	return nil, false
}

// IsUnavailable reports whether err is an UnavailableError.
func IsUnavailable(err error) bool {
	var ue *UnavailableError
	return errors.As(err, &ue)
}

// payloadOf keeps JSON bodies as-is and wraps anything else as a JSON
// string so it can be re-emitted.
func payloadOf(body []byte) json.RawMessage {
	if len(body) == 0 {
		return nil
	}
	if json.Valid(body) {
		return json.RawMessage(body)
	}
	b, _ := json.Marshal(string(body))
	return b
}
