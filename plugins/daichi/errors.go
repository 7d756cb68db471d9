package daichi

import (
	"fmt"
	"strings"
)

// ServerError is a well-formed envelope reporting done=false.
type ServerError struct {
	Endpoint string
	Message  string
	ErrorID  string
}

func (e *ServerError) Error() string {
	if e.ErrorID == "" {
		return fmt.Sprintf("daichi %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("daichi %s: %s (error id %s)", e.Endpoint, e.Message, e.ErrorID)
}

// ValidationError is a response that does not match the expected shape.
type ValidationError struct {
	Endpoint string
	Err      error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("daichi %s: invalid response: %v", e.Endpoint, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// AuthError is a failed credential exchange.
type AuthError struct {
	Message string
	Err     error
}

func (e *AuthError) Error() string {
	return "daichi login failed: " + e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// HTTPStatusError is a response the transport treats as a failure (5xx).
type HTTPStatusError struct {
	Endpoint string
	Status   int
	Body     string
}

func (e *HTTPStatusError) Error() string {
	return fmt.Sprintf("daichi %s: api error %d: %s", e.Endpoint, e.Status, strings.TrimSpace(e.Body))
}

// DeviceFetchError aborts a device listing when one state fetch fails.
type DeviceFetchError struct {
	DeviceID int
	Err      error
}

func (e *DeviceFetchError) Error() string {
	return fmt.Sprintf("fetch device %d state: %v", e.DeviceID, e.Err)
}

func (e *DeviceFetchError) Unwrap() error {
	return e.Err
}
