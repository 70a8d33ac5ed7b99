package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// APIError is a failure reported by the server
type APIError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s: HTTP %d", e.Endpoint, e.Status)
}

// TransportError is a request that never produced a response
type TransportError struct {
	Endpoint string
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsTransport reports whether err is a network-level failure
func IsTransport(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}

// Message returns the server-reported message of err, or fallback for any
// other kind of failure
func Message(err error, fallback string) string {
	var ae *APIError
	if errors.As(err, &ae) && ae.Message != "" {
		return ae.Message
	}
	return fallback
}

func decodeAPIError(ep Endpoint, status int, body []byte) error {
	var resp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.Unmarshal(body, &resp); err == nil {
		if resp.Message == "" {
			resp.Message = resp.Error
		}
		if resp.Message != "" {
			return &APIError{Endpoint: ep.Name, Status: status, Message: resp.Message}
		}
	}
	return &APIError{Endpoint: ep.Name, Status: status, Message: http.StatusText(status)}
}
