package client

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrRequestSetup = errors.New("request setup failed")
)

// TransportError means no HTTP response was received.
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() []error {
	return []error{ErrUnavailable, e.Err}
}

// StatusError is returned for any non-2xx response. Message is the backend's
// "message" field when the body carries one.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Message    string
	Body       []byte
}

func (e *StatusError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.StatusCode, msg)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusUnauthorized {
		return ErrUnauthorized
	}
	return nil
}

// RequestSetupError is returned when a request could not be prepared, for
// example because the credential store failed. Nothing was sent.
type RequestSetupError struct {
	Err error
}

func (e *RequestSetupError) Error() string {
	return fmt.Sprintf("request setup: %v", e.Err)
}

func (e *RequestSetupError) Unwrap() []error {
	return []error{ErrRequestSetup, e.Err}
}
