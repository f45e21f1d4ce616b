package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

const transportMessage = "network error"

// ErrCanceled marks a request abandoned by its caller. It is never shown to users.
var ErrCanceled = errors.New("request canceled")

// Kind classifies an Error
type Kind int

const (
	// KindServer is a non-2xx response other than 401
	KindServer Kind = iota
	// KindTransport means no response was received
	KindTransport
	// KindAuth is a 401 response; the client's unauthorized handler already ran
	KindAuth
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindAuth:
		return "auth"
	default:
		return "server"
	}
}

// Error is the normalized failure of an API call
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Data    json.RawMessage
	Err     error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindTransport:
		if e.Err != nil {
			return fmt.Sprintf("%s: %v", transportMessage, e.Err)
		}
		return transportMessage
	case KindAuth:
		return "authentication failed. Log in again"
	default:
		if e.Message != "" {
			return fmt.Sprintf("API error (status %d): %s", e.Status, e.Message)
		}
		return fmt.Sprintf("API error (status %d)", e.Status)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// UserMessage is the text to render next to the failed action, or "" when
// the caller should fall back to its own generic message
func (e *Error) UserMessage() string {
	switch e.Kind {
	case KindTransport:
		return transportMessage
	case KindAuth:
		return ""
	default:
		return e.Message
	}
}

// Silent reports whether the error is handled globally and must not be
// rendered by the component that issued the request
func (e *Error) Silent() bool {
	return e.Kind == KindAuth
}

func canceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %w", ErrCanceled, err)
	}
	return fmt.Errorf("%w: %w", ErrCanceled, context.Canceled)
}

// IsCanceled reports whether err is a caller cancellation
func IsCanceled(err error) bool {
	return errors.Is(err, ErrCanceled) || errors.Is(err, context.Canceled)
}

// IsUnauthorized reports whether err is a 401
func IsUnauthorized(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindAuth
}

// IsTransport reports whether no response was received
func IsTransport(err error) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == KindTransport
}

// StatusCode returns the HTTP status carried by err, or 0
func StatusCode(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
