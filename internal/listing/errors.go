package listing

import (
	"context"
	"errors"
)

var (
	// ErrClosed is returned once the controller has been closed
	ErrClosed = errors.New("list closed")
	// ErrNotLoaded is returned when mutating a record missing from the collection
	ErrNotLoaded = errors.New("record not loaded")
)

type userMessager interface {
	UserMessage() string
}

type silencer interface {
	Silent() bool
}

// Quiet reports whether err must not be shown where the action was
// triggered: cancellations, and errors already handled globally such as an
// expired session
func Quiet(err error) bool {
	if err == nil {
		return true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrClosed) {
		return true
	}
	var s silencer
	return errors.As(err, &s) && s.Silent()
}

// Describe returns the message to render for err: the server or transport
// message when err carries one, fallback otherwise, "" for quiet errors
func Describe(err error, fallback string) string {
	if Quiet(err) {
		return ""
	}
	var um userMessager
	if errors.As(err, &um) {
		if msg := um.UserMessage(); msg != "" {
			return msg
		}
	}
	return fallback
}
