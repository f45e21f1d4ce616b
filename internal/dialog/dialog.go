// Package dialog holds the modal state shared by the view, delete, status
// and reply dialogs of every admin list.
package dialog

import (
	"context"
	"errors"
	"sync"

	"github.com/rodstewart/estatectl/internal/listing"
)

// Status is the lifecycle position of a dialog
type Status int

const (
	Closed Status = iota
	Open
	Submitting
)

func (s Status) String() string {
	switch s {
	case Open:
		return "open"
	case Submitting:
		return "submitting"
	default:
		return "closed"
	}
}

// Reason is how the user asked to dismiss a dialog
type Reason int

const (
	ReasonClose Reason = iota
	ReasonBackdrop
	ReasonEscape
)

func (r Reason) String() string {
	switch r {
	case ReasonBackdrop:
		return "backdrop"
	case ReasonEscape:
		return "escape"
	default:
		return "close"
	}
}

var (
	// ErrBusy is returned while a submission is in flight
	ErrBusy = errors.New("submission already in progress")
	// ErrClosed is returned when submitting a dialog that is not open
	ErrClosed = errors.New("dialog is not open")
)

// Ticket identifies one submission. A ticket issued before the dialog was
// closed or reopened no longer applies.
type Ticket struct {
	gen uint64
}

// Dialog is a modal bound to one target record
type Dialog[T any] struct {
	mu        sync.Mutex
	status    Status
	target    T
	inputs    map[string]string
	err       error
	message   string
	succeeded bool
	gen       uint64
	fallback  string
}

// New creates a closed dialog. fallback is shown for failures that carry
// no message of their own, e.g. "Failed to delete booking".
func New[T any](fallback string) *Dialog[T] {
	return &Dialog[T]{inputs: map[string]string{}, fallback: fallback}
}

// Open shows the dialog for target, resetting inputs, error and success
func (d *Dialog[T]) Open(target T) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status == Submitting {
		return ErrBusy
	}
	d.gen++
	d.status = Open
	d.target = target
	d.inputs = map[string]string{}
	d.err = nil
	d.message = ""
	d.succeeded = false
	return nil
}

// Dismiss closes the dialog on user request. It is refused while a
// submission is in flight and reports whether the dialog was closed.
func (d *Dialog[T]) Dismiss(reason Reason) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status != Open {
		return false
	}
	d.closeLocked()
	return true
}

// Close closes the dialog unconditionally. A pending submission's result
// is then ignored.
func (d *Dialog[T]) Close() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.closeLocked()
}

func (d *Dialog[T]) closeLocked() {
	d.gen++
	d.status = Closed
	d.inputs = map[string]string{}
	d.err = nil
	d.message = ""
}

// SetInput stores a form value such as the reply text or chosen status
func (d *Dialog[T]) SetInput(name, value string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.status == Open {
		d.inputs[name] = value
	}
}

// Input returns a form value
func (d *Dialog[T]) Input(name string) string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.inputs[name]
}

// Begin moves an open dialog to submitting
func (d *Dialog[T]) Begin() (Ticket, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	switch d.status {
	case Submitting:
		return Ticket{}, ErrBusy
	case Closed:
		return Ticket{}, ErrClosed
	}
	d.status = Submitting
	d.err = nil
	d.message = ""
	return Ticket{gen: d.gen}, nil
}

// Finish records the outcome of the submission identified by t. Success
// closes the dialog. A failure reopens it with the error shown, except for
// quiet failures such as cancellation or an expired session, which close it
// without a message. Stale tickets are ignored; Finish reports whether t applied.
func (d *Dialog[T]) Finish(t Ticket, err error) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if t.gen != d.gen || d.status != Submitting {
		return false
	}

	switch {
	case err == nil:
		d.closeLocked()
		d.succeeded = true
	case listing.Quiet(err):
		d.closeLocked()
	default:
		d.status = Open
		d.err = err
		d.message = listing.Describe(err, d.fallback)
	}
	return true
}

// Submit runs fn against the target between Begin and Finish
func (d *Dialog[T]) Submit(ctx context.Context, fn func(ctx context.Context, target T) error) error {
	t, err := d.Begin()
	if err != nil {
		return err
	}
	err = fn(ctx, d.Target())
	d.Finish(t, err)
	return err
}

// Status returns the lifecycle position
func (d *Dialog[T]) Status() Status {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.status
}

// IsOpen reports whether the dialog is visible, submitting included
func (d *Dialog[T]) IsOpen() bool {
	return d.Status() != Closed
}

// Target returns the record the dialog was opened for
func (d *Dialog[T]) Target() T {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.target
}

// Err returns the last failure, nil once dismissed or reopened
func (d *Dialog[T]) Err() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.err
}

// Message is the text to render for Err
func (d *Dialog[T]) Message() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.message
}

// Succeeded reports whether the last submission completed
func (d *Dialog[T]) Succeeded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.succeeded
}
