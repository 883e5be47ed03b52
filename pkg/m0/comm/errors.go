package comm

import (
	"fmt"
	"time"
)

// SelectorError indicates a resource index not representable in a Selector.
type SelectorError struct {
	Index int
}

// Error implements error.
func (e *SelectorError) Error() string {
	return fmt.Sprintf("resource index %d out of selector range", e.Index)
}

// TimeoutError indicates no correlated reply arrived within the deadline.
type TimeoutError struct {
	Command string
	Elapsed time.Duration
}

// Error implements error.
func (e *TimeoutError) Error() string {
	return fmt.Sprintf("command %q timed out after %v", e.Command, e.Elapsed)
}

// MismatchError indicates a reply with an id different from the one sent.
// The exchange it corrupts fails; the stale line is never matched to a
// later exchange. Received is MaxCommandSeq when the leading field of the
// reply could not be parsed as an id.
type MismatchError struct {
	Sent     CommandSeq
	Received CommandSeq
	Line     string
}

// Error implements error.
func (e *MismatchError) Error() string {
	return fmt.Sprintf("reply id %d does not match sent id %d: %q",
		e.Received, e.Sent, e.Line)
}

// TransportError wraps an error reported by the underlying byte channel.
type TransportError struct {
	Err error
}

// Error implements error.
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %v", e.Err)
}

// Unwrap returns the underlying channel error.
func (e *TransportError) Unwrap() error {
	return e.Err
}
