package resp

import (
	"errors"
	"fmt"
)

var (
	// ErrIncomplete means the input is a valid prefix of a frame and more
	// bytes are needed. It is never wrapped in a ProtocolError.
	ErrIncomplete = errors.New("resp: incomplete frame")

	// ErrInvalid is matched by every ProtocolError
	ErrInvalid = errors.New("resp: invalid frame")

	ErrInvalidType    = errors.New("unexpected type byte")
	ErrInvalidEnding  = errors.New("invalid line ending")
	ErrInvalidInteger = errors.New("invalid integer")
	ErrInvalidLength  = errors.New("invalid length")
	ErrMaxDepth       = errors.New("maximum nesting depth exceeded")
	ErrTooLarge       = errors.New("length exceeds limit")

	// ErrInvalidText is returned when a simple string or error body contains CR or LF
	ErrInvalidText = errors.New("resp: text contains CR or LF")
)

// ProtocolError describes input that can never become a valid frame
type ProtocolError struct {
	Offset int   // position of the offending byte within the decoded input
	Err    error // one of the ErrInvalid* reasons
}

func (e *ProtocolError) Error() string {
	return fmt.Sprintf("resp: invalid frame at offset %d: %v", e.Offset, e.Err)
}

func (e *ProtocolError) Unwrap() []error {
	return []error{ErrInvalid, e.Err}
}

// IsProtocolError returns true if the error is a protocol error
func IsProtocolError(err error) bool {
	var pe *ProtocolError
	return errors.As(err, &pe)
}

func invalid(offset int, reason error) error {
	return &ProtocolError{Offset: offset, Err: reason}
}
