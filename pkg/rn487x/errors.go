package rn487x

import (
	"errors"
	"fmt"
)

var (
	// ErrTimeout indicates no complete reply arrived in time.
	ErrTimeout = errors.New("timeout")
	// ErrMismatch indicates a reply arrived but is not the expected one.
	ErrMismatch = errors.New("unexpected reply")
	// ErrModule indicates the module answered with its error token.
	ErrModule = errors.New("module error")
	// ErrInvalidUUID indicates a UUID of neither 4 nor 32 digits.
	ErrInvalidUUID = errors.New("invalid UUID length")
	// ErrOverflow indicates the handle table is full.
	ErrOverflow = errors.New("too many characteristics")
	// ErrLength indicates a value of the wrong size.
	ErrLength = errors.New("invalid value length")
	// ErrHandleUnknown indicates the characteristic handle has not been
	// discovered by RefreshHandles yet.
	ErrHandleUnknown = errors.New("characteristic handle unknown")
	// ErrListingIncomplete indicates the characteristic listing timed out
	// before the END token. Handles parsed so far are kept.
	ErrListingIncomplete = errors.New("characteristic listing incomplete")
	// ErrCommandTooLong indicates a command exceeds the line buffer.
	ErrCommandTooLong = errors.New("command too long")
)

// ReplyError describes a failed exchange.
type ReplyError struct {
	Command string
	Reply   string
	Err     error
}

// Error implements error.
func (e *ReplyError) Error() string {
	if e.Reply == "" {
		return fmt.Sprintf("%s: %v", e.Command, e.Err)
	}
	return fmt.Sprintf("%s: %v %q", e.Command, e.Err, e.Reply)
}

// Unwrap returns the underlying error class.
func (e *ReplyError) Unwrap() error {
	return e.Err
}
