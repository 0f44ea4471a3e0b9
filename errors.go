package followgraph

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrBadIdentity reports a target argument that is neither an
	// identity value nor an identity-bearing object.
	ErrBadIdentity = errors.New("followgraph: not an identity")
)

// Error wraps errors with operation context.
type Error struct {
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("followgraph.%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func wrapError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Err: err}
}
