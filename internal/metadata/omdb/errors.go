package omdb

import (
	"errors"
	"fmt"
)

// Sentinel errors for OMDb API operations.
var (
	ErrRateLimited  = errors.New("omdb: rate limited by server")
	ErrTimeout      = errors.New("omdb: request timed out")
	ErrServer       = errors.New("omdb: server error")
	ErrBadRequest   = errors.New("omdb: bad request")
	ErrInvalidQuery = errors.New("omdb: invalid query")
)

// Error wraps an underlying error with operation context.
type Error struct {
	Op    string // "lookup"
	Title string
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("omdb %s [%s]: %v", e.Op, e.Title, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// wrapError creates an Error with context.
func wrapError(op, title string, err error) error {
	return &Error{Op: op, Title: title, Err: err}
}
