// Package errs defines the error kinds shared by the league core and its adapters.
//
// Every error returned across a package boundary is an *Error carrying one Kind,
// so callers branch with errors.Is(err, errs.ErrDuplicateWinner) and still reach
// the underlying cause.
package errs

import (
	"errors"
	"fmt"
)

// Kinds.
var (
	ErrNotFound             = errors.New("not found")
	ErrEliminatedContestant = errors.New("contestant eliminated")
	ErrDuplicateWinner      = errors.New("category already awarded this week")
	ErrUnknownCategory      = errors.New("unknown category")
	ErrValidation           = errors.New("validation failed")
	ErrStorage              = errors.New("storage failure")
)

// Error ties a Kind to the operation that produced it and an optional cause.
type Error struct {
	Op   string
	Kind error
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Err == nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Kind)
	case errors.Is(e.Err, e.Kind):
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("%s: %v: %v", e.Op, e.Kind, e.Err)
	}
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New returns an error of kind for op.
func New(op string, kind error) error {
	return &Error{Op: op, Kind: kind}
}

// Newf returns an error of kind for op with a formatted detail message.
func Newf(op string, kind error, format string, args ...any) error {
	return &Error{Op: op, Kind: kind, Err: fmt.Errorf(format, args...)}
}

// Wrap attaches kind to err. A nil err yields nil.
func Wrap(op string, kind, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Op: op, Kind: kind, Err: err}
}

// KindOf returns the kind of err, or ErrStorage for errors of unknown kind.
func KindOf(err error) error {
	for _, k := range []error{
		ErrNotFound, ErrEliminatedContestant, ErrDuplicateWinner,
		ErrUnknownCategory, ErrValidation, ErrStorage,
	} {
		if errors.Is(err, k) {
			return k
		}
	}
	return ErrStorage
}
