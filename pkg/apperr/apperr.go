// Package apperr reconstructs the "server" error-kind helper this
// repo's teacher calls as server.WrapErrorf(err, server.ErrNotFound, "...")
// throughout pkg/contractor and pkg/server/mm_rest/service, but whose
// defining file never made it into the retrieved pack. Kept as its own
// package rather than pkg/server, since this repo's HTTP layer
// (cmd/olrmatchd) is the only consumer and importing pkg/server directly
// would drag in the teacher's whole REST surface.
package apperr

import "fmt"

// Kind classifies an error the way cmd/olrmatchd's renderer needs to: which
// HTTP status family it maps to.
type Kind int

const (
	ErrNotFound Kind = iota
	ErrBadParamInput
	ErrInternalServerError
	ErrTooManyRequests
)

func (k Kind) String() string {
	switch k {
	case ErrNotFound:
		return "not found"
	case ErrBadParamInput:
		return "bad param input"
	case ErrInternalServerError:
		return "internal server error"
	case ErrTooManyRequests:
		return "too many requests"
	default:
		return "unknown error kind"
	}
}

// Error wraps an underlying cause with a Kind and a message, matching the
// shape server.WrapErrorf(err, server.ErrX, "...") produces at every call
// site that reaches for it.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// WrapErrorf builds an *Error carrying kind and a formatted message, wrapping
// cause for errors.Is/As/Unwrap.
func WrapErrorf(cause error, kind Kind, format string, args ...interface{}) error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		cause:   cause,
	}
}
