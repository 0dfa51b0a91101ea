package apperrors

import "errors"

// Kind is a stable machine-readable error category. Handlers map kinds to
// HTTP status codes; clients branch on them.
type Kind string

const (
	KindValidation      Kind = "validation"
	KindSlotUnavailable Kind = "slot_unavailable"
	KindOverlapConflict Kind = "overlap_conflict"
	KindUnauthorized    Kind = "unauthorized"
	KindForbidden       Kind = "forbidden"
	KindNotFound        Kind = "not_found"
	KindInternal        Kind = "internal"
)

// Error carries a kind plus a human message. The wrapped cause, if any, is
// for logs only and never surfaced to clients.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return string(e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func Wrap(kind Kind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// Validation reports a malformed or out-of-range input.
func Validation(message string) *Error { return New(KindValidation, message) }

// SlotUnavailable reports an administratively disabled slot or a failed
// availability check.
func SlotUnavailable(message string) *Error { return New(KindSlotUnavailable, message) }

// OverlapConflict reports a lost confirmation race. Callers are expected to
// retry with a different slot or window.
func OverlapConflict(message string) *Error { return New(KindOverlapConflict, message) }

func Unauthorized(message string) *Error { return New(KindUnauthorized, message) }

func Forbidden(message string) *Error { return New(KindForbidden, message) }

func NotFound(message string) *Error { return New(KindNotFound, message) }

// KindOf extracts the kind from err, defaulting to KindInternal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
