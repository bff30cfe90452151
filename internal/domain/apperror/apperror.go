// Package apperror defines the closed set of application errors returned to
// API clients. Every error carries its kind, the HTTP status it maps to, a
// client-safe message and optional structured detail.
package apperror

import (
	"errors"
	"fmt"
	"net/http"

	pkgerrors "github.com/pkg/errors"
)

// Kind enumerates the error taxonomy.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindCast
	KindDuplicateKey
	KindNotAuthorized
	KindNotFound
	KindRateLimited
)

// Default client messages.
const (
	MsgValidation     = "validation failed"
	MsgCast           = "invalid data format"
	MsgDuplicateKey   = "duplicate unique key"
	MsgNotAuthorized  = "authorization required"
	MsgForbidden      = "insufficient permissions"
	MsgNotFound       = "document not found"
	MsgRateLimited    = "too many requests, try again later"
	MsgInternalServer = "internal server error"
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "ValidationError"
	case KindCast:
		return "CastError"
	case KindDuplicateKey:
		return "DuplicateKeyError"
	case KindNotAuthorized:
		return "NotAuthorizedError"
	case KindNotFound:
		return "NotFoundError"
	case KindRateLimited:
		return "TooManyRequestsError"
	default:
		return "InternalServerError"
	}
}

// Status is the default HTTP status for the kind.
func (k Kind) Status() int {
	switch k {
	case KindValidation, KindCast:
		return http.StatusBadRequest
	case KindDuplicateKey:
		return http.StatusConflict
	case KindNotAuthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Error is an application error. Cause is never rendered to clients.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Detail  any
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.cause)
	}
	return e.Kind.String() + ": " + e.Message
}

func (e *Error) Unwrap() error { return e.cause }

// Cause returns the wrapped low-level error, if any.
func (e *Error) Cause() error { return e.cause }

// Stack renders the cause with its recorded stack trace.
func (e *Error) Stack() string {
	if e.cause == nil {
		return ""
	}
	return fmt.Sprintf("%+v", e.cause)
}

// WithCause attaches a low-level cause, recording a stack trace for it.
func (e *Error) WithCause(err error) *Error {
	if err != nil {
		e.cause = pkgerrors.WithStack(err)
	}
	return e
}

func newError(kind Kind, msg, def string, detail any) *Error {
	if msg == "" {
		msg = def
	}
	return &Error{Kind: kind, Status: kind.Status(), Message: msg, Detail: detail}
}

// Validation reports a body that fails schema constraints. fields maps field
// path to a message.
func Validation(msg string, fields map[string]string) *Error {
	var detail any
	if len(fields) > 0 {
		detail = fields
	}
	return newError(KindValidation, msg, MsgValidation, detail)
}

// Cast reports a value that could not be coerced, e.g. a malformed id.
func Cast(msg, path string) *Error {
	var detail any
	if path != "" {
		detail = map[string]string{"path": path}
	}
	return newError(KindCast, msg, MsgCast, detail)
}

// DuplicateKey reports a violated uniqueness constraint.
func DuplicateKey(msg string, keyValue map[string]any) *Error {
	var detail any
	if len(keyValue) > 0 {
		detail = keyValue
	}
	return newError(KindDuplicateKey, msg, MsgDuplicateKey, detail)
}

// NotAuthorized reports missing, invalid or expired credentials.
func NotAuthorized(msg string) *Error {
	return newError(KindNotAuthorized, msg, MsgNotAuthorized, nil)
}

// Forbidden is a NotAuthorized error for an authenticated caller that does
// not own the target resource.
func Forbidden(msg string) *Error {
	e := newError(KindNotAuthorized, msg, MsgForbidden, nil)
	e.Status = http.StatusForbidden
	return e
}

func NotFound(msg string) *Error {
	return newError(KindNotFound, msg, MsgNotFound, nil)
}

// RateLimited reports a caller over its request budget.
func RateLimited(msg string) *Error {
	return newError(KindRateLimited, msg, MsgRateLimited, nil)
}

// Internal hides cause behind a generic message.
func Internal(msg string, cause error) *Error {
	return newError(KindInternal, msg, MsgInternalServer, nil).WithCause(cause)
}

// As extracts an *Error from err's chain.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an application error of kind k.
func IsKind(err error, k Kind) bool {
	e, ok := As(err)
	return ok && e.Kind == k
}

// From converts any error to an application error; unknown errors become
// InternalServerError.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	if e, ok := As(err); ok {
		return e
	}
	return Internal("", err)
}
