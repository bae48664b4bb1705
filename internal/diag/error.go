package diag

import (
	"errors"
	"fmt"
)

// Error is a contract violation raised by a construction, resolution or
// document call. The call that returns it leaves the tree untouched.
type Error struct {
	Code    Code
	Message string
	Details map[string]any
	Wrapped error
}

// Sentinels for errors.Is; they match any *Error of the same kind.
var (
	ErrConflictingFlags   = &Error{Code: DeclConflictingFlags, Message: "conflicting namespace flags"}
	ErrAmbiguousParameter = &Error{Code: DeclAmbiguousParameter, Message: "ambiguous parameter aliases"}
	ErrNameResolution     = &Error{Code: ResAnonymousScope, Message: "cannot resolve scope name"}
	ErrUsage              = &Error{Code: DeclNotNamespace, Message: "invalid usage"}
	ErrDocument           = &Error{Code: DocParse, Message: "invalid document"}
)

func (e *Error) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is matches by error kind, so a specific code still satisfies its sentinel.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Code.Kind() == t.Code.Kind()
}

// Kind returns the error class.
func (e *Error) Kind() ErrorKind {
	return e.Code.Kind()
}

// Newf creates an *Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]any),
	}
}

// Wrapf wraps err with code and a formatted message. A nil err yields nil.
func Wrapf(err error, code Code, format string, args ...any) *Error {
	if err == nil {
		return nil
	}
	e := Newf(code, format, args...)
	e.Wrapped = err
	return e
}

// WithDetail attaches a key/value pair and returns e for chaining.
func (e *Error) WithDetail(key string, value any) *Error {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// CodeOf returns the code carried by err, or UnknownCode.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return UnknownCode
}

// KindOf returns the error class carried by err, or KindUnknown.
func KindOf(err error) ErrorKind {
	return CodeOf(err).Kind()
}
