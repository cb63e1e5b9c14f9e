// Package errors defines the error kinds returned by cloudbasket.
// Callers branch on the kind with IsType; the message is for people.
package errors

import (
	stderrors "errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Type is the kind of failure
type Type string

const (
	// TypeValidation is a rejected request: blank session name, empty basket,
	// a plan entry that cannot be applied
	TypeValidation Type = "VALIDATION_ERROR"

	// TypeParsing is malformed input: plan files, catalog files
	TypeParsing Type = "PARSING_ERROR"

	// TypeStorage is a failing or corrupt session backend
	TypeStorage Type = "STORAGE_ERROR"

	// TypeConfig is an unreadable or invalid config file
	TypeConfig Type = "CONFIG_ERROR"

	// TypeInternal is a broken invariant inside cloudbasket
	TypeInternal Type = "INTERNAL_ERROR"

	// TypeNotFound is an unknown session id, catalog entry or file
	TypeNotFound Type = "NOT_FOUND"

	// TypeNotSupported is an unknown export format or backend
	TypeNotSupported Type = "NOT_SUPPORTED"
)

// Error carries a kind, a message and optional key/value context such as
// the plan location an entry came from.
type Error struct {
	Type    Type                   `json:"type"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

func (e *Error) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s", e.Type, e.Message)
	if len(e.Context) > 0 {
		pairs := make([]string, 0, len(e.Context))
		for _, k := range slices.Sorted(maps.Keys(e.Context)) {
			pairs = append(pairs, fmt.Sprintf("%s=%v", k, e.Context[k]))
		}
		fmt.Fprintf(&b, " (%s)", strings.Join(pairs, ", "))
	}
	if e.Cause != nil {
		fmt.Fprintf(&b, ": %v", e.Cause)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext attaches a key/value pair shown in the message
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Wrapf wraps cause under a kind with a formatted message
func Wrapf(errType Type, cause error, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// IsType reports whether err, or any error it wraps, is of kind t
func IsType(err error, t Type) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type == t
	}
	return false
}

// Validation rejects a request; nothing was changed
func Validation(message string) *Error {
	return &Error{Type: TypeValidation, Message: message}
}

// Parsing reports malformed plan or catalog input
func Parsing(message string, cause error) *Error {
	return &Error{Type: TypeParsing, Message: message, Cause: cause}
}

// Storage reports a session backend failure
func Storage(message string, cause error) *Error {
	return &Error{Type: TypeStorage, Message: message, Cause: cause}
}

// Config reports a config file that could not be used
func Config(message string, cause error) *Error {
	return &Error{Type: TypeConfig, Message: message, Cause: cause}
}

// NotFound reports a missing session, catalog entry or file
func NotFound(what, id string) *Error {
	return &Error{Type: TypeNotFound, Message: fmt.Sprintf("%s not found: %s", what, id)}
}

// NotSupported reports an unknown export format or backend
func NotSupported(what string) *Error {
	return &Error{Type: TypeNotSupported, Message: "not supported: " + what}
}

// Internal reports a broken invariant
func Internal(message string, cause error) *Error {
	return &Error{Type: TypeInternal, Message: message, Cause: cause}
}
