package errors

import (
	"fmt"
)

// Category represents the type of error.
type Category string

const (
	CategoryDirective Category = "directive"
	CategoryBinding   Category = "binding"
	CategoryScope     Category = "scope"
	CategorySource    Category = "source"
	CategoryAttribute Category = "attribute"
	CategoryStyle     Category = "style"
	CategoryConfig    Category = "config"
	CategorySnapshot  Category = "snapshot"
	CategoryCLI       Category = "cli"
)

// Origin identifies the node an error was raised on.
type Origin struct {
	NodeID uint64
	Tag    string
}

// String returns the origin as "<tag#id>".
func (o *Origin) String() string {
	if o == nil {
		return ""
	}
	if o.Tag == "" {
		return fmt.Sprintf("<#%d>", o.NodeID)
	}
	return fmt.Sprintf("<%s#%d>", o.Tag, o.NodeID)
}

// Error is a structured error with an origin node, suggestions and documentation.
type Error struct {
	// Code is a unique error identifier (e.g., "W001").
	Code string

	// Category is the error type.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Origin is the node the error was raised on, if any.
	Origin *Origin

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// DocURL is a link to documentation about this error.
	DocURL string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// WithNode records the node the error was raised on.
func (e *Error) WithNode(id uint64, tag string) *Error {
	e.Origin = &Origin{NodeID: id, Tag: tag}
	return e
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:     code,
		Category: template.Category,
		Message:  template.Message,
		Detail:   template.Detail,
		DocURL:   template.DocURL,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if we, ok := err.(*Error); ok {
		return we
	}
	return New(code).Wrap(err)
}

// CategoryOf returns the category of err, or "" if err is not an *Error.
func CategoryOf(err error) Category {
	for err != nil {
		if we, ok := err.(*Error); ok {
			return we.Category
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
