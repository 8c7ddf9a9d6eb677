package exchange

import (
	"fmt"
	"strings"
)

//
// Kind is an enum that represents the closed set of failure categories a call against an exchange's
// API can end in.
//
type Kind int

const (
	Transport  Kind = iota // The request never produced a successful HTTP response.
	Decode                 // The response body could not be decoded into the expected shape.
	Remote                 // The exchange answered with a well-formed error payload.
	Validation             // A local precondition was violated before anything was sent.
	NotFound               // A referenced entity (e.g. an order) does not exist on the exchange.
)

func (o Kind) String() string {
	return [...]string{"transport", "decode", "remote", "validation", "not_found"}[o]
}

var (
	ErrTransport  = &Error{kind: Transport}
	ErrDecode     = &Error{kind: Decode}
	ErrRemote     = &Error{kind: Remote}
	ErrValidation = &Error{kind: Validation}
	ErrNotFound   = &Error{kind: NotFound}
)

//
// Error represents any failure of a call against an exchange's API. Beyond its kind, it carries as
// much structured context as was available at the point of failure: the endpoint path, the HTTP
// status code, the raw response body, the exchange-supplied message, and the underlying cause.
//
// Errors match the package-level sentinels by kind, so callers can write
// errors.Is(err, exchange.ErrNotFound).
//
type Error struct {
	kind       Kind
	path       string
	statusCode int
	body       []byte
	message    string
	err        error
}

//
// NewError instantiates an error of the provided kind for the provided endpoint path. The remaining
// context can be attached with the With* methods.
//
func NewError(kind Kind, path string, message string) *Error {
	return &Error{
		kind:    kind,
		path:    path,
		message: message,
	}
}

//
// NewHTTPError represents a non-2xx response from an API endpoint. When dealing with
// cryptocurrency exchange APIs, such a response almost always means that something critically
// wrong has occurred.
//
func NewHTTPError(path string, statusCode int, body []byte) *Error {
	return &Error{
		kind:       Transport,
		path:       path,
		statusCode: statusCode,
		body:       body,
		message:    fmt.Sprintf("server responded with a %d status code", statusCode),
	}
}

// WithBody attaches the raw response body to the error.
func (o *Error) WithBody(body []byte) *Error {
	o.body = body

	return o
}

// WithCause attaches the low-level cause to the error.
func (o *Error) WithCause(err error) *Error {
	o.err = err

	return o
}

func (o *Error) Kind() Kind {
	return o.kind
}

func (o *Error) Path() string {
	return o.path
}

func (o *Error) StatusCode() int {
	return o.statusCode
}

func (o *Error) Body() []byte {
	return o.body
}

//
// Code implements the APIError interface. The exchange does not hand out numeric error codes, so
// the HTTP status code is the closest thing available.
//
func (o *Error) Code() int {
	return o.statusCode
}

//
// Message implements the APIError interface. For remote errors, it is the exchange-supplied message
// verbatim.
//
func (o *Error) Message() string {
	return o.message
}

func (o *Error) Error() string {
	var b strings.Builder

	b.WriteString(o.kind.String())
	b.WriteString(" error")

	if o.path != "" {
		b.WriteString(" (")
		b.WriteString(o.path)
		b.WriteString(")")
	}

	if o.message != "" {
		b.WriteString(": ")
		b.WriteString(o.message)
	}

	if o.err != nil {
		b.WriteString(": ")
		b.WriteString(o.err.Error())
	}

	return b.String()
}

func (o *Error) Unwrap() error {
	return o.err
}

//
// Is reports whether the target is an *Error of the same kind. This is what makes the package-level
// sentinels work with errors.Is regardless of the context attached to a particular error.
//
func (o *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.kind == o.kind
}
