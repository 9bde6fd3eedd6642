package http

import (
	"errors"
	"fmt"
)

// ErrInvalidArgument is the parent of every validation failure raised by a
// With* method. Use errors.Is to test for a whole family or a single kind.
var ErrInvalidArgument = errors.New("http: invalid argument")

// Validation failures, each wrapping ErrInvalidArgument.
var (
	ErrInvalidHeaderName             = invalidArgument("header name")
	ErrInvalidHeaderValue            = invalidArgument("header value")
	ErrInvalidStatusCode             = invalidArgument("status code")
	ErrInvalidReasonPhrase           = invalidArgument("reason phrase")
	ErrInvalidProtocolVersion        = invalidArgument("protocol version")
	ErrInvalidMethod                 = invalidArgument("method")
	ErrInvalidRequestTarget          = invalidArgument("request target")
	ErrInvalidUploadedFilesStructure = invalidArgument("uploaded files structure")
)

// Body parsing failures returned by ServerRequest.ParsedBody.
var (
	ErrUnsupportedMediaType = errors.New("http: unsupported media type")
	ErrMissingContentType   = errors.New("http: missing content type")
)

func invalidArgument(what string) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, what)
}

// ArgumentError reports a value rejected by a With* method.
type ArgumentError struct {
	Err     error  // one of the ErrInvalid* sentinels
	Message string // human-readable detail
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return "http: " + e.Message
}

// Unwrap returns the sentinel this error belongs to.
func (e *ArgumentError) Unwrap() error {
	return e.Err
}

func argumentErrorf(sentinel error, format string, args ...any) *ArgumentError {
	return &ArgumentError{Err: sentinel, Message: fmt.Sprintf(format, args...)}
}

// BodyError reports a body the parser cannot or will not decode.
type BodyError struct {
	MediaType string // media type without parameters, empty when missing
	Err       error  // ErrUnsupportedMediaType or ErrMissingContentType
}

// Error implements the error interface.
func (e *BodyError) Error() string {
	if errors.Is(e.Err, ErrMissingContentType) {
		return "http: unable to parse body: 'Content-Type' header is missing"
	}
	return fmt.Sprintf("http: parsing %s isn't supported", e.MediaType)
}

// Unwrap returns the underlying sentinel.
func (e *BodyError) Unwrap() error {
	return e.Err
}

// ParseError represents an error that occurred while reading an HTTP message
// from wire format.
type ParseError struct {
	Message  string // human-readable error message
	Line     int    // 1-indexed line number where error occurred (0 if unknown)
	Position int    // byte offset in input (0 if unknown)
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("http: parse error at line %d: %s", e.Line, e.Message)
	}
	if e.Position > 0 {
		return fmt.Sprintf("http: parse error at position %d: %s", e.Position, e.Message)
	}
	return fmt.Sprintf("http: %s", e.Message)
}
