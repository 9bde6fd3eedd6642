package http

import (
	"go.uber.org/zap"
)

// Response is an immutable outgoing HTTP response. A new response has
// status 200, protocol version 1.0, no headers and an empty body.
type Response struct {
	message
	status field[Status]
}

// NewResponse returns a 200 response.
func NewResponse() *Response {
	return &Response{message: newMessage()}
}

func (r *Response) clone() *Response {
	c := *r
	return &c
}

// WithLogger returns a response that logs to logger.
func (r *Response) WithLogger(logger *zap.Logger) *Response {
	c := r.clone()
	c.setLogger(logger)
	return c
}

// ProtocolVersion returns the HTTP version as "major.minor".
func (r *Response) ProtocolVersion() string {
	return r.protocolVersion(defaultProtocolVersion)
}

// WithProtocolVersion returns a response with the given protocol version.
// A status that was never set picks up the default reason phrase of the new
// version.
func (r *Response) WithProtocolVersion(v string) (*Response, error) {
	c := r.clone()
	if err := c.setProtocolVersion(v); err != nil {
		return nil, err
	}
	if c.status.state == derived {
		c.status.reset()
	}
	return c, nil
}

// Headers returns the header collection.
func (r *Response) Headers() *Headers {
	return r.headerCollection(noHeaders)
}

// HasHeader reports whether the named header exists (case-insensitive).
func (r *Response) HasHeader(name string) bool { return r.Headers().Has(name) }

// Header returns the values of the named header.
func (r *Response) Header(name string) []string { return r.Headers().Get(name) }

// HeaderLine returns the values of the named header joined by a comma.
func (r *Response) HeaderLine(name string) string { return r.Headers().Line(name) }

// WithHeader returns a response where the named header is replaced.
func (r *Response) WithHeader(name string, values ...string) (*Response, error) {
	h, err := r.Headers().WithHeader(name, values...)
	if err != nil {
		return nil, err
	}
	c := r.clone()
	c.headers.set(h)
	return c, nil
}

// WithAddedHeader returns a response where values are appended to the named
// header.
func (r *Response) WithAddedHeader(name string, values ...string) (*Response, error) {
	h, err := r.Headers().WithAddedHeader(name, values...)
	if err != nil {
		return nil, err
	}
	c := r.clone()
	c.headers.set(h)
	return c, nil
}

// WithoutHeader returns a response without the named header, or r itself if
// the header does not exist.
func (r *Response) WithoutHeader(name string) *Response {
	current := r.Headers()
	h := current.WithoutHeader(name)
	if h == current {
		return r
	}
	c := r.clone()
	c.headers.set(h)
	return c
}

// Body returns the response body.
func (r *Response) Body() Stream {
	return r.stream()
}

// WithBody returns a response with the given body.
func (r *Response) WithBody(body Stream) *Response {
	c := r.clone()
	c.body = body
	return c
}

// Status returns the response status.
func (r *Response) Status() Status {
	return r.status.get(func() Status {
		return defaultStatus(r.ProtocolVersion())
	})
}

// StatusCode returns the 3-digit status code.
func (r *Response) StatusCode() int { return r.Status().Code() }

// ReasonPhrase returns the reason phrase, which is empty for HTTP/2 and
// later unless one was set.
func (r *Response) ReasonPhrase() string { return r.Status().Reason() }

// WithStatus returns a response with the given status. An empty reason
// selects the default phrase for the code. If code and reason are unchanged,
// r itself is returned.
func (r *Response) WithStatus(code int, reason string) (*Response, error) {
	current := r.Status()
	if code == current.Code() && (reason == "" || reason == current.Reason()) {
		return r, nil
	}

	status, err := NewStatus(code, reason, r.ProtocolVersion())
	if err != nil {
		return nil, err
	}
	c := r.clone()
	c.status.set(status)
	return c, nil
}
