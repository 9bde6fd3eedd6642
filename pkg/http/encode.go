package http

import (
	"io"
	"strconv"

	"github.com/shapestone/shape-httpmessage/internal/wire"
)

// Marshaler is implemented by messages that render themselves in HTTP/1.x
// wire format.
type Marshaler interface {
	MarshalHTTP() ([]byte, error)
}

// Encoder writes messages to an output stream.
type Encoder struct {
	w io.Writer
}

// NewEncoder returns a new encoder that writes to w.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

// Encode writes the wire-format encoding of m to the stream.
func (enc *Encoder) Encode(m Marshaler) error {
	data, err := m.MarshalHTTP()
	if err != nil {
		return err
	}
	_, err = enc.w.Write(data)
	return err
}

// MarshalHTTP renders the response in HTTP/1.x wire format. Content-Length
// is added when the body is not empty and neither Content-Length nor
// Transfer-Encoding is set. The body is read from the start.
func (r *Response) MarshalHTTP() ([]byte, error) {
	raw := r.Body().String()
	status := r.Status()
	proto := "HTTP/" + r.ProtocolVersion()
	return wire.Encode(func(buf []byte) []byte {
		return wire.AppendStatusLine(buf, proto, status.Code(), status.Reason())
	}, wireFields(r.Headers(), raw), []byte(raw)), nil
}

// MarshalHTTP renders the request in HTTP/1.x wire format, with GET for a
// request without method. Content-Length is added as for a response.
func (r *ServerRequest) MarshalHTTP() ([]byte, error) {
	raw := r.Body().String()
	method := r.Method()
	if method == "" {
		method = "GET"
	}
	target := r.RequestTarget()
	proto := "HTTP/" + r.ProtocolVersion()
	return wire.Encode(func(buf []byte) []byte {
		return wire.AppendRequestLine(buf, method, target, proto)
	}, wireFields(r.Headers(), raw), []byte(raw)), nil
}

func wireFields(h *Headers, raw string) []wire.Field {
	fields := make([]wire.Field, 0, h.Len()+1)
	for name, values := range h.All() {
		for _, v := range values {
			fields = append(fields, wire.Field{Name: name, Value: v})
		}
	}
	if raw != "" && !h.Has("Content-Length") && !h.Has("Transfer-Encoding") {
		fields = append(fields, wire.Field{Name: "Content-Length", Value: strconv.Itoa(len(raw))})
	}
	return fields
}
