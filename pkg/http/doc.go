// Package http models immutable HTTP messages.
//
// A ServerRequest or Response is a value: every With* method returns a new
// message and leaves the receiver untouched. Unchanged parts, such as the
// header collection or the body stream, are shared between the old and the
// new message.
//
// # Server params
//
// A ServerRequest derives its protocol version, headers, URI, method and
// request target from CGI-style server params (SERVER_PROTOCOL,
// REQUEST_METHOD, HTTP_*, ...) the first time each is read. A value set
// through a With* method wins over the derived one until WithServerParams
// replaces the params, which discards every derived and explicit value.
//
//	req := http.NewServerRequest().WithServerParams(map[string]string{
//		"SERVER_PROTOCOL": "HTTP/1.1",
//		"REQUEST_METHOD":  "post",
//		"HTTP_HOST":       "example.com",
//	})
//	req.Method()           // "POST"
//	req.HeaderLine("host") // "example.com"
//
// # Parsed body
//
// ParsedBody decodes the body according to Content-Type: url-encoded forms,
// JSON, XML and YAML are supported. A malformed body yields a ParsedBody
// with a Warning rather than an error; an unsupported or missing
// Content-Type is an error.
//
// # Concurrency
//
// Derived values are computed and cached on first read without locking.
// Share a message between goroutines only after reading what they will use,
// or give each goroutine its own message.
//
// # Wire format
//
// ReadRequest and ReadResponse build messages from HTTP/1.x bytes. Both
// message types implement Marshaler, and an Encoder writes them to a stream.
package http
