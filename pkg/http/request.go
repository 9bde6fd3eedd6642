package http

import (
	"fmt"
	"maps"
	"regexp"
	"strings"
	"unicode"

	"github.com/go-viper/mapstructure/v2"
	"go.uber.org/zap"
)

var methodPattern = regexp.MustCompile(`^[a-zA-Z-]+$`)

// ServerRequest is an immutable incoming HTTP request.
//
// Headers, protocol version, URI, method and request target are derived
// from the server params the first time they are read, unless they were set
// explicitly. WithServerParams discards both derived and explicit values so
// they are derived again from the new params.
type ServerRequest struct {
	message

	serverParams  map[string]string
	cookieParams  map[string]string
	queryParams   map[string]string
	uploadedFiles UploadedFiles
	attributes    map[string]any

	uri           field[URI]
	requestTarget field[string]
	method        field[string]

	parsedBody field[ParsedBody]
	postData   map[string]any // from NewServerRequestFromGlobals
}

// NewServerRequest returns an empty request. It captures nothing from the
// process environment; see NewServerRequestFromGlobals.
func NewServerRequest() *ServerRequest {
	return &ServerRequest{message: newMessage()}
}

func (r *ServerRequest) clone() *ServerRequest {
	c := *r
	return &c
}

// WithLogger returns a request that reports body decoding warnings to logger.
func (r *ServerRequest) WithLogger(logger *zap.Logger) *ServerRequest {
	c := r.clone()
	c.setLogger(logger)
	return c
}

// ServerParams returns a copy of the server params.
func (r *ServerRequest) ServerParams() map[string]string {
	if r.serverParams == nil {
		return map[string]string{}
	}
	return maps.Clone(r.serverParams)
}

// WithServerParams returns a request with the given server params. Headers,
// protocol version, URI, method, request target and parsed body are reset,
// whether they were derived or set explicitly.
func (r *ServerRequest) WithServerParams(params map[string]string) *ServerRequest {
	c := r.clone()
	c.serverParams = maps.Clone(params)
	c.reset()
	return c
}

func (r *ServerRequest) reset() {
	r.version.reset()
	r.headers.reset()
	r.uri.reset()
	r.method.reset()
	r.requestTarget.reset()
	r.parsedBody.reset()
}

// ProtocolVersion returns the HTTP version as "major.minor", derived from
// SERVER_PROTOCOL unless set explicitly.
func (r *ServerRequest) ProtocolVersion() string {
	return r.protocolVersion(func() string {
		return deriveProtocolVersion(r.serverParams)
	})
}

// WithProtocolVersion returns a request with the given protocol version.
// "2" is accepted as "2.0".
func (r *ServerRequest) WithProtocolVersion(v string) (*ServerRequest, error) {
	c := r.clone()
	if err := c.setProtocolVersion(v); err != nil {
		return nil, err
	}
	return c, nil
}

// Headers returns the header collection.
func (r *ServerRequest) Headers() *Headers {
	return r.headerCollection(func() *Headers {
		return deriveHeaders(r.serverParams)
	})
}

// HasHeader reports whether the named header exists (case-insensitive).
func (r *ServerRequest) HasHeader(name string) bool {
	return r.Headers().Has(name)
}

// Header returns the values of the named header.
func (r *ServerRequest) Header(name string) []string {
	return r.Headers().Get(name)
}

// HeaderLine returns the values of the named header joined by a comma.
func (r *ServerRequest) HeaderLine(name string) string {
	return r.Headers().Line(name)
}

// WithHeader returns a request where the named header is replaced.
func (r *ServerRequest) WithHeader(name string, values ...string) (*ServerRequest, error) {
	h, err := r.Headers().WithHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return r.withHeaders(h), nil
}

// WithAddedHeader returns a request where values are appended to the named
// header.
func (r *ServerRequest) WithAddedHeader(name string, values ...string) (*ServerRequest, error) {
	h, err := r.Headers().WithAddedHeader(name, values...)
	if err != nil {
		return nil, err
	}
	return r.withHeaders(h), nil
}

// WithoutHeader returns a request without the named header. If the header
// does not exist, r itself is returned.
func (r *ServerRequest) WithoutHeader(name string) *ServerRequest {
	current := r.Headers()
	h := current.WithoutHeader(name)
	if h == current {
		return r
	}
	return r.withHeaders(h)
}

func (r *ServerRequest) withHeaders(h *Headers) *ServerRequest {
	c := r.clone()
	c.headers.set(h)
	c.invalidateParsedBody()
	return c
}

// Body returns the request body. A new request has an empty body.
func (r *ServerRequest) Body() Stream {
	return r.stream()
}

// WithBody returns a request with the given body. The stream is shared,
// not copied.
func (r *ServerRequest) WithBody(body Stream) *ServerRequest {
	c := r.clone()
	c.body = body
	c.invalidateParsedBody()
	return c
}

// RequestTarget returns REQUEST_URI, "*" for an OPTIONS request, or "/",
// unless set explicitly.
func (r *ServerRequest) RequestTarget() string {
	return r.requestTarget.get(func() string {
		return deriveRequestTarget(r.serverParams, r.Method())
	})
}

// WithRequestTarget returns a request with the given request target. The
// target may not contain whitespace.
func (r *ServerRequest) WithRequestTarget(target string) (*ServerRequest, error) {
	if strings.IndexFunc(target, unicode.IsSpace) >= 0 {
		return nil, argumentErrorf(ErrInvalidRequestTarget, "request target %q may not contain whitespace", target)
	}
	c := r.clone()
	c.requestTarget.set(target)
	return c, nil
}

// Method returns the upper-cased REQUEST_METHOD, or empty string, unless set
// explicitly.
func (r *ServerRequest) Method() string {
	return r.method.get(func() string {
		return deriveMethod(r.serverParams)
	})
}

// WithMethod returns a request with the given method, upper-cased. Only
// letters and dashes are allowed.
func (r *ServerRequest) WithMethod(method string) (*ServerRequest, error) {
	if !methodPattern.MatchString(method) {
		return nil, argumentErrorf(ErrInvalidMethod, "invalid method '%s': method may only contain letters and dashes", method)
	}
	c := r.clone()
	c.method.set(strings.ToUpper(method))
	return c, nil
}

// URI returns the request URI, derived from the server params unless set
// explicitly.
func (r *ServerRequest) URI() URI {
	return r.uri.get(func() URI {
		return deriveURI(r.serverParams)
	})
}

// WithURI returns a request with the given URI. Unless preserveHost is true,
// the Host header is set from the URI when the request has no non-empty Host
// header and the URI has a host.
func (r *ServerRequest) WithURI(uri URI, preserveHost bool) (*ServerRequest, error) {
	c := r.clone()
	c.uri.set(uri)

	if preserveHost || uri.Host == "" || r.HeaderLine("Host") != "" {
		return c, nil
	}

	h, err := r.Headers().WithHeader("Host", uri.HostPort())
	if err != nil {
		return nil, err
	}
	c.headers.set(h)
	c.invalidateParsedBody()
	return c, nil
}

// CookieParams returns a copy of the cookies.
func (r *ServerRequest) CookieParams() map[string]string {
	return cloneParams(r.cookieParams)
}

// WithCookieParams returns a request with the given cookies.
func (r *ServerRequest) WithCookieParams(cookies map[string]string) *ServerRequest {
	c := r.clone()
	c.cookieParams = maps.Clone(cookies)
	return c
}

// QueryParams returns a copy of the query params.
func (r *ServerRequest) QueryParams() map[string]string {
	return cloneParams(r.queryParams)
}

// WithQueryParams returns a request with the given query params.
func (r *ServerRequest) WithQueryParams(query map[string]string) *ServerRequest {
	c := r.clone()
	c.queryParams = maps.Clone(query)
	return c
}

func cloneParams(params map[string]string) map[string]string {
	if params == nil {
		return map[string]string{}
	}
	return maps.Clone(params)
}

// UploadedFiles returns a copy of the uploaded-file tree. The files
// themselves are immutable and shared.
func (r *ServerRequest) UploadedFiles() UploadedFiles {
	return normalizeUploadedFiles(r.uploadedFiles)
}

// WithUploadedFiles returns a request with the given uploaded-file tree.
// Every leaf must be a *UploadedFile; branches may be UploadedFiles or
// map[string]any.
func (r *ServerRequest) WithUploadedFiles(files map[string]any) (*ServerRequest, error) {
	if err := assertUploadedFiles(files, ""); err != nil {
		return nil, err
	}
	c := r.clone()
	c.uploadedFiles = normalizeUploadedFiles(files)
	return c, nil
}

// Attributes returns a copy of the request attributes.
func (r *ServerRequest) Attributes() map[string]any {
	if r.attributes == nil {
		return map[string]any{}
	}
	return maps.Clone(r.attributes)
}

// Attribute returns the named attribute, or def if it is not set.
func (r *ServerRequest) Attribute(name string, def any) any {
	if v, ok := r.attributes[name]; ok {
		return v
	}
	return def
}

// WithAttribute returns a request with the named attribute set.
func (r *ServerRequest) WithAttribute(name string, value any) *ServerRequest {
	c := r.clone()
	c.attributes = maps.Clone(r.attributes)
	if c.attributes == nil {
		c.attributes = make(map[string]any, 1)
	}
	c.attributes[name] = value
	return c
}

// WithoutAttribute returns a request without the named attribute. If the
// attribute is not set, r itself is returned.
func (r *ServerRequest) WithoutAttribute(name string) *ServerRequest {
	if _, ok := r.attributes[name]; !ok {
		return r
	}
	c := r.clone()
	c.attributes = maps.Clone(r.attributes)
	delete(c.attributes, name)
	return c
}

// ParsedBody decodes the body according to the Content-Type header.
//
// The result is cached until the headers or the body change. POST data
// passed to NewServerRequestFromGlobals is returned instead of decoding the body,
// except for JSON content which is always decoded. A value set through
// WithParsedBody wins over both.
//
// A malformed JSON, XML, YAML or form body is not an error: the returned
// ParsedBody carries a Warning and whatever could be decoded.
//
// Decoded maps and slices, and POST data, are copied on every call, so
// changing them does not affect the request. XML element trees are shared.
// A value set through WithParsedBody is returned as it was given. An error is returned for
// multipart and other unsupported media types (ErrUnsupportedMediaType), and
// for a non-empty body without Content-Type (ErrMissingContentType).
func (r *ServerRequest) ParsedBody() (ParsedBody, error) {
	switch r.parsedBody.state {
	case explicit:
		return r.parsedBody.value, nil
	case derived:
		return r.parsedBody.value.copy(), nil
	}

	mediaType, format := classifyContentType(r.HeaderLine("Content-Type"))
	if format != formatJSON && r.postData != nil {
		return ParsedBody{Value: copyPostData(r.postData)}, nil
	}

	switch format {
	case formatNone:
		if r.Body().Size() > 0 {
			return ParsedBody{}, &BodyError{Err: ErrMissingContentType}
		}
		return r.cacheParsedBody(ParsedBody{}), nil
	case formatUnsupported:
		return ParsedBody{}, &BodyError{MediaType: mediaType, Err: ErrUnsupportedMediaType}
	}

	raw := r.Body().String()
	if raw == "" {
		return r.cacheParsedBody(ParsedBody{}), nil
	}

	result := decodeBody(format, raw)
	if result.Warning != nil {
		r.logger.Warn("failed to parse request body",
			zap.String("media_type", mediaType),
			zap.Error(result.Warning.Err))
	}
	return r.cacheParsedBody(result), nil
}

func (r *ServerRequest) cacheParsedBody(body ParsedBody) ParsedBody {
	r.parsedBody.state = derived
	r.parsedBody.value = body
	return body.copy()
}

func (r *ServerRequest) invalidateParsedBody() {
	if r.parsedBody.state == derived {
		r.parsedBody.reset()
	}
}

// WithParsedBody returns a request whose parsed body is v, regardless of
// headers and body, until the next WithServerParams.
func (r *ServerRequest) WithParsedBody(v any) *ServerRequest {
	c := r.clone()
	c.parsedBody.set(ParsedBody{Value: v})
	return c
}

// DecodeParsedBody decodes the parsed body into v, which must be a pointer
// to a struct or map. Struct fields are matched using the "form" tag.
func (r *ServerRequest) DecodeParsedBody(v any) error {
	body, err := r.ParsedBody()
	if err != nil {
		return err
	}
	if body.Warning != nil {
		return fmt.Errorf("http: %s", body.Warning)
	}

	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "form",
		Result:           v,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return dec.Decode(NodeToInterface(body.Value))
}
