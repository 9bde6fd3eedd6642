package http

import (
	"bytes"
	"encoding/base64"
	"errors"
	nethttp "net/http"
	"net/url"
	"strings"

	"github.com/shapestone/shape-httpmessage/internal/wire"
)

// ReadRequest builds a server request from a complete HTTP/1.x request
// message, the way a CGI gateway would: the request line and header fields
// become server params and every other property is derived from them.
//
// An absolute-form target ("http://example.com/x") provides the scheme and,
// when there is no Host field, the host. Basic credentials in Authorization
// are exposed as the URI user and password. The Cookie field fills the
// cookie params and the query string the query params.
func ReadRequest(data []byte) (*ServerRequest, error) {
	msg, err := wire.ReadRequest(data)
	if err != nil {
		return nil, wireError(err)
	}

	params := map[string]string{
		ParamServerProtocol: msg.Proto,
		ParamRequestMethod:  msg.Method,
		ParamRequestURI:     msg.Target,
	}
	for _, f := range msg.Fields {
		key := paramFromHeaderName(f.Name)
		if prev, ok := params[key]; ok {
			sep := ", "
			if key == "HTTP_COOKIE" {
				sep = "; "
			}
			params[key] = prev + sep + f.Value
		} else {
			params[key] = f.Value
		}
	}

	if u, err := url.Parse(msg.Target); err == nil && u.IsAbs() {
		params[ParamRequestURI] = u.RequestURI()
		if u.Scheme == "https" {
			params[ParamHTTPS] = "on"
		}
		if _, ok := params["HTTP_HOST"]; !ok {
			params["HTTP_HOST"] = u.Host
		}
	}

	target := params[ParamRequestURI]
	if _, query, ok := strings.Cut(target, "?"); ok {
		params[ParamQueryString] = query
	}
	if user, pass, ok := basicAuth(params["HTTP_AUTHORIZATION"]); ok {
		params[ParamAuthUser] = user
		params[ParamAuthPassword] = pass
	}

	return NewServerRequestFromGlobals(Globals{
		Server:  params,
		Cookies: ParseCookieHeader(params["HTTP_COOKIE"]),
		Query:   ParseQueryString(params[ParamQueryString]),
		Body:    NewStream("wire://request", bytes.NewReader(msg.Body)),
	}), nil
}

// ReadResponse builds a response from a complete HTTP/1.x response message.
func ReadResponse(data []byte) (*Response, error) {
	msg, err := wire.ReadResponse(data)
	if err != nil {
		return nil, wireError(err)
	}

	resp := NewResponse()
	if resp, err = resp.WithProtocolVersion(strings.TrimPrefix(msg.Proto, "HTTP/")); err != nil {
		return nil, err
	}
	if resp, err = resp.WithStatus(msg.Code, msg.Reason); err != nil {
		return nil, err
	}
	for _, f := range msg.Fields {
		if resp, err = resp.WithAddedHeader(f.Name, f.Value); err != nil {
			return nil, err
		}
	}
	return resp.WithBody(NewStream("wire://response", bytes.NewReader(msg.Body))), nil
}

// IsResponse reports whether data looks like a response message rather
// than a request.
func IsResponse(data []byte) bool {
	return bytes.HasPrefix(data, []byte("HTTP/"))
}

func wireError(err error) error {
	var syntaxErr *wire.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Message: syntaxErr.Msg, Line: syntaxErr.Line}
	}
	return &ParseError{Message: err.Error()}
}

// paramFromHeaderName converts X-Foo to HTTP_X_FOO, and Content-Type and
// Content-Length to their CGI names.
func paramFromHeaderName(name string) string {
	key := strings.ToUpper(strings.ReplaceAll(name, "-", "_"))
	switch key {
	case ParamContentType, ParamContentLength:
		return key
	}
	return httpParamPrefix + key
}

func basicAuth(authorization string) (user, pass string, ok bool) {
	scheme, credentials, found := strings.Cut(authorization, " ")
	if !found || !strings.EqualFold(scheme, "Basic") {
		return "", "", false
	}
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(credentials))
	if err != nil {
		return "", "", false
	}
	return strings.Cut(string(decoded), ":")
}

// ParseCookieHeader decodes a Cookie header value into cookie params. An
// unparsable header yields no cookies.
func ParseCookieHeader(header string) map[string]string {
	if header == "" {
		return nil
	}
	cookies, err := nethttp.ParseCookie(header)
	if err != nil {
		return nil
	}
	params := make(map[string]string, len(cookies))
	for _, c := range cookies {
		params[c.Name] = c.Value
	}
	return params
}

// ParseQueryString decodes a query string into query params; a later key
// overwrites an earlier one.
func ParseQueryString(query string) map[string]string {
	if query == "" {
		return nil
	}
	values, _ := url.ParseQuery(query)
	params := make(map[string]string, len(values))
	for k, vs := range values {
		params[k] = vs[len(vs)-1]
	}
	return params
}
