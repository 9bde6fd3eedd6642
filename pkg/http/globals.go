package http

import (
	"maps"
)

// Globals is everything a gateway hands to a request handler: the server
// params, cookies, query params, uploaded file descriptors, decoded POST
// fields and the raw body.
type Globals struct {
	Server  map[string]string
	Cookies map[string]string
	Query   map[string]string
	Files   RawFiles
	Post    map[string]any
	Body    Stream
}

// NewServerRequestFromGlobals builds a request the way a gateway populates
// one. Headers, protocol version, URI, method and request target are derived
// lazily from g.Server. Raw file descriptors are grouped into an uploaded
// file tree.
//
// g.Post, when not nil, is returned by ParsedBody instead of decoding the
// body, unless the body is JSON. It is copied; later changes to g.Post are
// not seen by the request.
func NewServerRequestFromGlobals(g Globals) *ServerRequest {
	r := NewServerRequest()
	r.serverParams = maps.Clone(g.Server)
	r.cookieParams = maps.Clone(g.Cookies)
	r.queryParams = maps.Clone(g.Query)
	if len(g.Files) > 0 {
		r.uploadedFiles = groupUploadedFiles(g.Files)
	}
	if g.Post != nil {
		r.postData = copyPostData(g.Post)
	}
	r.body = g.Body
	return r
}

func copyPostData(src map[string]any) map[string]any {
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = copyValue(v)
	}
	return dst
}

// copyValue deep-copies the maps and slices of a decoded value. Other
// values, including XML element trees, are returned as they are.
func copyValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		return copyPostData(x)
	case map[any]any:
		dst := make(map[any]any, len(x))
		for k, e := range x {
			dst[k] = copyValue(e)
		}
		return dst
	case []any:
		dst := make([]any, len(x))
		for i, e := range x {
			dst[i] = copyValue(e)
		}
		return dst
	default:
		return v
	}
}
