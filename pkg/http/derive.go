package http

import (
	"net"
	"slices"
	"strconv"
	"strings"
)

// Server params recognized when deriving message fields. These follow the
// CGI/1.1 meta-variable names.
const (
	ParamServerProtocol = "SERVER_PROTOCOL"
	ParamRequestMethod  = "REQUEST_METHOD"
	ParamRequestURI     = "REQUEST_URI"
	ParamContentType    = "CONTENT_TYPE"
	ParamContentLength  = "CONTENT_LENGTH"
	ParamHTTPS          = "HTTPS"
	ParamAuthUser       = "PHP_AUTH_USER"
	ParamAuthPassword   = "PHP_AUTH_PWD"
	ParamServerName     = "SERVER_NAME"
	ParamServerPort     = "SERVER_PORT"
	ParamPathInfo       = "PATH_INFO"
	ParamScriptName     = "SCRIPT_NAME"
	ParamQueryString    = "QUERY_STRING"

	httpParamPrefix = "HTTP_"
)

func deriveProtocolVersion(params map[string]string) string {
	if v, ok := protocolFromServer(params[ParamServerProtocol]); ok {
		return v
	}
	return DefaultProtocolVersion
}

// deriveHeaders yields CONTENT_TYPE, CONTENT_LENGTH and then every HTTP_*
// param in name order: HTTP_X_FOO becomes X-Foo. HTTP_CONTENT_TYPE and
// HTTP_CONTENT_LENGTH duplicate the CGI variables and are skipped, as is any
// param that does not form a valid header.
func deriveHeaders(params map[string]string) *Headers {
	h := emptyHeaders()
	addParam := func(name, value string) {
		if validHeaderName(name) && validHeaderValues([]string{value}) {
			h.add(name, []string{value})
		}
	}

	if v, ok := params[ParamContentType]; ok {
		addParam("Content-Type", v)
	}
	if v, ok := params[ParamContentLength]; ok {
		addParam("Content-Length", v)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		if strings.HasPrefix(k, httpParamPrefix) {
			keys = append(keys, k)
		}
	}
	slices.Sort(keys)

	for _, k := range keys {
		if k == "HTTP_CONTENT_TYPE" || k == "HTTP_CONTENT_LENGTH" {
			continue
		}
		addParam(headerNameFromParam(k), params[k])
	}
	return h
}

// headerNameFromParam converts HTTP_X_FOO to X-Foo.
func headerNameFromParam(param string) string {
	name := strings.TrimPrefix(param, httpParamPrefix)
	return headerCase(strings.ReplaceAll(name, "_", "-"))
}

func deriveMethod(params map[string]string) string {
	return strings.ToUpper(params[ParamRequestMethod])
}

func deriveRequestTarget(params map[string]string, method string) string {
	if v, ok := params[ParamRequestURI]; ok {
		return v
	}
	if method == "OPTIONS" {
		return "*"
	}
	return "/"
}

// deriveURI composes the request URI from server params. A request without
// any server params has an empty URI.
func deriveURI(params map[string]string) URI {
	if len(params) == 0 {
		return URI{}
	}

	u := URI{
		Scheme:   "http",
		User:     params[ParamAuthUser],
		Password: params[ParamAuthPassword],
		Query:    params[ParamQueryString],
	}
	if https := strings.ToLower(params[ParamHTTPS]); https != "" && https != "off" {
		u.Scheme = "https"
	}

	host := params["HTTP_HOST"]
	if host == "" {
		host = params[ParamServerName]
	}
	if h, p, err := net.SplitHostPort(host); err == nil {
		host = h
		u.Port, _ = strconv.Atoi(p)
	}
	u.Host = host

	if port, err := strconv.Atoi(params[ParamServerPort]); err == nil {
		u.Port = port
	}

	switch {
	case params[ParamPathInfo] != "":
		u.Path = params[ParamPathInfo]
	case params[ParamRequestURI] != "":
		u.Path, _, _ = strings.Cut(params[ParamRequestURI], "?")
	default:
		u.Path = params[ParamScriptName]
	}

	return u
}
