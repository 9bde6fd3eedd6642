package http

import (
	"net/url"
	"strconv"
	"strings"
)

// URI is an immutable URI value. Two URIs are equal when all components are
// equal, so URI values can be compared with ==.
type URI struct {
	Scheme   string
	User     string
	Password string
	Host     string
	Port     int // 0 when not set
	Path     string
	Query    string
	Fragment string
}

// Authority returns "user:password@host:port", omitting empty parts and a
// port that is the default for the scheme.
func (u URI) Authority() string {
	if u.Host == "" {
		return ""
	}
	var b strings.Builder
	if u.User != "" {
		b.WriteString(u.User)
		if u.Password != "" {
			b.WriteByte(':')
			b.WriteString(u.Password)
		}
		b.WriteByte('@')
	}
	b.WriteString(u.HostPort())
	return b.String()
}

// HostPort returns the host, followed by ":port" when the port is set and
// not the default for the scheme.
func (u URI) HostPort() string {
	if u.Port == 0 || u.Port == defaultPort(u.Scheme) {
		return u.Host
	}
	return u.Host + ":" + strconv.Itoa(u.Port)
}

// String returns the URI reference.
func (u URI) String() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteByte(':')
	}
	if authority := u.Authority(); authority != "" {
		b.WriteString("//")
		b.WriteString(authority)
	}
	if u.Path != "" && u.Host != "" && !strings.HasPrefix(u.Path, "/") {
		b.WriteByte('/')
	}
	b.WriteString(u.Path)
	if u.Query != "" {
		b.WriteByte('?')
		b.WriteString(u.Query)
	}
	if u.Fragment != "" {
		b.WriteByte('#')
		b.WriteString(u.Fragment)
	}
	return b.String()
}

// ParseURI parses an absolute URI or a URI reference.
func ParseURI(s string) (URI, error) {
	parsed, err := url.Parse(s)
	if err != nil {
		return URI{}, err
	}
	u := URI{
		Scheme:   parsed.Scheme,
		Host:     parsed.Hostname(),
		Path:     parsed.Path,
		Query:    parsed.RawQuery,
		Fragment: parsed.Fragment,
	}
	if parsed.User != nil {
		u.User = parsed.User.Username()
		u.Password, _ = parsed.User.Password()
	}
	if p := parsed.Port(); p != "" {
		if u.Port, err = strconv.Atoi(p); err != nil {
			return URI{}, err
		}
	}
	return u, nil
}

func defaultPort(scheme string) int {
	switch scheme {
	case "http":
		return 80
	case "https":
		return 443
	default:
		return 0
	}
}
