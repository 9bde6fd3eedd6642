package http

import (
	"regexp"
	"strconv"
	"strings"
)

// DefaultProtocolVersion is the protocol version of a message that has
// neither an explicit version nor a SERVER_PROTOCOL server param.
const DefaultProtocolVersion = "1.0"

var protocolVersionPattern = regexp.MustCompile(`^[1-9]\.\d$`)

// normalizeProtocolVersion turns "1.1", "2" or "2.0" into a major.minor
// string. Numeric input without a fraction is formatted with one fractional
// digit.
func normalizeProtocolVersion(v string) (string, error) {
	normalized := strings.TrimSpace(v)
	if !strings.Contains(normalized, ".") {
		if f, err := strconv.ParseFloat(normalized, 64); err == nil {
			normalized = strconv.FormatFloat(f, 'f', 1, 64)
		}
	}
	if !protocolVersionPattern.MatchString(normalized) {
		return "", argumentErrorf(ErrInvalidProtocolVersion, "invalid HTTP protocol version '%s'", v)
	}
	return normalized, nil
}

// FormatProtocolVersion formats a numeric protocol version such as 2 or 1.1
// with one fractional digit.
func FormatProtocolVersion(f float64) string {
	return strconv.FormatFloat(f, 'f', 1, 64)
}

// protocolFromServer extracts the version from a SERVER_PROTOCOL value like
// "HTTP/1.1". It returns false if the value cannot be used.
func protocolFromServer(serverProtocol string) (string, bool) {
	_, v, ok := strings.Cut(serverProtocol, "/")
	if !ok {
		return "", false
	}
	normalized, err := normalizeProtocolVersion(v)
	if err != nil {
		return "", false
	}
	return normalized, true
}
