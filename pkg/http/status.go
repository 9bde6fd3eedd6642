package http

import (
	nethttp "net/http"
	"strconv"
)

// DefaultStatusCode is the status of a response that never had one set.
const DefaultStatusCode = nethttp.StatusOK

// Status is a response status code with its reason phrase.
type Status struct {
	code            int
	reason          string
	protocolVersion string
}

// NewStatus validates code and creates a status. An empty reason selects the
// default phrase for the code under the given protocol version.
func NewStatus(code int, reason, protocolVersion string) (Status, error) {
	if code < 100 || code > 999 {
		return Status{}, argumentErrorf(ErrInvalidStatusCode, "response code must be in range 100...999, got %d", code)
	}
	if !validReasonPhrase(reason) {
		return Status{}, argumentErrorf(ErrInvalidReasonPhrase, "response reason phrase %q contains line breaks", reason)
	}
	if reason == "" {
		reason = defaultReasonPhrase(code, protocolVersion)
	}
	return Status{code: code, reason: reason, protocolVersion: protocolVersion}, nil
}

func defaultStatus(protocolVersion string) Status {
	return Status{
		code:            DefaultStatusCode,
		reason:          defaultReasonPhrase(DefaultStatusCode, protocolVersion),
		protocolVersion: protocolVersion,
	}
}

// Code returns the 3-digit status code.
func (s Status) Code() int { return s.code }

// Reason returns the reason phrase.
func (s Status) Reason() string { return s.reason }

// String returns "code reason", as in a status line.
func (s Status) String() string {
	if s.reason == "" {
		return strconv.Itoa(s.code)
	}
	return strconv.Itoa(s.code) + " " + s.reason
}

// HTTP/2 and later carry no reason phrase on the wire.
func defaultReasonPhrase(code int, protocolVersion string) string {
	if protocolVersion != "" && protocolVersion[0] >= '2' {
		return ""
	}
	return nethttp.StatusText(code)
}

func validReasonPhrase(reason string) bool {
	for i := 0; i < len(reason); i++ {
		if reason[i] == '\r' || reason[i] == '\n' {
			return false
		}
	}
	return true
}
