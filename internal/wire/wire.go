// Package wire scans and encodes HTTP/1.x messages. It works on complete
// messages held in memory and knows nothing about message semantics beyond
// framing: the start line, header fields and the body length.
package wire

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// Field is a header field as it appears on the wire.
type Field struct {
	Name  string
	Value string
}

// Request is a scanned request message.
type Request struct {
	Method string
	Target string
	Proto  string // "HTTP/1.1"
	Fields []Field
	Body   []byte
}

// Response is a scanned response message.
type Response struct {
	Proto  string
	Code   int
	Reason string
	Fields []Field
	Body   []byte
}

// SyntaxError reports malformed input.
type SyntaxError struct {
	Line int
	Msg  string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
}

// scanner walks a message one line at a time.
type scanner struct {
	data []byte
	pos  int
	line int // 1-indexed
}

func newScanner(data []byte) *scanner {
	return &scanner{data: data, line: 1}
}

// ReadRequest scans a complete request message.
func ReadRequest(data []byte) (*Request, error) {
	s := newScanner(data)
	line, ok := s.readLine()
	if !ok || len(line) == 0 {
		return nil, s.errorf("missing request line")
	}

	parts := strings.Fields(string(line))
	if len(parts) != 3 {
		return nil, s.errorf("malformed request line %q", line)
	}
	if !strings.HasPrefix(parts[2], "HTTP/") {
		return nil, s.errorf("malformed protocol %q", parts[2])
	}

	fields, err := s.readFields()
	if err != nil {
		return nil, err
	}
	fields, body, err := s.readBody(fields)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method: parts[0],
		Target: parts[1],
		Proto:  parts[2],
		Fields: fields,
		Body:   body,
	}, nil
}

// ReadResponse scans a complete response message. The reason phrase may be
// absent ("HTTP/1.1 204").
func ReadResponse(data []byte) (*Response, error) {
	s := newScanner(data)
	line, ok := s.readLine()
	if !ok || len(line) == 0 {
		return nil, s.errorf("missing status line")
	}

	proto, rest, found := bytes.Cut(line, []byte{' '})
	if !found || !bytes.HasPrefix(proto, []byte("HTTP/")) {
		return nil, s.errorf("malformed status line %q", line)
	}
	codeText, reason, _ := bytes.Cut(rest, []byte{' '})
	code, err := strconv.Atoi(string(codeText))
	if err != nil {
		return nil, s.errorf("invalid status code %q", codeText)
	}

	fields, err := s.readFields()
	if err != nil {
		return nil, err
	}
	fields, body, err := s.readBody(fields)
	if err != nil {
		return nil, err
	}

	return &Response{
		Proto:  string(proto),
		Code:   code,
		Reason: string(reason),
		Fields: fields,
		Body:   body,
	}, nil
}

// readFields reads header lines up to and including the empty line.
// Continuation lines (obs-fold) are joined with a single space.
func (s *scanner) readFields() ([]Field, error) {
	fields := make([]Field, 0, 8)
	for {
		line, ok := s.readLine()
		if !ok || len(line) == 0 {
			return fields, nil
		}

		for s.pos < len(s.data) && (s.data[s.pos] == ' ' || s.data[s.pos] == '\t') {
			cont, _ := s.readLine()
			line = append(append(line[:len(line):len(line)], ' '), bytes.TrimLeft(cont, " \t")...)
		}

		colon := bytes.IndexByte(line, ':')
		if colon <= 0 {
			return nil, s.errorf("malformed header line %q", line)
		}
		if line[colon-1] == ' ' || line[colon-1] == '\t' {
			return nil, s.errorf("whitespace before colon in header %q", line[:colon])
		}
		fields = append(fields, Field{
			Name:  string(line[:colon]),
			Value: string(bytes.Trim(line[colon+1:], " \t")),
		})
	}
}

// readBody reads the body framed by Transfer-Encoding or Content-Length,
// or the remaining bytes if neither is present. A chunked body is decoded
// and its framing headers are replaced by a Content-Length.
func (s *scanner) readBody(fields []Field) ([]Field, []byte, error) {
	rest := s.data[s.pos:]

	if isChunked(fields) {
		body, err := Dechunk(rest)
		if err != nil {
			return nil, nil, err
		}
		return unchunkFields(fields, len(body)), body, nil
	}

	if n, ok := contentLength(fields); ok {
		if n > len(rest) {
			return nil, nil, s.errorf("body truncated: expected %d bytes but only %d available", n, len(rest))
		}
		s.pos += n
		return fields, bytes.Clone(rest[:n]), nil
	}

	s.pos = len(s.data)
	if len(rest) == 0 {
		return fields, nil, nil
	}
	return fields, bytes.Clone(rest), nil
}

// readLine returns the next line without its CRLF or LF ending. The last
// line may lack an ending.
func (s *scanner) readLine() ([]byte, bool) {
	if s.pos >= len(s.data) {
		return nil, false
	}
	start := s.pos
	end := bytes.IndexByte(s.data[start:], '\n')
	if end < 0 {
		s.pos = len(s.data)
		return s.data[start:], true
	}
	s.pos = start + end + 1
	s.line++
	return bytes.TrimSuffix(s.data[start:start+end], []byte{'\r'}), true
}

func (s *scanner) errorf(format string, args ...any) error {
	return &SyntaxError{Line: s.line, Msg: fmt.Sprintf(format, args...)}
}

func isChunked(fields []Field) bool {
	for _, f := range fields {
		if strings.EqualFold(f.Name, "Transfer-Encoding") && strings.Contains(strings.ToLower(f.Value), "chunked") {
			return true
		}
	}
	return false
}

func contentLength(fields []Field) (int, bool) {
	for _, f := range fields {
		if strings.EqualFold(f.Name, "Content-Length") {
			n, err := strconv.Atoi(strings.TrimSpace(f.Value))
			return n, err == nil && n >= 0
		}
	}
	return 0, false
}

// unchunkFields drops "chunked" from Transfer-Encoding and sets
// Content-Length to the decoded body length.
func unchunkFields(fields []Field, bodyLen int) []Field {
	out := make([]Field, 0, len(fields)+1)
	for _, f := range fields {
		switch {
		case strings.EqualFold(f.Name, "Transfer-Encoding"):
			var codings []string
			for _, c := range strings.Split(f.Value, ",") {
				if c = strings.TrimSpace(c); c != "" && !strings.EqualFold(c, "chunked") {
					codings = append(codings, c)
				}
			}
			if len(codings) > 0 {
				out = append(out, Field{Name: f.Name, Value: strings.Join(codings, ", ")})
			}
		case strings.EqualFold(f.Name, "Content-Length"):
		default:
			out = append(out, f)
		}
	}
	return append(out, Field{Name: "Content-Length", Value: strconv.Itoa(bodyLen)})
}
