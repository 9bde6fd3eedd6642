package wire

import (
	"strconv"
	"sync"
)

var bufPool = sync.Pool{
	New: func() any {
		b := make([]byte, 0, 2048)
		return &b
	},
}

// AppendStatusLine appends "PROTO CODE REASON\r\n" to buf. The space after
// the code is kept when the reason is empty.
func AppendStatusLine(buf []byte, proto string, code int, reason string) []byte {
	buf = append(buf, proto...)
	buf = append(buf, ' ')
	buf = strconv.AppendInt(buf, int64(code), 10)
	buf = append(buf, ' ')
	buf = append(buf, reason...)
	return append(buf, '\r', '\n')
}

// AppendRequestLine appends "METHOD TARGET PROTO\r\n" to buf.
func AppendRequestLine(buf []byte, method, target, proto string) []byte {
	buf = append(buf, method...)
	buf = append(buf, ' ')
	buf = append(buf, target...)
	buf = append(buf, ' ')
	buf = append(buf, proto...)
	return append(buf, '\r', '\n')
}

// AppendField appends "Name: value\r\n" to buf.
func AppendField(buf []byte, name, value string) []byte {
	buf = append(buf, name...)
	buf = append(buf, ':', ' ')
	buf = append(buf, value...)
	return append(buf, '\r', '\n')
}

// Encode renders a message from its start line, fields and body using a
// pooled buffer. The returned slice is owned by the caller.
func Encode(startLine func([]byte) []byte, fields []Field, body []byte) []byte {
	bp := bufPool.Get().(*[]byte)
	buf := startLine((*bp)[:0])
	for _, f := range fields {
		buf = AppendField(buf, f.Name, f.Value)
	}
	buf = append(buf, '\r', '\n')
	buf = append(buf, body...)

	out := make([]byte, len(buf))
	copy(out, buf)
	*bp = buf[:0]
	bufPool.Put(bp)
	return out
}
