package wire

import (
	"bytes"
	"fmt"
	"strconv"
)

// Dechunk decodes a chunked transfer-coded body:
//
//	hex-size [;ext] CRLF data CRLF ... 0 CRLF [trailers] CRLF
//
// Chunk extensions and trailers are ignored.
func Dechunk(data []byte) ([]byte, error) {
	var body []byte
	pos := 0
	for {
		if pos >= len(data) {
			return nil, fmt.Errorf("chunked encoding: unexpected end of data")
		}

		end := bytes.IndexByte(data[pos:], '\n')
		if end < 0 {
			return nil, fmt.Errorf("chunked encoding: unterminated chunk size line")
		}
		sizeLine := bytes.TrimSuffix(data[pos:pos+end], []byte{'\r'})
		pos += end + 1

		if semi := bytes.IndexByte(sizeLine, ';'); semi >= 0 {
			sizeLine = sizeLine[:semi]
		}
		size, err := strconv.ParseUint(string(bytes.TrimSpace(sizeLine)), 16, 31)
		if err != nil {
			return nil, fmt.Errorf("chunked encoding: invalid chunk size %q", sizeLine)
		}
		if size == 0 {
			return body, nil
		}

		n := int(size)
		if pos+n > len(data) {
			return nil, fmt.Errorf("chunked encoding: chunk data truncated (expected %d bytes, %d available)", n, len(data)-pos)
		}
		body = append(body, data[pos:pos+n]...)
		pos += n

		switch {
		case bytes.HasPrefix(data[pos:], []byte("\r\n")):
			pos += 2
		case bytes.HasPrefix(data[pos:], []byte("\n")):
			pos++
		default:
			return nil, fmt.Errorf("chunked encoding: missing CRLF after chunk data")
		}
	}
}
