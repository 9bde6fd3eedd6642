package wire

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadRequest(t *testing.T) {
	data := []byte("POST /search?q=go HTTP/1.1\r\nHost: example.com\r\nContent-Type: text/plain\r\nContent-Length: 5\r\n\r\nhello")

	req, err := ReadRequest(data)
	require.NoError(t, err)

	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/search?q=go", req.Target)
	assert.Equal(t, "HTTP/1.1", req.Proto)
	assert.Equal(t, []Field{
		{Name: "Host", Value: "example.com"},
		{Name: "Content-Type", Value: "text/plain"},
		{Name: "Content-Length", Value: "5"},
	}, req.Fields)
	assert.Equal(t, "hello", string(req.Body))
}

func TestReadRequest_BareLF(t *testing.T) {
	req, err := ReadRequest([]byte("GET / HTTP/1.0\nX-Foo:  bar \n\n"))
	require.NoError(t, err)

	assert.Equal(t, []Field{{Name: "X-Foo", Value: "bar"}}, req.Fields)
	assert.Nil(t, req.Body)
}

func TestReadRequest_ObsFold(t *testing.T) {
	req, err := ReadRequest([]byte("GET / HTTP/1.1\r\nX-Long: first\r\n  second\r\nHost: a\r\n\r\n"))
	require.NoError(t, err)

	assert.Equal(t, []Field{
		{Name: "X-Long", Value: "first second"},
		{Name: "Host", Value: "a"},
	}, req.Fields)
}

func TestReadRequest_NoContentLength(t *testing.T) {
	req, err := ReadRequest([]byte("PUT /x HTTP/1.1\r\nHost: a\r\n\r\nrest of data"))
	require.NoError(t, err)
	assert.Equal(t, "rest of data", string(req.Body))
}

func TestReadRequest_Chunked(t *testing.T) {
	data := []byte("POST / HTTP/1.1\r\nTransfer-Encoding: gzip, chunked\r\n\r\n5\r\nHello\r\n7\r\n, World\r\n0\r\n\r\n")

	req, err := ReadRequest(data)
	require.NoError(t, err)

	assert.Equal(t, "Hello, World", string(req.Body))
	assert.Equal(t, []Field{
		{Name: "Transfer-Encoding", Value: "gzip"},
		{Name: "Content-Length", Value: "12"},
	}, req.Fields)
}

func TestReadRequest_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
		line int
	}{
		{name: "empty", data: "", line: 1},
		{name: "two parts", data: "GET /\r\n\r\n", line: 2},
		{name: "bad protocol", data: "GET / FTP/1.0\r\n\r\n", line: 2},
		{name: "no colon", data: "GET / HTTP/1.1\r\nHost\r\n\r\n", line: 3},
		{name: "space before colon", data: "GET / HTTP/1.1\r\nHost : a\r\n\r\n", line: 3},
		{name: "truncated body", data: "GET / HTTP/1.1\r\nContent-Length: 10\r\n\r\nabc", line: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadRequest([]byte(tt.data))

			var syntaxErr *SyntaxError
			require.ErrorAs(t, err, &syntaxErr)
			assert.Equal(t, tt.line, syntaxErr.Line)
		})
	}
}

func TestReadResponse(t *testing.T) {
	tests := []struct {
		name   string
		data   string
		code   int
		reason string
		body   string
	}{
		{name: "with reason", data: "HTTP/1.1 404 Not Found\r\nContent-Length: 4\r\n\r\ngone", code: 404, reason: "Not Found", body: "gone"},
		{name: "multi word reason", data: "HTTP/1.0 200 All Good Here\r\n\r\n", code: 200, reason: "All Good Here"},
		{name: "no reason", data: "HTTP/2 204\r\n\r\n", code: 204},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := ReadResponse([]byte(tt.data))
			require.NoError(t, err)

			assert.Equal(t, tt.code, resp.Code)
			assert.Equal(t, tt.reason, resp.Reason)
			assert.Equal(t, tt.body, string(resp.Body))
		})
	}
}

func TestReadResponse_InvalidCode(t *testing.T) {
	_, err := ReadResponse([]byte("HTTP/1.1 OK\r\n\r\n"))
	assert.EqualError(t, err, `line 2: invalid status code "OK"`)
}

func TestDechunk(t *testing.T) {
	tests := []struct {
		name string
		data string
		want string
	}{
		{name: "single", data: "5\r\nHello\r\n0\r\n\r\n", want: "Hello"},
		{name: "upper hex", data: "A\r\n0123456789\r\n0\r\n\r\n", want: "0123456789"},
		{name: "extension", data: "5;name=val\r\nHello\r\n0\r\n\r\n", want: "Hello"},
		{name: "bare LF", data: "3\nabc\n0\n\n", want: "abc"},
		{name: "trailers", data: "3\r\nabc\r\n0\r\nX-Sum: 1\r\n\r\n", want: "abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, err := Dechunk([]byte(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(body))
		})
	}
}

func TestDechunk_Errors(t *testing.T) {
	for _, data := range []string{
		"",
		"5",
		"zz\r\nHello\r\n0\r\n\r\n",
		"5\r\nHel",
		"5\r\nHelloXX0\r\n\r\n",
	} {
		_, err := Dechunk([]byte(data))
		assert.Error(t, err, "Dechunk(%q)", data)
	}
}

func TestEncode(t *testing.T) {
	out := Encode(func(b []byte) []byte {
		return AppendStatusLine(b, "HTTP/1.1", 201, "Created")
	}, []Field{{Name: "Location", Value: "/items/1"}, {Name: "Content-Length", Value: "2"}}, []byte("ok"))

	assert.Equal(t, "HTTP/1.1 201 Created\r\nLocation: /items/1\r\nContent-Length: 2\r\n\r\nok", string(out))
}

func TestEncode_RequestRoundTrip(t *testing.T) {
	out := Encode(func(b []byte) []byte {
		return AppendRequestLine(b, "DELETE", "/items/1", "HTTP/1.1")
	}, []Field{{Name: "Host", Value: "example.com"}}, nil)

	req, err := ReadRequest(out)
	require.NoError(t, err)
	assert.Equal(t, "DELETE", req.Method)
	assert.Equal(t, "/items/1", req.Target)
	assert.Equal(t, []Field{{Name: "Host", Value: "example.com"}}, req.Fields)
}
