package http

import (
	"bytes"
	"io"
	"net/url"
)

// Stream is the body of a message.
//
// Two messages may share one Stream; reading from one moves the position
// the other sees.
type Stream interface {
	io.Reader
	io.Seeker

	// String rewinds the stream and returns its full contents.
	String() string

	// Size returns the size in bytes, or -1 if unknown.
	Size() int64

	// Metadata returns the metadata value for key ("uri", "mode",
	// "seekable"), or nil if unknown.
	Metadata(key string) any
}

// bufferStream buffers its source on first use so it can be rewound and read
// repeatedly.
type bufferStream struct {
	uri string
	src io.Reader
	r   *bytes.Reader
	err error
}

// NewStream wraps r as a Stream identified by uri. r is read to the end the
// first time the stream is used.
func NewStream(uri string, r io.Reader) Stream {
	return &bufferStream{uri: uri, src: r}
}

// NewStringStream returns a stream holding s.
func NewStringStream(s string) Stream {
	return &bufferStream{
		uri: "data://text/plain," + url.PathEscape(s),
		r:   bytes.NewReader([]byte(s)),
	}
}

func (s *bufferStream) load() {
	if s.r != nil {
		return
	}
	var data []byte
	if s.src != nil {
		data, s.err = io.ReadAll(s.src)
		s.src = nil
	}
	s.r = bytes.NewReader(data)
}

// Read implements io.Reader.
func (s *bufferStream) Read(p []byte) (int, error) {
	s.load()
	if s.err != nil {
		return 0, s.err
	}
	return s.r.Read(p)
}

// Seek implements io.Seeker.
func (s *bufferStream) Seek(offset int64, whence int) (int64, error) {
	s.load()
	return s.r.Seek(offset, whence)
}

// String implements Stream.
func (s *bufferStream) String() string {
	s.load()
	if _, err := s.r.Seek(0, io.SeekStart); err != nil {
		return ""
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(s.r); err != nil {
		return ""
	}
	return buf.String()
}

// Size implements Stream.
func (s *bufferStream) Size() int64 {
	s.load()
	return s.r.Size()
}

// Metadata implements Stream.
func (s *bufferStream) Metadata(key string) any {
	switch key {
	case "uri":
		return s.uri
	case "mode":
		return "rb"
	case "seekable":
		return true
	default:
		return nil
	}
}
