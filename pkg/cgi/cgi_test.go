package cgi

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shapestone/shape-httpmessage/pkg/http"
)

func environ(kv ...string) func() []string {
	return func() []string { return kv }
}

func TestLoader_GET(t *testing.T) {
	l := &Loader{
		Environ: environ(
			"SERVER_PROTOCOL=HTTP/1.1",
			"REQUEST_METHOD=GET",
			"REQUEST_URI=/search?q=go&page=2",
			"QUERY_STRING=q=go&page=2",
			"HTTP_HOST=example.com",
			"HTTP_COOKIE=session=abc; theme=dark",
			"HTTPS=on",
			"PATH=/usr/bin",
			"MALFORMED",
		),
		Stdin: strings.NewReader("ignored"),
	}

	req, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, "GET", req.Method())
	assert.Equal(t, "1.1", req.ProtocolVersion())
	assert.Equal(t, "/search?q=go&page=2", req.RequestTarget())
	assert.Equal(t, "https://example.com/search?q=go&page=2", req.URI().String())
	assert.Equal(t, map[string]string{"q": "go", "page": "2"}, req.QueryParams())
	assert.Equal(t, map[string]string{"session": "abc", "theme": "dark"}, req.CookieParams())
	assert.Equal(t, "/usr/bin", req.ServerParams()["PATH"])
	assert.NotContains(t, req.ServerParams(), "MALFORMED")
	assert.Equal(t, "", req.Body().String())
	assert.Equal(t, "cgi://stdin", req.Body().Metadata("uri"))
}

func TestLoader_URLEncodedPost(t *testing.T) {
	body := "name=arnold&color=red&color=blue"
	l := &Loader{
		Environ: environ(
			"REQUEST_METHOD=POST",
			"CONTENT_TYPE=application/x-www-form-urlencoded",
			"CONTENT_LENGTH="+strconv.Itoa(len(body)),
		),
		Stdin: strings.NewReader(body),
	}

	req, err := l.Load()
	require.NoError(t, err)

	assert.Equal(t, body, req.Body().String())
	parsed, err := req.ParsedBody()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "arnold", "color": "blue"}, parsed.Value)
}

func TestLoader_JSONPost(t *testing.T) {
	body := `{"a":[1,2]}`
	l := &Loader{
		Environ: environ(
			"REQUEST_METHOD=POST",
			"CONTENT_TYPE=application/json",
			"CONTENT_LENGTH="+strconv.Itoa(len(body)),
		),
		Stdin: strings.NewReader(body + "trailing"),
	}

	req, err := l.Load()
	require.NoError(t, err)

	parsed, err := req.ParsedBody()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": []any{float64(1), float64(2)}}, parsed.Value)
}

func TestLoader_MultipartPost(t *testing.T) {
	body := strings.Join([]string{
		"--XyZ",
		`Content-Disposition: form-data; name="title"`,
		"",
		"Holiday",
		"--XyZ",
		`Content-Disposition: form-data; name="photos[beach]"; filename="beach.jpg"`,
		"Content-Type: image/jpeg",
		"",
		"JPEGDATA",
		"--XyZ",
		`Content-Disposition: form-data; name="photos[empty]"; filename=""`,
		"Content-Type: application/octet-stream",
		"",
		"",
		"--XyZ--",
		"",
	}, "\r\n")

	dir := t.TempDir()
	l := &Loader{
		Environ: environ(
			"REQUEST_METHOD=POST",
			"CONTENT_TYPE=multipart/form-data; boundary=XyZ",
			"CONTENT_LENGTH="+strconv.Itoa(len(body)),
		),
		Stdin:     strings.NewReader(body),
		UploadDir: dir,
	}

	req, err := l.Load()
	require.NoError(t, err)

	parsed, err := req.ParsedBody()
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"title": "Holiday"}, parsed.Value)

	photos, ok := req.UploadedFiles()["photos"].(http.UploadedFiles)
	require.True(t, ok)

	beach, ok := photos["beach"].(*http.UploadedFile)
	require.True(t, ok)
	assert.Equal(t, "photos[beach]", beach.Key())
	assert.Equal(t, "beach.jpg", beach.ClientFilename())
	assert.Equal(t, "image/jpeg", beach.ClientMediaType())
	assert.Equal(t, int64(8), beach.Size())
	assert.Equal(t, http.UploadErrOK, beach.Error())
	assert.Equal(t, dir, filepath.Dir(beach.TmpName()))

	rc, err := beach.Open()
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "JPEGDATA", string(data))

	empty, ok := photos["empty"].(*http.UploadedFile)
	require.True(t, ok)
	assert.Equal(t, http.UploadErrNoFile, empty.Error())

	require.NoError(t, l.Cleanup())
	_, err = os.Stat(beach.TmpName())
	assert.ErrorIs(t, err, os.ErrNotExist)
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoader_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "request.env")
	require.NoError(t, os.WriteFile(path, []byte("REQUEST_METHOD=PUT\nHTTP_X_TRACE=abc123\n"), 0o600))

	l := &Loader{
		Environ: environ("REQUEST_METHOD=DELETE"),
		EnvFile: path,
	}

	req, err := l.Load()
	require.NoError(t, err)
	assert.Equal(t, "DELETE", req.Method())
	assert.Equal(t, "abc123", req.HeaderLine("X-Trace"))
}

func TestLoader_Errors(t *testing.T) {
	tests := []struct {
		name   string
		loader *Loader
		msg    string
	}{
		{
			name:   "missing env file",
			loader: &Loader{Environ: environ(), EnvFile: filepath.Join(t.TempDir(), "missing.env")},
			msg:    "cgi: reading env file",
		},
		{
			name:   "invalid content length",
			loader: &Loader{Environ: environ("CONTENT_LENGTH=abc")},
			msg:    `cgi: invalid CONTENT_LENGTH "abc"`,
		},
		{
			name:   "body too large",
			loader: &Loader{Environ: environ("CONTENT_LENGTH=100"), MaxBody: 10},
			msg:    "cgi: body of 100 bytes exceeds limit of 10",
		},
		{
			name:   "short body",
			loader: &Loader{Environ: environ("CONTENT_LENGTH=10"), Stdin: strings.NewReader("abc")},
			msg:    "cgi: reading body",
		},
		{
			name: "multipart without boundary",
			loader: &Loader{
				Environ: environ("REQUEST_METHOD=POST", "CONTENT_TYPE=multipart/form-data", "CONTENT_LENGTH=2"),
				Stdin:   strings.NewReader("--"),
			},
			msg: "cgi: multipart body without boundary",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.loader.Load()
			assert.ErrorContains(t, err, tt.msg)
		})
	}
}
