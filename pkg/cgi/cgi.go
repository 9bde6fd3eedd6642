// Package cgi builds a server request from a CGI/1.1 gateway environment:
// meta-variables from the process environment and CONTENT_LENGTH bytes of
// body from stdin.
package cgi

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/shapestone/shape-httpmessage/internal/mediatype"
	"github.com/shapestone/shape-httpmessage/pkg/http"
)

// DefaultMaxBody limits the request body when no limit is configured.
const DefaultMaxBody = 10 << 20

// Loader collects the request a CGI gateway hands to a script.
type Loader struct {
	// Environ returns the process environment as "key=value" pairs.
	// Defaults to os.Environ.
	Environ func() []string

	// Stdin is where the body is read from. Defaults to os.Stdin.
	Stdin io.Reader

	// EnvFile names an optional dotenv file. Its values are used for
	// variables missing from the environment.
	EnvFile string

	// MaxBody is the largest CONTENT_LENGTH accepted. Zero means
	// DefaultMaxBody.
	MaxBody int64

	// UploadDir is where uploaded files are stored. Defaults to
	// os.TempDir.
	UploadDir string

	Logger *zap.Logger

	uploads []string
}

// Load reads the environment and the body and returns the request.
//
// For a url-encoded or multipart POST the form fields become the POST data
// returned by ParsedBody, and multipart files are stored in UploadDir and
// exposed as uploaded files. Call Cleanup to remove them.
func (l *Loader) Load() (*http.ServerRequest, error) {
	logger := l.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	params, err := l.serverParams()
	if err != nil {
		return nil, err
	}

	body, err := l.readBody(params)
	if err != nil {
		return nil, err
	}

	globals := http.Globals{
		Server:  params,
		Cookies: http.ParseCookieHeader(params["HTTP_COOKIE"]),
		Query:   http.ParseQueryString(params[http.ParamQueryString]),
		Body:    http.NewStream("cgi://stdin", bytes.NewReader(body)),
	}

	if strings.EqualFold(params[http.ParamRequestMethod], "POST") {
		globals.Post, globals.Files, err = l.readForm(params[http.ParamContentType], body)
		if err != nil {
			return nil, err
		}
	}

	logger.Debug("loaded cgi request",
		zap.String("method", params[http.ParamRequestMethod]),
		zap.String("request_uri", params[http.ParamRequestURI]),
		zap.Int("body_size", len(body)),
		zap.Int("uploads", len(l.uploads)))

	return http.NewServerRequestFromGlobals(globals).WithLogger(logger), nil
}

// Cleanup removes the uploaded files stored by Load.
func (l *Loader) Cleanup() error {
	var errs []error
	for _, name := range l.uploads {
		if err := os.Remove(name); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	l.uploads = nil
	return errors.Join(errs...)
}

func (l *Loader) serverParams() (map[string]string, error) {
	environ := l.Environ
	if environ == nil {
		environ = os.Environ
	}

	params := make(map[string]string)
	for _, kv := range environ() {
		if k, v, ok := strings.Cut(kv, "="); ok && k != "" {
			params[k] = v
		}
	}

	if l.EnvFile == "" {
		return params, nil
	}
	defaults, err := godotenv.Read(l.EnvFile)
	if err != nil {
		return nil, fmt.Errorf("cgi: reading env file: %w", err)
	}
	for k, v := range defaults {
		if _, ok := params[k]; !ok {
			params[k] = v
		}
	}
	return params, nil
}

// readBody reads CONTENT_LENGTH bytes from stdin. Without CONTENT_LENGTH
// there is no body.
func (l *Loader) readBody(params map[string]string) ([]byte, error) {
	v := strings.TrimSpace(params[http.ParamContentLength])
	if v == "" {
		return nil, nil
	}

	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n < 0 {
		return nil, fmt.Errorf("cgi: invalid CONTENT_LENGTH %q", v)
	}
	limit := l.MaxBody
	if limit <= 0 {
		limit = DefaultMaxBody
	}
	if n > limit {
		return nil, fmt.Errorf("cgi: body of %d bytes exceeds limit of %d", n, limit)
	}

	stdin := l.Stdin
	if stdin == nil {
		stdin = os.Stdin
	}
	body := make([]byte, n)
	if _, err := io.ReadFull(stdin, body); err != nil {
		return nil, fmt.Errorf("cgi: reading body: %w", err)
	}
	return body, nil
}

// readForm decodes a url-encoded or multipart body. Other content types
// carry no form data.
func (l *Loader) readForm(contentType string, body []byte) (map[string]any, http.RawFiles, error) {
	m, err := mediatype.Parse(contentType)
	if err != nil {
		return nil, nil, nil
	}

	switch m.Essence() {
	case "application/x-www-form-urlencoded":
		post := make(map[string]any)
		for k, v := range http.ParseQueryString(string(body)) {
			post[k] = v
		}
		return post, nil, nil
	case "multipart/form-data":
		return l.readMultipart(body, m.Params["boundary"])
	default:
		return nil, nil, nil
	}
}

func (l *Loader) readMultipart(body []byte, boundary string) (map[string]any, http.RawFiles, error) {
	if boundary == "" {
		return nil, nil, errors.New("cgi: multipart body without boundary")
	}

	post := make(map[string]any)
	files := http.RawFiles{}
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			return post, files, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("cgi: reading multipart body: %w", err)
		}

		name := part.FormName()
		if name == "" {
			continue
		}
		if part.FileName() == "" && part.Header.Get("Content-Type") == "" {
			value, err := io.ReadAll(part)
			if err != nil {
				return nil, nil, fmt.Errorf("cgi: reading field %q: %w", name, err)
			}
			post[name] = string(value)
			continue
		}

		files.Add(name, l.storeUpload(part))
	}
}

// storeUpload writes a file part to UploadDir. A part without a file name
// and content is reported as UploadErrNoFile.
func (l *Loader) storeUpload(part *multipart.Part) http.FileInfo {
	info := http.FileInfo{
		Name: part.FileName(),
		Type: part.Header.Get("Content-Type"),
	}

	f, err := os.CreateTemp(l.UploadDir, "httpmsg-upload-")
	if err != nil {
		info.Error = http.UploadErrNoTmpDir
		return info
	}
	l.uploads = append(l.uploads, f.Name())

	info.Size, err = io.Copy(f, part)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		info.Error = http.UploadErrCantWrite
		return info
	}

	if info.Name == "" && info.Size == 0 {
		info.Error = http.UploadErrNoFile
		return info
	}
	info.TmpName = f.Name()
	return info
}
