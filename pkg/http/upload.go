package http

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// Upload error codes as reported by a gateway for each uploaded file.
const (
	UploadErrOK        = 0
	UploadErrIniSize   = 1
	UploadErrFormSize  = 2
	UploadErrPartial   = 3
	UploadErrNoFile    = 4
	UploadErrNoTmpDir  = 6
	UploadErrCantWrite = 7
	UploadErrExtension = 8
)

// FileInfo describes one uploaded file.
type FileInfo struct {
	Name    string // client file name
	Type    string // client media type
	Size    int64
	TmpName string // path of the stored upload
	Error   int    // one of the UploadErr* codes
}

// UploadedFile is an immutable uploaded file value.
type UploadedFile struct {
	info FileInfo
	key  string
}

// NewUploadedFile creates an uploaded file for the form field key, such as
// "avatar" or "colors[blue]".
func NewUploadedFile(info FileInfo, key string) *UploadedFile {
	return &UploadedFile{info: info, key: key}
}

// Key returns the form field path of the file.
func (f *UploadedFile) Key() string { return f.key }

// ClientFilename returns the file name sent by the client.
func (f *UploadedFile) ClientFilename() string { return f.info.Name }

// ClientMediaType returns the media type sent by the client.
func (f *UploadedFile) ClientMediaType() string { return f.info.Type }

// Size returns the file size in bytes.
func (f *UploadedFile) Size() int64 { return f.info.Size }

// Error returns the upload error code.
func (f *UploadedFile) Error() int { return f.info.Error }

// TmpName returns where the upload is stored.
func (f *UploadedFile) TmpName() string { return f.info.TmpName }

// Equal reports whether f and other describe the same upload.
func (f *UploadedFile) Equal(other *UploadedFile) bool {
	if f == nil || other == nil {
		return f == other
	}
	return f.info == other.info && f.key == other.key
}

// Open opens the stored upload for reading.
func (f *UploadedFile) Open() (io.ReadCloser, error) {
	if f.info.Error != UploadErrOK {
		return nil, fmt.Errorf("http: upload %q failed with error code %d", f.key, f.info.Error)
	}
	return os.Open(f.info.TmpName)
}

// UploadedFiles is a tree of uploaded files mirroring nested form field
// names. Each value is a *UploadedFile or a nested UploadedFiles.
type UploadedFiles map[string]any

// Walk calls fn for every file in the tree, in no particular order.
func (files UploadedFiles) Walk(fn func(*UploadedFile)) {
	for _, v := range files {
		switch x := v.(type) {
		case *UploadedFile:
			fn(x)
		case UploadedFiles:
			x.Walk(fn)
		}
	}
}

func assertUploadedFiles(files map[string]any, prefix string) error {
	for k, v := range files {
		key := k
		if prefix != "" {
			key = prefix + "[" + k + "]"
		}
		switch x := v.(type) {
		case *UploadedFile:
		case UploadedFiles:
			if err := assertUploadedFiles(x, key); err != nil {
				return err
			}
		case map[string]any:
			if err := assertUploadedFiles(x, key); err != nil {
				return err
			}
		default:
			return argumentErrorf(ErrInvalidUploadedFilesStructure, "'%s' is not an uploaded file, but a %T", key, v)
		}
	}
	return nil
}

// normalizeUploadedFiles copies a tree, converting map[string]any branches
// to UploadedFiles. Leaves are shared.
func normalizeUploadedFiles(files map[string]any) UploadedFiles {
	out := make(UploadedFiles, len(files))
	for k, v := range files {
		switch x := v.(type) {
		case UploadedFiles:
			out[k] = normalizeUploadedFiles(x)
		case map[string]any:
			out[k] = normalizeUploadedFiles(x)
		default:
			out[k] = v
		}
	}
	return out
}

var fileAttributes = [...]string{"name", "type", "size", "tmp_name", "error"}

// RawFiles holds uploaded file descriptors in gateway form: for each top
// level field a descriptor with the keys name, type, size, tmp_name and
// error. For nested fields ("colors[blue]") every descriptor key holds a
// parallel tree keyed by the nested names.
type RawFiles map[string]map[string]any

// Add stores info under the form field name, which may use brackets for
// nesting.
func (raw RawFiles) Add(field string, info FileInfo) {
	root, path := splitFieldPath(field)
	desc, ok := raw[root]
	if !ok {
		desc = make(map[string]any, len(fileAttributes))
		raw[root] = desc
	}
	values := map[string]any{
		"name":     info.Name,
		"type":     info.Type,
		"size":     info.Size,
		"tmp_name": info.TmpName,
		"error":    info.Error,
	}
	for _, attr := range fileAttributes {
		if len(path) == 0 {
			desc[attr] = values[attr]
			continue
		}
		branch, ok := desc[attr].(map[string]any)
		if !ok {
			branch = make(map[string]any)
			desc[attr] = branch
		}
		setPath(branch, path, values[attr])
	}
}

func setPath(m map[string]any, path []string, v any) {
	for _, p := range path[:len(path)-1] {
		next, ok := m[p].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[p] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

// splitFieldPath splits "colors[blue][x]" into "colors" and [blue x].
func splitFieldPath(field string) (string, []string) {
	open := strings.IndexByte(field, '[')
	if open <= 0 {
		return field, nil
	}
	root := field[:open]
	var path []string
	rest := field[open:]
	for strings.HasPrefix(rest, "[") {
		end := strings.IndexByte(rest, ']')
		if end < 0 {
			break
		}
		path = append(path, rest[1:end])
		rest = rest[end+1:]
	}
	return root, path
}

// groupUploadedFiles turns gateway descriptors into an uploaded-file tree.
func groupUploadedFiles(raw RawFiles) UploadedFiles {
	files := make(UploadedFiles, len(raw))
	for field, desc := range raw {
		files[field] = groupDescriptor(desc, field)
	}
	return files
}

func groupDescriptor(desc map[string]any, key string) any {
	names, ok := desc["name"].(map[string]any)
	if !ok {
		return NewUploadedFile(fileInfoFrom(desc), key)
	}
	group := make(UploadedFiles, len(names))
	for sub := range names {
		child := make(map[string]any, len(fileAttributes))
		for _, attr := range fileAttributes {
			if branch, ok := desc[attr].(map[string]any); ok {
				child[attr] = branch[sub]
			}
		}
		group[sub] = groupDescriptor(child, key+"["+sub+"]")
	}
	return group
}

func fileInfoFrom(desc map[string]any) FileInfo {
	return FileInfo{
		Name:    toString(desc["name"]),
		Type:    toString(desc["type"]),
		Size:    toInt64(desc["size"]),
		TmpName: toString(desc["tmp_name"]),
		Error:   int(toInt64(desc["error"])),
	}
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		return fmt.Sprint(x)
	}
}

func toInt64(v any) int64 {
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n
	default:
		return 0
	}
}
