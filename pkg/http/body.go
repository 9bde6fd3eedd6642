package http

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strings"

	"github.com/shapestone/shape-httpmessage/internal/mediatype"
	"gopkg.in/yaml.v3"
)

// bodyFormat is the decoding strategy selected by a Content-Type.
type bodyFormat int

const (
	formatNone bodyFormat = iota
	formatForm
	formatJSON
	formatXML
	formatYAML
	formatUnsupported
)

func (f bodyFormat) String() string {
	switch f {
	case formatForm:
		return "form"
	case formatJSON:
		return "json"
	case formatXML:
		return "xml"
	case formatYAML:
		return "yaml"
	default:
		return "unknown"
	}
}

// classifyContentType maps a Content-Type header value to a decoding
// strategy. Parameters such as charset are ignored, even when they are
// malformed.
func classifyContentType(contentType string) (string, bodyFormat) {
	if contentType == "" {
		return "", formatNone
	}

	m, err := mediatype.Parse(contentType)
	if err != nil {
		essence := mediatype.Essence(contentType)
		return essence, formatOf(essence, essenceSuffix(essence))
	}
	essence := m.Essence()
	return essence, formatOf(essence, m.Suffix())
}

func formatOf(essence, suffix string) bodyFormat {
	switch {
	case essence == "application/x-www-form-urlencoded":
		return formatForm
	case essence == "application/json", suffix == "json":
		return formatJSON
	case essence == "text/xml", essence == "application/xml", suffix == "xml":
		return formatXML
	case essence == "application/yaml", essence == "application/x-yaml", essence == "text/yaml", suffix == "yaml":
		return formatYAML
	default:
		return formatUnsupported
	}
}

// essenceSuffix returns the structured syntax suffix of a "type/subtype"
// string.
func essenceSuffix(essence string) string {
	_, subtype, ok := strings.Cut(essence, "/")
	if !ok {
		return ""
	}
	if i := strings.LastIndexByte(subtype, '+'); i >= 0 {
		return subtype[i+1:]
	}
	return ""
}

// ParseWarning describes a body that could not be decoded. It is a
// diagnostic, not an error.
type ParseWarning struct {
	Format string // "json", "xml", "yaml" or "form"
	Err    error
}

// String returns a message like "Failed to parse json body: <cause>".
func (w *ParseWarning) String() string {
	return fmt.Sprintf("Failed to parse %s body: %v", w.Format, w.Err)
}

// ParsedBody is the result of decoding a request body.
//
// Value is nil when there is nothing to decode or when decoding failed, in
// which case Warning says why. A form keeps the pairs that did decode.
// Decoded values are map[string]any for forms, whatever encoding/json or
// yaml.v3 produce for JSON and YAML documents, and an ast.SchemaNode element
// tree for XML.
type ParsedBody struct {
	Value   any
	Warning *ParseWarning
}

// copy returns b with the maps and slices of its value copied.
func (b ParsedBody) copy() ParsedBody {
	b.Value = copyValue(b.Value)
	return b
}

// OK reports whether decoding produced no warning.
func (b ParsedBody) OK() bool {
	return b.Warning == nil
}

// decodeBody dispatches raw to the decoder for format. Only formats that can
// be decoded reach this point.
func decodeBody(format bodyFormat, raw string) ParsedBody {
	var (
		v   any
		err error
	)
	switch format {
	case formatForm:
		v, err = parseFormBody(raw)
	case formatJSON:
		v, err = parseJSONBody(raw)
	case formatXML:
		v, err = parseXMLBody(raw)
	case formatYAML:
		v, err = parseYAMLBody(raw)
	}
	if err != nil {
		return ParsedBody{Value: v, Warning: &ParseWarning{Format: format.String(), Err: err}}
	}
	return ParsedBody{Value: v}
}

// parseFormBody decodes a url-encoded form into a flat map. A later key
// overwrites an earlier one. Pairs that fail to decode are skipped and
// reported, the rest are kept.
func parseFormBody(raw string) (map[string]any, error) {
	values, err := url.ParseQuery(raw)
	form := make(map[string]any, len(values))
	for k, vs := range values {
		form[k] = vs[len(vs)-1]
	}
	return form, err
}

func parseJSONBody(raw string) (any, error) {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

func parseYAMLBody(raw string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}
