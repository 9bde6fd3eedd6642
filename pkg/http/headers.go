package http

import (
	"iter"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/net/http/httpguts"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var headerNamePattern = regexp.MustCompile(`^[a-zA-Z][a-zA-Z0-9]*(-[a-zA-Z0-9]+)*$`)

// Header is a single header name with its ordered values.
type Header struct {
	Name   string
	Values []string
}

type headerEntry struct {
	name   string   // casing used when the header was first set
	values []string // never mutated after construction
}

// Headers is an immutable, case-insensitive collection of HTTP headers.
//
// Lookups ignore case. Names are stored in Header-Case ("foo-zoo" becomes
// "Foo-Zoo") and keep the casing they were first stored under. Every With*
// method returns a new collection; unchanged value slices are shared between
// the old and the new collection since neither ever modifies them.
type Headers struct {
	keys    []string // lowercase names in insertion order
	entries map[string]headerEntry
}

// NewHeaders creates a collection from the given fields. Fields sharing a
// name (in any casing) are merged in order.
func NewHeaders(fields ...Header) (*Headers, error) {
	h := &Headers{entries: make(map[string]headerEntry, len(fields))}
	for _, f := range fields {
		if err := assertHeader(f.Name, f.Values); err != nil {
			return nil, err
		}
		h.add(f.Name, f.Values)
	}
	return h, nil
}

// emptyHeaders returns a collection without any header.
func emptyHeaders() *Headers {
	return &Headers{entries: map[string]headerEntry{}}
}

// All iterates over the headers in insertion order, yielding the stored name
// and a copy of its values.
func (h *Headers) All() iter.Seq2[string, []string] {
	return func(yield func(string, []string) bool) {
		for _, k := range h.keys {
			e := h.entries[k]
			if !yield(e.name, slices.Clone(e.values)) {
				return
			}
		}
	}
}

// Map returns the headers as a map of stored name to values.
func (h *Headers) Map() map[string][]string {
	m := make(map[string][]string, len(h.keys))
	for name, values := range h.All() {
		m[name] = values
	}
	return m
}

// Names returns the stored header names in insertion order.
func (h *Headers) Names() []string {
	names := make([]string, len(h.keys))
	for i, k := range h.keys {
		names[i] = h.entries[k].name
	}
	return names
}

// Len returns the number of distinct headers.
func (h *Headers) Len() int {
	return len(h.keys)
}

// Has reports whether a header with the given name exists (case-insensitive).
func (h *Headers) Has(name string) bool {
	_, ok := h.entries[strings.ToLower(name)]
	return ok
}

// Get returns the values of the named header, or an empty slice if absent.
func (h *Headers) Get(name string) []string {
	e, ok := h.entries[strings.ToLower(name)]
	if !ok {
		return []string{}
	}
	return slices.Clone(e.values)
}

// Line returns the values of the named header joined with a comma.
// Returns empty string if not found.
func (h *Headers) Line(name string) string {
	e, ok := h.entries[strings.ToLower(name)]
	if !ok {
		return ""
	}
	return strings.Join(e.values, ",")
}

// ContentLength returns the Content-Length header value, or -1 if absent or invalid.
func (h *Headers) ContentLength() int64 {
	v := h.Line("Content-Length")
	if v == "" {
		return -1
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return -1
	}
	return n
}

// WithHeader returns a collection where the named header's values, in any
// casing, are replaced by values.
func (h *Headers) WithHeader(name string, values ...string) (*Headers, error) {
	if err := assertHeader(name, values); err != nil {
		return nil, err
	}
	clone := h.clone()
	key := strings.ToLower(name)
	if e, ok := clone.entries[key]; ok {
		clone.entries[key] = headerEntry{name: e.name, values: slices.Clone(values)}
		return clone, nil
	}
	clone.add(name, values)
	return clone, nil
}

// WithAddedHeader returns a collection where values are appended to the
// named header, creating it if absent.
func (h *Headers) WithAddedHeader(name string, values ...string) (*Headers, error) {
	if err := assertHeader(name, values); err != nil {
		return nil, err
	}
	clone := h.clone()
	clone.add(name, values)
	return clone, nil
}

// WithoutHeader returns a collection without the named header. When the
// header is absent the receiver itself is returned, so callers may compare
// pointers to detect a change.
func (h *Headers) WithoutHeader(name string) *Headers {
	key := strings.ToLower(name)
	if _, ok := h.entries[key]; !ok {
		return h
	}
	clone := h.clone()
	delete(clone.entries, key)
	clone.keys = slices.DeleteFunc(clone.keys, func(k string) bool { return k == key })
	return clone
}

func (h *Headers) clone() *Headers {
	entries := make(map[string]headerEntry, len(h.entries)+1)
	for k, e := range h.entries {
		entries[k] = e
	}
	return &Headers{keys: slices.Clone(h.keys), entries: entries}
}

// add appends values without validation. Only for use on a collection that
// is still under construction.
func (h *Headers) add(name string, values []string) {
	key := strings.ToLower(name)
	e, ok := h.entries[key]
	if !ok {
		h.keys = append(h.keys, key)
		h.entries[key] = headerEntry{name: headerCase(name), values: slices.Clone(values)}
		return
	}
	merged := make([]string, 0, len(e.values)+len(values))
	merged = append(append(merged, e.values...), values...)
	h.entries[key] = headerEntry{name: e.name, values: merged}
}

// headerCase converts "foo-zoo" and "FOO-ZOO" to "Foo-Zoo".
func headerCase(name string) string {
	segments := strings.Split(name, "-")
	caser := cases.Title(language.Und)
	for i, s := range segments {
		segments[i] = caser.String(s)
	}
	return strings.Join(segments, "-")
}

func validHeaderName(name string) bool {
	return headerNamePattern.MatchString(name)
}

func validHeaderValues(values []string) bool {
	if len(values) == 0 {
		return false
	}
	for _, v := range values {
		if !httpguts.ValidHeaderFieldValue(v) {
			return false
		}
	}
	return true
}

func assertHeader(name string, values []string) error {
	if !validHeaderName(name) {
		return argumentErrorf(ErrInvalidHeaderName, "invalid header name %q", name)
	}
	if !validHeaderValues(values) {
		return argumentErrorf(ErrInvalidHeaderValue, "header value for %q should be one or more strings without control characters", name)
	}
	return nil
}
