package http

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaders_RoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		lookup []string
	}{
		{name: "Content-Type", values: []string{"text/plain"}, lookup: []string{"content-type", "CONTENT-TYPE", "Content-type"}},
		{name: "x-foo", values: []string{"a", "b"}, lookup: []string{"X-Foo", "x-FOO"}},
		{name: "Q", values: []string{""}, lookup: []string{"q"}},
		{name: "X-Api-Key2", values: []string{"abc123"}, lookup: []string{"x-api-key2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := emptyHeaders().WithHeader(tt.name, tt.values...)
			require.NoError(t, err)

			for _, name := range append(tt.lookup, tt.name) {
				assert.True(t, h.Has(name), "Has(%q)", name)
				assert.Equal(t, tt.values, h.Get(name), "Get(%q)", name)
			}
		})
	}
}

func TestHeaders_CasePreservation(t *testing.T) {
	h, err := emptyHeaders().WithHeader("foo-zoo", "x")
	require.NoError(t, err)

	h, err = h.WithHeader("FOO-ZOO", "y")
	require.NoError(t, err)
	h, err = h.WithAddedHeader("foo-Zoo", "z")
	require.NoError(t, err)

	assert.Equal(t, map[string][]string{"Foo-Zoo": {"y", "z"}}, h.Map())
	assert.Equal(t, []string{"Foo-Zoo"}, h.Names())
}

func TestHeaders_WithoutHeader(t *testing.T) {
	h, err := NewHeaders(Header{Name: "Foo", Values: []string{"1"}}, Header{Name: "Bar", Values: []string{"2"}})
	require.NoError(t, err)

	t.Run("absent returns receiver", func(t *testing.T) {
		assert.Same(t, h, h.WithoutHeader("Qux"))
	})

	t.Run("present returns new collection", func(t *testing.T) {
		without := h.WithoutHeader("FOO")
		assert.NotSame(t, h, without)
		assert.False(t, without.Has("Foo"))
		assert.True(t, h.Has("Foo"))
		assert.Equal(t, []string{"Bar"}, without.Names())
	})
}

func TestHeaders_Merge(t *testing.T) {
	h, err := emptyHeaders().WithHeader("Q", "a")
	require.NoError(t, err)
	h, err = h.WithAddedHeader("Q", "b")
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, h.Get("Q"))
	assert.Equal(t, "a,b", h.Line("q"))
}

func TestHeaders_WithAddedHeaderCreates(t *testing.T) {
	h, err := emptyHeaders().WithAddedHeader("Accept", "text/html", "application/json")
	require.NoError(t, err)

	assert.Equal(t, []string{"text/html", "application/json"}, h.Get("accept"))
}

func TestHeaders_Immutable(t *testing.T) {
	orig, err := NewHeaders(Header{Name: "Foo", Values: []string{"1"}})
	require.NoError(t, err)

	replaced, err := orig.WithHeader("Foo", "2")
	require.NoError(t, err)
	added, err := orig.WithAddedHeader("Foo", "3")
	require.NoError(t, err)
	_, err = orig.WithHeader("Bar", "4")
	require.NoError(t, err)

	assert.Equal(t, []string{"1"}, orig.Get("Foo"))
	assert.False(t, orig.Has("Bar"))
	assert.Equal(t, []string{"2"}, replaced.Get("Foo"))
	assert.Equal(t, []string{"1", "3"}, added.Get("Foo"))

	values := orig.Get("Foo")
	values[0] = "changed"
	assert.Equal(t, []string{"1"}, orig.Get("Foo"))
}

func TestHeaders_Absent(t *testing.T) {
	h := emptyHeaders()

	assert.False(t, h.Has("Foo"))
	assert.Equal(t, []string{}, h.Get("Foo"))
	assert.Equal(t, "", h.Line("Foo"))
	assert.Equal(t, int64(-1), h.ContentLength())
}

func TestHeaders_InvalidName(t *testing.T) {
	for _, name := range []string{"", "1abc", "foo bar", "foo_bar", "foo-", "-foo", "foo:bar", "foo--bar"} {
		t.Run(name, func(t *testing.T) {
			_, err := emptyHeaders().WithHeader(name, "x")
			assert.ErrorIs(t, err, ErrInvalidHeaderName)
			assert.ErrorIs(t, err, ErrInvalidArgument)

			_, err = emptyHeaders().WithAddedHeader(name, "x")
			assert.ErrorIs(t, err, ErrInvalidHeaderName)
		})
	}
}

func TestHeaders_InvalidValue(t *testing.T) {
	tests := []struct {
		name   string
		values []string
	}{
		{name: "no values", values: nil},
		{name: "line feed", values: []string{"a\nb"}},
		{name: "carriage return", values: []string{"ok", "a\rb"}},
		{name: "nul", values: []string{"a\x00b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := emptyHeaders().WithHeader("X-Foo", tt.values...)
			assert.ErrorIs(t, err, ErrInvalidHeaderValue)
		})
	}
}

func TestHeaders_All(t *testing.T) {
	h, err := NewHeaders(
		Header{Name: "Host", Values: []string{"example.com"}},
		Header{Name: "accept", Values: []string{"a"}},
		Header{Name: "ACCEPT", Values: []string{"b"}},
		Header{Name: "X-Foo", Values: []string{"bar"}},
	)
	require.NoError(t, err)

	var names []string
	for name, values := range h.All() {
		names = append(names, name)
		if name == "Accept" {
			assert.Equal(t, []string{"a", "b"}, values)
		}
	}
	assert.Equal(t, []string{"Host", "Accept", "X-Foo"}, names)
	assert.Equal(t, 3, h.Len())
}

func TestHeaders_ContentLength(t *testing.T) {
	h, err := NewHeaders(Header{Name: "Content-Length", Values: []string{" 42 "}})
	require.NoError(t, err)
	assert.Equal(t, int64(42), h.ContentLength())

	h, err = h.WithHeader("Content-Length", "many")
	require.NoError(t, err)
	assert.Equal(t, int64(-1), h.ContentLength())
}

func TestNewHeaders_Invalid(t *testing.T) {
	_, err := NewHeaders(Header{Name: "Bad Name", Values: []string{"x"}})
	assert.ErrorIs(t, err, ErrInvalidHeaderName)
}
