package http

import (
	"testing"

	"github.com/shapestone/shape-core/pkg/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestToNode(t *testing.T) {
	req := NewServerRequestFromGlobals(Globals{
		Server: map[string]string{
			"SERVER_PROTOCOL": "HTTP/1.1",
			"REQUEST_METHOD":  "POST",
			"REQUEST_URI":     "/submit?x=1",
			"QUERY_STRING":    "x=1",
			"HTTP_HOST":       "example.com",
			"CONTENT_TYPE":    "application/json",
		},
		Query: map[string]string{"x": "1"},
		Body:  NewStringStream(`{"ok":true}`),
	})

	node := RequestToNode(req)
	obj, ok := node.(*ast.ObjectNode)
	require.True(t, ok)

	assert.Equal(t, map[string]any{
		"type":    "request",
		"version": "1.1",
		"method":  "POST",
		"target":  "/submit?x=1",
		"uri":     "http://example.com/submit?x=1",
		"headers": map[string]any{
			"Content-Type": []any{"application/json"},
			"Host":         []any{"example.com"},
		},
		"body":       `{"ok":true}`,
		"query":      map[string]any{"x": "1"},
		"parsedBody": map[string]any{"ok": true},
	}, NodeToInterface(obj))
}

func TestRequestToNode_SkipsUndecodableBody(t *testing.T) {
	req := NewServerRequest().WithBody(NewStringStream("raw"))

	props := RequestToNode(req).(*ast.ObjectNode).Properties()
	assert.NotContains(t, props, "parsedBody")
	assert.Equal(t, "raw", props["body"].(*ast.LiteralNode).Value())
}

func TestResponseToNode(t *testing.T) {
	resp, err := NewResponse().WithStatus(404, "")
	require.NoError(t, err)
	resp, err = resp.WithHeader("Content-Type", "text/plain")
	require.NoError(t, err)
	resp = resp.WithBody(NewStringStream("nope"))

	props := ResponseToNode(resp).(*ast.ObjectNode).Properties()
	assert.Equal(t, "response", props["type"].(*ast.LiteralNode).Value())
	assert.Equal(t, int64(404), props["statusCode"].(*ast.LiteralNode).Value())
	assert.Equal(t, "Not Found", props["reason"].(*ast.LiteralNode).Value())
	assert.Equal(t, "nope", props["body"].(*ast.LiteralNode).Value())
	assert.Equal(t, map[string]any{"Content-Type": []any{"text/plain"}}, NodeToInterface(props["headers"]))
}

func TestNodeToInterface_PassesThroughValues(t *testing.T) {
	assert.Equal(t, "plain", NodeToInterface("plain"))
	assert.Equal(t, map[string]any{"a": 1}, NodeToInterface(map[string]any{"a": 1}))
	assert.Nil(t, NodeToInterface(nil))
}
