package http

import (
	"fmt"

	"github.com/shapestone/shape-core/pkg/ast"
)

var zeroPos = ast.Position{}

// RequestToNode converts a request to an AST ObjectNode with the properties
// type, version, method, target, uri, headers, body and, when the body
// decodes without error, parsedBody.
func RequestToNode(req *ServerRequest) ast.SchemaNode {
	props := map[string]ast.SchemaNode{
		"type":    ast.NewLiteralNode("request", zeroPos),
		"version": ast.NewLiteralNode(req.ProtocolVersion(), zeroPos),
		"method":  ast.NewLiteralNode(req.Method(), zeroPos),
		"target":  ast.NewLiteralNode(req.RequestTarget(), zeroPos),
		"uri":     ast.NewLiteralNode(req.URI().String(), zeroPos),
		"headers": headersToNode(req.Headers()),
		"body":    ast.NewLiteralNode(req.Body().String(), zeroPos),
	}
	if len(req.cookieParams) > 0 {
		props["cookies"] = valueToNode(req.cookieParams)
	}
	if len(req.queryParams) > 0 {
		props["query"] = valueToNode(req.queryParams)
	}
	if parsed, err := req.ParsedBody(); err == nil && parsed.Value != nil {
		props["parsedBody"] = valueToNode(parsed.Value)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// ResponseToNode converts a response to an AST ObjectNode.
func ResponseToNode(resp *Response) ast.SchemaNode {
	return ast.NewObjectNode(map[string]ast.SchemaNode{
		"type":       ast.NewLiteralNode("response", zeroPos),
		"version":    ast.NewLiteralNode(resp.ProtocolVersion(), zeroPos),
		"statusCode": ast.NewLiteralNode(int64(resp.StatusCode()), zeroPos),
		"reason":     ast.NewLiteralNode(resp.ReasonPhrase(), zeroPos),
		"headers":    headersToNode(resp.Headers()),
		"body":       ast.NewLiteralNode(resp.Body().String(), zeroPos),
	}, zeroPos)
}

// NodeToInterface converts an AST node to native Go types. Values that are
// not AST nodes are returned as they are.
func NodeToInterface(v any) any {
	switch n := v.(type) {
	case *ast.LiteralNode:
		return n.Value()
	case *ast.ArrayDataNode:
		elements := n.Elements()
		arr := make([]any, len(elements))
		for i, elem := range elements {
			arr[i] = NodeToInterface(elem)
		}
		return arr
	case *ast.ObjectNode:
		props := n.Properties()
		m := make(map[string]any, len(props))
		for k, p := range props {
			m[k] = NodeToInterface(p)
		}
		return m
	default:
		return v
	}
}

// headersToNode maps each header name to its list of values.
func headersToNode(h *Headers) ast.SchemaNode {
	props := make(map[string]ast.SchemaNode, h.Len())
	for name, values := range h.All() {
		elements := make([]ast.SchemaNode, len(values))
		for i, v := range values {
			elements[i] = ast.NewLiteralNode(v, zeroPos)
		}
		props[name] = ast.NewArrayDataNode(elements, zeroPos)
	}
	return ast.NewObjectNode(props, zeroPos)
}

// valueToNode converts decoded body values to AST nodes.
func valueToNode(v any) ast.SchemaNode {
	switch x := v.(type) {
	case ast.SchemaNode:
		return x
	case map[string]any:
		props := make(map[string]ast.SchemaNode, len(x))
		for k, e := range x {
			props[k] = valueToNode(e)
		}
		return ast.NewObjectNode(props, zeroPos)
	case map[any]any:
		props := make(map[string]ast.SchemaNode, len(x))
		for k, e := range x {
			props[fmt.Sprint(k)] = valueToNode(e)
		}
		return ast.NewObjectNode(props, zeroPos)
	case map[string]string:
		props := make(map[string]ast.SchemaNode, len(x))
		for k, e := range x {
			props[k] = ast.NewLiteralNode(e, zeroPos)
		}
		return ast.NewObjectNode(props, zeroPos)
	case []any:
		elements := make([]ast.SchemaNode, len(x))
		for i, e := range x {
			elements[i] = valueToNode(e)
		}
		return ast.NewArrayDataNode(elements, zeroPos)
	case int:
		return ast.NewLiteralNode(int64(x), zeroPos)
	case nil, string, bool, int64, float64:
		return ast.NewLiteralNode(x, zeroPos)
	default:
		return ast.NewLiteralNode(fmt.Sprint(x), zeroPos)
	}
}
