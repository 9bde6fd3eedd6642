package http

import (
	"bytes"
	"encoding/xml"
	"errors"
	"io"
	"strings"

	"github.com/shapestone/shape-core/pkg/ast"
)

var errNoRootElement = errors.New("no root element")

// xmlElement is an element under construction.
type xmlElement struct {
	name     string
	attrs    map[string]ast.SchemaNode
	children []ast.SchemaNode
	text     strings.Builder
}

func (e *xmlElement) node() ast.SchemaNode {
	return ast.NewObjectNode(map[string]ast.SchemaNode{
		"name":       ast.NewLiteralNode(e.name, zeroPos),
		"attributes": ast.NewObjectNode(e.attrs, zeroPos),
		"children":   ast.NewArrayDataNode(e.children, zeroPos),
		"text":       ast.NewLiteralNode(strings.TrimSpace(e.text.String()), zeroPos),
	}, zeroPos)
}

// parseXMLBody decodes an XML document into an element tree. Every element
// is an ObjectNode:
//
//	{ "name": "foo", "attributes": {"id": "1"},
//	  "children": [ ...elements... ], "text": "bar" }
func parseXMLBody(raw string) (ast.SchemaNode, error) {
	dec := xml.NewDecoder(strings.NewReader(raw))
	dec.Strict = true

	var (
		stack []*xmlElement
		root  ast.SchemaNode
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if root != nil {
				return nil, errors.New("content after root element")
			}
			el := &xmlElement{name: t.Name.Local, attrs: make(map[string]ast.SchemaNode, len(t.Attr))}
			for _, a := range t.Attr {
				el.attrs[a.Name.Local] = ast.NewLiteralNode(a.Value, zeroPos)
			}
			stack = append(stack, el)
		case xml.EndElement:
			el := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			if len(stack) == 0 {
				root = el.node()
			} else {
				parent := stack[len(stack)-1]
				parent.children = append(parent.children, el.node())
			}
		case xml.CharData:
			if len(stack) == 0 {
				if len(bytes.TrimSpace(t)) > 0 {
					return nil, errors.New("text outside root element")
				}
				continue
			}
			stack[len(stack)-1].text.Write(t)
		}
	}

	if root == nil {
		return nil, errNoRootElement
	}
	return root, nil
}
