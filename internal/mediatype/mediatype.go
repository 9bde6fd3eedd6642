package mediatype

import (
	"fmt"
	"strings"

	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// MediaType is a parsed Content-Type value.
type MediaType struct {
	Type    string            // lowercase, e.g. "application"
	Subtype string            // lowercase, e.g. "ld+json"
	Params  map[string]string // parameter names are lowercase
}

// Essence returns "type/subtype" without parameters.
func (m MediaType) Essence() string {
	return m.Type + "/" + m.Subtype
}

// Suffix returns the structured syntax suffix, "json" for
// "application/ld+json", or empty string if there is none.
func (m MediaType) Suffix() string {
	if i := strings.LastIndexByte(m.Subtype, '+'); i >= 0 {
		return m.Subtype[i+1:]
	}
	return ""
}

// Parse parses a Content-Type value like `text/xml; charset="utf-8"`.
func Parse(value string) (MediaType, error) {
	tok := NewTokenizer()
	tok.Initialize(value)

	tokens, eos := tok.Tokenize()
	if !eos {
		return MediaType{}, fmt.Errorf("mediatype: invalid character in %q", value)
	}

	p := &parser{tokens: significant(tokens)}
	return p.parse(value)
}

// Essence parses value and returns its lowercase "type/subtype". When value
// is malformed, everything before the first ';' is returned instead.
func Essence(value string) string {
	m, err := Parse(value)
	if err == nil {
		return m.Essence()
	}
	essence, _, _ := strings.Cut(value, ";")
	return strings.ToLower(strings.TrimSpace(essence))
}

type token struct {
	kind  string
	value string
}

// significant drops whitespace, which carries no meaning between the
// separators of a media type.
func significant(tokens []tokenizer.Token) []token {
	out := make([]token, 0, len(tokens))
	for _, t := range tokens {
		if t.Kind() == TokenOWS {
			continue
		}
		out = append(out, token{kind: t.Kind(), value: t.ValueString()})
	}
	return out
}

type parser struct {
	tokens []token
	pos    int
}

func (p *parser) next() (token, bool) {
	if p.pos >= len(p.tokens) {
		return token{}, false
	}
	t := p.tokens[p.pos]
	p.pos++
	return t, true
}

func (p *parser) expect(kind string) (string, bool) {
	t, ok := p.next()
	if !ok || t.kind != kind {
		return "", false
	}
	return t.value, true
}

func (p *parser) parse(value string) (MediaType, error) {
	typ, ok := p.expect(TokenText)
	if !ok {
		return MediaType{}, fmt.Errorf("mediatype: missing type in %q", value)
	}
	if _, ok := p.expect(TokenSlash); !ok {
		return MediaType{}, fmt.Errorf("mediatype: missing '/' in %q", value)
	}
	subtype, ok := p.expect(TokenText)
	if !ok {
		return MediaType{}, fmt.Errorf("mediatype: missing subtype in %q", value)
	}

	m := MediaType{
		Type:    strings.ToLower(typ),
		Subtype: strings.ToLower(subtype),
		Params:  map[string]string{},
	}

	for p.pos < len(p.tokens) {
		if _, ok := p.expect(TokenSemicolon); !ok {
			return MediaType{}, fmt.Errorf("mediatype: expected ';' in %q", value)
		}
		if p.pos >= len(p.tokens) {
			break // trailing ';'
		}
		name, ok := p.expect(TokenText)
		if !ok {
			return MediaType{}, fmt.Errorf("mediatype: invalid parameter name in %q", value)
		}
		if _, ok := p.expect(TokenEquals); !ok {
			return MediaType{}, fmt.Errorf("mediatype: missing '=' after %q", name)
		}
		v, ok := p.next()
		if !ok || (v.kind != TokenText && v.kind != TokenQuoted) {
			return MediaType{}, fmt.Errorf("mediatype: missing value for parameter %q", name)
		}
		m.Params[strings.ToLower(name)] = v.value
	}

	return m, nil
}
