package mediatype

import (
	"github.com/shapestone/shape-core/pkg/tokenizer"
)

// NewTokenizer creates a tokenizer for media type values such as
// `application/json; charset="utf-8"`.
//
// Whitespace is only allowed around separators, so it is emitted as an OWS
// token instead of being skipped.
func NewTokenizer() tokenizer.Tokenizer {
	return tokenizer.NewTokenizerWithoutWhitespace(
		OWSMatcher(),
		tokenizer.StringMatcherFunc(TokenSlash, "/"),
		tokenizer.StringMatcherFunc(TokenSemicolon, ";"),
		tokenizer.StringMatcherFunc(TokenEquals, "="),
		QuotedMatcher(),
		TextMatcher(),
	)
}

// OWSMatcher matches a run of spaces and horizontal tabs.
func OWSMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || (r != ' ' && r != '\t') {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenOWS, value)
	}
}

// QuotedMatcher matches a quoted-string and yields its unescaped content.
// An unterminated string runs to the end of input.
func QuotedMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		r, ok := stream.PeekChar()
		if !ok || r != '"' {
			return nil
		}
		stream.NextChar()

		value := []rune{}
		for {
			r, ok := stream.PeekChar()
			if !ok {
				break
			}
			stream.NextChar()
			if r == '"' {
				break
			}
			if r == '\\' {
				if next, ok := stream.PeekChar(); ok {
					stream.NextChar()
					r = next
				}
			}
			value = append(value, r)
		}
		return tokenizer.NewToken(TokenQuoted, value)
	}
}

// TextMatcher matches a run of RFC 9110 token characters.
func TextMatcher() tokenizer.Matcher {
	return func(stream tokenizer.Stream) *tokenizer.Token {
		var value []rune
		for {
			r, ok := stream.PeekChar()
			if !ok || !isTokenChar(r) {
				break
			}
			stream.NextChar()
			value = append(value, r)
		}
		if len(value) == 0 {
			return nil
		}
		return tokenizer.NewToken(TokenText, value)
	}
}

func isTokenChar(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	switch r {
	case '!', '#', '$', '%', '&', '\'', '*', '+', '-', '.', '^', '_', '`', '|', '~':
		return true
	}
	return false
}
