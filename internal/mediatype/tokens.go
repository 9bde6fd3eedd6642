// Package mediatype tokenizes and parses Content-Type header values using
// Shape's tokenizer framework.
package mediatype

// Token type constants for media type values.
const (
	TokenText      = "Text"      // type, subtype, parameter name or bare value
	TokenQuoted    = "Quoted"    // quoted-string parameter value, unquoted
	TokenSlash     = "Slash"     // /
	TokenSemicolon = "Semicolon" // ;
	TokenEquals    = "Equals"    // =
	TokenOWS       = "OWS"       // optional whitespace
)
