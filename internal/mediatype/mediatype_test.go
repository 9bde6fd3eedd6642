package mediatype

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		wantEssence string
		wantSuffix  string
		wantParams  map[string]string
	}{
		{
			name:        "bare",
			input:       "application/json",
			wantEssence: "application/json",
			wantParams:  map[string]string{},
		},
		{
			name:        "charset",
			input:       "text/xml; charset=UTF-8",
			wantEssence: "text/xml",
			wantParams:  map[string]string{"charset": "UTF-8"},
		},
		{
			name:        "mixed case and no space",
			input:       "Application/X-WWW-Form-Urlencoded;Charset=utf-8",
			wantEssence: "application/x-www-form-urlencoded",
			wantParams:  map[string]string{"charset": "utf-8"},
		},
		{
			name:        "quoted boundary",
			input:       `multipart/form-data; boundary="a b\"c"`,
			wantEssence: "multipart/form-data",
			wantParams:  map[string]string{"boundary": `a b"c`},
		},
		{
			name:        "structured suffix",
			input:       "application/ld+json",
			wantEssence: "application/ld+json",
			wantSuffix:  "json",
			wantParams:  map[string]string{},
		},
		{
			name:        "trailing semicolon",
			input:       "text/plain;",
			wantEssence: "text/plain",
			wantParams:  map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.wantEssence, m.Essence())
			assert.Equal(t, tt.wantSuffix, m.Suffix())
			assert.Equal(t, tt.wantParams, m.Params)
		})
	}
}

func TestParse_Invalid(t *testing.T) {
	for _, input := range []string{"", "json", "application/", "text/plain; charset", "a/b c"} {
		t.Run(input, func(t *testing.T) {
			_, err := Parse(input)
			assert.Error(t, err)
		})
	}
}

func TestEssence(t *testing.T) {
	assert.Equal(t, "application/json", Essence("application/json; charset=utf-8"))
	assert.Equal(t, "application/x-foo", Essence("Application/X-Foo"))
	assert.Equal(t, "not a type", Essence("Not A Type; q=1"))
	assert.Equal(t, "", Essence(""))
}

func TestTokenizer(t *testing.T) {
	tok := NewTokenizer()
	tok.Initialize("text/plain; q=1")

	tokens, eos := tok.Tokenize()
	require.True(t, eos)

	kinds := make([]string, len(tokens))
	for i, tk := range tokens {
		kinds[i] = tk.Kind()
	}
	assert.Equal(t, []string{
		TokenText, TokenSlash, TokenText, TokenSemicolon, TokenOWS, TokenText, TokenEquals, TokenText,
	}, kinds)
}
