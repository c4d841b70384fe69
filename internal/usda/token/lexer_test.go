package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func allTokens(t *testing.T, src string) []Token {
	t.Helper()
	l := NewLexer([]byte(src))
	var toks []Token
	for {
		tok, err := l.Next()
		require.NoError(t, err)
		toks = append(toks, tok)
		if tok.Kind == EOF {
			return toks
		}
	}
}

func TestLexer_Punctuation(t *testing.T) {
	toks := allTokens(t, "(){}[]=,:.")
	kinds := make([]Kind, 0, len(toks))
	for _, tok := range toks {
		kinds = append(kinds, tok.Kind)
	}
	assert.Equal(t, []Kind{LParen, RParen, LBrace, RBrace, LBracket, RBracket, Equals, Comma, Colon, Dot, EOF}, kinds)
}

func TestLexer_SkipsCommentsAndHeader(t *testing.T) {
	toks := allTokens(t, "#usda 1.0\n# a comment\nfoo")
	require.Len(t, toks, 2)
	assert.Equal(t, Ident, toks[0].Kind)
	assert.Equal(t, "foo", toks[0].Text)
}

func TestLexer_Ident(t *testing.T) {
	toks := allTokens(t, "xformOpOrder primvars:displayColor _underscore")
	require.Len(t, toks, 4)
	assert.Equal(t, "xformOpOrder", toks[0].Text)
	assert.Equal(t, "primvars:displayColor", toks[1].Text)
	assert.Equal(t, "_underscore", toks[2].Text)
}

func TestLexer_Numbers(t *testing.T) {
	cases := []string{"0", "42", "-17", "3.14", "-0.5", "1e10", "2.5e-3", ".5"}
	for _, src := range cases {
		toks := allTokens(t, src)
		require.Lenf(t, toks, 2, "src=%q", src)
		assert.Equalf(t, Number, toks[0].Kind, "src=%q", src)
		assert.Equalf(t, src, toks[0].Text, "src=%q", src)
	}
}

func TestLexer_StringSimple(t *testing.T) {
	toks := allTokens(t, `"hello world"`)
	require.Len(t, toks, 2)
	assert.Equal(t, String, toks[0].Kind)
	assert.Equal(t, "hello world", toks[0].Text)
}

func TestLexer_StringEscapes(t *testing.T) {
	toks := allTokens(t, `"a\nb\tc\\d"`)
	require.Len(t, toks, 2)
	assert.Equal(t, "a\nb\tc\\d", toks[0].Text)
}

func TestLexer_TripleQuotedString(t *testing.T) {
	toks := allTokens(t, "\"\"\"line one\nline two\"\"\"")
	require.Len(t, toks, 2)
	assert.Equal(t, String, toks[0].Kind)
	assert.Equal(t, "line one\nline two", toks[0].Text)
}

func TestLexer_UnterminatedString(t *testing.T) {
	l := NewLexer([]byte(`"no closing quote`))
	_, err := l.Next()
	assert.Error(t, err)
}

func TestLexer_PathLiteral(t *testing.T) {
	toks := allTokens(t, "</World/ball.radius>")
	require.Len(t, toks, 2)
	assert.Equal(t, PathLit, toks[0].Kind)
	assert.Equal(t, "/World/ball.radius", toks[0].Text)
}

func TestLexer_UnterminatedPathLiteral(t *testing.T) {
	l := NewLexer([]byte("</World/ball"))
	_, err := l.Next()
	assert.Error(t, err)
}

func TestLexer_AssetPath(t *testing.T) {
	toks := allTokens(t, "@./textures/diffuse.png@")
	require.Len(t, toks, 2)
	assert.Equal(t, Asset, toks[0].Kind)
	assert.Equal(t, "./textures/diffuse.png", toks[0].Text)
}

func TestLexer_UnterminatedAssetPath(t *testing.T) {
	l := NewLexer([]byte("@./broken"))
	_, err := l.Next()
	assert.Error(t, err)
}

func TestLexer_LineTracking(t *testing.T) {
	toks := allTokens(t, "foo\nbar\nbaz")
	require.Len(t, toks, 4)
	assert.Equal(t, 1, toks[0].Line)
	assert.Equal(t, 2, toks[1].Line)
	assert.Equal(t, 3, toks[2].Line)
}

func TestLexer_UnexpectedByte(t *testing.T) {
	l := NewLexer([]byte("$"))
	_, err := l.Next()
	assert.Error(t, err)
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "identifier", Ident.String())
	assert.Equal(t, "(", LParen.String())
	assert.Equal(t, "?", Kind(999).String())
}
