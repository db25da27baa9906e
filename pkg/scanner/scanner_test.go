package scanner

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rune/pkg/diagnostics"
	"rune/pkg/token"
)

func scanAll(t *testing.T, source string) ([]token.Token, *diagnostics.Bag) {
	t.Helper()
	diags := diagnostics.NewBag()
	toks := New(source, diags).ScanTokens()
	return toks, diags
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, len(toks))
	for i, tok := range toks {
		out[i] = tok.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	toks, diags := scanAll(t, "(){},.-+;*?:!!====<<=>>=/")
	require.False(t, diags.HasErrors())
	assert.Equal(t, []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon,
		token.Star, token.Question, token.Colon, token.Bang, token.BangEqual,
		token.EqualEqual, token.Equal, token.Less, token.LessEqual, token.Greater,
		token.GreaterEqual, token.Slash, token.EOF,
	}, kinds(toks))
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks, diags := scanAll(t, "and class fun lambda _foo bar123")
	require.False(t, diags.HasErrors())
	assert.Equal(t, []token.Kind{
		token.And, token.Class, token.Fun, token.Lambda, token.Identifier,
		token.Identifier, token.EOF,
	}, kinds(toks))
	assert.Equal(t, "_foo", toks[4].Lexeme)
}

func TestScanNumberDoesNotConsumeTrailingDotWithoutDigit(t *testing.T) {
	toks, diags := scanAll(t, "1.field")
	require.False(t, diags.HasErrors())
	assert.Equal(t, []token.Kind{token.Number, token.Dot, token.Identifier, token.EOF}, kinds(toks))
	assert.Equal(t, 1.0, toks[0].Literal)
}

func TestScanFloatLiteral(t *testing.T) {
	toks, diags := scanAll(t, "3.14")
	require.False(t, diags.HasErrors())
	require.Len(t, toks, 2)
	assert.Equal(t, 3.14, toks[0].Literal)
}

func TestScanMultiLineString(t *testing.T) {
	toks, diags := scanAll(t, "\"line one\nline two\" var")
	require.False(t, diags.HasErrors())
	require.Len(t, toks, 3)
	assert.Equal(t, "line one\nline two", toks[0].Literal)
	assert.Equal(t, 2, toks[1].Line)
}

func TestScanUnterminatedStringReportsDiagnostic(t *testing.T) {
	_, diags := scanAll(t, "\"never closed")
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.All()[0].Message, "Unterminated string.")
}

func TestScanLineCommentIsIgnored(t *testing.T) {
	toks, diags := scanAll(t, "var x; // trailing comment\nvar y;")
	require.False(t, diags.HasErrors())
	assert.Equal(t, []token.Kind{
		token.Var, token.Identifier, token.Semicolon,
		token.Var, token.Identifier, token.Semicolon, token.EOF,
	}, kinds(toks))
}

func TestScanBlockCommentSpansMultipleLinesAndDoesNotNest(t *testing.T) {
	toks, diags := scanAll(t, "var /* outer\n/* inner */ x */ ; var y;")
	require.False(t, diags.HasErrors())
	// The first "*/" closes the block comment; the trailing "x */ ;" is
	// scanned as ordinary tokens, matching the non-nesting comment rule.
	assert.Equal(t, token.Var, toks[0].Kind)
	assert.Equal(t, token.Identifier, toks[1].Kind)
	assert.Equal(t, "x", toks[1].Lexeme)
}

func TestScanUnexpectedCharacterDoesNotAbortScanning(t *testing.T) {
	toks, diags := scanAll(t, "var x = 1; @ var y = 2;")
	require.True(t, diags.HasErrors())
	assert.Contains(t, diags.All()[0].Message, "Unexpected character.")
	// scanning continued past the bad character
	assert.Equal(t, token.EOF, toks[len(toks)-1].Kind)
	assert.Contains(t, kinds(toks), token.Var)
}

func TestScanAlwaysTerminatesWithEOF(t *testing.T) {
	toks, _ := scanAll(t, "")
	require.Len(t, toks, 1)
	assert.Equal(t, token.EOF, toks[0].Kind)
}
