package sqleibniz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xnacly/sqleibniz"
)

func lexNonEOF(t *testing.T, src string) ([]sqleibniz.Token, *sqleibniz.Sink) {
	t.Helper()

	sink := sqleibniz.NewSink(len(src), nil)
	lexer := sqleibniz.NewLexer([]byte(src), sink)
	tokens := lexer.Tokenize()

	require.NotEmpty(t, tokens)
	require.Equal(t, sqleibniz.TokenEOF, tokens[len(tokens)-1].Kind)

	return tokens[:len(tokens)-1], sink
}

func TestLexer_Keywords(t *testing.T) {
	t.Parallel()

	tokens, sink := lexNonEOF(t, "SELECT from WHERE")
	require.Len(t, tokens, 3)
	assert.False(t, sink.HasErrors())

	for _, tok := range tokens {
		assert.Equal(t, sqleibniz.TokenKeyword, tok.Kind)
	}

	assert.Equal(t, sqleibniz.Keyword("FROM"), tokens[1].Keyword)
}

func TestLexer_IdentAndPunct(t *testing.T) {
	t.Parallel()

	tokens, sink := lexNonEOF(t, "main_table.col1 <= 5")
	assert.False(t, sink.HasErrors())

	var kinds []sqleibniz.TokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}

	assert.Contains(t, kinds, sqleibniz.TokenIdent)
	assert.Contains(t, kinds, sqleibniz.TokenPunct)
	assert.Contains(t, kinds, sqleibniz.TokenNumber)
}

func TestLexer_TwoCharOperators(t *testing.T) {
	t.Parallel()

	tokens, sink := lexNonEOF(t, "<= >= <> !=")
	assert.False(t, sink.HasErrors())
	require.Len(t, tokens, 4)

	for _, tok := range tokens {
		assert.Equal(t, sqleibniz.TokenPunct, tok.Kind)
		assert.Len(t, tok.Text, 2)
	}
}

func TestLexer_StringLiteral(t *testing.T) {
	t.Parallel()

	tokens, sink := lexNonEOF(t, `'it''s fine'`)
	assert.False(t, sink.HasErrors())
	require.Len(t, tokens, 1)
	assert.Equal(t, sqleibniz.TokenString, tokens[0].Kind)
	assert.Equal(t, "it's fine", tokens[0].Text)
}

func TestLexer_UnterminatedString(t *testing.T) {
	t.Parallel()

	_, sink := lexNonEOF(t, `'unterminated`)

	visible := sink.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, sqleibniz.RuleUnterminatedString, visible[0].Rule)
}

func TestLexer_QuotedIdent(t *testing.T) {
	t.Parallel()

	tokens, sink := lexNonEOF(t, `"my col"`)
	assert.False(t, sink.HasErrors())
	require.Len(t, tokens, 1)
	assert.Equal(t, sqleibniz.TokenIdent, tokens[0].Kind)
	assert.Equal(t, "my col", tokens[0].Text)
}

func TestLexer_BracketIdent(t *testing.T) {
	t.Parallel()

	tokens, sink := lexNonEOF(t, `[my col]`)
	assert.False(t, sink.HasErrors())
	require.Len(t, tokens, 1)
	assert.Equal(t, sqleibniz.TokenIdent, tokens[0].Kind)
	assert.Equal(t, "my col", tokens[0].Text)
}

func TestLexer_Blob(t *testing.T) {
	t.Parallel()

	tokens, sink := lexNonEOF(t, `x'deadbeef'`)
	assert.False(t, sink.HasErrors())
	require.Len(t, tokens, 1)
	assert.Equal(t, sqleibniz.TokenBlob, tokens[0].Kind)
	assert.Equal(t, []byte{0xde, 0xad, 0xbe, 0xef}, tokens[0].Blob)
}

func TestLexer_InvalidBlob_OddLength(t *testing.T) {
	t.Parallel()

	_, sink := lexNonEOF(t, `x'abc'`)

	visible := sink.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, sqleibniz.RuleInvalidBlob, visible[0].Rule)
}

func TestLexer_Numbers(t *testing.T) {
	t.Parallel()

	tests := []struct {
		src  string
		want float64
	}{
		{"42", 42},
		{"3.14", 3.14},
		{"1e10", 1e10},
		{"0x1F", 31},
	}

	for _, tt := range tests {
		t.Run(tt.src, func(t *testing.T) {
			t.Parallel()

			tokens, sink := lexNonEOF(t, tt.src)
			assert.False(t, sink.HasErrors())
			require.Len(t, tokens, 1)
			assert.Equal(t, sqleibniz.TokenNumber, tokens[0].Kind)
			assert.InDelta(t, tt.want, tokens[0].Number, 0.0001)
		})
	}
}

func TestLexer_InvalidNumericLiteral(t *testing.T) {
	t.Parallel()

	// "1e" has no exponent digits, which scanNumber flags explicitly.
	_, sink := lexNonEOF(t, "1e ")

	visible := sink.Visible()
	require.NotEmpty(t, visible)
	assert.Equal(t, sqleibniz.RuleInvalidNumericLiteral, visible[0].Rule)
}

func TestLexer_CommentsSkippedAndCollected(t *testing.T) {
	t.Parallel()

	sink := sqleibniz.NewSink(64, nil)
	lexer := sqleibniz.NewLexer([]byte("-- a line comment\nSELECT /* block */ 1;"), sink)
	tokens := lexer.Tokenize()

	require.NotEmpty(t, lexer.Comments)
	assert.False(t, sink.HasErrors())

	var kinds []sqleibniz.TokenKind
	for _, tok := range tokens {
		kinds = append(kinds, tok.Kind)
	}

	assert.Contains(t, kinds, sqleibniz.TokenKeyword)
	assert.Contains(t, kinds, sqleibniz.TokenNumber)
}

func TestLexer_InstructionMarker(t *testing.T) {
	t.Parallel()

	tokens, sink := lexNonEOF(t, "-- @sqleibniz::expect unknown-keyword\nSELECT 1")
	assert.False(t, sink.HasErrors())
	require.NotEmpty(t, tokens)
	assert.Equal(t, sqleibniz.TokenInstructionExpect, tokens[0].Kind)
}

func TestLexer_UnknownCharacter(t *testing.T) {
	t.Parallel()

	_, sink := lexNonEOF(t, "SELECT \x01 1")

	visible := sink.Visible()
	require.NotEmpty(t, visible)
	assert.Equal(t, sqleibniz.RuleUnknownCharacter, visible[0].Rule)
}
