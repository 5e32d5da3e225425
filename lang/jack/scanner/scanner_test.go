package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n2tgo/toolchain/lang/jack/scanner"
	"github.com/n2tgo/toolchain/lang/jack/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	s, err := scanner.New("test.jack", []byte(src))
	require.NoError(t, err)
	var toks []token.Token
	for {
		tok := s.Peek()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			return toks
		}
		require.NoError(t, s.Advance())
	}
}

func TestScanKeywordsAndSymbols(t *testing.T) {
	toks := scanAll(t, "class Foo { field int x; }")
	want := []struct {
		kind token.Kind
		text string
	}{
		{token.KEYWORD, "class"},
		{token.IDENTIFIER, "Foo"},
		{token.SYMBOL, "{"},
		{token.KEYWORD, "field"},
		{token.KEYWORD, "int"},
		{token.IDENTIFIER, "x"},
		{token.SYMBOL, ";"},
		{token.SYMBOL, "}"},
		{token.EOF, ""},
	}
	require.Len(t, toks, len(want))
	for i, w := range want {
		require.Equal(t, w.kind, toks[i].Kind, "token %d", i)
		require.Equal(t, w.text, toks[i].Text, "token %d", i)
	}
}

func TestScanIntegerConstant(t *testing.T) {
	toks := scanAll(t, "32767")
	require.Equal(t, token.INT_CONST, toks[0].Kind)
	require.Equal(t, 32767, toks[0].Int)
}

func TestScanIntegerOutOfRange(t *testing.T) {
	_, err := scanner.New("test.jack", []byte("32768"))
	require.Error(t, err)
}

func TestScanStringConstant(t *testing.T) {
	toks := scanAll(t, `"hello world"`)
	require.Equal(t, token.STRING_CONST, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].Text)
}

func TestScanUnterminatedString(t *testing.T) {
	_, err := scanner.New("test.jack", []byte("\"oops\nok\""))
	require.Error(t, err)
}

func TestScanComments(t *testing.T) {
	toks := scanAll(t, "// line comment\nlet /* inline */ x = 1; /** doc */")
	var kinds []token.Kind
	for _, tk := range toks {
		kinds = append(kinds, tk.Kind)
	}
	want := []token.Kind{token.KEYWORD, token.IDENTIFIER, token.SYMBOL, token.INT_CONST, token.SYMBOL, token.EOF}
	require.Equal(t, want, kinds)
}

func TestScanUnterminatedComment(t *testing.T) {
	_, err := scanner.New("test.jack", []byte("/* never closed"))
	require.Error(t, err)
}

func TestScanLineTracking(t *testing.T) {
	toks := scanAll(t, "let\nx\n=\n1;")
	lines := []int{1, 2, 3, 4, 4, 4}
	for i, want := range lines {
		require.Equal(t, want, toks[i].Line, "token %d (%q)", i, toks[i].Text)
	}
}
