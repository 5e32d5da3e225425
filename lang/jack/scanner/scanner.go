// Package scanner tokenizes Jack source into a one-token lookahead stream,
// grounded on the teacher's lang/scanner.Scanner: a byte-at-a-time
// advance()/peek() cursor returning errors rather than panicking, adapted here to Jack's much smaller token vocabulary and
// line-only position tracking (the specification only requires a line
// number in diagnostics, not a column).
package scanner

import (
	"fmt"
	"strings"

	"github.com/n2tgo/toolchain/internal/diag"
	"github.com/n2tgo/toolchain/lang/jack/token"
)

// Scanner produces a one-token lookahead stream over a single Jack source
// file. Create one with New, then repeatedly Peek/Advance until Peek
// reports EOF.
type Scanner struct {
	file string
	src  []byte

	off  int // byte offset of the next unread rune
	line int // current line, 1-based

	cur  token.Token // the token scanned by the last Advance
	init bool
}

// New creates a Scanner over src, attributed to file for diagnostics, and
// reads the first token.
func New(file string, src []byte) (*Scanner, error) {
	s := &Scanner{file: file, src: src, line: 1}
	if err := s.Advance(); err != nil {
		return nil, err
	}
	return s, nil
}

// Peek returns the current lookahead token without consuming it.
func (s *Scanner) Peek() token.Token { return s.cur }

// Advance consumes the current token and scans the next one into Peek.
// It returns an error (always a *diag.Error of kind LexError) on malformed
// input; once it returns an error the Scanner must not be used again.
func (s *Scanner) Advance() error {
	tok, err := s.scan()
	if err != nil {
		return err
	}
	s.cur = tok
	return nil
}

func (s *Scanner) errf(format string, args ...any) error {
	return diag.New(diag.LexError, s.file, s.line, format, args...)
}

func (s *Scanner) peekByte() byte {
	if s.off < len(s.src) {
		return s.src[s.off]
	}
	return 0
}

func (s *Scanner) peekByteAt(n int) byte {
	if s.off+n < len(s.src) {
		return s.src[s.off+n]
	}
	return 0
}

func (s *Scanner) advanceByte() byte {
	b := s.src[s.off]
	s.off++
	if b == '\n' {
		s.line++
	}
	return b
}

func (s *Scanner) skipWhitespaceAndComments() error {
	for s.off < len(s.src) {
		switch b := s.peekByte(); {
		case b == ' ' || b == '\t' || b == '\r' || b == '\n':
			s.advanceByte()
		case b == '/' && s.peekByteAt(1) == '/':
			for s.off < len(s.src) && s.peekByte() != '\n' {
				s.advanceByte()
			}
		case b == '/' && s.peekByteAt(1) == '*':
			startLine := s.line
			s.advanceByte()
			s.advanceByte()
			closed := false
			for s.off < len(s.src) {
				if s.peekByte() == '*' && s.peekByteAt(1) == '/' {
					s.advanceByte()
					s.advanceByte()
					closed = true
					break
				}
				s.advanceByte()
			}
			if !closed {
				s.line = startLine
				return s.errf("unterminated comment")
			}
		default:
			return nil
		}
	}
	return nil
}

func (s *Scanner) scan() (token.Token, error) {
	if err := s.skipWhitespaceAndComments(); err != nil {
		return token.Token{}, err
	}

	line := s.line
	if s.off >= len(s.src) {
		return token.Token{Kind: token.EOF, Line: line}, nil
	}

	b := s.peekByte()
	switch {
	case isIdentStart(b):
		return s.scanIdentOrKeyword(line), nil
	case isDigit(b):
		return s.scanInt(line)
	case b == '"':
		return s.scanString(line)
	case token.Symbols[b]:
		s.advanceByte()
		return token.Token{Kind: token.SYMBOL, Text: string(b), Line: line}, nil
	default:
		return token.Token{}, s.errf("unexpected character %q", b)
	}
}

func (s *Scanner) scanIdentOrKeyword(line int) token.Token {
	start := s.off
	for s.off < len(s.src) && isIdentPart(s.peekByte()) {
		s.advanceByte()
	}
	text := string(s.src[start:s.off])
	if token.Keywords[text] {
		return token.Token{Kind: token.KEYWORD, Text: text, Line: line}
	}
	return token.Token{Kind: token.IDENTIFIER, Text: text, Line: line}
}

func (s *Scanner) scanInt(line int) (token.Token, error) {
	start := s.off
	for s.off < len(s.src) && isDigit(s.peekByte()) {
		s.advanceByte()
	}
	text := string(s.src[start:s.off])
	var v int
	for _, c := range text {
		v = v*10 + int(c-'0')
		if v > token.MaxInt {
			return token.Token{}, s.errf("integer constant %s out of range (0..%d)", text, token.MaxInt)
		}
	}
	return token.Token{Kind: token.INT_CONST, Text: text, Int: v, Line: line}, nil
}

func (s *Scanner) scanString(line int) (token.Token, error) {
	s.advanceByte() // opening quote
	var sb strings.Builder
	for {
		if s.off >= len(s.src) {
			return token.Token{}, s.errf("unterminated string constant")
		}
		b := s.peekByte()
		if b == '\n' {
			return token.Token{}, s.errf("unterminated string constant")
		}
		if b == '"' {
			s.advanceByte()
			break
		}
		sb.WriteByte(b)
		s.advanceByte()
	}
	return token.Token{Kind: token.STRING_CONST, Text: sb.String(), Line: line}, nil
}

func isIdentStart(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentPart(b byte) bool { return isIdentStart(b) || isDigit(b) }

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Describe renders a token for error messages in the style of the teacher's
// Token.GoString: quote punctuation, print literal text for everything else.
func Describe(t token.Token) string {
	switch t.Kind {
	case token.EOF:
		return "end of file"
	case token.SYMBOL:
		return fmt.Sprintf("%q", t.Text)
	default:
		return fmt.Sprintf("%q (%s)", t.Text, t.Kind)
	}
}
