// Package diag implements the diagnostic error taxonomy shared by the Jack
// compiler, VM translator and assembler: every stage converts the first
// error it hits into one of these and stops, it never accumulates or
// recovers from a second one.
package diag

import "fmt"

// Kind classifies a diagnostic. The zero value is never produced.
type Kind int

const (
	// ArgumentError is a missing/extra CLI argument or a wrong extension.
	ArgumentError Kind = iota + 1
	// IoError is a failure to open, read, create or write a file.
	IoError
	// LexError is an invalid character, unterminated string/comment, or an
	// out-of-range integer literal.
	LexError
	// ParseError is an unexpected token, a missing terminator, or a
	// malformed command line.
	ParseError
	// SemanticError is an undeclared identifier used as a variable, or a
	// construct the grammar allows but whose use is otherwise invalid
	// (e.g. array indexing on a non-variable).
	SemanticError
	// EncodingError is an unknown comp/dest/jump mnemonic or an address
	// outside the 15-bit addressable range.
	EncodingError
)

func (k Kind) String() string {
	switch k {
	case ArgumentError:
		return "ArgumentError"
	case IoError:
		return "IoError"
	case LexError:
		return "LexError"
	case ParseError:
		return "ParseError"
	case SemanticError:
		return "SemanticError"
	case EncodingError:
		return "EncodingError"
	default:
		return "UnknownError"
	}
}

// Error is a single diagnostic. File and Line are optional; Line <= 0 means
// no line is known.
type Error struct {
	Kind Kind
	File string
	Line int
	Msg  string
}

// New builds an Error with a formatted message. file may be empty and line
// may be <= 0 when no position is available.
func New(kind Kind, file string, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, File: file, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Error renders "Error: <kind>: <detail>", prefixed with "file:line: " when
// both are known, matching the propagation policy in the specification:
// the first error wins and is reported in this exact shape.
func (e *Error) Error() string {
	if e.File != "" && e.Line > 0 {
		return fmt.Sprintf("%s:%d: Error: %s: %s", e.File, e.Line, e.Kind, e.Msg)
	}
	if e.File != "" {
		return fmt.Sprintf("%s: Error: %s: %s", e.File, e.Kind, e.Msg)
	}
	return fmt.Sprintf("Error: %s: %s", e.Kind, e.Msg)
}
