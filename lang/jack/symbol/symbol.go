// Package symbol implements the two-scope symbol table the compilation
// engine consults while walking a class: a class scope (static and field
// variables, populated once per class) and a subroutine scope (argument and
// local variables, reset at the start of each subroutine). Lookup checks
// subroutine scope first so a parameter or local shadows a field of the same
// name, matching the specification's resolution order.
//
// The per-scope maps are backed by swiss.Map rather than a builtin map,
// following the teacher's lang/machine.Map wrapper, even though Jack classes
// rarely hold enough symbols for the difference to matter in practice.
package symbol

import (
	"fmt"

	"github.com/dolthub/swiss"
)

// Kind identifies which of the four Jack variable kinds an Entry holds.
type Kind int8

const (
	Static Kind = iota
	Field
	Argument
	Var
)

func (k Kind) String() string {
	switch k {
	case Static:
		return "static"
	case Field:
		return "field"
	case Argument:
		return "argument"
	case Var:
		return "var"
	default:
		return "unknown"
	}
}

// Segment returns the VM memory segment an Entry of this Kind lives in.
// Field maps to "this" rather than a segment literally named "field".
func (k Kind) Segment() string {
	switch k {
	case Static:
		return "static"
	case Field:
		return "this"
	case Argument:
		return "argument"
	case Var:
		return "local"
	default:
		panic("symbol: Segment of unknown kind")
	}
}

// Entry is one declared identifier: its static type, its kind, and its
// 0-based index within that (scope, kind) pair.
type Entry struct {
	Name  string
	Type  string
	Kind  Kind
	Index int
}

// scope holds the declarations and per-kind counters for one nesting level.
type scope struct {
	entries  *swiss.Map[string, Entry]
	counters [4]int
}

func newScope() *scope {
	return &scope{entries: swiss.NewMap[string, Entry](8)}
}

func (s *scope) declare(name, typ string, kind Kind) Entry {
	e := Entry{Name: name, Type: typ, Kind: kind, Index: s.counters[kind]}
	s.counters[kind]++
	s.entries.Put(name, e)
	return e
}

func (s *scope) count(kind Kind) int { return s.counters[kind] }

func (s *scope) lookup(name string) (Entry, bool) {
	return s.entries.Get(name)
}

// Table is the compiler's symbol table for a single class: one persistent
// class scope plus a subroutine scope that StartSubroutine replaces.
type Table struct {
	class      *scope
	subroutine *scope
}

// New returns an empty Table, ready to accept class-scope declarations.
func New() *Table {
	return &Table{class: newScope(), subroutine: newScope()}
}

// StartSubroutine discards any previous subroutine scope, so argument/var
// indices and shadowing start fresh for each function/method/constructor.
func (t *Table) StartSubroutine() {
	t.subroutine = newScope()
}

// Declare adds name to class or subroutine scope, chosen by kind, and
// returns the Entry recorded (with its freshly assigned Index). Declaring
// the same name twice in the same scope silently overwrites the previous
// entry and takes the next free index for kind. Neither Declare nor the
// compiler checks for duplicate declarations.
func (t *Table) Declare(name, typ string, kind Kind) Entry {
	switch kind {
	case Static, Field:
		return t.class.declare(name, typ, kind)
	case Argument, Var:
		return t.subroutine.declare(name, typ, kind)
	default:
		panic(fmt.Sprintf("symbol: Declare with invalid kind %v", kind))
	}
}

// Count returns how many symbols of kind have been declared in the scope
// that owns it (class scope for Static/Field, subroutine scope for
// Argument/Var).
func (t *Table) Count(kind Kind) int {
	switch kind {
	case Static, Field:
		return t.class.count(kind)
	default:
		return t.subroutine.count(kind)
	}
}

// Lookup resolves name, checking subroutine scope before falling back to
// class scope. The bool result is false when name is declared in neither.
func (t *Table) Lookup(name string) (Entry, bool) {
	if e, ok := t.subroutine.lookup(name); ok {
		return e, true
	}
	return t.class.lookup(name)
}
