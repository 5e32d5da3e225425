// Package symbol implements the assembler's single address space: labels
// and variables share one table, pre-seeded with the Hack platform's
// built-in names, backed by the same swiss-table map used for the Jack
// compiler's symbol tables.
package symbol

import (
	"github.com/dolthub/swiss"

	"github.com/n2tgo/toolchain/lang/hack/codegen"
)

// firstVariableAddress is where the allocator starts handing out RAM to
// variables that are not user labels and not one of the built-ins.
const firstVariableAddress = 16

// Entry is one user-defined (non-built-in) symbol, in declaration order.
type Entry struct {
	Name    string
	Address uint16
}

// Table resolves a symbol (label or variable) to its RAM/ROM address. The
// swiss.Map backing it has no exposed iteration (the teacher's own
// lang/machine.Map.Iterate is itself left unimplemented), so user symbols
// are additionally tracked in declaration order for --dump-symbols.
type Table struct {
	addrs   *swiss.Map[string, uint16]
	nextVar uint16
	order   []Entry
}

// New returns a table pre-seeded with the Hack built-in symbols.
func New() *Table {
	t := &Table{
		addrs:   swiss.NewMap[string, uint16](64),
		nextVar: firstVariableAddress,
	}
	for name, addr := range codegen.BuiltInTable {
		t.addrs.Put(name, addr)
	}
	return t
}

// DeclareLabel records a label's ROM address. Redeclaring an existing
// label is the caller's error to detect (see assembler's pass 1).
func (t *Table) DeclareLabel(name string, romAddress uint16) {
	t.addrs.Put(name, romAddress)
	t.order = append(t.order, Entry{Name: name, Address: romAddress})
}

// Has reports whether name is already bound, label or variable alike.
func (t *Table) Has(name string) bool {
	_, ok := t.addrs.Get(name)
	return ok
}

// Resolve returns the address bound to name, allocating the next free RAM
// slot for it if this is the first time it has been seen and it is not
// a label from pass 1.
func (t *Table) Resolve(name string) uint16 {
	if addr, ok := t.addrs.Get(name); ok {
		return addr
	}
	addr := t.nextVar
	t.addrs.Put(name, addr)
	t.nextVar++
	t.order = append(t.order, Entry{Name: name, Address: addr})
	return addr
}

// Entries returns every user-defined label and variable in the order it
// was declared or first referenced. Built-in symbols are omitted.
func (t *Table) Entries() []Entry {
	return t.order
}
