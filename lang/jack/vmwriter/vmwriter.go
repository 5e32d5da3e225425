// Package vmwriter emits the textual VM command language that the
// compilation engine targets, one command per line. The command set and the
// string-constant expansion (push length, call String.new, appendChar per
// rune) are grounded on the teacher-adjacent reference's VMWriter; arithmetic
// ops map one-to-one onto VM commands except mul/div, which have no VM
// opcode and lower to a call against the OS Math class.
package vmwriter

import (
	"bufio"
	"fmt"
	"io"
)

// Segment is one of the eight VM memory segments a push/pop may address.
type Segment string

const (
	Constant Segment = "constant"
	Argument Segment = "argument"
	Local    Segment = "local"
	Static   Segment = "static"
	This     Segment = "this"
	That     Segment = "that"
	Pointer  Segment = "pointer"
	Temp     Segment = "temp"
)

// Op is a VM arithmetic/logical command.
type Op string

const (
	Add Op = "add"
	Sub Op = "sub"
	Neg Op = "neg"
	Eq  Op = "eq"
	Gt  Op = "gt"
	Lt  Op = "lt"
	And Op = "and"
	Or  Op = "or"
	Not Op = "not"
	Mul Op = "mul" // no VM opcode; lowered to a Math.multiply call
	Div Op = "div" // no VM opcode; lowered to a Math.divide call
)

// Writer emits VM commands to an underlying io.Writer, buffered for the
// common case of writing many short lines.
type Writer struct {
	w   *bufio.Writer
	err error
}

// New wraps w for VM command emission.
func New(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Flush pushes any buffered output to the underlying writer and returns the
// first error encountered by any Write* call or by the flush itself.
func (vw *Writer) Flush() error {
	if vw.err != nil {
		return vw.err
	}
	return vw.w.Flush()
}

func (vw *Writer) emit(format string, args ...any) {
	if vw.err != nil {
		return
	}
	if _, err := fmt.Fprintf(vw.w, format+"\n", args...); err != nil {
		vw.err = err
	}
}

func (vw *Writer) WritePush(seg Segment, index int) { vw.emit("push %s %d", seg, index) }
func (vw *Writer) WritePop(seg Segment, index int)  { vw.emit("pop %s %d", seg, index) }

func (vw *Writer) WriteArithmetic(op Op) {
	switch op {
	case Mul:
		vw.WriteCall("Math.multiply", 2)
	case Div:
		vw.WriteCall("Math.divide", 2)
	default:
		vw.emit("%s", op)
	}
}

func (vw *Writer) WriteLabel(label string)          { vw.emit("label %s", label) }
func (vw *Writer) WriteGoto(label string)           { vw.emit("goto %s", label) }
func (vw *Writer) WriteIf(label string)             { vw.emit("if-goto %s", label) }
func (vw *Writer) WriteCall(name string, nArgs int) { vw.emit("call %s %d", name, nArgs) }
func (vw *Writer) WriteFunction(name string, nLocals int) {
	vw.emit("function %s %d", name, nLocals)
}
func (vw *Writer) WriteReturn() { vw.emit("return") }

// WriteStringConstant expands a Jack string literal into the allocation
// sequence every Jack compiler emits, since the VM language has no string
// literal of its own: allocate len(s) characters, append each rune, and
// leave the resulting String object on top of the stack.
func (vw *Writer) WriteStringConstant(s string) {
	runes := []rune(s)
	vw.WritePush(Constant, len(runes))
	vw.WriteCall("String.new", 1)
	for _, r := range runes {
		vw.WritePush(Constant, int(r))
		vw.WriteCall("String.appendChar", 2)
	}
}
