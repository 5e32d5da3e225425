// Package codewriter lowers parsed VM commands to Hack assembly text, one
// command at a time, following the per-command translation rules and the
// call/return protocol of the specification. Label and return-address
// counters live on the Writer itself rather than as package-level state, so
// a fresh Writer per translation unit gives a clean reset — the same
// instance-field discipline the teacher's compiler package applies to its
// own opcode/label bookkeeping.
package codewriter

import (
	"bufio"
	"fmt"
	"io"

	"github.com/n2tgo/toolchain/lang/vm/types"
)

// Writer accumulates Hack assembly for one output .asm file. SetFileStem
// must be called before translating any push/pop static command from a new
// VM source file.
type Writer struct {
	w   *bufio.Writer
	err error

	fileStem        string
	currentFunction string

	cmpSeq int
	retSeq int
}

// New wraps w for Hack assembly emission.
func New(w io.Writer) *Writer {
	return &Writer{w: bufio.NewWriter(w)}
}

// Flush pushes any buffered output and returns the first error encountered.
func (cw *Writer) Flush() error {
	if cw.err != nil {
		return cw.err
	}
	return cw.w.Flush()
}

// SetFileStem records the basename (without extension) of the VM source
// file whose commands are about to be translated, used for static segment
// symbol names and does not otherwise affect translation.
func (cw *Writer) SetFileStem(stem string) { cw.fileStem = stem }

func (cw *Writer) emit(lines ...string) {
	if cw.err != nil {
		return
	}
	for _, l := range lines {
		if _, err := fmt.Fprintln(cw.w, l); err != nil {
			cw.err = err
			return
		}
	}
}

func (cw *Writer) emitf(format string, args ...any) {
	cw.emit(fmt.Sprintf(format, args...))
}

// WriteBootstrap emits the SP-initialization sequence and a call to
// Sys.init 0. It is only emitted for multi-file (directory) translations.
func (cw *Writer) WriteBootstrap() {
	cw.emit("@256", "D=A", "@SP", "M=D")
	cw.WriteCall("Sys.init", 0)
}

// WriteArithmetic lowers one of add/sub/neg/eq/gt/lt/and/or/not.
func (cw *Writer) WriteArithmetic(op string) error {
	switch op {
	case "add":
		cw.binaryOp("M=M+D")
	case "sub":
		cw.binaryOp("M=M-D")
	case "and":
		cw.binaryOp("M=M&D")
	case "or":
		cw.binaryOp("M=M|D")
	case "neg":
		cw.emit("@SP", "A=M-1", "M=-M")
	case "not":
		cw.emit("@SP", "A=M-1", "M=!M")
	case "eq":
		cw.comparison("JEQ")
	case "gt":
		cw.comparison("JGT")
	case "lt":
		cw.comparison("JLT")
	default:
		return fmt.Errorf("unknown arithmetic command %q", op)
	}
	return nil
}

func (cw *Writer) binaryOp(op string) {
	cw.emit("@SP", "AM=M-1", "D=M", "A=A-1", op)
}

func (cw *Writer) comparison(jump string) {
	n := cw.cmpSeq
	cw.cmpSeq++
	trueLabel := fmt.Sprintf("CMP_TRUE.%d", n)
	endLabel := fmt.Sprintf("CMP_END.%d", n)
	cw.emit("@SP", "AM=M-1", "D=M", "A=A-1", "D=M-D")
	cw.emitf("@%s", trueLabel)
	cw.emitf("D;%s", jump)
	cw.emit("@SP", "A=M-1", "M=0")
	cw.emitf("@%s", endLabel)
	cw.emit("0;JMP")
	cw.emitf("(%s)", trueLabel)
	cw.emit("@SP", "A=M-1", "M=-1")
	cw.emitf("(%s)", endLabel)
}

// segmentBase maps local/argument/this/that to their base-pointer symbol.
var segmentBase = map[types.Segment]string{
	types.SegLocal:    "LCL",
	types.SegArgument: "ARG",
	types.SegThis:     "THIS",
	types.SegThat:     "THAT",
}

// WritePush lowers a push command for one of the eight segments.
func (cw *Writer) WritePush(seg types.Segment, index int) error {
	switch seg {
	case types.SegConstant:
		cw.emitf("@%d", index)
		cw.emit("D=A")

	case types.SegLocal, types.SegArgument, types.SegThis, types.SegThat:
		cw.emitf("@%d", index)
		cw.emit("D=A")
		cw.emitf("@%s", segmentBase[seg])
		cw.emit("A=D+M", "D=M")

	case types.SegTemp:
		if index < 0 || index > 7 {
			return fmt.Errorf("temp index %d out of range 0..7", index)
		}
		cw.emitf("@%d", 5+index)
		cw.emit("D=M")

	case types.SegPointer:
		sym := pointerSymbol(index)
		if sym == "" {
			return fmt.Errorf("pointer index %d must be 0 or 1", index)
		}
		cw.emitf("@%s", sym)
		cw.emit("D=M")

	case types.SegStatic:
		cw.emitf("@%s.%d", cw.fileStem, index)
		cw.emit("D=M")

	default:
		return fmt.Errorf("unknown push segment %q", seg)
	}
	cw.emit("@SP", "A=M", "M=D", "@SP", "M=M+1")
	return nil
}

// WritePop lowers a pop command for one of the seven non-constant segments
// (constant cannot be a pop destination).
func (cw *Writer) WritePop(seg types.Segment, index int) error {
	switch seg {
	case types.SegLocal, types.SegArgument, types.SegThis, types.SegThat:
		cw.emitf("@%d", index)
		cw.emit("D=A")
		cw.emitf("@%s", segmentBase[seg])
		cw.emit("D=D+M", "@R13", "M=D")
		cw.emit("@SP", "AM=M-1", "D=M", "@R13", "A=M", "M=D")

	case types.SegTemp:
		if index < 0 || index > 7 {
			return fmt.Errorf("temp index %d out of range 0..7", index)
		}
		cw.emit("@SP", "AM=M-1", "D=M")
		cw.emitf("@%d", 5+index)
		cw.emit("M=D")

	case types.SegPointer:
		sym := pointerSymbol(index)
		if sym == "" {
			return fmt.Errorf("pointer index %d must be 0 or 1", index)
		}
		cw.emit("@SP", "AM=M-1", "D=M")
		cw.emitf("@%s", sym)
		cw.emit("M=D")

	case types.SegStatic:
		cw.emit("@SP", "AM=M-1", "D=M")
		cw.emitf("@%s.%d", cw.fileStem, index)
		cw.emit("M=D")

	default:
		return fmt.Errorf("cannot pop into segment %q", seg)
	}
	return nil
}

func pointerSymbol(index int) string {
	switch index {
	case 0:
		return "THIS"
	case 1:
		return "THAT"
	default:
		return ""
	}
}

// qualifiedLabel scopes a bare label name under the currently-translating
// function, since Hack has a single flat label namespace.
func (cw *Writer) qualifiedLabel(label string) string {
	if cw.currentFunction == "" {
		return label
	}
	return cw.currentFunction + "$" + label
}

func (cw *Writer) WriteLabel(label string) {
	cw.emitf("(%s)", cw.qualifiedLabel(label))
}

func (cw *Writer) WriteGoto(label string) {
	cw.emitf("@%s", cw.qualifiedLabel(label))
	cw.emit("0;JMP")
}

func (cw *Writer) WriteIf(label string) {
	cw.emit("@SP", "AM=M-1", "D=M")
	cw.emitf("@%s", cw.qualifiedLabel(label))
	cw.emit("D;JNE")
}

// WriteFunction emits the function entry label and nLocals push-0s, and
// records name as the current scope for subsequent label/goto/if-goto.
func (cw *Writer) WriteFunction(name string, nLocals int) {
	cw.currentFunction = name
	cw.emitf("(%s)", name)
	for i := 0; i < nLocals; i++ {
		cw.emit("@SP", "A=M", "M=0", "@SP", "M=M+1")
	}
}

// WriteCall emits the full call sequence: push return address and the four
// saved segment pointers, reposition ARG/LCL, jump to name, then the return
// label.
func (cw *Writer) WriteCall(name string, nArgs int) {
	retLabel := fmt.Sprintf("RET.%d", cw.retSeq)
	cw.retSeq++

	cw.emitf("@%s", retLabel)
	cw.emit("D=A", "@SP", "A=M", "M=D", "@SP", "M=M+1")
	for _, seg := range []string{"LCL", "ARG", "THIS", "THAT"} {
		cw.emitf("@%s", seg)
		cw.emit("D=M", "@SP", "A=M", "M=D", "@SP", "M=M+1")
	}
	cw.emit("@SP", "D=M")
	cw.emitf("@%d", nArgs+5)
	cw.emit("D=D-A", "@ARG", "M=D")
	cw.emit("@SP", "D=M", "@LCL", "M=D")
	cw.emitf("@%s", name)
	cw.emit("0;JMP")
	cw.emitf("(%s)", retLabel)
}

// WriteReturn emits the return epilogue: save the frame and return address
// before the caller's ARG is overwritten, restore the return value in
// place of argument 0, reposition SP, restore the four saved pointers, and
// jump to the saved return address.
func (cw *Writer) WriteReturn() {
	cw.emit("@LCL", "D=M", "@R13", "M=D") // R13 = FRAME
	cw.emit("@5", "A=D-A", "D=M", "@R14", "M=D") // R14 = RET, read before ARG is clobbered
	cw.emit("@SP", "AM=M-1", "D=M", "@ARG", "A=M", "M=D") // *ARG = return value
	cw.emit("@ARG", "D=M+1", "@SP", "M=D") // SP = ARG + 1
	for _, seg := range []string{"THAT", "THIS", "ARG", "LCL"} {
		cw.emit("@R13", "AM=M-1", "D=M")
		cw.emitf("@%s", seg)
		cw.emit("M=D")
	}
	cw.emit("@R14", "A=M", "0;JMP")
}
