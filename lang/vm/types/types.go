// Package types defines the VM command model the parser produces and the
// code writer consumes: a small tagged union over the nine VM command
// shapes, mirroring the "Operation" variants of the its-hmny vm package
// this toolchain's parser is grounded on, narrowed to exactly the command
// set the specification defines.
package types

// Kind identifies which of the VM command shapes a Command holds.
type Kind int8

const (
	Arithmetic Kind = iota
	Push
	Pop
	Label
	Goto
	IfGoto
	Function
	Call
	Return
)

// Segment is one of the eight VM memory segments addressable by push/pop.
type Segment string

const (
	SegArgument Segment = "argument"
	SegLocal    Segment = "local"
	SegStatic   Segment = "static"
	SegConstant Segment = "constant"
	SegThis     Segment = "this"
	SegThat     Segment = "that"
	SegPointer  Segment = "pointer"
	SegTemp     Segment = "temp"
)

// Command is a single parsed VM instruction. Only the fields relevant to
// Kind are populated; e.g. a Return command has nothing but Kind and Line
// set.
type Command struct {
	Kind Kind

	// Arithmetic: Op is one of add/sub/neg/eq/gt/lt/and/or/not.
	Op string

	// Push/Pop
	Segment Segment
	Index   int

	// Label/Goto/IfGoto
	Label string

	// Function/Call
	Name  string
	NArgs int

	Line int // 1-based source line, for diagnostics
}
