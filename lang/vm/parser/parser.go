// Package parser recognizes one VM command per line using goparsec parser
// combinators, grounded on the its-hmny vm package's parser combinator set
// (pMemoryOp, pArithmeticOp, pLabelDecl, pGotoOp, pFuncDecl, pFunCallOp,
// pReturnOp) and its AST-handler dispatch. Unlike that reference, which
// parses an entire file into one AST and hardcodes parse success to true
// (a TODO left in its own FromSource), this package parses line by line so
// each command keeps the source line number it came from, and a command
// that doesn't fully match is reported as a real parse error rather than
// silently ignored.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	pc "github.com/prataprc/goparsec"

	"github.com/n2tgo/toolchain/internal/diag"
	"github.com/n2tgo/toolchain/lang/vm/types"
)

var ast = pc.NewAST("vm_command", 16)

var (
	pIdent = pc.Token(`[A-Za-z_.$:][0-9A-Za-z_.$:]*`, "IDENT")

	pMemOpType = ast.OrdChoice("mem_op_type", nil, pc.Atom("push", "PUSH"), pc.Atom("pop", "POP"))
	pSegment   = ast.OrdChoice("segment", nil,
		pc.Atom("argument", "ARGUMENT"), pc.Atom("local", "LOCAL"),
		pc.Atom("static", "STATIC"), pc.Atom("constant", "CONSTANT"),
		pc.Atom("this", "THIS"), pc.Atom("that", "THAT"),
		pc.Atom("temp", "TEMP"), pc.Atom("pointer", "POINTER"),
	)
	pArithOpType = ast.OrdChoice("arith_op_type", nil,
		pc.Atom("add", "ADD"), pc.Atom("sub", "SUB"), pc.Atom("neg", "NEG"),
		pc.Atom("eq", "EQ"), pc.Atom("gt", "GT"), pc.Atom("lt", "LT"),
		pc.Atom("and", "AND"), pc.Atom("or", "OR"), pc.Atom("not", "NOT"),
	)
	pJumpType = ast.OrdChoice("jump_type", nil, pc.Atom("goto", "GOTO"), pc.Atom("if-goto", "IFGOTO"))

	pMemoryOp     = ast.And("memory_op", nil, pMemOpType, pSegment, pc.Int())
	pArithmeticOp = ast.And("arithmetic_op", nil, pArithOpType)
	pLabelDecl    = ast.And("label_decl", nil, pc.Atom("label", "LABEL"), pIdent)
	pGotoOp       = ast.And("goto_op", nil, pJumpType, pIdent)
	pFuncDecl     = ast.And("func_decl", nil, pc.Atom("function", "FUNCTION"), pIdent, pc.Int())
	pFuncCallOp   = ast.And("func_call", nil, pc.Atom("call", "CALL"), pIdent, pc.Int())
	pReturnOp     = ast.And("return_op", nil, pc.Atom("return", "RETURN"))

	pCommandChoice = ast.OrdChoice("command", nil,
		pMemoryOp, pArithmeticOp, pLabelDecl, pGotoOp, pFuncDecl, pFuncCallOp, pReturnOp,
	)
	// pCommand requires pc.End() right after the command, so a line with
	// trailing garbage fails to parse instead of silently matching a
	// prefix of itself.
	pCommand = ast.And("command_line", nil, pCommandChoice, pc.End())
)

// ParseLine recognizes a single, already comment-stripped and
// whitespace-trimmed VM command and annotates the result with line for
// diagnostics. file is used only for error messages.
func ParseLine(file string, line int, text string) (types.Command, error) {
	node, _ := ast.Parsewith(pCommand, pc.NewScanner([]byte(text)))
	if node == nil || len(node.GetChildren()) == 0 {
		return types.Command{}, diag.New(diag.ParseError, file, line, "malformed VM command: %q", text)
	}
	cmd, err := toCommand(node.GetChildren()[0])
	if err != nil {
		return types.Command{}, diag.New(diag.ParseError, file, line, "%s", err)
	}
	cmd.Line = line
	return cmd, nil
}

func toCommand(node pc.Queryable) (types.Command, error) {
	children := node.GetChildren()
	switch node.GetName() {
	case "memory_op":
		if len(children) != 3 {
			return types.Command{}, fmt.Errorf("expected 3 fields in a push/pop command, found %d", len(children))
		}
		kind := types.Push
		if children[0].GetValue() == "pop" {
			kind = types.Pop
		}
		idx, err := strconv.Atoi(children[2].GetValue())
		if err != nil {
			return types.Command{}, fmt.Errorf("invalid index %q", children[2].GetValue())
		}
		return types.Command{Kind: kind, Segment: types.Segment(children[1].GetValue()), Index: idx}, nil

	case "arithmetic_op":
		if len(children) != 1 {
			return types.Command{}, fmt.Errorf("malformed arithmetic command")
		}
		return types.Command{Kind: types.Arithmetic, Op: children[0].GetValue()}, nil

	case "label_decl":
		if len(children) != 2 {
			return types.Command{}, fmt.Errorf("malformed label command")
		}
		return types.Command{Kind: types.Label, Label: children[1].GetValue()}, nil

	case "goto_op":
		if len(children) != 2 {
			return types.Command{}, fmt.Errorf("malformed goto command")
		}
		kind := types.Goto
		if strings.EqualFold(children[0].GetValue(), "if-goto") {
			kind = types.IfGoto
		}
		return types.Command{Kind: kind, Label: children[1].GetValue()}, nil

	case "func_decl":
		if len(children) != 3 {
			return types.Command{}, fmt.Errorf("malformed function command")
		}
		n, err := strconv.Atoi(children[2].GetValue())
		if err != nil {
			return types.Command{}, fmt.Errorf("invalid local count %q", children[2].GetValue())
		}
		return types.Command{Kind: types.Function, Name: children[1].GetValue(), NArgs: n}, nil

	case "func_call":
		if len(children) != 3 {
			return types.Command{}, fmt.Errorf("malformed call command")
		}
		n, err := strconv.Atoi(children[2].GetValue())
		if err != nil {
			return types.Command{}, fmt.Errorf("invalid argument count %q", children[2].GetValue())
		}
		return types.Command{Kind: types.Call, Name: children[1].GetValue(), NArgs: n}, nil

	case "return_op":
		return types.Command{Kind: types.Return}, nil

	default:
		return types.Command{}, fmt.Errorf("unrecognized command node %q", node.GetName())
	}
}

// StripComment removes a trailing "//" comment and surrounding whitespace
// from one source line, per the specification's "strip comments and
// whitespace" rule shared by the VM translator and the assembler.
func StripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
