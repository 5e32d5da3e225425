// Package parser parses one line of Hack assembly at a time into a
// types.Instruction, using the same prataprc/goparsec combinator style as
// the its-hmny reference, adapted the same way the VM parser was: a
// per-line grammar anchored with pc.End() so trailing garbage is rejected,
// and real per-line diagnostics instead of a whole-program AST with a
// hardcoded success flag.
//
// The reference's HandleCInst silently drops jump when both dest and
// jump are present (it returns as soon as the "assign" branch matches,
// never looking at jump). This package's toInstruction fixes that by reading
// dest and jump independently off the c-inst node's Maybe children rather
// than returning early.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	pc "github.com/prataprc/goparsec"

	"github.com/n2tgo/toolchain/internal/diag"
	"github.com/n2tgo/toolchain/lang/hack/types"
)

var ast = pc.NewAST("hack_line", 16)

var (
	pLabelTok = ast.OrdChoice("label_tok", nil,
		pc.Int(), pc.Token(`[A-Za-z_.$:][0-9a-zA-Z_.$:]*`, "SYMBOL"))

	pAInst = ast.And("a_inst", nil, pc.Atom("@", "@"), pLabelTok)

	pLabelDecl = ast.And("label_decl", nil, pc.Atom("(", "("), pLabelTok, pc.Atom(")", ")"))

	// Any permutation of 1-3 distinct dest letters; toInstruction
	// canonicalizes the matched text into A/M/D order before it's used as
	// a DestTable key, per spec §4.4's "mnemonics are canonicalised before
	// lookup" rule (so "MA=D", "DM=1", etc. parse and encode exactly like
	// "AM=D", "MD=1").
	pDest = pc.Token(`[AMD]{1,3}`, "DEST")

	pComp = ast.OrdChoice("comp", nil,
		pc.Atom("D&A", "D&A"), pc.Atom("D&M", "D&M"),
		pc.Atom("D|A", "D|A"), pc.Atom("D|M", "D|M"),
		pc.Atom("D+A", "D+A"), pc.Atom("D+M", "D+M"),
		pc.Atom("D-A", "D-A"), pc.Atom("D-M", "D-M"),
		pc.Atom("A-D", "A-D"), pc.Atom("M-D", "M-D"),
		pc.Atom("D+1", "D+1"), pc.Atom("A+1", "A+1"), pc.Atom("M+1", "M+1"),
		pc.Atom("D-1", "D-1"), pc.Atom("A-1", "A-1"), pc.Atom("M-1", "M-1"),
		pc.Atom("!D", "!D"), pc.Atom("!A", "!A"), pc.Atom("!M", "!M"),
		pc.Atom("-D", "-D"), pc.Atom("-A", "-A"), pc.Atom("-M", "-M"),
		pc.Atom("-1", "-1"), pc.Atom("0", "0"), pc.Atom("1", "1"),
		pc.Atom("D", "D"), pc.Atom("A", "A"), pc.Atom("M", "M"),
	)

	pJump = ast.OrdChoice("jump", nil,
		pc.Atom("JGT", "JGT"), pc.Atom("JEQ", "JEQ"), pc.Atom("JGE", "JGE"),
		pc.Atom("JLT", "JLT"), pc.Atom("JNE", "JNE"), pc.Atom("JLE", "JLE"),
		pc.Atom("JMP", "JMP"),
	)

	pCInst = ast.And("c_inst", nil,
		ast.Maybe("maybe_assign", nil, ast.And("assign", nil, pDest, pc.Atom("=", "="))),
		pComp,
		ast.Maybe("maybe_goto", nil, ast.And("goto", nil, pc.Atom(";", ";"), pJump)),
	)

	pLineChoice = ast.OrdChoice("line", nil, pAInst, pLabelDecl, pCInst)

	pLine = ast.And("line_full", nil, pLineChoice, pc.End())
)

// ParseLine parses one already comment-stripped, already-trimmed line of
// Hack assembly into a types.Instruction tagged with file and line for
// diagnostics.
func ParseLine(file string, line int, text string) (types.Instruction, error) {
	node, _ := ast.Parsewith(pLine, pc.NewScanner([]byte(text)))
	if node == nil || len(node.GetChildren()) == 0 {
		return types.Instruction{}, diag.New(diag.ParseError, file, line, "malformed instruction: %q", text)
	}
	inst, err := toInstruction(node.GetChildren()[0])
	if err != nil {
		return types.Instruction{}, diag.New(diag.ParseError, file, line, "%s", err)
	}
	inst.Line = line
	return inst, nil
}

func toInstruction(node pc.Queryable) (types.Instruction, error) {
	switch node.GetName() {
	case "a_inst":
		children := node.GetChildren()
		return types.Instruction{Kind: types.AInstruction, Symbol: children[1].GetValue()}, nil

	case "label_decl":
		children := node.GetChildren()
		return types.Instruction{Kind: types.Label, Symbol: children[1].GetValue()}, nil

	case "c_inst":
		children := node.GetChildren()
		if len(children) != 3 {
			return types.Instruction{}, fmt.Errorf("malformed c-instruction")
		}
		maybeAssign, comp, maybeGoto := children[0], children[1], children[2]

		// ast.Maybe, when its inner parser matched, yields that parser's own
		// node (named "assign"/"goto") rather than a wrapper named
		// "maybe_assign"/"maybe_goto"; when it didn't match it keeps the
		// outer name with no children. Unlike the reference's HandleCInst,
		// dest and jump are each read independently so a C-instruction with
		// both a destination and a jump keeps both.
		dest := ""
		if maybeAssign.GetName() == "assign" && len(maybeAssign.GetChildren()) == 2 {
			dest = canonicalDest(maybeAssign.GetChildren()[0].GetValue())
		}
		jump := ""
		if maybeGoto.GetName() == "goto" && len(maybeGoto.GetChildren()) == 2 {
			jump = maybeGoto.GetChildren()[1].GetValue()
		}
		return types.Instruction{Kind: types.CInstruction, Dest: dest, Comp: comp.GetValue(), Jump: jump}, nil

	default:
		return types.Instruction{}, fmt.Errorf("unrecognized node %q", node.GetName())
	}
}

// canonicalDest reorders a dest mnemonic's letters into A/M/D order and
// drops duplicates, so every permutation a scanner can match (MA, DM, ADM,
// ...) lands on the same DestTable key as its canonical spelling.
func canonicalDest(s string) string {
	var hasA, hasM, hasD bool
	for _, r := range s {
		switch r {
		case 'A':
			hasA = true
		case 'M':
			hasM = true
		case 'D':
			hasD = true
		}
	}
	var b strings.Builder
	if hasA {
		b.WriteByte('A')
	}
	if hasM {
		b.WriteByte('M')
	}
	if hasD {
		b.WriteByte('D')
	}
	return b.String()
}

// IsNumeric reports whether an A-instruction's symbol is a decimal
// literal rather than a label/variable name.
func IsNumeric(symbol string) bool {
	_, err := strconv.ParseInt(symbol, 10, 32)
	return err == nil
}

// StripComment removes a trailing "// ..." comment and surrounding
// whitespace, leaving "" for blank or comment-only lines.
func StripComment(line string) string {
	if i := strings.Index(line, "//"); i >= 0 {
		line = line[:i]
	}
	return strings.TrimSpace(line)
}
