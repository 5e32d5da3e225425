// Package assembler drives the two-pass translation of Hack assembly into
// machine code: pass one walks the stripped source counting instructions
// to assign every label declaration its ROM address; pass two re-walks
// the same lines, resolving each symbol (label, built-in, or freshly
// allocated variable) and encoding the result.
package assembler

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/n2tgo/toolchain/internal/diag"
	"github.com/n2tgo/toolchain/lang/hack/codegen"
	"github.com/n2tgo/toolchain/lang/hack/parser"
	"github.com/n2tgo/toolchain/lang/hack/symbol"
	"github.com/n2tgo/toolchain/lang/hack/types"
)

// AssembleFile reads the .asm file at path, assembles it, and writes the
// result to a .hack file of the same name alongside it. Returns the
// output path.
func AssembleFile(path string) (string, error) {
	outputPath, _, err := AssembleFileWithSymbols(path)
	return outputPath, err
}

// AssembleFileWithSymbols does the same work as AssembleFile and also
// returns the final resolved symbol table (labels and variables, in
// declaration order), for the assembler CLI's --dump-symbols flag.
func AssembleFileWithSymbols(path string) (string, []symbol.Entry, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return "", nil, diag.New(diag.IoError, path, 0, "cannot read file: %s", err)
	}
	lines := stripLines(string(src))

	table := symbol.New()
	if err := collectLabels(path, lines, table); err != nil {
		return "", nil, err
	}

	outputPath := strings.TrimSuffix(path, ".asm") + ".hack"
	out, err := os.Create(outputPath)
	if err != nil {
		return "", nil, diag.New(diag.IoError, outputPath, 0, "cannot create output file: %s", err)
	}
	defer out.Close()

	bw := bufio.NewWriter(out)
	if err := emitInstructions(path, lines, table, bw); err != nil {
		return "", nil, err
	}
	if err := bw.Flush(); err != nil {
		return "", nil, diag.New(diag.IoError, outputPath, 0, "write failed: %s", err)
	}
	return outputPath, table.Entries(), nil
}

type numberedLine struct {
	text string
	line int
}

// stripLines strips comments and blank lines, keeping each surviving
// line's original 1-based source line number for diagnostics.
func stripLines(src string) []numberedLine {
	var out []numberedLine
	for i, raw := range strings.Split(src, "\n") {
		text := parser.StripComment(raw)
		if text == "" {
			continue
		}
		out = append(out, numberedLine{text: text, line: i + 1})
	}
	return out
}

// collectLabels is pass 1: it assigns every (LABEL) declaration the ROM
// address of the instruction that follows it, without allocating any
// variables yet (that happens only in pass 2, on demand).
func collectLabels(file string, lines []numberedLine, table *symbol.Table) error {
	romAddr := uint16(0)
	for _, l := range lines {
		if strings.HasPrefix(l.text, "(") {
			inst, err := parser.ParseLine(file, l.line, l.text)
			if err != nil {
				return err
			}
			if inst.Kind != types.Label {
				return diag.New(diag.ParseError, file, l.line, "malformed label declaration: %q", l.text)
			}
			if table.Has(inst.Symbol) {
				return diag.New(diag.SemanticError, file, l.line, "label %q already declared", inst.Symbol)
			}
			table.DeclareLabel(inst.Symbol, romAddr)
			continue
		}
		romAddr++
	}
	return nil
}

// emitInstructions is pass 2: labels are skipped (they carry no machine
// code of their own), and every A/C instruction is resolved and encoded.
func emitInstructions(file string, lines []numberedLine, table *symbol.Table, w *bufio.Writer) error {
	for _, l := range lines {
		inst, err := parser.ParseLine(file, l.line, l.text)
		if err != nil {
			return err
		}
		switch inst.Kind {
		case types.Label:
			continue
		case types.AInstruction:
			addr, err := resolveAddress(inst.Symbol, table)
			if err != nil {
				return diag.New(diag.EncodingError, file, l.line, "%s", err)
			}
			code, err := codegen.EncodeA(addr)
			if err != nil {
				return diag.New(diag.EncodingError, file, l.line, "%s", err)
			}
			if _, err := w.WriteString(code + "\n"); err != nil {
				return diag.New(diag.IoError, file, l.line, "write failed: %s", err)
			}
		case types.CInstruction:
			code, err := codegen.EncodeC(inst.Dest, inst.Comp, inst.Jump)
			if err != nil {
				return diag.New(diag.EncodingError, file, l.line, "%s", err)
			}
			if _, err := w.WriteString(code + "\n"); err != nil {
				return diag.New(diag.IoError, file, l.line, "write failed: %s", err)
			}
		}
	}
	return nil
}

// resolveAddress turns an A-instruction's operand into a concrete RAM/ROM
// address: a numeric literal is used directly, anything else is resolved
// (or allocated) through the symbol table. A numeric literal that does not
// fit 16 bits (or is negative) is an error rather than a symbol name.
func resolveAddress(operand string, table *symbol.Table) (uint16, error) {
	n, err := strconv.ParseUint(operand, 10, 16)
	if err == nil {
		return uint16(n), nil
	}
	if strings.Trim(strings.TrimPrefix(operand, "-"), "0123456789") == "" {
		return 0, fmt.Errorf("address %s exceeds the addressable 15-bit range", operand)
	}
	return table.Resolve(operand), nil
}
