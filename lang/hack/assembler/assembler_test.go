package assembler_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n2tgo/toolchain/lang/hack/assembler"
)

func assemble(t *testing.T, src string) []string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "Prog.asm")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	outPath, err := assembler.AssembleFile(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Prog.hack"), outPath)
	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := strings.TrimRight(string(out), "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func TestTrivialCInstruction(t *testing.T) {
	lines := assemble(t, "@2\nD=A\n@3\nD=D+A\n")
	require.Len(t, lines, 4)
	require.Equal(t, "1110000010010000", lines[3])
}

func TestLabelResolvesToInstructionAfterIt(t *testing.T) {
	lines := assemble(t, "(LOOP)\n@LOOP\n0;JMP\n")
	require.Len(t, lines, 2, "the label line must emit no code")
	// LOOP resolves to address 0, the position of the instruction right after it.
	require.Equal(t, "0000000000000000", lines[0])
}

func TestForwardLabelReference(t *testing.T) {
	lines := assemble(t, "@END\n0;JMP\n(END)\n@0\nD=A\n")
	require.Len(t, lines, 3)
	// END is declared after two instructions, so it resolves to ROM address 2.
	require.Equal(t, "0000000000000010", lines[0])
}

func TestVariableAllocationStartsAtSixteen(t *testing.T) {
	lines := assemble(t, "@foo\nM=1\n@bar\nM=1\n@foo\nM=1\n")
	require.Len(t, lines, 6)
	require.Equal(t, "0000000000010000", lines[0], "foo at RAM 16")
	require.Equal(t, "0000000000010001", lines[2], "bar at RAM 17")
	require.Equal(t, lines[0], lines[4], "second reference to foo must resolve to the same address")
}

func TestBuiltInSymbolsResolveWithoutAllocating(t *testing.T) {
	lines := assemble(t, "@SCREEN\nD=A\n@foo\nM=D\n")
	require.Equal(t, "0100000000000000", lines[0], "SCREEN at 16384")
	// foo is the first user variable and must not collide with SCREEN/KBD.
	require.Equal(t, "0000000000010000", lines[2], "foo at RAM 16")
}

func TestDuplicateLabelIsAnError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Bad.asm")
	src := "(LOOP)\n@0\n(LOOP)\n@0\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	_, err := assembler.AssembleFile(path)
	require.Error(t, err)
}

func TestStripsCommentsAndBlankLines(t *testing.T) {
	lines := assemble(t, "// a header comment\n\n@2 // load 2\nD=A // stash it\n\n")
	require.Len(t, lines, 2)
}
