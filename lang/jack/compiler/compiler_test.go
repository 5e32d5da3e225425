package compiler_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n2tgo/toolchain/lang/jack/compiler"
)

func compile(t *testing.T, src string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, compiler.CompileClass("Main.jack", []byte(src), &buf))
	return buf.String()
}

func TestStringConstantExpansion(t *testing.T) {
	src := `
class Main {
    function void main() {
        do Output.printString("AB");
        return;
    }
}`
	got := compile(t, src)
	want := "push constant 2\n" +
		"call String.new 1\n" +
		"push constant 65\n" +
		"call String.appendChar 2\n" +
		"push constant 66\n" +
		"call String.appendChar 2\n"
	require.Contains(t, got, want, "output missing string-constant expansion")
}

func TestWhileLoopLabelScheme(t *testing.T) {
	src := `
class Main {
    function void main() {
        var int x;
        let x = 0;
        while (x < 10) {
            let x = x + 1;
        }
        return;
    }
}`
	got := compile(t, src)
	lines := strings.Split(strings.TrimRight(got, "\n"), "\n")

	var labelLines, ifGotoLines []int
	notCount := 0
	for i, l := range lines {
		if strings.HasPrefix(l, "label ") {
			labelLines = append(labelLines, i)
		}
		if strings.HasPrefix(l, "if-goto ") {
			ifGotoLines = append(ifGotoLines, i)
		}
	}
	require.Len(t, labelLines, 2, "expected 2 labels (WHILE_EXP/WHILE_END)")
	require.Len(t, ifGotoLines, 1)
	// Exactly one `not` immediately precedes the if-goto.
	require.Equal(t, "not", lines[ifGotoLines[0]-1], "expected `not` directly before if-goto")
	for _, l := range lines {
		if l == "not" {
			notCount++
		}
	}
	require.Equal(t, 1, notCount, "expected exactly one `not` instruction")
}

func TestConstructorAllocatesAndSetsThis(t *testing.T) {
	src := `
class Point {
    field int x, y;
    constructor Point new(int ax, int ay) {
        let x = ax;
        let y = ay;
        return this;
    }
}`
	got := compile(t, src)
	want := "function Point.new 0\n" +
		"push constant 2\n" +
		"call Memory.alloc 1\n" +
		"pop pointer 0\n"
	require.True(t, strings.HasPrefix(got, want), "got:\n%s\nwant prefix:\n%s", got, want)
	require.Contains(t, got, "push pointer 0\nreturn\n", "expected `return this` to push pointer 0")
}

func TestMethodProloguePushesArgument0(t *testing.T) {
	src := `
class Point {
    field int x;
    method int getX() {
        return x;
    }
}`
	got := compile(t, src)
	want := "function Point.getX 0\n" +
		"push argument 0\n" +
		"pop pointer 0\n" +
		"push this 0\n" +
		"return\n"
	require.Equal(t, want, got)
}

func TestArrayAccessAndAssignment(t *testing.T) {
	src := `
class Main {
    function void main() {
        var Array a;
        var int i;
        let a[i] = a[i + 1];
        return;
    }
}`
	got := compile(t, src)
	want := "push local 0\n" + // LHS base a
		"push local 1\n" + // LHS index i
		"add\n" + // LHS address
		"push local 0\n" + // RHS base a
		"push local 1\n" + // RHS index i
		"push constant 1\n" +
		"add\n" + // i + 1
		"add\n" + // RHS address
		"pop pointer 1\n" +
		"push that 0\n" +
		"pop temp 0\n" +
		"pop pointer 1\n" +
		"push temp 0\n" +
		"pop that 0\n"
	require.Contains(t, got, want)
}

func TestVoidReturnPushesZero(t *testing.T) {
	src := `
class Main {
    function void main() {
        return;
    }
}`
	got := compile(t, src)
	require.Equal(t, "function Main.main 0\npush constant 0\nreturn\n", got)
}

func TestDoStatementDiscardsReturnValue(t *testing.T) {
	src := `
class Main {
    function void main() {
        do Main.helper();
        return;
    }
    function void helper() {
        return;
    }
}`
	got := compile(t, src)
	require.Contains(t, got, "call Main.helper 0\npop temp 0\n", "expected do-statement to pop temp 0 after the call")
}

func TestImplicitAndExplicitReceiverCalls(t *testing.T) {
	src := `
class Main {
    function void main() {
        var Main m;
        do m.run();
        do helper();
        return;
    }
    method void run() {
        return;
    }
    function void helper() {
        return;
    }
}`
	got := compile(t, src)
	require.Contains(t, got, "push local 0\ncall Main.run 1\n", "explicit-receiver call must push the variable then call with +1 arg")
	require.Contains(t, got, "push pointer 0\ncall Main.helper 1\n", "implicit-receiver call must push pointer 0 then call with +1 arg")
}

func TestKeywordConstants(t *testing.T) {
	src := `
class Main {
    function boolean main() {
        var boolean b;
        let b = true;
        let b = false;
        let b = null;
        return b;
    }
}`
	got := compile(t, src)
	want := "push constant 0\nnot\npop local 0\n" +
		"push constant 0\npop local 0\n" +
		"push constant 0\npop local 0\n"
	require.Contains(t, got, want)
}

func TestUndeclaredIdentifierIsSemanticError(t *testing.T) {
	src := `
class Main {
    function void main() {
        let x = 1;
        return;
    }
}`
	var buf bytes.Buffer
	err := compiler.CompileClass("Main.jack", []byte(src), &buf)
	require.Error(t, err)
}

func TestSyntaxErrorOnMissingSemicolon(t *testing.T) {
	src := `
class Main {
    function void main() {
        return
    }
}`
	var buf bytes.Buffer
	err := compiler.CompileClass("Main.jack", []byte(src), &buf)
	require.Error(t, err)
}
