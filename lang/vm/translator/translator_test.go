package translator_test

import (
	"flag"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/n2tgo/toolchain/internal/goldentest"
	"github.com/n2tgo/toolchain/lang/vm/translator"
)

var testUpdateTranslatorTests = flag.Bool("test.update-translator-tests", false, "If set, replace expected translator test results with actual results.")

// TestGoldenFiles translates every testdata/in/*.vm fixture into a scratch
// copy and diffs the result against the checked-in testdata/out/*.vm.want
// golden file, the same in/out/want convention the teacher's scanner and
// parser golden tests use.
func TestGoldenFiles(t *testing.T) {
	srcDir, resultDir := filepath.Join("testdata", "in"), filepath.Join("testdata", "out")

	for _, fi := range goldentest.SourceFiles(t, srcDir, ".vm") {
		t.Run(fi.Name(), func(t *testing.T) {
			scratch := t.TempDir()
			src, err := os.ReadFile(filepath.Join(srcDir, fi.Name()))
			require.NoError(t, err)
			scratchPath := filepath.Join(scratch, fi.Name())
			require.NoError(t, os.WriteFile(scratchPath, src, 0o644))

			outPath, err := translator.TranslateFile(scratchPath)
			require.NoError(t, err)
			out, err := os.ReadFile(outPath)
			require.NoError(t, err)
			goldentest.DiffOutput(t, fi, string(out), resultDir, testUpdateTranslatorTests)
		})
	}
}

func TestTranslateFileNoBootstrap(t *testing.T) {
	dir := t.TempDir()
	src := "push constant 7\npush constant 8\nadd\n"
	path := filepath.Join(dir, "Simple.vm")
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	outPath, err := translator.TranslateFile(path)
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "Simple.asm"), outPath)
	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.NotContains(t, string(out), "Sys.init", "a single-file translation must not emit the bootstrap")
	require.True(t, strings.HasPrefix(string(out), "@7\nD=A\n"), "got:\n%s", out)
}

func TestTranslateDirEmitsBootstrapAndSortsFiles(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	mustWrite("Zeta.vm", "function Zeta.run 0\nreturn\n")
	mustWrite("Alpha.vm", "function Alpha.run 0\nreturn\n")
	mustWrite("Sys.vm", "function Sys.init 0\ncall Alpha.run 0\nreturn\n")

	outPath, err := translator.TranslateDir(dir)
	require.NoError(t, err)
	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	text := string(out)
	require.True(t, strings.HasPrefix(text, "@256\nD=A\n@SP\nM=D\n"), "expected bootstrap first, got:\n%s", text)

	// Alphabetical order: Alpha.run's label must appear before Sys.init's,
	// and before Zeta.run's.
	alphaPos := strings.Index(text, "(Alpha.run)")
	sysPos := strings.Index(text, "(Sys.init)")
	zetaPos := strings.Index(text, "(Zeta.run)")
	require.True(t, alphaPos >= 0 && sysPos >= 0 && zetaPos >= 0, "missing expected function labels, got:\n%s", text)
	require.True(t, alphaPos < sysPos && sysPos < zetaPos, "expected alphabetical file ordering Alpha < Sys < Zeta, got:\n%s", text)
}

func TestTranslateDirErrorsWhenEmpty(t *testing.T) {
	dir := t.TempDir()
	_, err := translator.TranslateDir(dir)
	require.Error(t, err)
}

func TestStaticLinkageSharesSymbolWithinAFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Foo.vm")
	src := "function Foo.run 0\npush constant 5\npop static 0\npush static 0\nreturn\n"
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))
	outPath, err := translator.TranslateFile(path)
	require.NoError(t, err)
	out, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, 2, strings.Count(string(out), "@Foo.0"), "both the push and pop must reference Foo.0")
}
