package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
)

func TestVMTranslateRejectsWrongExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("push constant 1\n"), 0o644))

	c := &VMTranslateCmd{}
	err := c.run(path, mainer.CurrentStdio())
	require.Error(t, err)
	require.Contains(t, err.Error(), "ArgumentError")
}

func TestVMTranslateTranslatesDotVMFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Prog.vm")
	require.NoError(t, os.WriteFile(path, []byte("push constant 1\n"), 0o644))

	c := &VMTranslateCmd{}
	require.NoError(t, c.run(path, mainer.CurrentStdio()))
	out, err := os.ReadFile(filepath.Join(dir, "Prog.asm"))
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
