package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"
	"github.com/stretchr/testify/require"
)

func TestHackasmRejectsWrongExtension(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("@1\nD=A\n"), 0o644))

	c := &HackasmCmd{}
	err := c.run(path, mainer.CurrentStdio())
	require.Error(t, err)
	require.Contains(t, err.Error(), "ArgumentError")
}

func TestHackasmAssemblesDotAsmFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Prog.asm")
	require.NoError(t, os.WriteFile(path, []byte("@1\nD=A\n"), 0o644))

	c := &HackasmCmd{}
	require.NoError(t, c.run(path, mainer.CurrentStdio()))
	out, err := os.ReadFile(filepath.Join(dir, "Prog.hack"))
	require.NoError(t, err)
	require.NotEmpty(t, out)
}
