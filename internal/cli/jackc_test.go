package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// A directory with more than one malformed file must report the same
// file's error on every run, never depend on map iteration order.
func TestJackcRunIsDeterministicAcrossMalformedFiles(t *testing.T) {
	dir := t.TempDir()
	bad := `
class Bad {
    function void main() {
        return
    }
}`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Zeta.jack"), []byte(bad), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Alpha.jack"), []byte(bad), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Mu.jack"), []byte(bad), 0o644))

	c := &JackcCmd{}
	var first error
	for i := 0; i < 20; i++ {
		err := c.run(dir)
		require.Error(t, err)
		if first == nil {
			first = err
		} else {
			require.Equal(t, first.Error(), err.Error(), "error must be identical across runs")
		}
	}
	require.Contains(t, first.Error(), "Alpha.jack", "Alpha.jack sorts first and must fail first")
}
