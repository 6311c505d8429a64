package version

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestVersionStrings ensures Short and Full return non-empty consistent information.
func TestVersionStrings(t *testing.T) {
	t.Parallel()

	require.NotEmpty(t, Short())
	require.Contains(t, Full(), Short())
}

// TestResolve reads a version token from a file and trims surrounding whitespace.
func TestResolve(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "VERSION")
	require.NoError(t, os.WriteFile(path, []byte("1.0.0\n"), 0o600))

	release, err := Resolve(path)
	require.NoError(t, err)
	require.Equal(t, "1.0.0", release)
}

// TestResolve_Missing fails when the version file does not exist.
func TestResolve_Missing(t *testing.T) {
	t.Parallel()

	_, err := Resolve(filepath.Join(t.TempDir(), "VERSION"))
	require.Error(t, err)
}

// TestResolve_Empty fails when the version file holds only whitespace.
func TestResolve_Empty(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "VERSION")
	require.NoError(t, os.WriteFile(path, []byte("  \n"), 0o600))

	_, err := Resolve(path)
	require.Error(t, err)
}
