package release

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestNaming pins the artifact and image naming scheme to literal expectations.
func TestNaming(t *testing.T) {
	t.Parallel()

	require.Equal(t,
		"rhasspy-wake-snowboy-hermes_1.0.0_amd64.tar.gz",
		TarballName("rhasspy-wake-snowboy-hermes", "1.0.0", "amd64"))
	require.Equal(t,
		"rhasspy-wake-snowboy-hermes_1.0.0_armhf.deb",
		DebName("rhasspy-wake-snowboy-hermes", "1.0.0", "armhf"))
	require.Equal(t,
		"rhasspy/rhasspy-wake-snowboy-hermes:1.0.0-arm64",
		ImageRef("rhasspy", "rhasspy-wake-snowboy-hermes", "1.0.0", "arm64"))
}

// TestAddArtifact replaces entries with the same name instead of duplicating them.
func TestAddArtifact(t *testing.T) {
	t.Parallel()

	r := New("1.0.0")
	r.AddArtifact("a.tar.gz", "one")
	r.AddArtifact("b.deb", "two")
	r.AddArtifact("a.tar.gz", "three")

	require.Len(t, r.Artifacts, 2)
	require.Equal(t, "three", r.Artifacts[0].Checksum)
}

// TestAddImage deduplicates image references.
func TestAddImage(t *testing.T) {
	t.Parallel()

	r := New("1.0.0")
	r.AddImage("rhasspy/svc:1.0.0-amd64")
	r.AddImage("rhasspy/svc:1.0.0-amd64")

	require.Len(t, r.Images, 1)
}

// TestFileChecksum is stable for identical content.
func TestFileChecksum(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")

	require.NoError(t, os.WriteFile(first, []byte("payload"), 0o600))
	require.NoError(t, os.WriteFile(second, []byte("payload"), 0o600))

	a, err := FileChecksum(first)
	require.NoError(t, err)

	b, err := FileChecksum(second)
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.NotEmpty(t, a)
}
