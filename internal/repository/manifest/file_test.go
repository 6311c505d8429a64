package manifest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	domain "github.com/rhasspy/releasekit/internal/domain/release"
)

// TestSaveLoadRoundtrip persists a manifest and reads it back.
func TestSaveLoadRoundtrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "release-manifest.yaml"))

	rel := domain.New("1.0.0")
	rel.AddArtifact("rhasspy-wake-snowboy-hermes_1.0.0_amd64.tar.gz", "abc")
	rel.AddImage("rhasspy/rhasspy-wake-snowboy-hermes:1.0.0-amd64")

	require.NoError(t, repo.Save(ctx, rel))

	loaded, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.0.0", loaded.Version)
	require.Len(t, loaded.Artifacts, 1)
	require.Len(t, loaded.Images, 1)
	require.False(t, loaded.CreatedAt.IsZero())
}

// TestLoad_NotFound reports ErrNotFound for a missing manifest.
func TestLoad_NotFound(t *testing.T) {
	t.Parallel()

	repo := NewFileRepository(filepath.Join(t.TempDir(), "absent.yaml"))

	_, err := repo.Load(context.Background())
	require.ErrorIs(t, err, ErrNotFound)
}

// TestRecord starts a fresh manifest when the version changes.
func TestRecord(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	repo := NewFileRepository(filepath.Join(t.TempDir(), "release-manifest.yaml"))

	err := repo.Record(ctx, "1.0.0", func(rel *domain.Release) {
		rel.AddArtifact("a.tar.gz", "one")
	})
	require.NoError(t, err)

	err = repo.Record(ctx, "1.0.0", func(rel *domain.Release) {
		rel.AddArtifact("b.deb", "two")
	})
	require.NoError(t, err)

	rel, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, rel.Artifacts, 2)

	// A new version discards the old entries.
	err = repo.Record(ctx, "1.1.0", func(rel *domain.Release) {
		rel.AddArtifact("c.tar.gz", "three")
	})
	require.NoError(t, err)

	rel, err = repo.Load(ctx)
	require.NoError(t, err)
	require.Equal(t, "1.1.0", rel.Version)
	require.Len(t, rel.Artifacts, 1)
}
