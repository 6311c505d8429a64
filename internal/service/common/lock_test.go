//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestBuildLock_AcquireRelease takes and frees the lock, checking marker presence.
func TestBuildLock_AcquireRelease(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "marker.bin")
	lock := NewBuildLock(path)

	require.NoError(t, lock.Acquire(ctx))

	_, err := os.Stat(path)
	require.NoError(t, err)

	lock.Release(ctx)

	_, err = os.Stat(path)
	require.ErrorIs(t, err, os.ErrNotExist)
}

// TestBuildLock_Contention refuses a second acquire while the marker is fresh.
func TestBuildLock_Contention(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "marker.bin")

	first := NewBuildLock(path)
	require.NoError(t, first.Acquire(ctx))

	second := NewBuildLock(path)
	require.ErrorIs(t, second.Acquire(ctx), ErrBuildRunning)

	first.Release(ctx)
	require.NoError(t, second.Acquire(ctx))

	second.Release(ctx)
}
