package integration

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rhasspy/releasekit/internal/config"
)

// buildResourceArchive produces a minimal snowboy source archive holding the
// resource member the bundler extracts.
func buildResourceArchive(t *testing.T) []byte {
	t.Helper()

	var buffer bytes.Buffer

	gzWriter := gzip.NewWriter(&buffer)
	tarWriter := tar.NewWriter(gzWriter)

	data := []byte("universal-model")
	require.NoError(t, tarWriter.WriteHeader(&tar.Header{
		Name: config.DefaultResourceMember,
		Mode: 0o644,
		Size: int64(len(data)),
	}))

	_, err := tarWriter.Write(data)
	require.NoError(t, err)

	require.NoError(t, tarWriter.Close())
	require.NoError(t, gzWriter.Close())

	return buffer.Bytes()
}
