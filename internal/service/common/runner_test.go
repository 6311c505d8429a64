//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestExecRunner_Success runs a trivial command to completion.
func TestExecRunner_Success(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	require.NoError(t, r.Run(context.Background(), t.TempDir(), "true"))
}

// TestExecRunner_Failure propagates the nonzero exit of the tool.
func TestExecRunner_Failure(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	err := r.Run(context.Background(), "", "false")
	require.Error(t, err)
	require.Contains(t, err.Error(), "false")
}

// TestExecRunner_MissingTool fails when the command does not exist.
func TestExecRunner_MissingTool(t *testing.T) {
	t.Parallel()

	r := NewExecRunner()
	err := r.Run(context.Background(), "", "releasekit-no-such-tool")
	require.Error(t, err)
}
