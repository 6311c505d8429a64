//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rhasspy/releasekit/internal/logger"
)

// Runner executes external build tools.
// Stages depend on this interface so tests can substitute a fake
// and assert on the exact command lines without spawning processes.
type Runner interface {
	// Run executes name with args in dir (empty dir means the current one).
	// The tool's own stdout/stderr pass through untouched; a nonzero exit
	// becomes a wrapped error and aborts the caller (fail-fast).
	Run(ctx context.Context, dir, name string, args ...string) error
}

// ExecRunner runs tools via os/exec, streaming their output.
type ExecRunner struct{}

// NewExecRunner returns the exec-backed Runner used by all binaries.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (*ExecRunner) Run(ctx context.Context, dir, name string, args ...string) error {
	logger.InfoKV(ctx, "Running command",
		"command", name+" "+strings.Join(args, " "),
		"dir", dir)

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		// The tool already printed its own diagnostics; no extra wrapping
		// beyond the command name.
		return fmt.Errorf("%s: %w", name, err)
	}

	return nil
}
