//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/mitchellh/go-ps"

	"github.com/rhasspy/releasekit/internal/logger"
)

const (
	// MarkerFilename marks that a pipeline run is in progress to avoid
	// two builds overwriting the same intermediate directories.
	MarkerFilename = "releasekit-build-marker.bin"

	// markerLifetime is the period after which a marker without a live
	// owner process is considered stale.
	markerLifetime = 30 * time.Minute

	// processPrefix identifies releasekit binaries in the process table.
	processPrefix = "release-"
)

// ErrBuildRunning signals that another pipeline run owns the working directory.
var ErrBuildRunning = errors.New("another build is running in this directory")

// BuildLock guards a working directory against concurrent pipeline runs.
type BuildLock struct {
	// path is the marker file location.
	path string
}

// NewBuildLock creates a lock around the given marker path
// (empty path means MarkerFilename in the current directory).
func NewBuildLock(path string) *BuildLock {
	if path == "" {
		path = MarkerFilename
	}

	return &BuildLock{path: path}
}

// Acquire creates the marker file, refusing when a fresh marker exists or a
// sibling releasekit process is still alive. A stale marker without a live
// owner is removed and the lock is taken over.
func (l *BuildLock) Acquire(ctx context.Context) error {
	fileInfo, err := os.Stat(l.path)
	if err == nil {
		if time.Since(fileInfo.ModTime()) <= markerLifetime {
			return ErrBuildRunning
		}

		logger.Info(ctx, "Build marker is stale, checking for a live owner")

		alive, checkErr := siblingProcessAlive()
		if checkErr != nil || alive {
			return ErrBuildRunning
		}

		if err = os.Remove(l.path); err != nil {
			return ErrBuildRunning
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}

	marker, err := os.Create(l.path)
	if err != nil {
		return err
	}

	return marker.Close()
}

// Release removes the marker file. Best effort.
func (l *BuildLock) Release(ctx context.Context) {
	if _, err := os.Stat(l.path); err == nil {
		if err = os.Remove(l.path); err != nil {
			logger.Warnf(ctx, "Unable to remove build marker: %v", err)
		}
	}
}

// siblingProcessAlive reports whether another releasekit binary is running.
func siblingProcessAlive() (bool, error) {
	processList, err := ps.Processes()
	if err != nil {
		return false, err
	}

	thisProcessID := os.Getpid()

	for _, process := range processList {
		if process.Pid() == thisProcessID {
			continue
		}

		if strings.HasPrefix(process.Executable(), processPrefix) {
			return true, nil
		}
	}

	return false, nil
}
