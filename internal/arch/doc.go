// Package arch maps Docker build-architecture tokens to friendly names and
// qemu emulation binaries.
//
// The friendly name appears in artifact filenames and image tags, while the
// build token is passed to the container build as an argument. The table is
// fixed; an unrecognized token aborts the pipeline before any tool runs.
package arch
