// Package version exposes build metadata for the toolchain itself and
// resolves the version of the release being packaged.
//
// Variables Version, Commit, and BuildTime are injected at build time via
// Go ldflags and default to sensible values for local builds.
// Resolve reads the packaged project's VERSION file; its content is an opaque
// token substituted into artifact names, image tags and control files.
package version
