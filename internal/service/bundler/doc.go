// Package bundler invokes PyInstaller to freeze the Python application into
// a self-contained directory tree, injects the snowboy resource file the
// application expects at runtime, and compresses the tree into the
// distributable `<package>_<version>_<architecture>.tar.gz` archive.
package bundler
