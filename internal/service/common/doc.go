// Package common holds helpers shared by several pipeline stages.
//
// It provides the Runner abstraction over external build tools
// (docker, pyinstaller, dpkg-deb) and the working-directory build lock
// that keeps two pipeline runs from trampling each other's intermediate
// directories.
//
//nolint:revive,nolintlint // Package name "common" is intentional for shared helpers.
package common
