// Package debian assembles the Debian package for one architecture: it lays
// out the DEBIAN control directory, substitutes version and architecture into
// the control template, copies the bundled tree into usr/lib and invokes
// dpkg-deb under fakeroot.
package debian
