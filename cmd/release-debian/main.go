package main

import "github.com/rhasspy/releasekit/cmd/release-debian/cmd"

func main() {
	cmd.Execute()
}
