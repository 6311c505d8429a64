package main

import "github.com/rhasspy/releasekit/cmd/release-bundle/cmd"

func main() {
	cmd.Execute()
}
