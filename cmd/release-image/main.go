package main

import "github.com/rhasspy/releasekit/cmd/release-image/cmd"

func main() {
	cmd.Execute()
}
