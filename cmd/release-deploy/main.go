package main

import "github.com/rhasspy/releasekit/cmd/release-deploy/cmd"

func main() {
	cmd.Execute()
}
