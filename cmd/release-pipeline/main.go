package main

import "github.com/rhasspy/releasekit/cmd/release-pipeline/cmd"

func main() {
	cmd.Execute()
}
