package main

import (
	"github.com/olivierh59500/magnet-art/cmd"
)

func main() {
	// Flags, config and logging are set up by the root command.
	cmd.Execute()
}
