package main

import (
	"os"

	"github.com/prefigure/openapi-mock-build/src/cli/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
