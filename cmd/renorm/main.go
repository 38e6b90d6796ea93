// main is the entrypoint for the renorm CLI.
package main

import (
	"os"

	"github.com/hepworks/renorm/cmd"
	"github.com/hepworks/renorm/internal/contract"
)

func main() {
	if err := cmd.Execute(); err != nil {
		contract.LogWarn("Run failed", err)
		os.Exit(1)
	}
}
