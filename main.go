// main is the entry point for the revaudit CLI.
package main

import (
	"os"

	"github.com/revflo/revaudit/cmd"
	"github.com/revflo/revaudit/internal/contract"
	"github.com/revflo/revaudit/internal/iocache"
)

func main() {
	err := cmd.Execute()

	// Shutdown steps run regardless of command outcome.
	iocache.CloseStores()
	if perr := cmd.StopProfiling(); perr != nil {
		contract.LogWarn("Failed to stop profiling", perr)
	}

	if err != nil {
		contract.LogWarn("Command failed", err)
		os.Exit(1)
	}
}
