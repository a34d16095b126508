package main

import (
	"os"

	"typelayout/internal/config"
)

// shouldUseTUI resolves the --ui switch; auto means stdout is a terminal.
func shouldUseTUI(mode config.Switch) bool {
	return mode.Resolve(isTerminal(os.Stdout))
}
