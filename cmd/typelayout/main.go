package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"typelayout/internal/version"
)

// errReported marks failures whose details were already printed as
// diagnostics; main only sets the exit code for them.
var errReported = errors.New("errors reported")

var rootCmd = &cobra.Command{
	Use:   "typelayout",
	Short: "Type layout calculator",
	Long: `typelayout defines atomic, struct and union types and reports their size,
alignment and wasted bytes with no packing, packed, and optimally reordered.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return setupProfiling(cmd)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		stopProfiling(cmd)
		runTraceCleanup(false)
	},
}

func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(replCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(describeCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(snapshotCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show")
	pf.String("lang", "", "label language (en|es)")
	pf.String("config", "", "path to typelayout.toml (default: search upwards)")
	addTraceFlags(pf)
	pf.String("cpu-profile", "", "write CPU profile to file")
	pf.String("mem-profile", "", "write heap profile to file on exit")
	pf.String("runtime-trace", "", "write Go runtime trace to file")
}

// main runs the root command. Any error exits with status 1.
func main() {
	if err := rootCmd.Execute(); err != nil {
		stopProfiling(rootCmd)
		runTraceCleanup(true)
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "typelayout: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
