package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"typelayout/internal/prof"
)

var profiler *prof.Profiler

// setupProfiling starts the profilers requested by the persistent flags.
func setupProfiling(cmd *cobra.Command) error {
	pf := cmd.Root().PersistentFlags()
	var opts prof.Options
	var err error
	if opts.CPUProfile, err = pf.GetString("cpu-profile"); err != nil {
		return fmt.Errorf("failed to get cpu-profile flag: %w", err)
	}
	if opts.MemProfile, err = pf.GetString("mem-profile"); err != nil {
		return fmt.Errorf("failed to get mem-profile flag: %w", err)
	}
	if opts.RuntimeTrace, err = pf.GetString("runtime-trace"); err != nil {
		return fmt.Errorf("failed to get runtime-trace flag: %w", err)
	}
	if !opts.Enabled() {
		return nil
	}
	if profiler, err = prof.Start(opts); err != nil {
		return err
	}
	return nil
}

// stopProfiling is safe to call when profiling never started.
func stopProfiling(cmd *cobra.Command) {
	if err := profiler.Stop(); err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "profiling: %v\n", err)
	}
	profiler = nil
}
