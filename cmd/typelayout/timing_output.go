package main

import (
	"fmt"
	"io"

	"typelayout/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer) {
	if out == nil || timer == nil {
		return
	}
	report := timer.Report()
	for _, phase := range report.Phases {
		line := fmt.Sprintf("%s %.1f ms", phase.Name, phase.DurationMS)
		if phase.Note != "" {
			line += " (" + phase.Note + ")"
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			panic(err)
		}
	}
	if len(report.Phases) > 1 {
		if _, err := fmt.Fprintf(out, "total %.1f ms\n", report.TotalMS); err != nil {
			panic(err)
		}
	}
}
