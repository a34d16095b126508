package observ

import (
	"strings"
	"testing"
	"time"
)

func fakeClock(step time.Duration) func() time.Time {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return func() time.Time {
		now = now.Add(step)
		return now
	}
}

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	tm.now = fakeClock(time.Millisecond)

	load := tm.Begin("load")
	tm.End(load, "types.toml")
	done := tm.Track("describe")
	done("")
	open := tm.Begin("render")
	_ = open

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 closed phases, got %+v", rep.Phases)
	}
	if rep.Phases[0].Name != "load" || rep.Phases[0].DurationMS != 1 || rep.Phases[0].Note != "types.toml" {
		t.Fatalf("unexpected first phase: %+v", rep.Phases[0])
	}
	if rep.TotalMS != 2 {
		t.Fatalf("total = %v, want 2", rep.TotalMS)
	}

	sum := tm.Summary()
	if !strings.Contains(sum, "// types.toml") || !strings.Contains(sum, "total") {
		t.Fatalf("unexpected summary:\n%s", sum)
	}
}

func TestTimerIgnoresBadIndex(t *testing.T) {
	tm := NewTimer()
	tm.End(-1, "x")
	tm.End(3, "x")
	idx := tm.Begin("a")
	tm.End(idx, "first")
	tm.End(idx, "second")
	if got := tm.Report().Phases[0].Note; got != "first" {
		t.Fatalf("phase closed twice: note %q", got)
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.Track("x")("y")
	if len(tm.Report().Phases) != 0 {
		t.Fatalf("nil timer recorded phases")
	}
}
