package trace

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLevelShouldEmit(t *testing.T) {
	cases := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDriver, false},
		{LevelPhase, ScopeCommand, true},
		{LevelPhase, ScopeLayout, false},
		{LevelDetail, ScopeLayout, true},
		{LevelDetail, ScopeNode, false},
		{LevelDebug, ScopeNode, true},
	}
	for _, tc := range cases {
		if got := tc.level.ShouldEmit(tc.scope); got != tc.want {
			t.Fatalf("%s.ShouldEmit(%s) = %v, want %v", tc.level, tc.scope, got, tc.want)
		}
	}
}

func TestParseLevelAndMode(t *testing.T) {
	if l, err := ParseLevel("DETAIL"); err != nil || l != LevelDetail {
		t.Fatalf("ParseLevel(DETAIL) = %v, %v", l, err)
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
	if m, err := ParseMode("log"); err != nil || m != ModeLog {
		t.Fatalf("ParseMode(log) = %v, %v", m, err)
	}
	if f, err := ParseFormat("json"); err != nil || f != FormatNDJSON {
		t.Fatalf("ParseFormat(json) = %v, %v", f, err)
	}
}

func TestResolveFormat(t *testing.T) {
	if got := ResolveFormat(FormatAuto, "out.ndjson"); got != FormatNDJSON {
		t.Fatalf("expected ndjson, got %v", got)
	}
	if got := ResolveFormat(FormatAuto, "-"); got != FormatText {
		t.Fatalf("expected text, got %v", got)
	}
	if got := ResolveFormat(FormatText, "out.json"); got != FormatText {
		t.Fatalf("explicit format must win, got %v", got)
	}
}

func TestStreamTracerWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatText)

	span := Begin(tr, ScopeCommand, "describe", 0)
	inner := Begin(tr, ScopeLayout, "no-packing", span.ID())
	inner.WithExtra("size", "12").End("")
	Begin(tr, ScopeNode, "struct:S1", inner.ID()).End("")
	span.End("S1")

	out := buf.String()
	if !strings.Contains(out, "→ describe") {
		t.Fatalf("missing begin line:\n%s", out)
	}
	if !strings.Contains(out, "← no-packing {size=12}") {
		t.Fatalf("missing end line with extra:\n%s", out)
	}
	if !strings.Contains(out, "← describe (S1)") {
		t.Fatalf("missing end detail:\n%s", out)
	}
	if strings.Contains(out, "struct:S1") {
		t.Fatalf("node scope must be filtered at detail level:\n%s", out)
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeNode, "visit", "int", 0)
	line := buf.String()
	if !strings.HasSuffix(line, "\n") || !strings.Contains(line, `"kind":"point"`) || !strings.Contains(line, `"detail":"int"`) {
		t.Fatalf("unexpected ndjson: %q", line)
	}
}

func TestRingTracerWraps(t *testing.T) {
	tr := NewRingTracer(3, LevelDebug)
	for i := 0; i < 5; i++ {
		Point(tr, ScopeNode, string(rune('a'+i)), "", 0)
	}
	events := tr.Snapshot()
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	got := events[0].Name + events[1].Name + events[2].Name
	if got != "cde" {
		t.Fatalf("expected chronological cde, got %q", got)
	}
}

func TestMultiTracerFansOut(t *testing.T) {
	var buf bytes.Buffer
	stream := NewStreamTracer(&buf, LevelPhase, FormatText)
	ring := NewRingTracer(8, LevelPhase)
	multi := NewMultiTracer(LevelPhase, stream, ring)

	Begin(multi, ScopeDriver, "run", 0).End("")

	if got, ok := multi.Ring(); !ok || got != ring {
		t.Fatal("expected Ring to return the ring tracer")
	}
	if n := len(ring.Snapshot()); n != 2 {
		t.Fatalf("expected 2 ring events, got %d", n)
	}
	if !strings.Contains(buf.String(), "run") {
		t.Fatalf("stream missing events: %q", buf.String())
	}
}

func TestZapTracerForwardsEvents(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	tr := NewZapTracer(zap.New(core), LevelDebug)

	Begin(tr, ScopeCommand, "define", 0).WithExtra("type", "S1").End("ok")
	Point(tr, ScopeNode, "visit", "char", 0)

	entries := logs.All()
	if len(entries) != 3 {
		t.Fatalf("expected 3 log entries, got %d", len(entries))
	}
	if entries[0].Level != zapcore.InfoLevel || entries[2].Level != zapcore.DebugLevel {
		t.Fatalf("unexpected levels: %v, %v", entries[0].Level, entries[2].Level)
	}
	if entries[1].ContextMap()["type"] != "S1" {
		t.Fatalf("expected extra field on end entry, got %v", entries[1].ContextMap())
	}
}

func TestNewHonoursMode(t *testing.T) {
	tr, err := New(Config{Level: LevelOff, Mode: ModeStream})
	if err != nil || tr.Enabled() {
		t.Fatalf("LevelOff must yield a disabled tracer, got %T, %v", tr, err)
	}

	var buf bytes.Buffer
	tr, err = New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := tr.(*MultiTracer); !ok {
		t.Fatalf("expected *MultiTracer, got %T", tr)
	}

	tr, err = New(Config{Level: LevelPhase, Mode: ModeLog})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := tr.(*ZapTracer); !ok {
		t.Fatalf("expected *ZapTracer, got %T", tr)
	}
}

func TestContextPropagation(t *testing.T) {
	ctx := context.Background()
	if FromContext(ctx) != Nop {
		t.Fatal("expected Nop without tracer")
	}
	ring := NewRingTracer(4, LevelPhase)
	ctx = WithTracer(ctx, ring)
	if FromContext(ctx) != Tracer(ring) {
		t.Fatal("expected attached tracer")
	}
	ctx = WithSpanContext(ctx, SpanContext{SpanID: 7})
	if CurrentSpan(ctx).SpanID != 7 {
		t.Fatal("expected span id 7")
	}
}

func TestHeartbeatEmitsUntilStopped(t *testing.T) {
	ring := NewRingTracer(16, LevelPhase)
	hb := StartHeartbeat(ring, time.Millisecond)
	deadline := time.Now().Add(2 * time.Second)
	for ring.Len() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("no heartbeat emitted")
		}
		time.Sleep(time.Millisecond)
	}
	hb.Stop()
	hb.Stop()

	ev := ring.Snapshot()[0]
	if ev.Kind != KindHeartbeat || ev.Extra["goroutines"] == "" {
		t.Fatalf("unexpected event %+v", ev)
	}
	if StartHeartbeat(Nop, time.Millisecond) != nil {
		t.Fatal("heartbeat started for disabled tracer")
	}
}
