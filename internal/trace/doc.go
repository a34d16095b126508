// Package trace provides the tracing and logging subsystem of typelayout.
//
// The tracer records what the CLI, the type manager and the layout engine do,
// which helps explain a surprising layout or a slow batch describe.
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	typelayout describe --trace=- --trace-level=detail types.toml
//
// # Architecture
//
// The package provides several tracer implementations:
//
//   - Nop: zero-overhead no-op tracer when disabled
//   - StreamTracer: immediate write to output (file/stderr)
//   - RingTracer: circular buffer for crash dumps
//   - ZapTracer: forwards events to a zap logger
//   - MultiTracer: combines multiple tracers
//
// # Levels
//
//   - LevelOff: no tracing
//   - LevelError: only crash dumps
//   - LevelPhase: CLI commands and manager operations
//   - LevelDetail: adds one event per strategy computation
//   - LevelDebug: everything, including every nested component visited
//
// # Context Propagation
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeCommand, "describe", 0)
//	defer span.End("")
package trace
