package trace

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ZapTracer forwards events to a zap logger, one log entry per event.
type ZapTracer struct {
	logger *zap.Logger
	level  Level
}

// NewZapTracer wraps logger. A nil logger falls back to zap.NewNop.
func NewZapTracer(logger *zap.Logger, level Level) *ZapTracer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ZapTracer{logger: logger, level: level}
}

// Emit logs the event with its fields.
func (t *ZapTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	fields := make([]zap.Field, 0, 6+len(ev.Extra))
	fields = append(fields,
		zap.String("kind", ev.Kind.String()),
		zap.String("scope", ev.Scope.String()),
		zap.Uint64("seq", ev.Seq),
	)
	if ev.SpanID != 0 {
		fields = append(fields, zap.Uint64("span", ev.SpanID))
	}
	if ev.ParentID != 0 {
		fields = append(fields, zap.Uint64("parent", ev.ParentID))
	}
	if ev.Detail != "" {
		fields = append(fields, zap.String("detail", ev.Detail))
	}
	for k, v := range ev.Extra {
		fields = append(fields, zap.String(k, v))
	}
	if ce := t.logger.Check(zapLevel(ev.Scope), ev.Name); ce != nil {
		ce.Write(fields...)
	}
}

// zapLevel maps coarse scopes to Info and fine ones to Debug.
func zapLevel(scope Scope) zapcore.Level {
	if scope <= ScopeCommand {
		return zapcore.InfoLevel
	}
	return zapcore.DebugLevel
}

// Flush syncs the logger.
func (t *ZapTracer) Flush() error {
	return t.logger.Sync()
}

// Close syncs the logger; zap loggers own no other resources.
func (t *ZapTracer) Close() error {
	return t.Flush()
}

func (t *ZapTracer) Level() Level { return t.level }

func (t *ZapTracer) Enabled() bool { return t.level > LevelOff }

var (
	loggerMu sync.RWMutex
	logger   = zap.NewNop()
)

// Logger returns the process-wide logger used by log-mode tracers.
func Logger() *zap.Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// SetLogger replaces the process-wide logger. nil restores the no-op logger.
func SetLogger(l *zap.Logger) {
	if l == nil {
		l = zap.NewNop()
	}
	loggerMu.Lock()
	logger = l
	loggerMu.Unlock()
}
