package trace

import (
	"fmt"
	"runtime"
	"sync"
	"time"
)

// Heartbeat emits a liveness event every interval with goroutine and heap
// figures. Heartbeats after a span begin with no matching end point at a
// describe that never finished.
type Heartbeat struct {
	tracer Tracer
	stop   chan struct{}
	done   chan struct{}
	once   sync.Once
}

// StartHeartbeat starts the ticker goroutine. It returns nil when tracing is
// disabled or interval is not positive; Stop on nil is a no-op.
func StartHeartbeat(tracer Tracer, interval time.Duration) *Heartbeat {
	if tracer == nil || !tracer.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{
		tracer: tracer,
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
	go h.loop(interval)
	return h
}

func (h *Heartbeat) loop(interval time.Duration) {
	defer close(h.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var beats uint64
	var mem runtime.MemStats
	for {
		select {
		case now := <-ticker.C:
			beats++
			runtime.ReadMemStats(&mem)
			h.tracer.Emit(&Event{
				Time:   now,
				Seq:    NextSeq(),
				Kind:   KindHeartbeat,
				Scope:  ScopeDriver,
				GID:    getGoroutineID(),
				Name:   "heartbeat",
				Detail: fmt.Sprintf("#%d", beats),
				Extra: map[string]string{
					"goroutines": fmt.Sprint(runtime.NumGoroutine()),
					"heap_kb":    fmt.Sprint(mem.HeapAlloc / 1024),
				},
			})
		case <-h.stop:
			return
		}
	}
}

// Stop ends the goroutine and waits for it. Safe to call more than once.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	<-h.done
}
