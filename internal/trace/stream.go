package trace

import (
	"bufio"
	"io"
	"sync"
)

// StreamTracer writes events to a writer as they happen.
type StreamTracer struct {
	mu     sync.Mutex
	buf    *bufio.Writer
	w      io.Writer
	level  Level
	format Format
}

func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	if format == FormatAuto {
		format = FormatText
	}
	return &StreamTracer{buf: bufio.NewWriter(w), w: w, level: level, format: format}
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	// трассировка не должна ломать прогон
	_, _ = t.buf.Write(data) //nolint:errcheck
	if ev.Kind == KindHeartbeat || ev.Scope == ScopeDriver {
		_ = t.buf.Flush() //nolint:errcheck
	}
}

func (t *StreamTracer) Level() Level { return t.level }

// Close flushes pending events and closes the writer if it is an io.Closer.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if err := t.buf.Flush(); err != nil {
		return err
	}
	if closer, ok := t.w.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
