package trace

import (
	"io"
	"slices"
	"sync"
)

// RingTracer keeps the last N events in memory.
type RingTracer struct {
	mu     sync.Mutex
	events []Event
	next   int
	full   bool
	level  Level
}

func NewRingTracer(capacity int, level Level) *RingTracer {
	if capacity <= 0 {
		capacity = 4096
	}
	return &RingTracer{events: make([]Event, capacity), level: level}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) && ev.Kind != KindHeartbeat {
		return
	}
	t.mu.Lock()
	t.events[t.next] = *ev
	t.next++
	if t.next == len(t.events) {
		t.next, t.full = 0, true
	}
	t.mu.Unlock()
}

// Snapshot returns the stored events oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.full {
		return slices.Clone(t.events[:t.next])
	}
	return append(slices.Clone(t.events[t.next:]), t.events[:t.next]...)
}

// Dump writes every stored event.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return t.dump(w, format, func(*Event) bool { return true })
}

// DumpDocuments writes the stored events of the given documents.
func (t *RingTracer) DumpDocuments(w io.Writer, format Format, docs ...string) error {
	return t.dump(w, format, func(ev *Event) bool { return slices.Contains(docs, ev.Doc) })
}

func (t *RingTracer) dump(w io.Writer, format Format, keep func(*Event) bool) error {
	events := t.Snapshot()
	for i := range events {
		if !keep(&events[i]) {
			continue
		}
		if _, err := w.Write(FormatEvent(&events[i], format)); err != nil {
			return err
		}
	}
	return nil
}

func (t *RingTracer) Level() Level { return t.level }

func (t *RingTracer) Close() error { return nil }
