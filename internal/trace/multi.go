package trace

import "errors"

// MultiTracer fans out events to several tracers.
type MultiTracer struct {
	tracers []Tracer
	level   Level
}

func NewMultiTracer(level Level, tracers ...Tracer) *MultiTracer {
	return &MultiTracer{tracers: tracers, level: level}
}

func (t *MultiTracer) Emit(ev *Event) {
	for _, tr := range t.tracers {
		cp := *ev
		tr.Emit(&cp)
	}
}

func (t *MultiTracer) Level() Level { return t.level }

func (t *MultiTracer) Close() error {
	errs := make([]error, 0, len(t.tracers))
	for _, tr := range t.tracers {
		errs = append(errs, tr.Close())
	}
	return errors.Join(errs...)
}

// Ring returns the ring buffer of t, if it keeps one.
func Ring(t Tracer) *RingTracer {
	switch rt := t.(type) {
	case *RingTracer:
		return rt
	case *MultiTracer:
		for _, tr := range rt.tracers {
			if r := Ring(tr); r != nil {
				return r
			}
		}
	}
	return nil
}
