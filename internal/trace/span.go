package trace

import (
	"context"
	"sync/atomic"
	"time"
)

var (
	seq      atomic.Uint64
	spanSeq  atomic.Uint64
	openDocs atomic.Int64
)

// nextSeq returns a monotonically increasing sequence number.
func nextSeq() uint64 {
	return seq.Add(1)
}

// Span is an open logical operation. The zero Span discards everything.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	doc     string
	scope   Scope
	name    string
	started time.Time
	attrs   []Attr
}

// Start opens a span below the one carried by ctx and returns a context
// carrying the new span. Spans filtered out by the level cost nothing.
func Start(ctx context.Context, scope Scope, name string) (*Span, context.Context) {
	t := FromContext(ctx)
	if !t.Level().ShouldEmit(scope) {
		return &Span{}, ctx
	}
	cur := CurrentSpan(ctx)
	s := &Span{
		tracer:  t,
		id:      spanSeq.Add(1),
		parent:  cur.SpanID,
		doc:     cur.Doc,
		scope:   scope,
		name:    name,
		started: time.Now(),
	}
	if scope == ScopeDocument {
		openDocs.Add(1)
	}
	t.Emit(&Event{
		Time:     s.started,
		Seq:      nextSeq(),
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Doc:      s.doc,
		Name:     name,
	})
	return s, withSpan(ctx, SpanContext{SpanID: s.id, Doc: s.doc})
}

// StartDocument opens a document span; every event below it carries path.
func StartDocument(ctx context.Context, path, name string) (*Span, context.Context) {
	cur := CurrentSpan(ctx)
	ctx = withSpan(ctx, SpanContext{SpanID: cur.SpanID, Doc: path})
	return Start(ctx, ScopeDocument, name)
}

// Attr records a key-value pair reported with the end event.
func (s *Span) Attr(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	s.attrs = append(s.attrs, Attr{Key: key, Value: value})
	return s
}

// End closes the span and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	if s.scope == ScopeDocument {
		openDocs.Add(-1)
	}
	dur := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		Doc:      s.doc,
		Name:     s.name,
		Detail:   detail,
		Attrs:    s.attrs,
	})
	s.tracer = nil
	return dur
}

// ID returns the span ID; 0 for discarded spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Point emits an instant event under the span carried by ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Level().ShouldEmit(scope) {
		return
	}
	cur := CurrentSpan(ctx)
	t.Emit(&Event{
		Time:     time.Now(),
		Seq:      nextSeq(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: cur.SpanID,
		Doc:      cur.Doc,
		Name:     name,
		Detail:   detail,
	})
}
