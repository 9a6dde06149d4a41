// Package trace records level-gated spans of a refix run.
//
// Spans travel in the context. A document span stamps its path on every
// event below it, so a parallel run can be read per document:
//
//	span, ctx := trace.StartDocument(ctx, path, "check")
//	defer span.End("")
//	trace.Point(ctx, trace.ScopeRule, "proposal rejected", id)
//
// Events go to a stream (file or stderr), to an in-memory ring, or both. At
// LevelError nothing is printed while running; the ring is dumped for the
// documents that failed.
package trace
