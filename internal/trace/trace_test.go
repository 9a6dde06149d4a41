package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelGating(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelError, ScopeDocument, true},
		{LevelError, ScopeRule, false},
		{LevelPhase, ScopeDriver, true},
		{LevelPhase, ScopeDocument, false},
		{LevelDetail, ScopeDocument, true},
		{LevelDetail, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DETAIL")
	if err != nil || lvl != LevelDetail {
		t.Fatalf("ParseLevel = %v, %v", lvl, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestStreamTracerNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDetail, FormatNDJSON)
	ctx := WithTracer(context.Background(), tr)

	span, dctx := StartDocument(ctx, "A.java", "check")
	Point(dctx, ScopeRule, "rejected", "too deep")
	span.Attr("proposals", "2").End("ok")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected begin and end events, got %d lines:\n%s", len(lines), buf.String())
	}
	var end jsonEvent
	if err := json.Unmarshal([]byte(lines[1]), &end); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if end.Kind != "end" || end.Scope != "document" || end.Doc != "A.java" || end.Detail != "ok" {
		t.Fatalf("unexpected end event %+v", end)
	}
	if len(end.Attrs) != 1 || end.Attrs[0] != (Attr{Key: "proposals", Value: "2"}) {
		t.Fatalf("unexpected attrs %+v", end.Attrs)
	}
}

func TestSpansNestThroughContext(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	run, ctx := Start(ctx, ScopeDriver, "check")
	doc, dctx := StartDocument(ctx, "B.java", "check")
	rule, rctx := Start(dctx, ScopeRule, "member-ordering")
	Point(rctx, ScopeRule, "proposal", "")
	rule.End("")
	doc.End("")
	run.End("")

	events := ring.Snapshot()
	if len(events) != 7 {
		t.Fatalf("expected 7 events, got %d", len(events))
	}
	if events[1].ParentID != run.ID() || events[2].ParentID != doc.ID() || events[3].ParentID != rule.ID() {
		t.Errorf("unexpected parents %+v", events)
	}
	for _, ev := range events[1:6] {
		if ev.Doc != "B.java" {
			t.Errorf("%s %s: expected doc B.java, got %q", ev.Kind, ev.Name, ev.Doc)
		}
	}
	if events[0].Doc != "" {
		t.Errorf("driver span must not carry a document")
	}
}

func TestStreamTracerText(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatText)
	ctx := withSpan(WithTracer(context.Background(), tr), SpanContext{Doc: "C.java"})
	Point(ctx, ScopeRule, "rule:member-ordering", "moved 2")
	if err := tr.Close(); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "• rule:member-ordering [C.java] (moved 2)") {
		t.Fatalf("unexpected text output %q", buf.String())
	}
}

func TestDisabledSpans(t *testing.T) {
	span, ctx := Start(context.Background(), ScopeDriver, "check")
	if span.ID() != 0 || span.End("") != 0 {
		t.Fatal("expected a discarded span")
	}
	if CurrentSpan(ctx) != (SpanContext{}) {
		t.Fatal("discarded span must not change the context")
	}

	ctx = WithTracer(context.Background(), NewRingTracer(4, LevelPhase))
	_, dctx := StartDocument(ctx, "D.java", "check")
	if CurrentSpan(dctx).Doc != "D.java" {
		t.Fatal("document path must propagate even when the span is filtered")
	}
}

func TestContextRoundTrip(t *testing.T) {
	if FromContext(context.Background()) != Nop {
		t.Fatal("expected Nop tracer by default")
	}
	tr := NewRingTracer(4, LevelDebug)
	ctx := WithTracer(context.Background(), tr)
	if FromContext(ctx) != Tracer(tr) {
		t.Fatal("tracer not propagated")
	}
}

func TestRingTracerKeepsLastEvents(t *testing.T) {
	tr := NewRingTracer(2, LevelDebug)
	ctx := WithTracer(context.Background(), tr)
	for _, name := range []string{"a", "b", "c"} {
		Point(ctx, ScopeDriver, name, "")
	}
	events := tr.Snapshot()
	if len(events) != 2 || events[0].Name != "b" || events[1].Name != "c" {
		t.Fatalf("unexpected snapshot %+v", events)
	}
}

func TestRingDumpDocuments(t *testing.T) {
	tr := NewRingTracer(16, LevelError)
	ctx := WithTracer(context.Background(), tr)
	for _, path := range []string{"Ok.java", "Bad.java"} {
		span, _ := StartDocument(ctx, path, "check")
		span.End("")
	}

	var buf bytes.Buffer
	if err := tr.DumpDocuments(&buf, FormatText, "Bad.java"); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Count(out, "\n") != 2 || strings.Contains(out, "Ok.java") {
		t.Fatalf("unexpected dump:\n%s", out)
	}
}

func TestNewErrorLevelKeepsRingOnly(t *testing.T) {
	tr, err := New(Config{Level: LevelError, Mode: ModeStream})
	if err != nil {
		t.Fatal(err)
	}
	if Ring(tr) == nil {
		t.Fatalf("expected a ring tracer, got %T", tr)
	}

	var buf bytes.Buffer
	both, err := New(Config{Level: LevelPhase, Mode: ModeBoth, Output: &buf})
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := both.(*MultiTracer); !ok || Ring(both) == nil {
		t.Fatalf("expected stream and ring, got %T", both)
	}
}
