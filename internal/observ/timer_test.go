package observ

import (
	"strings"
	"sync"
	"testing"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("parse")
	tm.End(idx, "3 classes")
	tm.End(42, "ignored")

	report := tm.Report()
	if len(report.Phases) != 1 || report.Phases[0].Name != "parse" || report.Phases[0].Note != "3 classes" {
		t.Fatalf("unexpected report %+v", report)
	}
	if !strings.Contains(tm.Summary(), "// 3 classes") {
		t.Errorf("summary misses note:\n%s", tm.Summary())
	}
}

func TestAggregateConcurrent(t *testing.T) {
	agg := NewAggregate()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm := NewTimer()
			tm.End(tm.Begin("rules"), "")
			tm.End(tm.Begin("resolve"), "")
			agg.Add(tm)
		}()
	}
	wg.Wait()

	report := agg.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %+v", report.Phases)
	}
	for _, p := range report.Phases {
		if p.Count != 8 {
			t.Errorf("phase %s counted %d times, want 8", p.Name, p.Count)
		}
	}
}

func TestEmptyReports(t *testing.T) {
	if len(NewTimer().Report().Phases) != 0 || len(NewAggregate().Report().Phases) != 0 {
		t.Fatal("expected empty reports")
	}
}
