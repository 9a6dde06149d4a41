package ui

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/mattn/go-runewidth"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/driver"
)

func feed(m *progressModel, events ...driver.Event) {
	for _, ev := range events {
		m.applyEvent(ev)
	}
}

func TestProgressModelTracksDocuments(t *testing.T) {
	m := NewProgressModel("check", nil).(*progressModel)
	feed(m,
		driver.Event{File: "A.java", Status: driver.StatusQueued},
		driver.Event{File: "B.java", Status: driver.StatusQueued},
		driver.Event{File: "A.java", Stage: driver.StageParse, Status: driver.StatusWorking},
		driver.Event{File: "B.java", Status: driver.StatusDone, Findings: 2},
	)

	if got := m.items[0].status; got != "parsing" {
		t.Errorf("A.java: expected parsing, got %q", got)
	}
	if m.findings != 2 {
		t.Errorf("expected 2 findings, got %d", m.findings)
	}
	if p := m.percent(); math.Abs(p-0.6) > 1e-9 {
		t.Errorf("expected 0.6 progress, got %v", p)
	}

	view := m.View()
	for _, want := range []string{"check 1/2, 2 finding(s)", "B.java (2)", "parsing"} {
		if !strings.Contains(view, want) {
			t.Errorf("view misses %q:\n%s", want, view)
		}
	}
}

func TestProgressModelCountsFindingsOnce(t *testing.T) {
	m := NewProgressModel("fix", nil).(*progressModel)
	feed(m,
		driver.Event{File: "A.java", Status: driver.StatusDone, Findings: 3},
		driver.Event{File: "A.java", Status: driver.StatusDone, Findings: 3},
		driver.Event{File: "C.java", Status: driver.StatusError, Err: errors.New("boom")},
	)
	if m.findings != 3 {
		t.Errorf("expected 3 findings, got %d", m.findings)
	}
	if m.items[1].status != "error" || !m.items[1].finished {
		t.Errorf("unexpected item %+v", m.items[1])
	}
	if p := m.percent(); math.Abs(p-1) > 1e-9 {
		t.Errorf("expected full progress, got %v", p)
	}
}

func TestProgressModelLimitsRows(t *testing.T) {
	m := NewProgressModel("check", nil).(*progressModel)
	for i := range 20 {
		feed(m, driver.Event{File: strings.Repeat("x", i+1) + ".java", Status: driver.StatusDone})
	}
	feed(m, driver.Event{File: "Slow.java", Stage: driver.StageRules, Status: driver.StatusWorking})

	rows := m.visible()
	if len(rows) != maxRows {
		t.Fatalf("expected %d rows, got %d", maxRows, len(rows))
	}
	if rows[0].path != "Slow.java" {
		t.Errorf("expected the running document first, got %q", rows[0].path)
	}
	if !strings.Contains(m.View(), "9 more") {
		t.Errorf("expected a summary of hidden rows")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdefghij", 6); got != "abc..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abc", 6); got != "abc" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("src/main/java/com/example/Service.java", 20); runewidth.StringWidth(got) != 20 {
		t.Errorf("truncate(20) = %q, %d columns", got, runewidth.StringWidth(got))
	}
	if got := truncate("日本語のパス", 7); got != "日本..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdefghij", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}
