package order

import (
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
)

func TestGroups(t *testing.T) {
	table, err := Groups(
		[]element.Kind{"static-field"},
		[]element.Kind{"field"},
		[]element.Kind{"constructor", "method"},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	tests := []struct {
		kind element.Kind
		want Rank
	}{
		{"static-field", 0},
		{"field", 1},
		{"constructor", 2},
		{"method", 2},
	}
	for _, tt := range tests {
		if got := table.Rank(tt.kind); got != tt.want {
			t.Errorf("Rank(%q) = %d, want %d", tt.kind, got, tt.want)
		}
	}
	if table.Has("type") {
		t.Errorf("unexpected kind in domain")
	}
	deepequal.SideBySide(t, "kinds", []element.Kind{"static-field", "field", "constructor", "method"}, table.Kinds())
}

func TestGroupsRejectsDuplicates(t *testing.T) {
	if _, err := Groups([]element.Kind{"field"}, []element.Kind{"method", "field"}); err == nil {
		t.Fatal("expected error for duplicate kind")
	}
}

func TestRankPanicsOnUnknownKind(t *testing.T) {
	table := MustGroups([]element.Kind{"field"})
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for unknown kind")
		}
	}()
	table.Rank("method")
}

func TestLexicographic(t *testing.T) {
	table := Lexicographic([]element.Kind{"Override", "Nullable", "Deprecated", "Nullable"})
	deepequal.SideBySide(t, "kinds", []element.Kind{"Deprecated", "Nullable", "Override"}, table.Kinds())
	if table.Rank("Deprecated") >= table.Rank("Nullable") || table.Rank("Nullable") >= table.Rank("Override") {
		t.Errorf("ranks are not lexicographic")
	}
}

func TestFunc(t *testing.T) {
	var p Policy = Func(func(kind element.Kind) Rank { return Rank(len(kind)) })
	if p.Rank("abc") != 3 {
		t.Errorf("unexpected rank")
	}
}
