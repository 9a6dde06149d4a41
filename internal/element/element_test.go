package element

import (
	"errors"
	"strings"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// spanOf returns the span of the first occurrence of needle at or after from.
func spanOf(t *testing.T, content, needle string, from int) source.Span {
	t.Helper()
	idx := strings.Index(content[from:], needle)
	if idx < 0 {
		t.Fatalf("%q not found after %d", needle, from)
	}
	start := uint32(from + idx)
	return source.Span{Start: start, End: start + uint32(len(needle))}
}

func all(Kind) bool { return true }

func TestBuildAttributesLeadingComments(t *testing.T) {
	content := "{\n  // about b\n  int b;\n  /* about a */\n  // more\n  void a() { /* inner */ }\n}"
	body := source.Span{Start: 0, End: uint32(len(content))}

	b := spanOf(t, content, "int b;", 0)
	a := spanOf(t, content, "void a() { /* inner */ }", 0)
	c1 := spanOf(t, content, "// about b", 0)
	c2 := spanOf(t, content, "/* about a */", 0)
	c3 := spanOf(t, content, "// more", 0)
	inner := spanOf(t, content, "/* inner */", 0)

	elems, err := Build(body,
		[]Candidate{At("field", b, "b"), At("method", a, "a")},
		[]source.Span{c1, c2, c3, inner},
		all,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := []Element{
		{Kind: "field", Label: "b", Core: b, Comments: []source.Span{c1}, Full: source.Span{Start: c1.Start, End: b.End}, Ordinal: 0},
		{Kind: "method", Label: "a", Core: a, Comments: []source.Span{c2, c3}, Full: source.Span{Start: c2.Start, End: a.End}, Ordinal: 1},
	}
	deepequal.SideBySide(t, "elements", expected, elems)
}

func TestBuildFailsClosedOnUnlocatableCandidate(t *testing.T) {
	body := source.Span{Start: 0, End: 20}
	_, err := Build(body,
		[]Candidate{At("field", source.Span{Start: 1, End: 5}, "x"), Unlocated("method", "generated")},
		nil,
		all,
	)
	if !errors.Is(err, ErrUnlocatable) {
		t.Fatalf("expected ErrUnlocatable, got %v", err)
	}
}

func TestBuildIgnoresUnlocatablePinnedCandidate(t *testing.T) {
	content := "{ B; ?? A; }"
	body := source.Span{Start: 0, End: uint32(len(content))}
	b := spanOf(t, content, "B;", 0)
	a := spanOf(t, content, "A;", 0)

	movable := func(k Kind) bool { return k != "pinned" }
	elems, err := Build(body,
		[]Candidate{At("x", b, "B"), Unlocated("pinned", "broken"), At("x", a, "A")},
		nil,
		movable,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elems) != 2 || elems[0].Label != "B" || elems[1].Label != "A" {
		t.Fatalf("unexpected elements %+v", elems)
	}
}

func TestBuildRejectsOverlappingCandidates(t *testing.T) {
	body := source.Span{Start: 0, End: 20}
	tests := []struct {
		name  string
		cands []Candidate
	}{
		{"overlap", []Candidate{At("a", source.Span{Start: 1, End: 6}, ""), At("b", source.Span{Start: 5, End: 8}, "")}},
		{"out of order", []Candidate{At("a", source.Span{Start: 10, End: 12}, ""), At("b", source.Span{Start: 1, End: 3}, "")}},
		{"outside body", []Candidate{At("a", source.Span{Start: 15, End: 25}, "")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Build(body, tt.cands, nil, all); !errors.Is(err, ErrOverlap) {
				t.Fatalf("expected ErrOverlap, got %v", err)
			}
		})
	}
}

func TestBuildNonMovableBoundsAttribution(t *testing.T) {
	content := "{ // one\n A; // two\n B; // three\n C; }"
	body := source.Span{Start: 0, End: uint32(len(content))}

	a := spanOf(t, content, "A;", 0)
	b := spanOf(t, content, "B;", 0)
	c := spanOf(t, content, "C;", 0)
	one := spanOf(t, content, "// one", 0)
	two := spanOf(t, content, "// two", 0)
	three := spanOf(t, content, "// three", 0)

	// B is pinned: its leading comment stays with it, C only gets what follows B.
	movable := func(k Kind) bool { return k != "pinned" }
	elems, err := Build(body,
		[]Candidate{At("x", a, "A"), At("pinned", b, "B"), At("x", c, "C")},
		[]source.Span{one, two, three},
		movable,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(elems) != 2 {
		t.Fatalf("expected 2 movable elements, got %d", len(elems))
	}
	deepequal.SideBySide(t, "first comments", []source.Span{one}, elems[0].Comments)
	deepequal.SideBySide(t, "second comments", []source.Span{three}, elems[1].Comments)
	if elems[1].Ordinal != 1 {
		t.Errorf("expected ordinal 1, got %d", elems[1].Ordinal)
	}
}

func TestBuildEveryCommentOwnedOnce(t *testing.T) {
	content := "{/*a*/x;/*b*//*c*/y;/*d*/z;/*tail*/}"
	body := source.Span{Start: 0, End: uint32(len(content))}
	var cands []Candidate
	for _, name := range []string{"x;", "y;", "z;"} {
		cands = append(cands, At("k", spanOf(t, content, name, 0), name))
	}
	var comments []source.Span
	for _, c := range []string{"/*a*/", "/*b*/", "/*c*/", "/*d*/", "/*tail*/"} {
		comments = append(comments, spanOf(t, content, c, 0))
	}

	elems, err := Build(body, cands, comments, all)
	if err != nil {
		t.Fatal(err)
	}
	seen := make(map[source.Span]int)
	for i, e := range elems {
		for _, c := range e.Comments {
			seen[c]++
			if c.End > e.Core.Start || c.Start < e.Full.Start {
				t.Errorf("element %d: comment %s outside its leading region", i, c)
			}
		}
		if i > 0 && elems[i-1].Full.End > e.Full.Start {
			t.Errorf("full spans %d and %d overlap", i-1, i)
		}
	}
	for c, n := range seen {
		if n != 1 {
			t.Errorf("comment %s attributed %d times", c, n)
		}
	}
	// trailing comment after the last element belongs to nobody and never moves
	if _, ok := seen[comments[4]]; ok {
		t.Errorf("trailing comment must not be attributed")
	}
	if len(seen) != 4 {
		t.Errorf("expected 4 attributed comments, got %d", len(seen))
	}
}
