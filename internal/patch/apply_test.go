package patch

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

func TestApplyScenarios(t *testing.T) {
	tests := []struct {
		name    string
		content string
		edits   []Edit
		want    string
	}{
		{
			name:    "swap two statements",
			content: "B();\nA();\n",
			edits:   []Edit{Replace(sp(0, 5), "A();\n"), Replace(sp(5, 10), "B();\n")},
			want:    "A();\nB();\n",
		},
		{
			name:    "insert and delete",
			content: "int x;;\n",
			edits:   []Edit{Insert(0, 0, "final "), Delete(sp(6, 7))},
			want:    "final int x;\n",
		},
		{
			name:    "append at end",
			content: "abc",
			edits:   []Edit{Insert(0, 3, "d")},
			want:    "abcd",
		},
		{
			name:    "empty patch",
			content: "unchanged",
			want:    "unchanged",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Must(tt.edits...)
			applied, err := Apply([]byte(tt.content), p)
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if string(applied) != tt.want {
				t.Errorf("Apply = %q, want %q", applied, tt.want)
			}
			rendered, err := Render([]byte(tt.content), p)
			if err != nil {
				t.Fatalf("Render: %v", err)
			}
			if string(rendered) != tt.want {
				t.Errorf("Render = %q, want %q", rendered, tt.want)
			}
		})
	}
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	content := []byte("hello world")
	if _, err := Apply(content, Must(Replace(sp(0, 5), "HELLO"))); err != nil {
		t.Fatal(err)
	}
	if string(content) != "hello world" {
		t.Fatalf("input mutated: %q", content)
	}
}

func TestApplyOutOfRange(t *testing.T) {
	p := Must(Replace(sp(3, 12), ""))
	if _, err := Apply([]byte("short"), p); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Apply: expected ErrOutOfRange, got %v", err)
	}
	if _, err := Render([]byte("short"), p); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("Render: expected ErrOutOfRange, got %v", err)
	}
}

// randomPatch builds a non-conflicting patch over a buffer of size n.
func randomPatch(rng *rand.Rand, n int) Patch {
	var edits []Edit
	pos := 0
	for pos <= n {
		pos += rng.Intn(4)
		if pos > n {
			break
		}
		end := pos + rng.Intn(5)
		if end > n {
			end = n
		}
		text := make([]byte, rng.Intn(4))
		for i := range text {
			text[i] = byte('A' + rng.Intn(26))
		}
		span, err := source.SpanOf(0, pos, end)
		if err != nil {
			panic(err)
		}
		edits = append(edits, Replace(span, string(text)))
		// следующая правка начинается строго после текущей
		pos = end + 1
	}
	p, err := New(edits...)
	if err != nil {
		panic(err)
	}
	return p
}

func TestApplyAndRenderAgree(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for iter := 0; iter < 500; iter++ {
		n := rng.Intn(40)
		content := make([]byte, n)
		for i := range content {
			content[i] = byte('a' + rng.Intn(26))
		}
		p := randomPatch(rng, n)

		applied, err := Apply(content, p)
		if err != nil {
			t.Fatalf("iter %d: Apply: %v", iter, err)
		}
		rendered, err := Render(content, p)
		if err != nil {
			t.Fatalf("iter %d: Render: %v", iter, err)
		}
		if string(applied) != string(rendered) {
			t.Fatalf("iter %d: Apply %q != Render %q (patch %v)", iter, applied, rendered, p.Edits())
		}
		if want := n - p.ReplacedSize() + p.InsertedSize(); len(applied) != want {
			t.Fatalf("iter %d: length %d, want %d", iter, len(applied), want)
		}
	}
}
