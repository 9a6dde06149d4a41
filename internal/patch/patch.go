package patch

import (
	"errors"
	"fmt"
	"slices"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

var (
	// ErrConflict is returned when two edits of one patch conflict.
	ErrConflict = errors.New("conflicting edits")
	// ErrMixedFiles is returned when edits of one patch address different files.
	ErrMixedFiles = errors.New("edits address different files")
	// ErrInvalidSpan is returned for spans with Start > End.
	ErrInvalidSpan = errors.New("invalid edit span")
)

// Patch is an ordered set of mutually non-conflicting edits over one file.
// The zero value is an empty patch.
type Patch struct {
	edits []Edit // отсортированы по Span.Start
}

// New builds a Patch from edits, ordering them by start offset.
// It fails when edits conflict, address different files or carry inverted spans.
func New(edits ...Edit) (Patch, error) {
	if len(edits) == 0 {
		return Patch{}, nil
	}
	sorted := slices.Clone(edits)
	file := sorted[0].Span.File
	for _, e := range sorted {
		if !e.Span.Valid() {
			return Patch{}, fmt.Errorf("%w: %s", ErrInvalidSpan, e.Span)
		}
		if e.Span.File != file {
			return Patch{}, fmt.Errorf("%w: %d and %d", ErrMixedFiles, file, e.Span.File)
		}
	}
	slices.SortStableFunc(sorted, compareEdits)

	// после сортировки достаточно проверить соседей
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Conflicts(sorted[i]) {
			return Patch{}, fmt.Errorf("%w: %s and %s", ErrConflict, sorted[i-1], sorted[i])
		}
	}
	return Patch{edits: sorted}, nil
}

// Must is like New but panics on error. It is meant for patches whose
// non-overlap is guaranteed by construction.
func Must(edits ...Edit) Patch {
	p, err := New(edits...)
	if err != nil {
		panic(fmt.Errorf("patch: invariant violated: %w", err))
	}
	return p
}

// Merge combines patches into one. It fails if any two edits conflict.
func Merge(patches ...Patch) (Patch, error) {
	total := 0
	for _, p := range patches {
		total += len(p.edits)
	}
	all := make([]Edit, 0, total)
	for _, p := range patches {
		all = append(all, p.edits...)
	}
	return New(all...)
}

func compareEdits(a, b Edit) int {
	if a.Span.Start != b.Span.Start {
		if a.Span.Start < b.Span.Start {
			return -1
		}
		return 1
	}
	if a.Span.End != b.Span.End {
		if a.Span.End < b.Span.End {
			return -1
		}
		return 1
	}
	return 0
}

// Edits returns a copy of the edits in ascending start order.
func (p Patch) Edits() []Edit {
	return slices.Clone(p.edits)
}

// Len returns the number of edits.
func (p Patch) Len() int {
	return len(p.edits)
}

// Empty reports whether the patch has no edits.
func (p Patch) Empty() bool {
	return len(p.edits) == 0
}

// File returns the file the patch addresses. ok is false for an empty patch.
func (p Patch) File() (id source.FileID, ok bool) {
	if len(p.edits) == 0 {
		return 0, false
	}
	return p.edits[0].Span.File, true
}

// Spans returns the ranges touched by the patch.
func (p Patch) Spans() []source.Span {
	out := make([]source.Span, len(p.edits))
	for i, e := range p.edits {
		out[i] = e.Span
	}
	return out
}

// ReplacedSize is the total number of original bytes the patch rewrites.
func (p Patch) ReplacedSize() int {
	n := 0
	for _, e := range p.edits {
		n += int(e.Span.Len())
	}
	return n
}

// InsertedSize is the total length of replacement text.
func (p Patch) InsertedSize() int {
	n := 0
	for _, e := range p.edits {
		n += len(e.NewText)
	}
	return n
}

// Delta is the change in buffer length after applying the patch.
func (p Patch) Delta() int {
	return p.InsertedSize() - p.ReplacedSize()
}

// ConflictsWith reports whether any edit of p conflicts with any edit of q.
func (p Patch) ConflictsWith(q Patch) bool {
	i, j := 0, 0
	for i < len(p.edits) && j < len(q.edits) {
		a, b := p.edits[i], q.edits[j]
		if a.Conflicts(b) {
			return true
		}
		// сдвигаем тот, что заканчивается раньше
		if a.Span.End < b.Span.End || (a.Span.End == b.Span.End && a.Span.Start < b.Span.Start) {
			i++
		} else {
			j++
		}
	}
	return false
}
