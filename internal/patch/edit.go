package patch

import (
	"fmt"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Edit replaces the bytes covered by Span with NewText.
type Edit struct {
	Span    source.Span
	NewText string
}

// Insert returns an edit that inserts text at offset.
func Insert(file source.FileID, offset uint32, text string) Edit {
	return Edit{Span: source.Span{File: file, Start: offset, End: offset}, NewText: text}
}

// Replace returns an edit that replaces span with text.
func Replace(span source.Span, text string) Edit {
	return Edit{Span: span, NewText: text}
}

// Delete returns an edit that removes span.
func Delete(span source.Span) Edit {
	return Edit{Span: span}
}

// Conflicts reports whether e and other cannot both be applied.
func (e Edit) Conflicts(other Edit) bool {
	return Conflict(e.Span, other.Span)
}

// Delta returns the change in buffer length caused by the edit.
func (e Edit) Delta() int {
	return len(e.NewText) - int(e.Span.Len())
}

func (e Edit) String() string {
	return fmt.Sprintf("%s->%q", e.Span, e.NewText)
}

// Conflict reports whether two ranges of the same file conflict.
//
// Spans are half-open. Two zero-length spans conflict only at the same offset.
// A zero-length span conflicts with a non-empty one when Start <= pos < End.
// Two non-empty spans conflict when they share at least one byte.
func Conflict(a, b source.Span) bool {
	if a.File != b.File {
		return false
	}
	aStart, aEnd := a.Start, a.End
	bStart, bEnd := b.Start, b.End

	if aStart == aEnd && bStart == bEnd {
		return aStart == bStart
	}
	if aStart == aEnd {
		return bStart <= aStart && aStart < bEnd
	}
	if bStart == bEnd {
		return aStart <= bStart && bStart < aEnd
	}
	return aStart < bEnd && bStart < aEnd
}
