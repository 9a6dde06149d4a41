// Package element builds the ordered list of movable elements of one container
// together with the leading comments that travel with them.
//
// The package never inspects syntax. Host adapters flatten their trees into
// Candidates (kind plus core span) and comment spans; Build attributes each
// comment to the element it precedes and computes full spans.
package element

import (
	"errors"
	"fmt"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

var (
	// ErrUnlocatable is returned when a candidate has no determinable span,
	// e.g. because it was synthesized rather than written.
	ErrUnlocatable = errors.New("element span cannot be determined")
	// ErrOverlap is returned when candidates are out of source order or overlap.
	ErrOverlap = errors.New("element spans overlap or are out of order")
)

// Kind names a category of elements. The Ordering Policy ranks kinds.
type Kind string

// Candidate is a raw element as reported by a host adapter.
type Candidate struct {
	Kind Kind
	Core source.Span
	// Located is false when the host could not determine Core.
	Located bool
	// Label is a human readable name used in messages, e.g. a member name.
	Label string
}

// At returns a candidate with a known core span.
func At(kind Kind, core source.Span, label string) Candidate {
	return Candidate{Kind: kind, Core: core, Located: true, Label: label}
}

// Unlocated returns a candidate whose span could not be determined.
func Unlocated(kind Kind, label string) Candidate {
	return Candidate{Kind: kind, Label: label}
}

// Element is a movable unit together with its attached leading comments.
type Element struct {
	Kind     Kind
	Label    string
	Core     source.Span
	Comments []source.Span
	// Full runs from the first leading comment (or Core.Start) through Core.End.
	Full source.Span
	// Ordinal is the position among the movable elements in source order.
	Ordinal int
}

// Text returns the bytes of the element's full span.
func (e Element) Text(file *source.File) []byte {
	return file.Text(e.Full)
}

// Build flattens candidates of one container into movable elements.
//
// candidates must be in source order and lie inside body; comments must be
// sorted by start. movable selects the kinds that may be reordered; other
// candidates stay in place and bound comment attribution.
//
// A movable candidate without a span fails the whole container with
// ErrUnlocatable. A pinned candidate without a span is ignored: it neither
// moves nor bounds comment attribution.
func Build(body source.Span, candidates []Candidate, comments []source.Span, movable func(Kind) bool) ([]Element, error) {
	isMovable := func(k Kind) bool { return movable != nil && movable(k) }
	prev := -1
	for i, c := range candidates {
		if !c.Located {
			if isMovable(c.Kind) {
				return nil, fmt.Errorf("%w: candidate %d (%s %q)", ErrUnlocatable, i, c.Kind, c.Label)
			}
			continue
		}
		if !c.Core.Valid() || !body.Contains(c.Core) {
			return nil, fmt.Errorf("%w: candidate %d span %s outside body %s", ErrOverlap, i, c.Core, body)
		}
		if prev >= 0 && candidates[prev].Core.End > c.Core.Start {
			return nil, fmt.Errorf("%w: %s and %s", ErrOverlap, candidates[prev].Core, c.Core)
		}
		prev = i
	}

	elems := make([]Element, 0, len(candidates))
	boundary := body.Start
	ci := 0 // первый ещё не распределённый комментарий
	for _, c := range candidates {
		if !c.Located {
			continue
		}
		// комментарии до boundary уже принадлежат предыдущему элементу или лежат внутри него
		for ci < len(comments) && comments[ci].Start < boundary {
			ci++
		}
		if !isMovable(c.Kind) {
			boundary = c.Core.End
			continue
		}

		first := ci
		for ci < len(comments) && comments[ci].End <= c.Core.Start {
			ci++
		}
		var attached []source.Span
		if ci > first {
			attached = append(attached, comments[first:ci]...)
		}

		full := c.Core
		if len(attached) > 0 {
			full.Start = attached[0].Start
		}
		elems = append(elems, Element{
			Kind:     c.Kind,
			Label:    c.Label,
			Core:     c.Core,
			Comments: attached,
			Full:     full,
			Ordinal:  len(elems),
		})
		boundary = c.Core.End
	}
	return elems, nil
}
