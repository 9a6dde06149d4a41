package patch

import (
	"errors"
	"fmt"
	"slices"
)

// ErrOutOfRange is returned when an edit addresses bytes beyond the buffer.
var ErrOutOfRange = errors.New("edit span out of range")

func checkBounds(content []byte, p Patch) error {
	if len(p.edits) == 0 {
		return nil
	}
	last := p.edits[len(p.edits)-1]
	if int(last.Span.End) > len(content) {
		return fmt.Errorf("%w: %s beyond %d bytes", ErrOutOfRange, last.Span, len(content))
	}
	return nil
}

// Apply renders p over content by splicing edits in descending start order,
// so that replacing a later range never shifts the offsets of ranges not yet
// applied. content itself is left untouched.
func Apply(content []byte, p Patch) ([]byte, error) {
	if err := checkBounds(content, p); err != nil {
		return nil, err
	}
	out := slices.Clone(content)
	for i := len(p.edits) - 1; i >= 0; i-- {
		e := p.edits[i]
		out = slices.Replace(out, int(e.Span.Start), int(e.Span.End), []byte(e.NewText)...)
	}
	return out, nil
}

// Render renders p over content in a single ascending pass, copying unedited
// bytes verbatim and substituting replacement text when an edit is reached.
// It produces the same result as Apply.
func Render(content []byte, p Patch) ([]byte, error) {
	if err := checkBounds(content, p); err != nil {
		return nil, err
	}
	out := make([]byte, 0, len(content)+max(p.Delta(), 0))
	cursor := 0
	for _, e := range p.edits {
		out = append(out, content[cursor:e.Span.Start]...)
		out = append(out, e.NewText...)
		cursor = int(e.Span.End)
	}
	out = append(out, content[cursor:]...)
	return out, nil
}
