package diagfmt

import (
	"fmt"
	"strings"

	"fortio.org/safecast"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Preview holds the lines touched by a proposal before and after applying it.
type Preview struct {
	Before []string
	After  []string
}

// BuildPreview renders the smallest block of whole lines containing every
// edit of p.
func BuildPreview(fs *source.FileSet, p patch.Patch) (Preview, error) {
	if fs == nil {
		return Preview{}, fmt.Errorf("nil FileSet")
	}
	fileID, ok := p.File()
	if !ok {
		return Preview{}, fmt.Errorf("empty patch")
	}
	file := fs.Get(fileID)
	if file == nil {
		return Preview{}, fmt.Errorf("file %d not found in FileSet", fileID)
	}

	spans := p.Spans()
	first, _ := fs.Resolve(spans[0])
	_, last := fs.Resolve(spans[len(spans)-1])
	blockStart := lineStartOffset(file, first.Line)
	blockEnd := max(lineEndOffsetInclusive(file, last.Line), blockStart)

	updated, err := patch.Apply(file.Content, p)
	if err != nil {
		return Preview{}, err
	}
	afterEnd := int(blockEnd) + p.Delta()
	if afterEnd < int(blockStart) || afterEnd > len(updated) {
		return Preview{}, fmt.Errorf("preview block [%d, %d) out of range", blockStart, afterEnd)
	}

	return Preview{
		Before: splitPreviewLines(file.Content[blockStart:blockEnd]),
		After:  splitPreviewLines(updated[blockStart:afterEnd]),
	}, nil
}

func splitPreviewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	// завершающий \n не порождает пустую строку
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n")
}

func contentLen(f *source.File) uint32 {
	n, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return n
}

func lineStartOffset(f *source.File, line uint32) uint32 {
	if line <= 1 {
		return 0
	}
	idx := line - 2
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return contentLen(f)
}

func lineEndOffsetInclusive(f *source.File, line uint32) uint32 {
	if line == 0 {
		return 0
	}
	idx := line - 1
	if int(idx) < len(f.LineIdx) {
		return f.LineIdx[idx] + 1
	}
	return contentLen(f)
}
