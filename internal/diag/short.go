package diag

import (
	"cmp"
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// ShortLine is one finding or note rendered on a single line.
type ShortLine struct {
	Severity string
	Code     string
	Rule     string
	Path     string
	Line     uint32
	Column   uint32
	Message  string
	Fixable  bool
}

func (l ShortLine) String() string {
	code := l.Code
	if l.Rule != "" {
		code += "(" + l.Rule + ")"
	}
	s := fmt.Sprintf("%s %s %s:%d:%d %s", l.Severity, code, l.Path, l.Line, l.Column, l.Message)
	if l.Fixable {
		s += " [fixable]"
	}
	return s
}

// ShortLines flattens diags (and their notes, on request) into lines sorted
// by path, position, severity, code and message. Spans that do not resolve
// against fs are left out.
func ShortLines(diags []Diagnostic, fs *source.FileSet, includeNotes bool) []ShortLine {
	if fs == nil {
		return nil
	}
	var lines []ShortLine
	add := func(span source.Span, l ShortLine) {
		file := fs.Get(span.File)
		if file == nil || span.Start > span.End || int(span.End) > len(file.Content) {
			return
		}
		start, _ := fs.Resolve(span)
		l.Path = path.Clean(strings.ReplaceAll(file.FormatPath("relative", fs.BaseDir()), `\`, "/"))
		l.Line, l.Column = start.Line, start.Col
		lines = append(lines, l)
	}
	for _, d := range diags {
		add(d.Primary, ShortLine{
			Severity: strings.ToLower(d.Severity.String()),
			Code:     d.Code.ID(),
			Rule:     d.Rule,
			Message:  oneLine(d.Message),
			Fixable:  d.Fixable(),
		})
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			add(note.Span, ShortLine{Severity: "note", Code: d.Code.ID(), Message: oneLine(note.Msg)})
		}
	}
	slices.SortStableFunc(lines, func(a, b ShortLine) int {
		return cmp.Or(
			cmp.Compare(a.Path, b.Path),
			cmp.Compare(a.Line, b.Line),
			cmp.Compare(a.Column, b.Column),
			cmp.Compare(a.Severity, b.Severity),
			cmp.Compare(a.Code, b.Code),
			cmp.Compare(a.Message, b.Message),
		)
	})
	return lines
}

// FormatShortDiagnostics joins ShortLines with newlines; it backs
// `--format short` and golden tests.
func FormatShortDiagnostics(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	lines := ShortLines(diags, fs, includeNotes)
	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = l.String()
	}
	return strings.Join(out, "\n")
}

func oneLine(msg string) string {
	return strings.Join(strings.Fields(msg), " ")
}
