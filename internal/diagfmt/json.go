package diagfmt

import (
	"encoding/json"
	"io"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// LocationJSON представляет местоположение в файле для JSON
type LocationJSON struct {
	File      string `json:"file"`
	StartByte uint32 `json:"start_byte"`
	EndByte   uint32 `json:"end_byte"`
	StartLine uint32 `json:"start_line,omitempty"`
	StartCol  uint32 `json:"start_col,omitempty"`
	EndLine   uint32 `json:"end_line,omitempty"`
	EndCol    uint32 `json:"end_col,omitempty"`
}

// NoteJSON представляет дополнительную заметку для JSON
type NoteJSON struct {
	Message  string       `json:"message"`
	Location LocationJSON `json:"location"`
}

// EditJSON is one edit of a fix.
type EditJSON struct {
	Location LocationJSON `json:"location"`
	NewText  string       `json:"new_text"`
}

// FixJSON представляет предложение по исправлению для JSON
type FixJSON struct {
	ID            string     `json:"id"`
	Rule          string     `json:"rule,omitempty"`
	Message       string     `json:"message"`
	Applicability string     `json:"applicability"`
	Edits         []EditJSON `json:"edits,omitempty"`
	BeforeLines   []string   `json:"before_lines,omitempty"`
	AfterLines    []string   `json:"after_lines,omitempty"`
}

// DiagnosticJSON представляет диагностику в JSON формате
type DiagnosticJSON struct {
	Severity   string       `json:"severity"`
	Code       string       `json:"code"`
	Rule       string       `json:"rule,omitempty"`
	Message    string       `json:"message"`
	Location   LocationJSON `json:"location"`
	Notes      []NoteJSON   `json:"notes,omitempty"`
	Fixes      []FixJSON    `json:"fixes,omitempty"`
	NotFixable string       `json:"not_fixable,omitempty"`
}

// DiagnosticsOutput представляет корневую структуру JSON вывода
type DiagnosticsOutput struct {
	Diagnostics []DiagnosticJSON `json:"diagnostics"`
	Count       int              `json:"count"`
	Fixable     int              `json:"fixable"`
}

// makeLocation создаёт LocationJSON из Span
func makeLocation(span source.Span, fs *source.FileSet, pathMode PathMode, includePositions bool) LocationJSON {
	loc := LocationJSON{
		StartByte: span.Start,
		EndByte:   span.End,
	}
	f := fs.Get(span.File)
	if f == nil {
		return loc
	}
	loc.File = formatPath(f, fs, pathMode)

	if includePositions {
		startPos, endPos := fs.Resolve(span)
		loc.StartLine = startPos.Line
		loc.StartCol = startPos.Col
		loc.EndLine = endPos.Line
		loc.EndCol = endPos.Col
	}
	return loc
}

// BuildDiagnosticsOutput формирует структуру JSON-вывода без сериализации.
func BuildDiagnosticsOutput(bag *diag.Bag, fs *source.FileSet, opts JSONOpts) DiagnosticsOutput {
	items := bag.Items()
	maxItems := len(items)
	if opts.Max > 0 && opts.Max < maxItems {
		maxItems = opts.Max
	}

	output := DiagnosticsOutput{Diagnostics: make([]DiagnosticJSON, 0, maxItems)}
	for _, d := range items[:maxItems] {
		out := DiagnosticJSON{
			Severity:   d.Severity.String(),
			Code:       d.Code.ID(),
			Rule:       d.Rule,
			Message:    d.Message,
			Location:   makeLocation(d.Primary, fs, opts.PathMode, opts.IncludePositions),
			NotFixable: d.NoFix,
		}
		if opts.IncludeNotes {
			for _, note := range d.Notes {
				out.Notes = append(out.Notes, NoteJSON{
					Message:  note.Msg,
					Location: makeLocation(note.Span, fs, opts.PathMode, opts.IncludePositions),
				})
			}
		}
		if opts.IncludeFixes {
			for _, f := range d.Fixes {
				fj := FixJSON{
					ID:            f.ID,
					Rule:          f.Rule,
					Message:       f.Message,
					Applicability: f.Applicability.String(),
				}
				for _, e := range f.Patch.Edits() {
					fj.Edits = append(fj.Edits, EditJSON{
						Location: makeLocation(e.Span, fs, opts.PathMode, opts.IncludePositions),
						NewText:  e.NewText,
					})
				}
				if opts.IncludePreviews {
					if preview, err := BuildPreview(fs, f.Patch); err == nil {
						fj.BeforeLines = preview.Before
						fj.AfterLines = preview.After
					}
				}
				out.Fixes = append(out.Fixes, fj)
			}
		}
		if d.Fixable() {
			output.Fixable++
		}
		output.Diagnostics = append(output.Diagnostics, out)
	}
	output.Count = len(output.Diagnostics)
	return output
}

// JSON форматирует диагностики в JSON формат.
func JSON(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts JSONOpts) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(BuildDiagnosticsOutput(bag, fs, opts))
}
