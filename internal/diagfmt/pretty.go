package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

type palette struct {
	err, warn, info, code, gutter, caret, note, fix, muted *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan),
		fix:    color.New(color.FgGreen),
		muted:  color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note, p.fix, p.muted} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes и Fixes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	pal := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, pal)
	}
}

func location(fs *source.FileSet, sp source.Span, mode PathMode) (string, source.LineCol, bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return "", source.LineCol{}, false
	}
	start, _ := fs.Resolve(sp)
	return formatPath(f, fs, mode), start, true
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	path, pos, ok := location(fs, d.Primary, opts.PathMode)
	header := fmt.Sprintf("%s %s: %s", pal.severity(d.Severity).Sprint(d.Severity.String()), pal.code.Sprint(d.Code.ID()), d.Message)
	if d.Rule != "" {
		header += pal.muted.Sprintf(" [%s]", d.Rule)
	}
	if !ok {
		fmt.Fprintln(w, header)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s\n", path, pos.Line, pos.Col, header)
	writeSnippet(w, fs, d.Primary, opts.Context, pal)

	if opts.ShowNotes {
		for _, n := range d.Notes {
			if np, npos, ok := location(fs, n.Span, opts.PathMode); ok {
				fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", pal.note.Sprint("note:"), np, npos.Line, npos.Col, n.Msg)
			} else {
				fmt.Fprintf(w, "  %s %s\n", pal.note.Sprint("note:"), n.Msg)
			}
		}
	}

	switch {
	case d.NoFix != "":
		fmt.Fprintf(w, "  %s %s\n", pal.muted.Sprint("not auto-fixable:"), d.NoFix)
	case opts.ShowFixes:
		for i, f := range d.Fixes {
			fmt.Fprintf(w, "  %s %s (%s, %d edits) id=%s\n",
				pal.fix.Sprintf("fix #%d:", i+1), f.Message, f.Applicability, f.Patch.Len(), f.ID)
			if !opts.ShowPreview {
				continue
			}
			preview, err := BuildPreview(fs, f.Patch)
			if err != nil {
				fmt.Fprintf(w, "    preview unavailable: %v\n", err)
				continue
			}
			fmt.Fprintln(w, "    preview:")
			for _, line := range preview.Before {
				fmt.Fprintf(w, "      %s\n", pal.err.Sprint("- "+line))
			}
			for _, line := range preview.After {
				fmt.Fprintf(w, "      %s\n", pal.fix.Sprint("+ "+line))
			}
		}
	case d.Fixable():
		fmt.Fprintf(w, "  %s\n", pal.fix.Sprint("fix available"))
	}
}

// writeSnippet prints the primary line with up to context lines before it and
// underlines the span on the primary line.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int8, pal palette) {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	first := start.Line
	for i := int8(0); i < context && first > 1; i++ {
		first--
	}
	width := len(fmt.Sprint(start.Line))
	for ln := first; ln <= start.Line; ln++ {
		fmt.Fprintf(w, "%s %s\n", pal.gutter.Sprintf("%*d |", width, ln), f.GetLine(ln))
	}

	line := f.GetLine(start.Line)
	col := min(int(start.Col)-1, len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(int(end.Col)-1, len(line))
	}
	fmt.Fprintf(w, "%s %s%s\n", pal.gutter.Sprintf("%*s |", width, ""), padding(line[:col]), pal.caret.Sprint(underline(line[col:max(col, endCol)])))
}

// padding reproduces the visual width of prefix, keeping tabs as tabs.
func padding(prefix string) string {
	var b strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			b.WriteByte('\t')
			continue
		}
		b.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	return b.String()
}

func underline(text string) string {
	n := runewidth.StringWidth(text)
	if n <= 1 {
		return "^"
	}
	return "^" + strings.Repeat("~", n-1)
}

// Summary prints a one-line count of findings.
func Summary(w io.Writer, bag *diag.Bag, documents int) {
	fmt.Fprintf(w, "%d finding(s) in %d file(s), %d fixable", bag.Len(), documents, bag.Fixable())
	if dropped := bag.Dropped(); dropped > 0 {
		fmt.Fprintf(w, ", %d not shown", dropped)
	}
	fmt.Fprintln(w)
}

// Short prints the single-line form of every diagnostic.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) {
	out := diag.FormatShortDiagnostics(bag.Items(), fs, includeNotes)
	if out != "" {
		fmt.Fprintln(w, out)
	}
}
