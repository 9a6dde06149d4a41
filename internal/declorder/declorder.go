// Package declorder implements a go/analysis analyzer that keeps the
// top-level declarations of a Go file in a canonical order of kinds
// (by default const, var, type, func) and suggests the reordering as a fix.
//
// Imports never move: the reordered region starts on the line after the
// last import. Comments directly above a declaration travel with it, as do
// comments that trail it on its last line. Generated files are skipped.
package declorder

import (
	"bytes"
	"fmt"
	"go/ast"
	"go/token"
	"strings"

	"golang.org/x/tools/go/analysis"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/config"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/order"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/permute"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Category is the diagnostic category used in -json output.
const Category = "declaration-order"

// orderFlag backs -order; analyzers take their options through Analyzer.Flags.
var orderFlag string

// Analyzer reports files whose top-level declarations are out of order.
var Analyzer = &analysis.Analyzer{
	Name: "declorder",
	Doc:  "reports top-level declarations that are not grouped in canonical kind order",
	Run:  run,
}

func init() {
	Analyzer.Flags.StringVar(&orderFlag, "order", strings.Join(config.DefaultGoDecls(), ","),
		"comma-separated declaration kinds in canonical order (const, var, type, func); unlisted kinds stay in place")
}

// Policy parses a comma-separated kind list into a rank table.
func Policy(spec string) (*order.Table, error) {
	var kinds []string
	for _, kind := range strings.Split(spec, ",") {
		if kind = strings.TrimSpace(kind); kind != "" {
			kinds = append(kinds, kind)
		}
	}
	if err := config.ValidateGoDecls(kinds); err != nil {
		return nil, err
	}
	groups := make([][]element.Kind, 0, len(kinds))
	for _, kind := range kinds {
		groups = append(groups, []element.Kind{element.Kind(kind)})
	}
	return order.Groups(groups...)
}

func run(pass *analysis.Pass) (any, error) {
	policy, err := Policy(orderFlag)
	if err != nil {
		return nil, fmt.Errorf("-order: %w", err)
	}
	for _, f := range pass.Files {
		if ast.IsGenerated(f) {
			continue
		}
		if err := checkFile(pass, f, policy); err != nil {
			return nil, err
		}
	}
	return nil, nil
}

func checkFile(pass *analysis.Pass, f *ast.File, policy *order.Table) error {
	tf := pass.Fset.File(f.Pos())
	if tf == nil {
		return nil
	}
	content, err := pass.ReadFile(tf.Name())
	if err != nil {
		return err
	}
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(tf.Name(), content))

	spanOf := func(start, end token.Pos) (source.Span, error) {
		return source.SpanOf(file.ID, tf.Offset(start), tf.Offset(end))
	}

	// всё до конца строки последнего import остаётся на месте
	header := f.Name.End()
	var cands []element.Candidate
	for _, decl := range f.Decls {
		if gen, ok := decl.(*ast.GenDecl); ok && gen.Tok == token.IMPORT {
			header = gen.End()
			continue
		}
		kind, label := classify(decl)
		core, err := spanOf(decl.Pos(), decl.End())
		if err != nil {
			return fmt.Errorf("%s: %w", tf.Name(), err)
		}
		cands = append(cands, element.At(kind, core, label))
	}
	if len(cands) < 2 {
		return nil
	}
	body, err := source.SpanOf(file.ID, lineEnd(content, tf.Offset(header)), len(content))
	if err != nil {
		return fmt.Errorf("%s: %w", tf.Name(), err)
	}

	var comments []source.Span
	for _, group := range f.Comments {
		span, err := spanOf(group.Pos(), group.End())
		if err != nil {
			return fmt.Errorf("%s: %w", tf.Name(), err)
		}
		if attachTrailing(content, cands, span) {
			continue
		}
		comments = append(comments, span)
	}

	elems, err := element.Build(body, cands, comments, policy.Has)
	if err != nil {
		// файл с пересекающимися объявлениями не трогаем
		return nil
	}
	if permute.Ordered(elems, policy) {
		return nil
	}
	p, ok := permute.Synthesize(file, elems, policy)
	if !ok {
		return nil
	}

	edits := make([]analysis.TextEdit, 0, p.Len())
	for _, e := range p.Edits() {
		edits = append(edits, analysis.TextEdit{
			Pos:     tf.Pos(int(e.Span.Start)),
			End:     tf.Pos(int(e.Span.End)),
			NewText: []byte(e.NewText),
		})
	}
	kinds := make([]string, 0, len(policy.Kinds()))
	for _, k := range policy.Kinds() {
		kinds = append(kinds, string(k))
	}
	pass.Report(analysis.Diagnostic{
		Pos:      f.Name.Pos(),
		End:      f.Name.End(),
		Category: Category,
		Message: fmt.Sprintf("declarations are not in canonical order (%s): move %s",
			strings.Join(kinds, ", "), strings.Join(permute.Moved(elems, policy), ", ")),
		SuggestedFixes: []analysis.SuggestedFix{{
			Message:   "reorder declarations",
			TextEdits: edits,
		}},
	})
	return nil
}

// classify maps a declaration to its kind and a label for messages.
func classify(decl ast.Decl) (element.Kind, string) {
	switch d := decl.(type) {
	case *ast.FuncDecl:
		if d.Recv != nil && len(d.Recv.List) > 0 {
			return "func", recvName(d.Recv.List[0].Type) + "." + d.Name.Name
		}
		return "func", d.Name.Name
	case *ast.GenDecl:
		label := d.Tok.String()
		if len(d.Specs) > 0 {
			switch s := d.Specs[0].(type) {
			case *ast.ValueSpec:
				if len(s.Names) > 0 {
					label = s.Names[0].Name
				}
			case *ast.TypeSpec:
				label = s.Name.Name
			}
		}
		return element.Kind(d.Tok.String()), label
	default:
		return "bad", "?"
	}
}

func recvName(expr ast.Expr) string {
	switch t := expr.(type) {
	case *ast.StarExpr:
		return recvName(t.X)
	case *ast.IndexExpr:
		return recvName(t.X)
	case *ast.IndexListExpr:
		return recvName(t.X)
	case *ast.Ident:
		return t.Name
	default:
		return "?"
	}
}

// attachTrailing extends the core of the candidate that comment trails on
// the same line. It reports whether the comment was absorbed.
func attachTrailing(content []byte, cands []element.Candidate, comment source.Span) bool {
	prev := -1
	for i := range cands {
		if cands[i].Core.End > comment.Start {
			break
		}
		prev = i
	}
	if prev < 0 {
		return false
	}
	if prev+1 < len(cands) && cands[prev+1].Core.Start < comment.End {
		// комментарий внутри следующего объявления
		return false
	}
	if bytes.IndexByte(content[cands[prev].Core.End:comment.Start], '\n') >= 0 {
		return false
	}
	cands[prev].Core.End = comment.End
	return true
}

// lineEnd returns the offset of the newline ending the line containing off.
func lineEnd(content []byte, off int) int {
	if idx := bytes.IndexByte(content[off:], '\n'); idx >= 0 {
		return off + idx
	}
	return len(content)
}
