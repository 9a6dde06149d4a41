package rules

import (
	"context"
	"fmt"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/fix"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// RedundantSemicolon removes empty declarations from type bodies.
type RedundantSemicolon struct{}

func (RedundantSemicolon) ID() string { return "redundant-semicolon" }

func (RedundantSemicolon) Description() string {
	return "type bodies contain no empty declarations"
}

func (RedundantSemicolon) Code() diag.Code { return diag.RuleRedundantSemicolon }

func (RedundantSemicolon) DefaultSeverity() diag.Severity { return diag.SevInfo }

func (r RedundantSemicolon) Check(ctx context.Context, doc *Document, rep diag.Reporter) error {
	for _, body := range doc.Unit.Bodies {
		if err := ctx.Err(); err != nil {
			return err
		}
		for _, semi := range body.Semicolons {
			prop := fix.DeleteSpan("remove semicolon", lineExtent(doc.File.Content, semi),
				fix.WithID(proposalID(r.Code(), doc.File, semi.Start)),
				fix.WithRule(r.ID()),
				fix.WithApplicability(doc.applicability()),
			)
			diag.NewReportBuilder(rep, r.DefaultSeverity(), r.Code(), semi,
				fmt.Sprintf("redundant semicolon in %s", describe(body))).
				WithRule(r.ID()).
				WithFix(prop).
				Emit()
		}
	}
	return nil
}

// lineExtent widens sp to its whole line, newline included, when nothing but
// blanks surrounds it there.
func lineExtent(content []byte, sp source.Span) source.Span {
	start := sp.Start
	for start > 0 && isBlank(content[start-1]) {
		start--
	}
	if start > 0 && content[start-1] != '\n' {
		return sp
	}
	end := sp.End
	for int(end) < len(content) && isBlank(content[end]) {
		end++
	}
	switch {
	case int(end) == len(content):
	case content[end] == '\n':
		end++
	case content[end] == '\r' && int(end)+1 < len(content) && content[end+1] == '\n':
		end += 2
	default:
		return sp
	}
	return source.Span{File: sp.File, Start: start, End: end}
}

func isBlank(b byte) bool {
	return b == ' ' || b == '\t'
}
