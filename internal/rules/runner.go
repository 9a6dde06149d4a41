package rules

import (
	"context"
	"fmt"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/trace"
)

// severityReporter rewrites severities to the configured one and stamps the rule name.
type severityReporter struct {
	next diag.Reporter
	rule string
	sev  diag.Severity
}

func (r severityReporter) Report(d diag.Diagnostic) {
	d.Severity = r.sev
	if d.Rule == "" {
		d.Rule = r.rule
	}
	r.next.Report(d)
}

// Run checks doc with every active rule in order. It stops at the first
// rule error or when ctx is done.
func Run(ctx context.Context, doc *Document, active []Active, r diag.Reporter) error {
	for _, a := range active {
		if err := ctx.Err(); err != nil {
			return err
		}
		span, rctx := trace.Start(ctx, trace.ScopeRule, a.Rule.ID())
		err := a.Rule.Check(rctx, doc, severityReporter{next: r, rule: a.Rule.ID(), sev: a.Severity})
		if err != nil {
			span.End(err.Error())
			return fmt.Errorf("rule %s: %w", a.Rule.ID(), err)
		}
		span.End("")
	}
	return nil
}
