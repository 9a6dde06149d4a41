package diag

import (
	"sync"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Reporter: минимальный контракт получения диагностик от правил.
// Реализации: BagReporter (кладёт в Bag), DedupReporter, NopReporter.
type Reporter interface {
	Report(d Diagnostic)
}

// ReportBuilder accumulates diagnostic details before emitting to Reporter.
type ReportBuilder struct {
	reporter Reporter
	diag     Diagnostic
	emitted  bool
}

// NewReportBuilder constructs a builder bound to Reporter.
func NewReportBuilder(r Reporter, sev Severity, code Code, primary source.Span, msg string) *ReportBuilder {
	return &ReportBuilder{
		reporter: r,
		diag:     New(sev, code, primary, msg),
	}
}

// ReportError is a shortcut for SevError diagnostics.
func ReportError(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevError, code, primary, msg)
}

// ReportWarning is a shortcut for SevWarning diagnostics.
func ReportWarning(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevWarning, code, primary, msg)
}

// ReportInfo is a shortcut for SevInfo diagnostics.
func ReportInfo(r Reporter, code Code, primary source.Span, msg string) *ReportBuilder {
	return NewReportBuilder(r, SevInfo, code, primary, msg)
}

// WithRule records the name of the producing rule.
func (b *ReportBuilder) WithRule(name string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.Rule = name
	return b
}

// WithNote appends a note to diagnostic.
func (b *ReportBuilder) WithNote(sp source.Span, msg string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithNote(sp, msg)
	return b
}

// WithFix appends a fix proposal.
func (b *ReportBuilder) WithFix(p patch.Proposal) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag = b.diag.WithFix(p)
	return b
}

// NotFixable records why the finding has no automatic fix.
func (b *ReportBuilder) NotFixable(reason string) *ReportBuilder {
	if b == nil {
		return nil
	}
	b.diag.NoFix = reason
	return b
}

// Emit sends diagnostic to underlying reporter exactly once.
func (b *ReportBuilder) Emit() {
	if b == nil || b.emitted {
		return
	}
	if b.reporter != nil {
		b.reporter.Report(b.diag)
	}
	b.emitted = true
}

// Diagnostic returns accumulated diagnostic without emitting.
func (b *ReportBuilder) Diagnostic() Diagnostic {
	if b == nil {
		return Diagnostic{}
	}
	return b.diag
}

// BagReporter: адаптер, который пишет в *Bag. Safe for concurrent use.
type BagReporter struct {
	mu  sync.Mutex
	Bag *Bag
}

// NewBagReporter wraps bag.
func NewBagReporter(bag *Bag) *BagReporter {
	return &BagReporter{Bag: bag}
}

// Report adds d to the bag, subject to the bag limit.
func (r *BagReporter) Report(d Diagnostic) {
	if r == nil || r.Bag == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Bag.Add(d)
}

// NopReporter drops everything.
type NopReporter struct{}

// Report does nothing.
func (NopReporter) Report(Diagnostic) {}
