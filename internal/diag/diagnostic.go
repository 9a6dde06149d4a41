package diag

import (
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Note is a secondary span with a message.
type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is a single finding of a rule or of the driver.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Rule     string
	Message  string
	Primary  source.Span
	Notes    []Note
	// Fixes are candidate rewrites; they compete in the resolver with the
	// fixes of every other diagnostic of the same document.
	Fixes []patch.Proposal
	// NoFix explains why a finding carries no fix, e.g. unlocatable members.
	NoFix string
}

// New creates a diagnostic without notes or fixes.
func New(sev Severity, code Code, primary source.Span, msg string) Diagnostic {
	return Diagnostic{
		Severity: sev,
		Code:     code,
		Primary:  primary,
		Message:  msg,
	}
}

// Fixable reports whether the diagnostic carries at least one non-empty fix.
func (d Diagnostic) Fixable() bool {
	for _, f := range d.Fixes {
		if !f.Patch.Empty() {
			return true
		}
	}
	return false
}

// WithNote returns d with an extra note.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes, Note{Span: sp, Msg: msg})
	return d
}

// WithFix returns d with an extra fix proposal.
func (d Diagnostic) WithFix(p patch.Proposal) Diagnostic {
	d.Fixes = append(d.Fixes, p)
	return d
}
