package fix

import (
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Option mutates a proposal during construction.
type Option func(*patch.Proposal)

// WithApplicability overrides applicability metadata.
func WithApplicability(app patch.Applicability) Option {
	return func(p *patch.Proposal) {
		p.Applicability = app
	}
}

// WithID sets stable identifier for the proposal.
func WithID(id string) Option {
	return func(p *patch.Proposal) {
		p.ID = id
	}
}

// WithRule records the producing rule.
func WithRule(rule string) Option {
	return func(p *patch.Proposal) {
		p.Rule = rule
	}
}

func build(message string, edits []patch.Edit, opts []Option) patch.Proposal {
	p := patch.Proposal{
		Message:       message,
		Applicability: patch.AlwaysSafe,
		// правки одного билдера не пересекаются; перевёрнутый спан: ошибка вызывающего
		Patch: patch.Must(edits...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&p)
		}
	}
	return p
}

// InsertText creates a proposal that inserts text at the start of at.
func InsertText(message string, at source.Span, text string, opts ...Option) patch.Proposal {
	return build(message, []patch.Edit{patch.Insert(at.File, at.Start, text)}, opts)
}

// DeleteSpan removes text covered by span.
func DeleteSpan(message string, span source.Span, opts ...Option) patch.Proposal {
	return build(message, []patch.Edit{patch.Delete(span)}, opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(message string, span source.Span, newText string, opts ...Option) patch.Proposal {
	return build(message, []patch.Edit{patch.Replace(span, newText)}, opts)
}

// WrapWith surrounds a non-empty span with prefix and suffix insertions. Wrapping relies
// on the caller knowing the syntax, so it is not applied by default.
func WrapWith(message string, span source.Span, prefix, suffix string, opts ...Option) patch.Proposal {
	edits := []patch.Edit{
		patch.Insert(span.File, span.Start, prefix),
		patch.Insert(span.File, span.End, suffix),
	}
	opts = append([]Option{WithApplicability(patch.SafeWithHeuristics)}, opts...)
	return build(message, edits, opts)
}
