// Package permute turns an out-of-order element sequence into a patch that
// reorders it.
//
// Every edit replaces the full span of the element originally at position i
// with the text of the element that should be there, read from the unmodified
// file. The edits address disjoint original ranges and are applied together
// against a frozen snapshot, so no edit ever reads text written by another.
// Gaps between elements are never touched.
package permute

import (
	"slices"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/order"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Desired returns elems stably sorted by rank. elems itself is not modified.
func Desired(elems []element.Element, policy order.Policy) []element.Element {
	desired := slices.Clone(elems)
	slices.SortStableFunc(desired, func(a, b element.Element) int {
		ra, rb := policy.Rank(a.Kind), policy.Rank(b.Kind)
		switch {
		case ra < rb:
			return -1
		case ra > rb:
			return 1
		default:
			return 0
		}
	})
	return desired
}

// Ordered reports whether elems already follow the policy.
func Ordered(elems []element.Element, policy order.Policy) bool {
	for i := 1; i < len(elems); i++ {
		if policy.Rank(elems[i-1].Kind) > policy.Rank(elems[i].Kind) {
			return false
		}
	}
	return true
}

// Synthesize returns the patch reordering elems by policy, or false when they
// are already in order. elems must come from element.Build over file.
func Synthesize(file *source.File, elems []element.Element, policy order.Policy) (patch.Patch, bool) {
	desired := Desired(elems, policy)

	edits := make([]patch.Edit, 0, len(elems))
	for i := range elems {
		if elems[i].Ordinal == desired[i].Ordinal {
			continue
		}
		edits = append(edits, patch.Replace(elems[i].Full, string(desired[i].Text(file))))
	}
	if len(edits) == 0 {
		return patch.Patch{}, false
	}
	// исходные полные спаны не пересекаются, поэтому ошибки быть не может
	return patch.Must(edits...), true
}

// Options carries proposal metadata.
type Options struct {
	ID            string
	Rule          string
	Message       string
	Applicability patch.Applicability
}

// Propose wraps Synthesize into a proposal.
func Propose(file *source.File, elems []element.Element, policy order.Policy, opts Options) (patch.Proposal, bool) {
	p, ok := Synthesize(file, elems, policy)
	if !ok {
		return patch.Proposal{}, false
	}
	return patch.Proposal{
		ID:            opts.ID,
		Rule:          opts.Rule,
		Message:       opts.Message,
		Applicability: opts.Applicability,
		Patch:         p,
	}, true
}

// Moved returns the labels of elements whose position changes, in desired order.
func Moved(elems []element.Element, policy order.Policy) []string {
	desired := Desired(elems, policy)
	var out []string
	for i := range elems {
		if elems[i].Ordinal != desired[i].Ordinal {
			out = append(out, desired[i].Label)
		}
	}
	return out
}
