// Package resolve selects a non-overlapping subset of competing proposals.
//
// Selection is greedy. Proposals are visited by replaced size (descending),
// then inserted size (ascending), then submission order. A proposal is
// accepted whole when none of its edits conflicts with a range already covered
// by an accepted proposal; otherwise it is rejected whole.
package resolve

import (
	"fmt"
	"slices"

	"github.com/sirkon/rbtree"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// coveredRange is a node of the covered set. Accepted ranges never conflict
// with each other, so ordering by start is total on the tree contents and
// Cmp returns 0 exactly for a conflicting probe.
type coveredRange struct {
	span     source.Span
	proposal int
}

func (r *coveredRange) Cmp(other *coveredRange) int {
	a, b := r.span, other.span
	if a.File != b.File {
		if a.File < b.File {
			return -1
		}
		return 1
	}
	if patch.Conflict(a, b) {
		return 0
	}
	if a.Start < b.Start || (a.Start == b.Start && a.End < b.End) {
		return -1
	}
	return 1
}

// Covered is the set of ranges claimed by accepted proposals.
type Covered struct {
	tree *rbtree.Tree[*coveredRange]
	size int
}

// NewCovered returns an empty set.
func NewCovered() *Covered {
	return &Covered{tree: rbtree.New[*coveredRange]()}
}

// Len returns the number of ranges in the set.
func (c *Covered) Len() int {
	return c.size
}

// Blocker returns the index of the accepted proposal whose range conflicts
// with span, or -1.
func (c *Covered) Blocker(span source.Span) int {
	if hit := c.tree.Search(&coveredRange{span: span}); hit != nil {
		return hit.proposal
	}
	return -1
}

// Claim adds all ranges of p on behalf of proposal idx. The ranges of one
// patch never conflict with each other; if they do, Claim panics.
func (c *Covered) Claim(p patch.Patch, idx int) {
	for _, e := range p.Edits() {
		node := &coveredRange{span: e.Span, proposal: idx}
		if got := c.tree.InsertReturn(node); got != node {
			panic(fmt.Errorf("resolve: proposal %d overlaps itself at %s and %s", idx, got.span, e.Span))
		}
		c.size++
	}
}

// Rejection records why a proposal was dropped.
type Rejection struct {
	Proposal patch.Proposal
	// Index is the position of the proposal in the input.
	Index int
	// BlockedBy is the input index of the accepted proposal it conflicts with.
	BlockedBy int
}

// Result is the outcome of Resolve.
type Result struct {
	// Patch merges the edits of every accepted proposal.
	Patch patch.Patch
	// Accepted holds the accepted proposals in input order.
	Accepted []patch.Proposal
	// Rejected holds the rejected proposals in visiting order.
	Rejected []Rejection
}

// Resolve selects a maximal non-overlapping subset of proposals addressing
// one file. The result depends only on the proposals and their order.
func Resolve(proposals []patch.Proposal) Result {
	order := Order(proposals)

	covered := NewCovered()
	accepted := make([]bool, len(proposals))
	var res Result
	for _, idx := range order {
		prop := proposals[idx]
		blocker := -1
		for _, e := range prop.Patch.Edits() {
			if blocker = covered.Blocker(e.Span); blocker >= 0 {
				break
			}
		}
		if blocker >= 0 {
			res.Rejected = append(res.Rejected, Rejection{Proposal: prop, Index: idx, BlockedBy: blocker})
			continue
		}
		covered.Claim(prop.Patch, idx)
		accepted[idx] = true
	}

	patches := make([]patch.Patch, 0, len(proposals))
	for i, ok := range accepted {
		if ok {
			res.Accepted = append(res.Accepted, proposals[i])
			patches = append(patches, proposals[i].Patch)
		}
	}
	merged, err := patch.Merge(patches...)
	if err != nil {
		panic(fmt.Errorf("resolve: merging accepted proposals: %w", err))
	}
	res.Patch = merged
	return res
}

// Order returns the input indices of proposals in visiting order:
// replaced size descending, inserted size ascending, input order.
func Order(proposals []patch.Proposal) []int {
	idx := make([]int, len(proposals))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int {
		pa, pb := proposals[a], proposals[b]
		if ra, rb := pa.ReplacedSize(), pb.ReplacedSize(); ra != rb {
			if ra > rb {
				return -1
			}
			return 1
		}
		if ia, ib := pa.InsertedSize(), pb.InsertedSize(); ia != ib {
			if ia < ib {
				return -1
			}
			return 1
		}
		return a - b
	})
	return idx
}
