package rules

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/config"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/javasrc"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/order"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/permute"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// MemberOrdering reorders type body members into the configured rank groups.
type MemberOrdering struct{}

func (MemberOrdering) ID() string { return "member-ordering" }

func (MemberOrdering) Description() string {
	return "type members appear in canonical order: fields, initializers, constructors, methods, nested types"
}

func (MemberOrdering) Code() diag.Code { return diag.RuleMemberOrdering }

func (MemberOrdering) DefaultSeverity() diag.Severity { return diag.SevWarning }

// MemberPolicy builds the rank table from [ordering].members.
func MemberPolicy(cfg *config.Config) (*order.Table, error) {
	groups := make([][]element.Kind, 0, len(cfg.Ordering.Members))
	for _, g := range cfg.Ordering.Members {
		kinds := make([]element.Kind, 0, len(g))
		for _, k := range g {
			if !slices.Contains(javasrc.MemberKinds, element.Kind(k)) {
				return nil, fmt.Errorf("[ordering].members: %w %q", config.ErrUnknownKind, k)
			}
			kinds = append(kinds, element.Kind(k))
		}
		groups = append(groups, kinds)
	}
	return order.Groups(groups...)
}

func (r MemberOrdering) Check(ctx context.Context, doc *Document, rep diag.Reporter) error {
	policy, err := MemberPolicy(doc.config())
	if err != nil {
		return err
	}
	for _, body := range doc.Unit.Bodies {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := r.checkBody(doc, body, policy, rep); err != nil {
			return err
		}
	}
	return nil
}

func (r MemberOrdering) checkBody(doc *Document, body javasrc.Body, policy *order.Table, rep diag.Reporter) error {
	elems, err := element.Build(body.Span, withSemicolons(body), body.Comments, policy.Has)
	switch {
	case errors.Is(err, element.ErrUnlocatable):
		if kindsOrdered(body.Members, policy) {
			return nil
		}
		diag.NewReportBuilder(rep, r.DefaultSeverity(), r.Code(), head(body.Span),
			fmt.Sprintf("members of %s are not in canonical order", describe(body))).
			WithRule(r.ID()).
			NotFixable("some members contain syntax errors and cannot be located").
			Emit()
		return nil
	case err != nil:
		return fmt.Errorf("%s: %w", describe(body), err)
	}

	prop, ok := permute.Propose(doc.File, elems, policy, permute.Options{
		ID:            proposalID(r.Code(), doc.File, body.Span.Start),
		Rule:          r.ID(),
		Message:       "reorder members of " + describe(body),
		Applicability: doc.applicability(),
	})
	if !ok {
		return nil
	}

	desired := permute.Desired(elems, policy)
	primary := elems[0].Core
	for i := range elems {
		if elems[i].Ordinal != desired[i].Ordinal {
			primary = elems[i].Core
			break
		}
	}
	diag.NewReportBuilder(rep, r.DefaultSeverity(), r.Code(), primary,
		fmt.Sprintf("members of %s are not in canonical order", describe(body))).
		WithRule(r.ID()).
		WithNote(primary, "moved: "+strings.Join(permute.Moved(elems, policy), ", ")).
		WithFix(prop).
		Emit()
	return nil
}

// withSemicolons merges stray semicolons into the member list as pinned
// candidates, so comments in front of a semicolon never travel with the
// member after it.
func withSemicolons(body javasrc.Body) []element.Candidate {
	if len(body.Semicolons) == 0 {
		return body.Members
	}
	out := make([]element.Candidate, 0, len(body.Members)+len(body.Semicolons))
	semis := body.Semicolons
	for _, m := range body.Members {
		for m.Located && len(semis) > 0 && semis[0].Start < m.Core.Start {
			out = append(out, element.At(javasrc.KindOther, semis[0], ";"))
			semis = semis[1:]
		}
		out = append(out, m)
	}
	for _, s := range semis {
		out = append(out, element.At(javasrc.KindOther, s, ";"))
	}
	return out
}

// kindsOrdered checks ranks without spans, for bodies that cannot be indexed.
func kindsOrdered(members []element.Candidate, policy *order.Table) bool {
	last := order.Rank(-1)
	for _, m := range members {
		if !policy.Has(m.Kind) {
			continue
		}
		rank := policy.Rank(m.Kind)
		if rank < last {
			return false
		}
		last = rank
	}
	return true
}

func head(sp source.Span) source.Span {
	if sp.Empty() {
		return sp
	}
	return source.Span{File: sp.File, Start: sp.Start, End: sp.Start + 1}
}

func describe(body javasrc.Body) string {
	switch {
	case body.Name == "":
		return body.Owner
	case body.Owner == "":
		return body.Name
	default:
		return body.Owner + " " + body.Name
	}
}
