package rules

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/javasrc"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/order"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/permute"
)

// AnnotationOrdering sorts the annotations of a declaration by name.
// Excluded annotations and modifier keywords keep their positions.
type AnnotationOrdering struct{}

func (AnnotationOrdering) ID() string { return "annotation-ordering" }

func (AnnotationOrdering) Description() string {
	return "annotations on a declaration are listed lexicographically"
}

func (AnnotationOrdering) Code() diag.Code { return diag.RuleAnnotationOrdering }

func (AnnotationOrdering) DefaultSeverity() diag.Severity { return diag.SevInfo }

func (r AnnotationOrdering) Check(ctx context.Context, doc *Document, rep diag.Reporter) error {
	cfg := doc.config()
	movable := func(k element.Kind) bool {
		return k != javasrc.KindModifier && !cfg.Excluded(doc.Unit.Qualify(string(k)))
	}
	for _, list := range doc.Unit.Annotations {
		if err := ctx.Err(); err != nil {
			return err
		}
		var names []element.Kind
		for _, it := range list.Items {
			if movable(it.Kind) {
				names = append(names, it.Kind)
			}
		}
		if len(names) < 2 {
			continue
		}
		policy := order.Lexicographic(names)

		elems, err := element.Build(list.Span, list.Items, list.Comments, movable)
		switch {
		case errors.Is(err, element.ErrUnlocatable):
			if kindsOrdered(list.Items, policy) {
				continue
			}
			diag.NewReportBuilder(rep, r.DefaultSeverity(), r.Code(), head(list.Span),
				fmt.Sprintf("annotations on %s are not sorted", list.Owner)).
				WithRule(r.ID()).
				NotFixable("some annotations contain syntax errors and cannot be located").
				Emit()
			continue
		case err != nil:
			return fmt.Errorf("annotations on %s: %w", list.Owner, err)
		}

		prop, ok := permute.Propose(doc.File, elems, policy, permute.Options{
			ID:            proposalID(r.Code(), doc.File, list.Span.Start),
			Rule:          r.ID(),
			Message:       "sort annotations on " + list.Owner,
			Applicability: doc.applicability(),
		})
		if !ok {
			continue
		}
		desired := permute.Desired(elems, policy)
		labels := make([]string, 0, len(desired))
		for _, e := range desired {
			labels = append(labels, e.Label)
		}
		diag.NewReportBuilder(rep, r.DefaultSeverity(), r.Code(), list.Span,
			fmt.Sprintf("annotations on %s are not sorted", list.Owner)).
			WithRule(r.ID()).
			WithNote(list.Span, "expected: "+strings.Join(labels, " ")).
			WithFix(prop).
			Emit()
	}
	return nil
}
