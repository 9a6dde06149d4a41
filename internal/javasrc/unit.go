// Package javasrc extracts the structure the rewrite rules need from Java
// sources: type bodies with their members and comments, annotation lists and
// stray semicolons. Parsing uses tree-sitter and needs cgo.
package javasrc

import (
	"errors"
	"strings"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// ErrNoCGO is returned by Parse when the binary was built without cgo.
var ErrNoCGO = errors.New("java parsing requires CGO (tree-sitter)")

// Member kinds reported for type body members.
const (
	KindStaticField       element.Kind = "static-field"
	KindField             element.Kind = "field"
	KindStaticInitializer element.Kind = "static-initializer"
	KindInitializer       element.Kind = "initializer"
	KindConstructor       element.Kind = "constructor"
	KindMethod            element.Kind = "method"
	KindType              element.Kind = "type"
	// KindOther marks members the rules never move.
	KindOther element.Kind = "other"
	// KindModifier marks keywords such as public or static inside an annotation list.
	KindModifier element.Kind = "modifier"
)

// MemberKinds lists every movable member kind.
var MemberKinds = []element.Kind{
	KindStaticField, KindField, KindStaticInitializer, KindInitializer,
	KindConstructor, KindMethod, KindType,
}

// Body is the member list of a class, interface, enum, record or annotation type.
type Body struct {
	// Owner is the declaring type kind, e.g. "class" or "enum".
	Owner string
	Name  string
	Span  source.Span
	// Members are in source order; a member containing syntax errors has no span.
	Members  []element.Candidate
	Comments []source.Span
	// Semicolons are empty declarations, e.g. the trailing one in "void f() {};".
	Semicolons []source.Span
}

// AnnotationList is the modifier list of one declaration.
type AnnotationList struct {
	// Owner labels the annotated declaration.
	Owner string
	Span  source.Span
	// Items holds annotations (Kind is the name as written) and modifier keywords (KindModifier).
	Items    []element.Candidate
	Comments []source.Span
}

// Annotations returns the number of annotation items.
func (l AnnotationList) Annotations() int {
	n := 0
	for _, it := range l.Items {
		if it.Kind != KindModifier {
			n++
		}
	}
	return n
}

// Unit is the extracted structure of one compilation unit.
type Unit struct {
	File        *source.File
	Bodies      []Body
	Annotations []AnnotationList
	// Generated is set for @Generated top-level types and "Code generated" headers.
	Generated bool
	// Errors holds the spans of syntax errors and missing tokens.
	Errors []source.Span
	// Imports holds single-type imports as qualified names; static and
	// on-demand imports are left out.
	Imports []string
}

// Qualify resolves an annotation name as written through the single-type
// imports. Names that are already qualified or not imported come back unchanged.
func (u *Unit) Qualify(name string) string {
	if u == nil || strings.IndexByte(name, '.') >= 0 {
		return name
	}
	for _, imp := range u.Imports {
		if strings.HasSuffix(imp, "."+name) {
			return imp
		}
	}
	return name
}
