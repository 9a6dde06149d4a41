//go:build cgo

package javasrc

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/java"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Available reports whether Java parsing is compiled in.
func Available() bool { return true }

// Parse parses file as Java and extracts its structure.
func Parse(ctx context.Context, file *source.File) (*Unit, error) {
	content := file.Content
	base := uint32(0)
	if bytes.HasPrefix(content, utf8BOM) {
		content = content[len(utf8BOM):]
		base = uint32(len(utf8BOM))
	}

	parser := sitter.NewParser()
	parser.SetLanguage(java.GetLanguage())
	tree, err := parser.ParseCtx(ctx, nil, content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", file.Path, err)
	}

	x := &extractor{
		file:    file,
		content: content,
		base:    base,
		unit:    &Unit{File: file},
	}
	x.walk(tree.RootNode(), 0)
	return x.unit, nil
}

type extractor struct {
	file    *source.File
	content []byte
	base    uint32
	unit    *Unit
}

func (x *extractor) span(n *sitter.Node) source.Span {
	return source.Span{File: x.file.ID, Start: x.base + n.StartByte(), End: x.base + n.EndByte()}
}

func (x *extractor) text(n *sitter.Node) string {
	if n == nil {
		return ""
	}
	return n.Content(x.content)
}

func isComment(n *sitter.Node) bool {
	return strings.HasSuffix(n.Type(), "comment")
}

func broken(n *sitter.Node) bool {
	return n.IsMissing() || n.Type() == "ERROR" || n.HasError()
}

var typeDecls = map[string]string{
	"class_declaration":           "class",
	"interface_declaration":       "interface",
	"enum_declaration":            "enum",
	"record_declaration":          "record",
	"annotation_type_declaration": "@interface",
}

func (x *extractor) walk(n *sitter.Node, depth int) {
	if n == nil {
		return
	}
	switch {
	case n.IsMissing() || n.Type() == "ERROR":
		x.unit.Errors = append(x.unit.Errors, x.span(n))
	case depth == 1 && isComment(n):
		if generatedHeader(x.text(n)) {
			x.unit.Generated = true
		}
	}

	switch n.Type() {
	case "class_body", "interface_body", "annotation_type_body", "enum_body_declarations":
		x.body(n)
	case "modifiers":
		x.modifiers(n, depth)
	case "import_declaration":
		x.importDecl(n)
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		x.walk(n.Child(i), depth+1)
	}
}

func (x *extractor) importDecl(n *sitter.Node) {
	name := ""
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "static", "asterisk":
			return
		case "scoped_identifier", "identifier":
			name = x.text(child)
		}
	}
	if name != "" && !broken(n) {
		x.unit.Imports = append(x.unit.Imports, name)
	}
}

func generatedHeader(comment string) bool {
	return strings.Contains(comment, "Code generated") || strings.Contains(comment, "@generated")
}

// owner returns the kind and name of the declaration owning a body node.
func (x *extractor) owner(body *sitter.Node) (string, string) {
	decl := body.Parent()
	if decl != nil && body.Type() == "enum_body_declarations" {
		decl = decl.Parent() // enum_body -> enum_declaration
	}
	if decl == nil {
		return "", ""
	}
	if kind, ok := typeDecls[decl.Type()]; ok {
		return kind, x.text(decl.ChildByFieldName("name"))
	}
	if decl.Type() == "object_creation_expression" {
		return "anonymous", x.text(decl.ChildByFieldName("type"))
	}
	return decl.Type(), ""
}

func (x *extractor) body(n *sitter.Node) {
	owner, name := x.owner(n)
	b := Body{Owner: owner, Name: name, Span: x.span(n)}

	separatorSeen := n.Type() != "enum_body_declarations"
	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch {
		case isComment(child):
			b.Comments = append(b.Comments, x.span(child))
		case child.Type() == ";":
			// первая ";" в enum отделяет константы от объявлений
			if !separatorSeen {
				separatorSeen = true
				continue
			}
			if !child.IsMissing() {
				b.Semicolons = append(b.Semicolons, x.span(child))
			}
		case !child.IsNamed():
			// фигурные скобки и прочая пунктуация
		default:
			b.Members = append(b.Members, x.member(child))
		}
	}
	x.unit.Bodies = append(x.unit.Bodies, b)
}

func (x *extractor) member(n *sitter.Node) element.Candidate {
	kind, label := x.classify(n)
	if broken(n) {
		return element.Unlocated(kind, label)
	}
	return element.At(kind, x.span(n), label)
}

func (x *extractor) classify(n *sitter.Node) (element.Kind, string) {
	switch n.Type() {
	case "field_declaration":
		label := x.text(n.ChildByFieldName("declarator"))
		if d := n.ChildByFieldName("declarator"); d != nil {
			label = x.text(d.ChildByFieldName("name"))
		}
		if x.hasModifier(n, "static") {
			return KindStaticField, label
		}
		return KindField, label
	case "constant_declaration":
		label := ""
		if d := n.ChildByFieldName("declarator"); d != nil {
			label = x.text(d.ChildByFieldName("name"))
		}
		return KindStaticField, label
	case "static_initializer":
		return KindStaticInitializer, "static {}"
	case "block":
		return KindInitializer, "{}"
	case "constructor_declaration", "compact_constructor_declaration":
		return KindConstructor, x.text(n.ChildByFieldName("name"))
	case "method_declaration", "annotation_type_element_declaration":
		return KindMethod, x.text(n.ChildByFieldName("name")) + "()"
	default:
		if _, ok := typeDecls[n.Type()]; ok {
			return KindType, x.text(n.ChildByFieldName("name"))
		}
		return KindOther, n.Type()
	}
}

func (x *extractor) hasModifier(decl *sitter.Node, keyword string) bool {
	for i := 0; i < int(decl.ChildCount()); i++ {
		child := decl.Child(i)
		if child == nil || child.Type() != "modifiers" {
			continue
		}
		for j := 0; j < int(child.ChildCount()); j++ {
			if m := child.Child(j); m != nil && m.Type() == keyword {
				return true
			}
		}
	}
	return false
}

func (x *extractor) modifiers(n *sitter.Node, depth int) {
	decl := n.Parent()
	list := AnnotationList{Span: x.span(n)}
	if decl != nil {
		list.Owner = decl.Type()
		if name := decl.ChildByFieldName("name"); name != nil {
			list.Owner = x.text(name)
		}
	}

	for i := 0; i < int(n.ChildCount()); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		switch {
		case isComment(child):
			list.Comments = append(list.Comments, x.span(child))
		case child.Type() == "marker_annotation" || child.Type() == "annotation":
			name := x.text(child.ChildByFieldName("name"))
			if decl != nil && depth <= 2 && isGeneratedAnnotation(name) {
				if _, ok := typeDecls[decl.Type()]; ok {
					x.unit.Generated = true
				}
			}
			if broken(child) {
				list.Items = append(list.Items, element.Unlocated(element.Kind(name), "@"+name))
				continue
			}
			list.Items = append(list.Items, element.At(element.Kind(name), x.span(child), "@"+name))
		default:
			list.Items = append(list.Items, element.At(KindModifier, x.span(child), x.text(child)))
		}
	}
	if list.Annotations() > 0 {
		x.unit.Annotations = append(x.unit.Annotations, list)
	}
}

func isGeneratedAnnotation(name string) bool {
	return name == "Generated" || strings.HasSuffix(name, ".Generated")
}
