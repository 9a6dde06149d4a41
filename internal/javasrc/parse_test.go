//go:build cgo

package javasrc

import (
	"context"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

func parse(t *testing.T, content string) *Unit {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("A.java", []byte(content))
	unit, err := Parse(context.Background(), fs.Get(id))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return unit
}

func kinds(cands []element.Candidate) []element.Kind {
	out := make([]element.Kind, 0, len(cands))
	for _, c := range cands {
		out = append(out, c.Kind)
	}
	return out
}

const sample = `package p;

@Deprecated
public class A {
  // leading
  void m() {}
  private int x;
  static int Y = 1;
  A() {}
  static {}
  {}
  class Inner {}
  ;
}
`

func TestParseClassBody(t *testing.T) {
	unit := parse(t, sample)
	if len(unit.Bodies) != 2 {
		t.Fatalf("expected 2 bodies, got %d", len(unit.Bodies))
	}
	body := unit.Bodies[0]
	if body.Owner != "class" || body.Name != "A" {
		t.Fatalf("unexpected owner %q %q", body.Owner, body.Name)
	}
	expected := []element.Kind{
		KindMethod, KindField, KindStaticField, KindConstructor,
		KindStaticInitializer, KindInitializer, KindType,
	}
	deepequal.SideBySide(t, "kinds", expected, kinds(body.Members))

	if got := string(unit.File.Text(body.Members[0].Core)); got != "void m() {}" {
		t.Errorf("unexpected method text %q", got)
	}
	if len(body.Comments) != 1 || string(unit.File.Text(body.Comments[0])) != "// leading" {
		t.Errorf("unexpected comments %v", body.Comments)
	}
	if len(body.Semicolons) != 1 {
		t.Errorf("expected 1 stray semicolon, got %d", len(body.Semicolons))
	}
	if unit.Bodies[1].Name != "Inner" {
		t.Errorf("unexpected nested body %q", unit.Bodies[1].Name)
	}
	if unit.Generated {
		t.Error("sample must not be generated")
	}
	if len(unit.Errors) != 0 {
		t.Errorf("unexpected syntax errors %v", unit.Errors)
	}
}

func TestParseAnnotationLists(t *testing.T) {
	unit := parse(t, "class A {\n  @B @A public @C void f() {}\n  private int plain;\n}\n")
	if len(unit.Annotations) != 1 {
		t.Fatalf("expected 1 annotation list, got %d", len(unit.Annotations))
	}
	list := unit.Annotations[0]
	if list.Owner != "f" {
		t.Errorf("unexpected owner %q", list.Owner)
	}
	deepequal.SideBySide(t, "items", []element.Kind{"B", "A", KindModifier, "C"}, kinds(list.Items))
	if list.Annotations() != 3 {
		t.Errorf("expected 3 annotations, got %d", list.Annotations())
	}
}

func TestParseImports(t *testing.T) {
	unit := parse(t, `package p;

import java.util.List;
import static org.junit.jupiter.api.Assertions.assertEquals;
import java.util.concurrent.*;
import org.junit.jupiter.api.Test;

class A {}
`)
	deepequal.SideBySide(t, "imports", []string{"java.util.List", "org.junit.jupiter.api.Test"}, unit.Imports)
	if got := unit.Qualify("Test"); got != "org.junit.jupiter.api.Test" {
		t.Errorf("unexpected qualified name %q", got)
	}
	if got := unit.Qualify("Disabled"); got != "Disabled" {
		t.Errorf("unimported name must stay as written, got %q", got)
	}
	if got := unit.Qualify("a.b.Test"); got != "a.b.Test" {
		t.Errorf("qualified name must stay as written, got %q", got)
	}
}

func TestParseEnumSkipsConstantSeparator(t *testing.T) {
	unit := parse(t, "enum E {\n  X, Y;\n  int v;\n  ;\n}\n")
	if len(unit.Bodies) != 1 {
		t.Fatalf("expected 1 body, got %d", len(unit.Bodies))
	}
	body := unit.Bodies[0]
	if body.Owner != "enum" || body.Name != "E" {
		t.Fatalf("unexpected owner %q %q", body.Owner, body.Name)
	}
	deepequal.SideBySide(t, "kinds", []element.Kind{KindField}, kinds(body.Members))
	if len(body.Semicolons) != 1 {
		t.Errorf("expected 1 stray semicolon, got %d", len(body.Semicolons))
	}
}

func TestParseGenerated(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"annotation", "@Generated(\"x\")\nclass G {}\n"},
		{"qualified annotation", "@javax.annotation.processing.Generated(\"x\")\nclass G {}\n"},
		{"header", "// Code generated by protoc. DO NOT EDIT.\nclass G {}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !parse(t, tt.content).Generated {
				t.Fatal("expected generated")
			}
		})
	}
}

func TestParseReportsSyntaxErrors(t *testing.T) {
	unit := parse(t, "class B {\n  void f( {\n  int y;\n}\n")
	if len(unit.Errors) == 0 {
		t.Fatal("expected syntax errors")
	}
}

func TestParseHandlesBOM(t *testing.T) {
	unit := parse(t, "\ufeffclass A { int x; }\n")
	if len(unit.Bodies) != 1 || len(unit.Bodies[0].Members) != 1 {
		t.Fatalf("unexpected bodies %+v", unit.Bodies)
	}
	if got := string(unit.File.Text(unit.Bodies[0].Members[0].Core)); got != "int x;" {
		t.Errorf("unexpected member text %q", got)
	}
}
