package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/fix"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("class A {\n  ;\n}\n")
	fileID := fs.AddVirtual("/home/user/project/src/A.java", content)
	fs.SetBaseDir("/home/user/project")

	bag := diag.NewBag(10)
	bag.Add(diag.New(diag.SevWarning, diag.RuleRedundantSemicolon, source.Span{File: fileID, Start: 12, End: 13}, "redundant semicolon"))

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{"Absolute path", PathModeAbsolute, "/home/user/project/src/A.java:2:3:"},
		{"Relative path", PathModeRelative, "src/A.java:2:3:"},
		{"Basename only", PathModeBasename, "A.java:2:3:"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			Pretty(&buf, bag, fs, PrettyOpts{PathMode: tt.mode})
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}
			if !strings.Contains(output, "WARNING R1003: redundant semicolon") {
				t.Errorf("Expected header in output, got:\n%s", output)
			}
		})
	}
}

func TestPrettyUnderlinesWideRunes(t *testing.T) {
	fs := source.NewFileSet()
	content := "x = \"日本\"; bad\n"
	fileID := fs.AddVirtual("A.java", []byte(content))
	start := uint32(strings.Index(content, "bad"))

	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevError, diag.DriverParseError, source.Span{File: fileID, Start: start, End: start + 3}, "syntax error"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{})
	lines := strings.Split(buf.String(), "\n")
	if len(lines) < 3 {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	if lines[1] != "1 | "+strings.TrimSuffix(content, "\n") {
		t.Errorf("unexpected source line %q", lines[1])
	}
	if want := "  | " + strings.Repeat(" ", 12) + "^~~"; lines[2] != want {
		t.Errorf("caret line %q, want %q", lines[2], want)
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("class A {\n  int x;;\n}\n")
	fileID := fs.AddVirtual("A.java", content)

	semi := source.Span{File: fileID, Start: 18, End: 19}
	d := diag.New(diag.SevInfo, diag.RuleRedundantSemicolon, semi, "redundant semicolon")
	d.Rule = "redundant-semicolon"
	d = d.WithNote(source.Span{File: fileID, Start: 12, End: 18}, "after this field")
	d = d.WithFix(fix.DeleteSpan("remove semicolon", semi, fix.WithID("semi-1")))

	bag := diag.NewBag(4)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{
		PathMode:    PathModeBasename,
		ShowNotes:   true,
		ShowFixes:   true,
		ShowPreview: true,
	})
	output := buf.String()

	for _, want := range []string{
		"[redundant-semicolon]",
		"note: A.java:2:3: after this field",
		"fix #1: remove semicolon (always-safe, 1 edits) id=semi-1",
		"preview:",
		"- " + "  int x;;",
		"+ " + "  int x;",
	} {
		if !strings.Contains(output, want) {
			t.Fatalf("expected %q in output, got:\n%s", want, output)
		}
	}
}

func TestPrettyNotFixable(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("A.java", []byte("class A {}\n"))
	d := diag.New(diag.SevWarning, diag.RuleMemberOrdering, source.Span{File: fileID, Start: 8, End: 9}, "members of class A are not in canonical order")
	d.NoFix = "some members contain syntax errors"
	bag := diag.NewBag(1)
	bag.Add(d)

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{ShowFixes: true})
	if !strings.Contains(buf.String(), "not auto-fixable: some members contain syntax errors") {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
}

func TestUnified(t *testing.T) {
	changes := []fix.FileChange{{
		Path:     "A.java",
		Original: []byte("class A {\n  ;\n}\n"),
		Updated:  []byte("class A {\n}\n"),
	}}
	var buf bytes.Buffer
	if err := Unified(&buf, changes, false); err != nil {
		t.Fatal(err)
	}
	want := "--- a/A.java\n+++ b/A.java\n@@ -1,3 +1,2 @@\n class A {\n-  ;\n }\n"
	if buf.String() != want {
		t.Fatalf("unexpected diff:\n%s", buf.String())
	}
}

func TestSummary(t *testing.T) {
	bag := diag.NewBag(1)
	bag.Add(diag.New(diag.SevInfo, diag.RuleRedundantSemicolon, source.Span{}, "a"))
	bag.Add(diag.New(diag.SevInfo, diag.RuleRedundantSemicolon, source.Span{}, "b"))

	var buf bytes.Buffer
	Summary(&buf, bag, 3)
	if got := buf.String(); got != "1 finding(s) in 3 file(s), 0 fixable, 1 not shown\n" {
		t.Fatalf("unexpected summary %q", got)
	}
}
