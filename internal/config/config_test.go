package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/sirkon/deepequal"
)

var knownRules = []string{"member-ordering", "annotation-ordering", "redundant-semicolon"}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load("", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deepequal.SideBySide(t, "config", DefaultConfig(), cfg)
}

func TestLoadTOMLPartial(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "refix.toml"), `
[rules]
disable = ["redundant-semicolon"]

[rules.severity]
member-ordering = "error"

[ordering]
members = [["static-field", "field"], ["constructor", "method"]]

[annotations]
exclude = ["org.junit.jupiter.api.Test"]
`)
	nested := filepath.Join(dir, "src", "main", "java")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load("", nested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Path != filepath.Join(dir, "refix.toml") {
		t.Errorf("unexpected path %q", cfg.Path)
	}
	deepequal.SideBySide(t, "members", [][]string{{"static-field", "field"}, {"constructor", "method"}}, cfg.Ordering.Members)
	deepequal.SideBySide(t, "go decls", DefaultGoDecls(), cfg.Ordering.GoDecls)
	if !cfg.Run.Cache || cfg.Run.Generated != GeneratedSkip {
		t.Errorf("run defaults lost: %+v", cfg.Run)
	}
	if cfg.Enabled("redundant-semicolon") || !cfg.Enabled("member-ordering") {
		t.Errorf("unexpected enablement")
	}
	if !cfg.Excluded("Test") || !cfg.Excluded("org.junit.jupiter.api.Test") || cfg.Excluded("Override") {
		t.Errorf("unexpected exclusion")
	}
	if err := cfg.Validate(knownRules); err != nil {
		t.Errorf("unexpected validation error: %v", err)
	}
}

func TestExcludedMatchesQualifiedAndSimpleNames(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Annotations.Exclude = []string{"org.junit.jupiter.api.Test", "Nullable"}
	tests := []struct {
		name string
		want bool
	}{
		{"Test", true},
		{"org.junit.jupiter.api.Test", true},
		{"org.testng.annotations.Test", false},
		{"Nullable", true},
		{"javax.annotation.Nullable", true},
		{"Disabled", false},
	}
	for _, tt := range tests {
		if got := cfg.Excluded(tt.name); got != tt.want {
			t.Errorf("Excluded(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, ".refix.yaml"), `
rules:
  enable: [member-ordering]
run:
  jobs: 3
  generated: report
`)
	cfg, err := Load("", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Run.Jobs != 3 || cfg.Run.Generated != GeneratedReport {
		t.Errorf("unexpected run config %+v", cfg.Run)
	}
	if cfg.Enabled("annotation-ordering") {
		t.Errorf("enable list must be exclusive")
	}
	deepequal.SideBySide(t, "members", DefaultMemberGroups(), cfg.Ordering.Members)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "refix.toml")
	writeFile(t, path, "[run]\nworkers = 4\n")
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected error for unknown key")
	}
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"nested", "run:\n  jbos: 3\n"},
		{"section", "ordering:\n  member:\n    - [field]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), ".refix.yaml")
			writeFile(t, path, tt.content)
			if _, err := LoadFile(path); err == nil {
				t.Fatal("expected error for unknown key")
			}
		})
	}
}

func TestLoadEmptyYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".refix.yml")
	writeFile(t, path, "# nothing here\n")
	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	deepequal.SideBySide(t, "members", DefaultMemberGroups(), cfg.Ordering.Members)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml"), ""); err == nil {
		t.Fatal("expected error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
		anyErr  bool
	}{
		{"defaults", func(*Config) {}, nil, false},
		{"unknown enable", func(c *Config) { c.Rules.Enable = []string{"nope"} }, ErrUnknownRule, true},
		{"unknown severity", func(c *Config) { c.Rules.Severity["nope"] = "error" }, ErrUnknownRule, true},
		{"duplicate kind", func(c *Config) { c.Ordering.Members = [][]string{{"field"}, {"field"}} }, nil, true},
		{"unknown go decl", func(c *Config) { c.Ordering.GoDecls = []string{"func", "import"} }, ErrUnknownKind, true},
		{"duplicate go decl", func(c *Config) { c.Ordering.GoDecls = []string{"func", "func"} }, nil, true},
		{"empty go decls", func(c *Config) { c.Ordering.GoDecls = nil }, nil, true},
		{"bad generated", func(c *Config) { c.Run.Generated = "maybe" }, nil, true},
		{"negative jobs", func(c *Config) { c.Run.Jobs = -1 }, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate(knownRules)
			if tt.anyErr != (err != nil) {
				t.Fatalf("unexpected error state: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestDigest(t *testing.T) {
	a := DefaultConfig()
	b := DefaultConfig()
	a.Rules.Severity["member-ordering"] = "error"
	a.Rules.Severity["annotation-ordering"] = "info"
	b.Rules.Severity["annotation-ordering"] = "info"
	b.Rules.Severity["member-ordering"] = "error"
	if a.Digest() != b.Digest() {
		t.Fatal("digest depends on map insertion order")
	}
	b.Run.Generated = GeneratedReport
	if a.Digest() == b.Digest() {
		t.Fatal("digest ignores settings")
	}
	b = DefaultConfig()
	b.Rules.Severity["member-ordering"] = "error"
	b.Rules.Severity["annotation-ordering"] = "info"
	b.Path = "/elsewhere/refix.toml"
	if a.Digest() != b.Digest() {
		t.Fatal("digest must not depend on the config location")
	}
}
