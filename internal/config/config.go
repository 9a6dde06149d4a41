// Package config defines refix settings, their defaults and how they are
// loaded from refix.toml or .refix.yaml.
package config

import (
	"bytes"
	"crypto/sha256"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownRule is returned when configuration names a rule that does not exist.
var ErrUnknownRule = errors.New("unknown rule")

// ErrUnknownKind is returned when an ordering names a kind that does not exist.
var ErrUnknownKind = errors.New("unknown kind")

// Generated source handling modes.
const (
	GeneratedSkip   = "skip"
	GeneratedReport = "report"
)

// Config is the top-level configuration.
type Config struct {
	// Path is the file the configuration was read from, empty for defaults.
	Path string `toml:"-" yaml:"-" msgpack:"-"`

	Rules       RulesConfig       `toml:"rules" yaml:"rules" msgpack:"rules"`
	Ordering    OrderingConfig    `toml:"ordering" yaml:"ordering" msgpack:"ordering"`
	Annotations AnnotationsConfig `toml:"annotations" yaml:"annotations" msgpack:"annotations"`
	Run         RunConfig         `toml:"run" yaml:"run" msgpack:"run"`
}

// RulesConfig selects rules and overrides their severities.
type RulesConfig struct {
	Enable   []string          `toml:"enable" yaml:"enable" msgpack:"enable"`
	Disable  []string          `toml:"disable" yaml:"disable" msgpack:"disable"`
	Severity map[string]string `toml:"severity" yaml:"severity" msgpack:"severity"`
}

// OrderingConfig holds rank groups for the reordering rules.
type OrderingConfig struct {
	// Members lists groups of Java member kinds; group i gets rank i.
	Members [][]string `toml:"members" yaml:"members" msgpack:"members"`
	// GoDecls lists Go top-level declaration kinds in their canonical order.
	GoDecls []string `toml:"go_decls" yaml:"go_decls" msgpack:"go_decls"`
}

// AnnotationsConfig configures the annotation-ordering rule.
type AnnotationsConfig struct {
	// Exclude lists annotation names (simple or qualified) that keep their position.
	Exclude []string `toml:"exclude" yaml:"exclude" msgpack:"exclude"`
}

// RunConfig holds driver settings.
type RunConfig struct {
	Jobs      int    `toml:"jobs" yaml:"jobs" msgpack:"jobs"`
	Cache     bool   `toml:"cache" yaml:"cache" msgpack:"cache"`
	Generated string `toml:"generated" yaml:"generated" msgpack:"generated"`
}

// DefaultMemberGroups is the default Java member order: static data, instance
// data, one-time setup, per-instance setup, constructors, behaviour, nested types.
func DefaultMemberGroups() [][]string {
	return [][]string{
		{"static-field"},
		{"field"},
		{"static-initializer"},
		{"initializer"},
		{"constructor"},
		{"method"},
		{"type"},
	}
}

// GoDeclKinds lists the Go top-level declaration kinds that can be ordered.
var GoDeclKinds = []string{"const", "var", "type", "func"}

// DefaultGoDecls is the default order of Go top-level declarations.
func DefaultGoDecls() []string {
	return slices.Clone(GoDeclKinds)
}

// DefaultConfig returns a Config with all default values.
func DefaultConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			Severity: map[string]string{},
		},
		Ordering: OrderingConfig{
			Members: DefaultMemberGroups(),
			GoDecls: DefaultGoDecls(),
		},
		Run: RunConfig{
			Jobs:      0,
			Cache:     true,
			Generated: GeneratedSkip,
		},
	}
}

// Validate checks the configuration against the names of the known rules.
func (c *Config) Validate(known []string) error {
	check := func(where, name string) error {
		if !slices.Contains(known, name) {
			return fmt.Errorf("%w %q in [rules].%s", ErrUnknownRule, name, where)
		}
		return nil
	}
	for _, name := range c.Rules.Enable {
		if err := check("enable", name); err != nil {
			return err
		}
	}
	for _, name := range c.Rules.Disable {
		if err := check("disable", name); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(c.Rules.Severity) {
		if err := check("severity", name); err != nil {
			return err
		}
	}

	seen := make(map[string]int)
	for i, group := range c.Ordering.Members {
		for _, kind := range group {
			if prev, dup := seen[kind]; dup {
				return fmt.Errorf("[ordering].members: %q listed in groups %d and %d", kind, prev, i)
			}
			seen[kind] = i
		}
	}
	if err := ValidateGoDecls(c.Ordering.GoDecls); err != nil {
		return fmt.Errorf("[ordering].go_decls: %w", err)
	}
	switch c.Run.Generated {
	case GeneratedSkip, GeneratedReport:
	default:
		return fmt.Errorf("[run].generated: invalid value %q (expected: %s|%s)", c.Run.Generated, GeneratedSkip, GeneratedReport)
	}
	if c.Run.Jobs < 0 {
		return fmt.Errorf("[run].jobs: must not be negative, got %d", c.Run.Jobs)
	}
	return nil
}

// ValidateGoDecls checks a Go declaration order: known kinds, each at most once.
func ValidateGoDecls(kinds []string) error {
	if len(kinds) == 0 {
		return errors.New("empty declaration order")
	}
	seen := make(map[string]struct{}, len(kinds))
	for _, kind := range kinds {
		if !slices.Contains(GoDeclKinds, kind) {
			return fmt.Errorf("%w %q", ErrUnknownKind, kind)
		}
		if _, dup := seen[kind]; dup {
			return fmt.Errorf("declaration kind %q listed twice", kind)
		}
		seen[kind] = struct{}{}
	}
	return nil
}

// Enabled reports whether rule name runs. Explicit enable lists are
// exclusive; disable wins over enable.
func (c *Config) Enabled(name string) bool {
	if slices.Contains(c.Rules.Disable, name) {
		return false
	}
	if len(c.Rules.Enable) > 0 {
		return slices.Contains(c.Rules.Enable, name)
	}
	return true
}

// Excluded reports whether annotation name is excluded from annotation
// ordering. name is qualified when the caller could resolve it through the
// imports, otherwise it is the name as written. A simple exclusion matches
// any annotation with that simple name; a qualified exclusion matches the
// same qualified name or an unresolved simple name.
func (c *Config) Excluded(name string) bool {
	simple := simpleName(name)
	qualified := simple != name
	for _, ex := range c.Annotations.Exclude {
		switch {
		case ex == name, ex == simple:
			return true
		case !qualified && simpleName(ex) == name:
			return true
		}
	}
	return false
}

func simpleName(name string) string {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		return name[i+1:]
	}
	return name
}

// Digest returns a stable hash of every setting that influences findings.
// It is part of the result cache key.
func (c *Config) Digest() [32]byte {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(c); err != nil {
		// Config состоит только из сериализуемых полей
		panic(fmt.Errorf("config: digest: %w", err))
	}
	return sha256.Sum256(buf.Bytes())
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
