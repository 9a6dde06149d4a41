// Package rules holds the rewrite rules run over Java documents and the
// registry that selects them according to configuration.
package rules

import (
	"context"
	"fmt"
	"slices"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/config"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/javasrc"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

// Document is one parsed source file together with the settings in effect.
type Document struct {
	File   *source.File
	Unit   *javasrc.Unit
	Config *config.Config
}

func (d *Document) config() *config.Config {
	if d.Config == nil {
		return config.DefaultConfig()
	}
	return d.Config
}

// applicability of fixes in this document; generated sources are never
// rewritten without review.
func (d *Document) applicability() patch.Applicability {
	if d.Unit != nil && d.Unit.Generated {
		return patch.ManualReview
	}
	return patch.AlwaysSafe
}

// proposalID is stable across runs over the same file.
func proposalID(code diag.Code, file *source.File, offset uint32) string {
	return fmt.Sprintf("%s@%s:%d", code.ID(), file.Path, offset)
}

// Rule detects one kind of finding and proposes rewrites for it.
type Rule interface {
	ID() string
	Description() string
	Code() diag.Code
	DefaultSeverity() diag.Severity
	// Check reports findings of doc to r. Errors are reserved for broken
	// invariants of the input; ordinary findings never fail.
	Check(ctx context.Context, doc *Document, r diag.Reporter) error
}

// Registry keeps rules in registration order.
type Registry struct {
	rules []Rule
	byID  map[string]Rule
}

// NewRegistry builds a registry from rules.
func NewRegistry(rules ...Rule) (*Registry, error) {
	reg := &Registry{byID: make(map[string]Rule, len(rules))}
	for _, r := range rules {
		if err := reg.Register(r); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// Default returns the registry of built-in rules.
func Default() *Registry {
	reg, err := NewRegistry(MemberOrdering{}, AnnotationOrdering{}, RedundantSemicolon{})
	if err != nil {
		panic(err)
	}
	return reg
}

// Register adds r; rule IDs must be unique.
func (reg *Registry) Register(r Rule) error {
	if _, dup := reg.byID[r.ID()]; dup {
		return fmt.Errorf("rule %q registered twice", r.ID())
	}
	reg.rules = append(reg.rules, r)
	reg.byID[r.ID()] = r
	return nil
}

// All returns the rules in registration order.
func (reg *Registry) All() []Rule {
	return slices.Clone(reg.rules)
}

// Lookup finds a rule by ID.
func (reg *Registry) Lookup(id string) (Rule, bool) {
	r, ok := reg.byID[id]
	return r, ok
}

// Names returns rule IDs in registration order.
func (reg *Registry) Names() []string {
	names := make([]string, 0, len(reg.rules))
	for _, r := range reg.rules {
		names = append(names, r.ID())
	}
	return names
}

// Active is a rule selected by configuration with its effective severity.
type Active struct {
	Rule     Rule
	Severity diag.Severity
}

// Resolve validates cfg and returns the enabled rules.
func (reg *Registry) Resolve(cfg *config.Config) ([]Active, error) {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	if err := cfg.Validate(reg.Names()); err != nil {
		return nil, err
	}
	if _, err := MemberPolicy(cfg); err != nil {
		return nil, err
	}
	active := make([]Active, 0, len(reg.rules))
	for _, r := range reg.rules {
		if !cfg.Enabled(r.ID()) {
			continue
		}
		sev := r.DefaultSeverity()
		if s, ok := cfg.Rules.Severity[r.ID()]; ok {
			parsed, err := diag.ParseSeverity(s)
			if err != nil {
				return nil, fmt.Errorf("[rules.severity].%s: %w", r.ID(), err)
			}
			sev = parsed
		}
		active = append(active, Active{Rule: r, Severity: sev})
	}
	return active, nil
}
