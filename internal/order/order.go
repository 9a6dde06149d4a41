// Package order maps element kinds to ranks.
package order

import (
	"fmt"
	"slices"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/element"
)

// Rank is the sort key of a kind. Lower ranks come first.
type Rank int

// Policy assigns a Rank to every kind of its domain. Implementations must be
// pure and deterministic. Asking for a kind outside the domain is a caller
// error and panics.
type Policy interface {
	Rank(kind element.Kind) Rank
}

// Func adapts a plain function to Policy.
type Func func(kind element.Kind) Rank

// Rank calls f.
func (f Func) Rank(kind element.Kind) Rank {
	return f(kind)
}

// Table is a Policy backed by an explicit kind -> rank mapping.
type Table struct {
	ranks map[element.Kind]Rank
	kinds []element.Kind // в порядке объявления
}

// Groups builds a Table where every kind of groups[i] gets rank i. Kinds within
// one group are equivalent and keep their relative source order.
// A kind listed twice is an error.
func Groups(groups ...[]element.Kind) (*Table, error) {
	t := &Table{ranks: make(map[element.Kind]Rank)}
	for i, group := range groups {
		for _, kind := range group {
			if prev, dup := t.ranks[kind]; dup {
				return nil, fmt.Errorf("kind %q listed in groups %d and %d", kind, prev, i)
			}
			t.ranks[kind] = Rank(i)
			t.kinds = append(t.kinds, kind)
		}
	}
	return t, nil
}

// MustGroups is like Groups but panics on error.
func MustGroups(groups ...[]element.Kind) *Table {
	t, err := Groups(groups...)
	if err != nil {
		panic(err)
	}
	return t
}

// Lexicographic ranks the distinct kinds by their names.
func Lexicographic(kinds []element.Kind) *Table {
	sorted := slices.Clone(kinds)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)
	t := &Table{ranks: make(map[element.Kind]Rank, len(sorted)), kinds: sorted}
	for i, kind := range sorted {
		t.ranks[kind] = Rank(i)
	}
	return t
}

// Rank returns the rank of kind and panics if kind is not in the table.
func (t *Table) Rank(kind element.Kind) Rank {
	r, ok := t.ranks[kind]
	if !ok {
		panic(fmt.Errorf("order: kind %q has no rank (known: %v)", kind, t.kinds))
	}
	return r
}

// Has reports whether kind belongs to the table's domain.
func (t *Table) Has(kind element.Kind) bool {
	_, ok := t.ranks[kind]
	return ok
}

// Kinds returns the domain in declaration order.
func (t *Table) Kinds() []element.Kind {
	return slices.Clone(t.kinds)
}
