package resolve

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/sirkon/deepequal"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

func proposal(id string, edits ...patch.Edit) patch.Proposal {
	return patch.Proposal{ID: id, Patch: patch.Must(edits...)}
}

func replace(start, end uint32, text string) patch.Edit {
	return patch.Replace(source.Span{Start: start, End: end}, text)
}

func ids(props []patch.Proposal) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func TestResolveScenarios(t *testing.T) {
	tests := []struct {
		name      string
		proposals []patch.Proposal
		accepted  []string
		rejected  []string
	}{
		{
			name: "larger replacement wins",
			proposals: []patch.Proposal{
				proposal("P2", replace(15, 18, "yyy")),
				proposal("P1", replace(10, 20, "xxx")),
			},
			accepted: []string{"P1"},
			rejected: []string{"P2"},
		},
		{
			name: "smaller insertion breaks ties",
			proposals: []patch.Proposal{
				proposal("P4", replace(0, 5, "abcd")),
				proposal("P3", replace(2, 7, "ab")),
			},
			accepted: []string{"P3"},
			rejected: []string{"P4"},
		},
		{
			name: "insertions at one offset",
			proposals: []patch.Proposal{
				proposal("long", patch.Insert(0, 7, "abc")),
				proposal("short", patch.Insert(0, 7, "a")),
			},
			accepted: []string{"short"},
			rejected: []string{"long"},
		},
		{
			name: "equal insertions keep input order",
			proposals: []patch.Proposal{
				proposal("first", patch.Insert(0, 7, "x")),
				proposal("second", patch.Insert(0, 7, "y")),
			},
			accepted: []string{"first"},
			rejected: []string{"second"},
		},
		{
			name: "disjoint proposals all accepted",
			proposals: []patch.Proposal{
				proposal("a", replace(0, 2, "")),
				proposal("b", replace(2, 4, "")),
				proposal("c", patch.Insert(0, 10, "z")),
			},
			accepted: []string{"a", "b", "c"},
		},
		{
			name: "rejection is whole",
			proposals: []patch.Proposal{
				proposal("big", replace(10, 30, "")),
				proposal("split", replace(0, 5, "a"), replace(25, 26, "b")),
				proposal("free", replace(0, 5, "c")),
			},
			accepted: []string{"big", "free"},
			rejected: []string{"split"},
		},
		{
			name:     "empty pool",
			accepted: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Resolve(tt.proposals)
			var accepted []string
			if len(res.Accepted) > 0 {
				accepted = ids(res.Accepted)
			}
			deepequal.SideBySide(t, "accepted", tt.accepted, accepted)

			var rejected []string
			for _, r := range res.Rejected {
				rejected = append(rejected, r.Proposal.ID)
			}
			deepequal.SideBySide(t, "rejected", tt.rejected, rejected)
		})
	}
}

func TestResolveRecordsBlocker(t *testing.T) {
	res := Resolve([]patch.Proposal{
		proposal("small", replace(15, 18, "yyy")),
		proposal("large", replace(10, 20, "xxx")),
	})
	if len(res.Rejected) != 1 {
		t.Fatalf("expected one rejection, got %d", len(res.Rejected))
	}
	rej := res.Rejected[0]
	if rej.Index != 0 || rej.BlockedBy != 1 {
		t.Fatalf("unexpected rejection %+v", rej)
	}
}

func TestResolveMergesAcceptedEdits(t *testing.T) {
	res := Resolve([]patch.Proposal{
		proposal("a", replace(0, 2, "AA"), replace(8, 9, "")),
		proposal("b", replace(4, 6, "BB")),
	})
	expected := []patch.Edit{
		replace(0, 2, "AA"),
		replace(4, 6, "BB"),
		replace(8, 9, ""),
	}
	deepequal.SideBySide(t, "edits", expected, res.Patch.Edits())
}

func TestCoveredClaimPanicsOnSelfOverlap(t *testing.T) {
	c := NewCovered()
	c.Claim(patch.Must(replace(0, 4, "")), 0)
	if c.Blocker(source.Span{Start: 3, End: 3}) != 0 {
		t.Fatalf("expected insertion inside range to be blocked")
	}
	if c.Blocker(source.Span{Start: 4, End: 4}) != -1 {
		t.Fatalf("insertion at range end must not be blocked")
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic")
		}
	}()
	c.Claim(patch.Must(replace(2, 3, "")), 0)
}

func randomProposals(rng *rand.Rand) []patch.Proposal {
	n := rng.Intn(12)
	out := make([]patch.Proposal, 0, n)
	for i := 0; i < n; i++ {
		var edits []patch.Edit
		pos := rng.Intn(10)
		for k := rng.Intn(3) + 1; k > 0; k-- {
			end := pos + rng.Intn(6)
			edits = append(edits, replace(uint32(pos), uint32(end), string(make([]byte, rng.Intn(4)))))
			pos = end + 1 + rng.Intn(8)
		}
		p, err := patch.New(edits...)
		if err != nil {
			panic(err)
		}
		out = append(out, patch.Proposal{ID: fmt.Sprintf("p%d", i), Patch: p})
	}
	return out
}

func TestResolveProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for iter := 0; iter < 400; iter++ {
		props := randomProposals(rng)
		res := Resolve(props)

		// результат не содержит конфликтующих правок
		edits := res.Patch.Edits()
		for i := range edits {
			for j := i + 1; j < len(edits); j++ {
				if edits[i].Conflicts(edits[j]) {
					t.Fatalf("iter %d: output edits %s and %s conflict", iter, edits[i], edits[j])
				}
			}
		}

		// детерминизм
		again := Resolve(props)
		deepequal.SideBySide(t, "accepted", ids(res.Accepted), ids(again.Accepted))

		// каждое отклонение блокировано принятым предложением не меньшего веса
		for _, rej := range res.Rejected {
			blocker := props[rej.BlockedBy]
			if !blocker.Patch.ConflictsWith(rej.Proposal.Patch) {
				t.Fatalf("iter %d: %s rejected without conflict", iter, rej.Proposal.ID)
			}
			if blocker.ReplacedSize() < rej.Proposal.ReplacedSize() {
				t.Fatalf("iter %d: %s blocked by smaller %s", iter, rej.Proposal.ID, blocker.ID)
			}
		}

		// максимальность: каждое отклонённое конфликтует хотя бы с одним принятым
		if len(res.Accepted)+len(res.Rejected) != len(props) {
			t.Fatalf("iter %d: %d accepted + %d rejected != %d", iter, len(res.Accepted), len(res.Rejected), len(props))
		}
	}
}
