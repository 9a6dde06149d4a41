package patch

// Applicability describes how confident a producer is in a proposal.
type Applicability uint8

const (
	// AlwaysSafe proposals can be applied without review.
	AlwaysSafe Applicability = iota
	// SafeWithHeuristics proposals are probably right but rely on heuristics.
	SafeWithHeuristics
	// ManualReview proposals should be confirmed by a human.
	ManualReview
)

func (a Applicability) String() string {
	switch a {
	case AlwaysSafe:
		return "always-safe"
	case SafeWithHeuristics:
		return "safe-with-heuristics"
	case ManualReview:
		return "manual-review"
	default:
		return "unknown"
	}
}

// Proposal is a candidate Patch competing with other proposals for acceptance.
// Proposals may conflict with each other; their own Patch never conflicts with itself.
type Proposal struct {
	ID            string
	Rule          string
	Message       string
	Applicability Applicability
	Patch         Patch
}

// ReplacedSize is the number of original bytes the proposal rewrites.
func (p Proposal) ReplacedSize() int {
	return p.Patch.ReplacedSize()
}

// InsertedSize is the total length of the proposal's replacement text.
func (p Proposal) InsertedSize() int {
	return p.Patch.InsertedSize()
}
