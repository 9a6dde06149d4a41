// Package patch models text edits over a single source buffer.
//
// An Edit replaces the bytes of a half-open span with new text; a zero-length
// span is an insertion point. A Patch is a set of edits that pairwise do not
// conflict, and this is checked when the Patch is built: New returns
// ErrConflict, Must panics. Two edits conflict when their ranges intersect, when
// both insert at the same offset, or when an insertion lands on the first byte
// of a replaced range (the relative order of the two would be ambiguous).
// An insertion at the end offset of a replaced range does not conflict.
//
// A Proposal pairs a Patch with the metadata a rule attaches to it. Proposals
// compete with each other in internal/resolve.
//
// Apply and Render materialise a Patch. Every edit is expressed against the
// original buffer, and both functions read exclusively from that frozen
// snapshot, so a Patch that moves text between its own ranges is rendered
// exactly.
package patch
