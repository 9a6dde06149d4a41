// Package fix selects fix proposals attached to diagnostics, resolves
// conflicts between them and rewrites the affected files.
package fix

// todo: интеграция с git:
// Флаг --staged-only (работать по git diff --name-only --staged).

import (
	"context"
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/resolve"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/trace"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// ApplyMode determines selection strategy for fixes.
type ApplyMode uint8

const (
	// ApplyModeAll resolves every always-safe proposal per file.
	ApplyModeAll ApplyMode = iota
	// ApplyModeOnce applies the single heaviest always-safe proposal of the run.
	ApplyModeOnce
	// ApplyModeID applies the proposal with ApplyOptions.TargetID.
	ApplyModeID
)

// ApplyOptions configures how fixes are selected.
type ApplyOptions struct {
	Mode     ApplyMode
	TargetID string
	// DryRun renders the result without writing files.
	DryRun bool
}

// SkipReason classifies why a proposal was not applied.
type SkipReason uint8

const (
	SkipConflict SkipReason = iota + 1
	SkipApplicability
	SkipNotFound
	SkipNoEdits
	SkipVirtualFile
	SkipDuplicate
)

func (r SkipReason) String() string {
	switch r {
	case SkipConflict:
		return "conflict"
	case SkipApplicability:
		return "applicability"
	case SkipNotFound:
		return "not-found"
	case SkipNoEdits:
		return "no-edits"
	case SkipVirtualFile:
		return "virtual-file"
	case SkipDuplicate:
		return "duplicate"
	default:
		return "unknown"
	}
}

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	ID            string
	Rule          string
	Code          diag.Code
	Message       string
	Applicability patch.Applicability
	PrimaryPath   string
	EditCount     int
}

// SkippedFix captures a skipped fix with a reason.
type SkippedFix struct {
	ID     string
	Rule   string
	Reason SkipReason
	Detail string
}

// FileChange summarises modifications performed on a file.
type FileChange struct {
	Path      string
	EditCount int
	Original  []byte
	Updated   []byte
}

// ApplyResult aggregates applied fixes, skipped ones, and file changes.
type ApplyResult struct {
	Applied     []AppliedFix
	Skipped     []SkippedFix
	FileChanges []FileChange
}

type candidate struct {
	diag  diag.Diagnostic
	prop  patch.Proposal
	file  source.FileID
	order int
}

// Apply collects proposals from diagnostics, selects a subset according to
// opts, resolves conflicts per file and writes the results.
func Apply(ctx context.Context, fs *source.FileSet, diagnostics []diag.Diagnostic, opts ApplyOptions) (*ApplyResult, error) {
	result := &ApplyResult{
		Applied:     make([]AppliedFix, 0),
		Skipped:     make([]SkippedFix, 0),
		FileChanges: make([]FileChange, 0),
	}
	if fs == nil {
		return result, fmt.Errorf("fix: FileSet is nil")
	}

	candidates, buildSkips := gatherCandidates(fs, diagnostics)
	result.Skipped = append(result.Skipped, buildSkips...)
	if len(candidates) == 0 {
		return result, ErrNoFixes
	}

	selected, selectionSkips := selectCandidates(candidates, opts)
	result.Skipped = append(result.Skipped, selectionSkips...)
	if len(selected) == 0 {
		return result, ErrNoFixes
	}

	baseDir := fs.BaseDir()

	for _, fileID := range filesOf(selected) {
		file := fs.Get(fileID)
		group := inFile(selected, fileID)
		if file == nil {
			for _, c := range group {
				result.Skipped = append(result.Skipped, skip(c, SkipNotFound, "target file is unknown"))
			}
			continue
		}
		if !opts.DryRun && file.Flags&source.FileVirtual != 0 {
			for _, c := range group {
				result.Skipped = append(result.Skipped, skip(c, SkipVirtualFile, "target file is virtual"))
			}
			continue
		}

		span, fctx := trace.StartDocument(ctx, file.Path, "fix")
		proposals := make([]patch.Proposal, len(group))
		for i, c := range group {
			proposals[i] = c.prop
		}
		res := resolve.Resolve(proposals)
		for _, rej := range res.Rejected {
			blocker := group[rej.BlockedBy].prop.ID
			trace.Point(fctx, trace.ScopeRule, "proposal rejected", rej.Proposal.ID+" blocked by "+blocker)
			result.Skipped = append(result.Skipped, skip(group[rej.Index], SkipConflict, "conflicts with "+blocker))
		}

		updated, err := patch.Apply(file.Content, res.Patch)
		if err != nil {
			span.End(err.Error())
			return result, fmt.Errorf("fix %s: %w", file.Path, err)
		}
		for _, c := range group {
			if slices.ContainsFunc(res.Rejected, func(r resolve.Rejection) bool { return r.Proposal.ID == c.prop.ID }) {
				continue
			}
			result.Applied = append(result.Applied, AppliedFix{
				ID:            c.prop.ID,
				Rule:          c.prop.Rule,
				Code:          c.diag.Code,
				Message:       c.prop.Message,
				Applicability: c.prop.Applicability,
				PrimaryPath:   file.FormatPath("auto", baseDir),
				EditCount:     c.prop.Patch.Len(),
			})
		}
		result.FileChanges = append(result.FileChanges, FileChange{
			Path:      file.FormatPath("relative", baseDir),
			EditCount: res.Patch.Len(),
			Original:  file.Content,
			Updated:   updated,
		})
		span.End(fmt.Sprintf("%d accepted, %d rejected", len(res.Accepted), len(res.Rejected)))

		if opts.DryRun {
			continue
		}
		if err := writeFile(file.Path, updated); err != nil {
			return result, err
		}
	}

	sort.SliceStable(result.FileChanges, func(i, j int) bool {
		return result.FileChanges[i].Path < result.FileChanges[j].Path
	})
	if len(result.Applied) == 0 {
		return result, ErrNoFixes
	}
	return result, nil
}

// gatherCandidates flattens the proposals of diagnostics in input order.
// Proposals without edits or with an ID seen before are skipped; proposals
// without an ID get one derived from the diagnostic.
func gatherCandidates(fs *source.FileSet, diagnostics []diag.Diagnostic) ([]candidate, []SkippedFix) {
	cands := make([]candidate, 0)
	skips := make([]SkippedFix, 0)
	seen := make(map[string]bool)

	order := 0
	for _, d := range diagnostics {
		for idx, p := range d.Fixes {
			if p.ID == "" {
				p.ID = anonymousID(fs, d, idx)
			}
			if p.Rule == "" {
				p.Rule = d.Rule
			}
			c := candidate{diag: d, prop: p, order: order}
			fileID, ok := p.Patch.File()
			if !ok {
				skips = append(skips, skip(c, SkipNoEdits, "fix has no edits"))
				continue
			}
			if seen[p.ID] {
				skips = append(skips, skip(c, SkipDuplicate, "duplicate fix id"))
				continue
			}
			seen[p.ID] = true
			c.file = fileID
			cands = append(cands, c)
			order++
		}
	}
	return cands, skips
}

// anonymousID names the idx-th fix of d as code@path:offset, with a #idx
// suffix for every fix after the first.
func anonymousID(fs *source.FileSet, d diag.Diagnostic, idx int) string {
	path := fmt.Sprintf("file%d", d.Primary.File)
	if f := fs.Get(d.Primary.File); f != nil {
		path = f.Path
	}
	id := fmt.Sprintf("%s@%s:%d", d.Code.ID(), path, d.Primary.Start)
	if idx > 0 {
		id += "#" + strconv.Itoa(idx)
	}
	return id
}

func selectCandidates(candidates []candidate, opts ApplyOptions) ([]candidate, []SkippedFix) {
	switch opts.Mode {
	case ApplyModeID:
		for _, c := range candidates {
			if c.prop.ID == opts.TargetID {
				return []candidate{c}, nil
			}
		}
		return nil, []SkippedFix{{
			ID:     opts.TargetID,
			Reason: SkipNotFound,
			Detail: "fix id not found",
		}}
	case ApplyModeAll:
		selected := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, c := range candidates {
			if c.prop.Applicability == patch.AlwaysSafe {
				selected = append(selected, c)
				continue
			}
			skipped = append(skipped, skip(c, SkipApplicability, "applicability is "+c.prop.Applicability.String()))
		}
		return selected, skipped
	case ApplyModeOnce:
		// только always-safe; из них самый тяжёлый по порядку резолвера
		safe := make([]candidate, 0, len(candidates))
		skipped := make([]SkippedFix, 0)
		for _, c := range candidates {
			if c.prop.Applicability == patch.AlwaysSafe {
				safe = append(safe, c)
				continue
			}
			skipped = append(skipped, skip(c, SkipApplicability, "applicability is "+c.prop.Applicability.String()))
		}
		if len(safe) == 0 {
			return nil, skipped
		}
		proposals := make([]patch.Proposal, len(safe))
		for i, c := range safe {
			proposals[i] = c.prop
		}
		return []candidate{safe[resolve.Order(proposals)[0]]}, skipped
	default:
		return nil, nil
	}
}

func skip(c candidate, reason SkipReason, detail string) SkippedFix {
	return SkippedFix{ID: c.prop.ID, Rule: c.prop.Rule, Reason: reason, Detail: detail}
}

func filesOf(cands []candidate) []source.FileID {
	ids := make([]source.FileID, 0)
	for _, c := range cands {
		ids = append(ids, c.file)
	}
	slices.Sort(ids)
	return slices.Compact(ids)
}

func inFile(cands []candidate, id source.FileID) []candidate {
	out := make([]candidate, 0)
	for _, c := range cands {
		if c.file == id {
			out = append(out, c)
		}
	}
	return out
}

func writeFile(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	if err := os.WriteFile(path, content, mode); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
