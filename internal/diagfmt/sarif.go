package diagfmt

import (
	"encoding/json"
	"io"
	"slices"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/patch"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/source"
)

const sarifSchema = "https://json.schemastore.org/sarif-2.1.0.json"

// SarifRule describes one rule in the tool section of a run.
type SarifRule struct {
	ID          string // diagnostic code, e.g. R1001
	Name        string // rule name, e.g. member-ordering
	Description string
	Severity    diag.Severity
}

// SarifRunMeta describes the tool that produced a run.
type SarifRunMeta struct {
	ToolName    string
	ToolVersion string
	Rules       []SarifRule
}

type sarifLog struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string              `json:"name"`
	Version string              `json:"version,omitempty"`
	Rules   []sarifReportingDef `json:"rules,omitempty"`
}

type sarifText struct {
	Text string `json:"text"`
}

type sarifReportingDef struct {
	ID               string      `json:"id"`
	Name             string      `json:"name,omitempty"`
	ShortDescription *sarifText  `json:"shortDescription,omitempty"`
	Default          sarifConfig `json:"defaultConfiguration"`
}

type sarifConfig struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex *int            `json:"ruleIndex,omitempty"`
	Level     string          `json:"level"`
	Message   sarifText       `json:"message"`
	Locations []sarifLocation `json:"locations,omitempty"`
	Related   []sarifLocation `json:"relatedLocations,omitempty"`
	Fixes     []sarifFix      `json:"fixes,omitempty"`
}

type sarifLocation struct {
	Physical sarifPhysical `json:"physicalLocation"`
	Message  *sarifText    `json:"message,omitempty"`
}

type sarifPhysical struct {
	Artifact sarifArtifact `json:"artifactLocation"`
	Region   sarifRegion   `json:"region"`
}

type sarifArtifact struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine   uint32 `json:"startLine,omitempty"`
	StartColumn uint32 `json:"startColumn,omitempty"`
	EndLine     uint32 `json:"endLine,omitempty"`
	EndColumn   uint32 `json:"endColumn,omitempty"`
	ByteOffset  uint32 `json:"byteOffset"`
	ByteLength  uint32 `json:"byteLength"`
}

type sarifFix struct {
	Description sarifText             `json:"description"`
	Changes     []sarifArtifactChange `json:"artifactChanges"`
}

type sarifArtifactChange struct {
	Artifact     sarifArtifact      `json:"artifactLocation"`
	Replacements []sarifReplacement `json:"replacements"`
}

type sarifReplacement struct {
	Deleted  sarifRegion `json:"deletedRegion"`
	Inserted *sarifText  `json:"insertedContent,omitempty"`
}

// Sarif форматирует диагностики в SARIF формат (v2.1.0)
func Sarif(w io.Writer, bag *diag.Bag, fs *source.FileSet, meta SarifRunMeta) error {
	run := sarifRun{
		Tool:    sarifTool{Driver: sarifDriver{Name: meta.ToolName, Version: meta.ToolVersion}},
		Results: make([]sarifResult, 0, bag.Len()),
	}
	for _, r := range meta.Rules {
		def := sarifReportingDef{ID: r.ID, Name: r.Name, Default: sarifConfig{Level: sarifLevel(r.Severity)}}
		if r.Description != "" {
			def.ShortDescription = &sarifText{Text: r.Description}
		}
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, def)
	}

	for _, d := range bag.Items() {
		res := sarifResult{
			RuleID:  d.Code.ID(),
			Level:   sarifLevel(d.Severity),
			Message: sarifText{Text: d.Message},
		}
		if idx := slices.IndexFunc(meta.Rules, func(r SarifRule) bool { return r.ID == res.RuleID }); idx >= 0 {
			res.RuleIndex = &idx
		}
		if loc, ok := sarifLocate(fs, d.Primary); ok {
			res.Locations = append(res.Locations, loc)
		}
		for _, note := range d.Notes {
			if loc, ok := sarifLocate(fs, note.Span); ok {
				loc.Message = &sarifText{Text: note.Msg}
				res.Related = append(res.Related, loc)
			}
		}
		for _, p := range d.Fixes {
			if fix, ok := sarifFixOf(fs, p.Message, p.Patch.Edits()); ok {
				res.Fixes = append(res.Fixes, fix)
			}
		}
		run.Results = append(run.Results, res)
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(sarifLog{Schema: sarifSchema, Version: "2.1.0", Runs: []sarifRun{run}})
}

func sarifLevel(sev diag.Severity) string {
	switch sev {
	case diag.SevError:
		return "error"
	case diag.SevWarning:
		return "warning"
	default:
		return "note"
	}
}

func sarifURI(fs *source.FileSet, f *source.File) string {
	return formatPath(f, fs, PathModeRelative)
}

func sarifLocate(fs *source.FileSet, span source.Span) (sarifLocation, bool) {
	f := fs.Get(span.File)
	if f == nil || int(span.End) > len(f.Content) {
		return sarifLocation{}, false
	}
	start, end := fs.Resolve(span)
	return sarifLocation{Physical: sarifPhysical{
		Artifact: sarifArtifact{URI: sarifURI(fs, f)},
		Region: sarifRegion{
			StartLine:   start.Line,
			StartColumn: start.Col,
			EndLine:     end.Line,
			EndColumn:   end.Col,
			ByteOffset:  span.Start,
			ByteLength:  span.Len(),
		},
	}}, true
}

// sarifFixOf groups edits per file; byte regions keep replacements exact.
func sarifFixOf(fs *source.FileSet, msg string, edits []patch.Edit) (sarifFix, bool) {
	fix := sarifFix{Description: sarifText{Text: msg}}
	byFile := make(map[source.FileID]int)
	for _, e := range edits {
		f := fs.Get(e.Span.File)
		if f == nil {
			return sarifFix{}, false
		}
		idx, ok := byFile[e.Span.File]
		if !ok {
			idx = len(fix.Changes)
			byFile[e.Span.File] = idx
			fix.Changes = append(fix.Changes, sarifArtifactChange{Artifact: sarifArtifact{URI: sarifURI(fs, f)}})
		}
		repl := sarifReplacement{Deleted: sarifRegion{ByteOffset: e.Span.Start, ByteLength: e.Span.Len()}}
		if e.NewText != "" {
			repl.Inserted = &sarifText{Text: e.NewText}
		}
		fix.Changes[idx].Replacements = append(fix.Changes[idx].Replacements, repl)
	}
	return fix, len(fix.Changes) > 0
}
