package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/config"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diag"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diagfmt"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/rules"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/version"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.java|directory>",
	Short: "Report findings without changing files",
	Long:  `Run every enabled rule over a Java file or all *.java files within a directory and report findings with their proposed fixes`,
	Args:  cobra.ExactArgs(1),
	RunE:  runCheck,
}

func init() {
	checkCmd.Flags().String("format", "pretty", "output format (pretty|json|short|sarif)")
	checkCmd.Flags().Int("jobs", 0, "max parallel documents (0=auto)")
	checkCmd.Flags().Bool("with-notes", true, "include diagnostic notes in output")
	checkCmd.Flags().Bool("suggest", false, "include fix proposals in output")
	checkCmd.Flags().Bool("preview", false, "show before/after previews of fix proposals")
	checkCmd.Flags().Bool("fullpath", false, "emit absolute file paths in output")
}

// runCheck exits with status 1 when any finding is reported.
func runCheck(cmd *cobra.Command, args []string) error {
	// Ensure trace is dumped on panic
	defer dumpTraceOnPanic()

	settings, err := readRunSettings(cmd)
	if err != nil {
		return err
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return fmt.Errorf("failed to get jobs flag: %w", err)
	}
	withNotes, err := cmd.Flags().GetBool("with-notes")
	if err != nil {
		return fmt.Errorf("failed to get with-notes flag: %w", err)
	}
	suggest, err := cmd.Flags().GetBool("suggest")
	if err != nil {
		return fmt.Errorf("failed to get suggest flag: %w", err)
	}
	preview, err := cmd.Flags().GetBool("preview")
	if err != nil {
		return fmt.Errorf("failed to get preview flag: %w", err)
	}
	fullPath, err := cmd.Flags().GetBool("fullpath")
	if err != nil {
		return fmt.Errorf("failed to get fullpath flag: %w", err)
	}
	switch format {
	case "pretty", "json", "short", "sarif":
	default:
		return fmt.Errorf("unknown format: %s (expected pretty|json|short|sarif)", format)
	}

	res, cfg, err := runDriver(cmd, settings, "checking", args[0], jobs, purposeReport)
	if err != nil {
		return err
	}
	bag := res.Bag()
	bag.Sort()

	out := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.JSON(out, bag, res.FileSet, diagfmt.JSONOpts{
			IncludePositions: true,
			PathMode:         pathModeFor(fullPath),
			Max:              settings.maxDiagnostics,
			IncludeNotes:     withNotes,
			IncludeFixes:     suggest || preview,
			IncludePreviews:  preview,
		})
		if err != nil {
			return err
		}
	case "short":
		diagfmt.Short(out, bag, res.FileSet, withNotes)
	case "sarif":
		meta, metaErr := sarifMeta(cfg)
		if metaErr != nil {
			return metaErr
		}
		if err := diagfmt.Sarif(out, bag, res.FileSet, meta); err != nil {
			return err
		}
	default:
		diagfmt.Pretty(out, bag, res.FileSet, diagfmt.PrettyOpts{
			Color:       colorOutput,
			Context:     1,
			PathMode:    pathModeFor(fullPath),
			ShowNotes:   withNotes,
			ShowFixes:   suggest || preview,
			ShowPreview: preview,
		})
		if !settings.quiet {
			diagfmt.Summary(out, bag, len(res.Documents))
		}
	}

	if settings.timings {
		printTimings(cmd, res)
	}
	if findings(bag) > 0 {
		return exitError{code: 1}
	}
	return nil
}

// findings counts diagnostics that fail a check run.
func findings(bag *diag.Bag) int {
	return bag.Len() + bag.Dropped()
}

// sarifMeta describes the active rules with their configured severities.
func sarifMeta(cfg *config.Config) (diagfmt.SarifRunMeta, error) {
	active, err := rules.Default().Resolve(cfg)
	if err != nil {
		return diagfmt.SarifRunMeta{}, err
	}
	meta := diagfmt.SarifRunMeta{ToolName: "refix", ToolVersion: version.Version}
	for _, a := range active {
		meta.Rules = append(meta.Rules, diagfmt.SarifRule{
			ID:          a.Rule.Code().ID(),
			Name:        a.Rule.ID(),
			Description: a.Rule.Description(),
			Severity:    a.Severity,
		})
	}
	return meta, nil
}
