package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diagfmt"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/fix"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.java|directory>",
	Short: "Apply available fixes to a Java file or directory",
	Long:  "Run every enabled rule, resolve conflicts between the proposed fixes and apply the accepted ones.",
	Args:  cobra.ExactArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "apply every non-conflicting always-safe fix (default)")
	fixCmd.Flags().Bool("once", false, "apply the single heaviest always-safe fix")
	fixCmd.Flags().String("id", "", "apply fix with a specific identifier")
	fixCmd.Flags().Bool("diff", false, "print a unified diff instead of writing files")
	fixCmd.Flags().Bool("dry-run", false, "report what would change without writing files")
	fixCmd.Flags().Int("jobs", 0, "max parallel documents (0=auto)")
}

func runFix(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	settings, err := readRunSettings(cmd)
	if err != nil {
		return err
	}
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	showDiff, err := cmd.Flags().GetBool("diff")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	jobs, err := cmd.Flags().GetInt("jobs")
	if err != nil {
		return err
	}

	if targetID != "" && (applyAll || applyOnce) {
		return fmt.Errorf("--id cannot be combined with --all or --once")
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
	}

	mode := fix.ApplyModeAll
	switch {
	case targetID != "":
		mode = fix.ApplyModeID
	case applyOnce:
		mode = fix.ApplyModeOnce
	}
	opts := fix.ApplyOptions{
		Mode:     mode,
		TargetID: targetID,
		DryRun:   dryRun || showDiff,
	}

	res, _, err := runDriver(cmd, settings, "fixing", args[0], jobs, purposeFix)
	if err != nil {
		return err
	}
	bag := res.Bag()
	bag.Sort()

	applied, applyErr := fix.Apply(cmd.Context(), res.FileSet, bag.Items(), opts)
	if settings.timings {
		printTimings(cmd, res)
	}
	if showDiff && applied != nil {
		if err := diagfmt.Unified(cmd.OutOrStdout(), applied.FileChanges, colorOutput); err != nil {
			return err
		}
		if errors.Is(applyErr, fix.ErrNoFixes) {
			return nil
		}
		return applyErr
	}
	out := cmd.OutOrStdout()
	if settings.quiet {
		out = io.Discard
	}
	return handleApplyResult(out, applied, applyErr, opts.DryRun)
}

func handleApplyResult(out io.Writer, res *fix.ApplyResult, applyErr error, dryRun bool) error {
	if res == nil {
		return applyErr
	}

	verb := "Applied"
	if dryRun {
		verb = "Would apply"
	}
	if len(res.Applied) > 0 {
		fmt.Fprintf(out, "%s %d fix(es):\n", verb, len(res.Applied))
		for _, item := range res.Applied {
			location := item.PrimaryPath
			if location == "" {
				location = "(unknown location)"
			}
			fmt.Fprintf(out, "  %s [%s] %s: %s (%d edits, %s)\n",
				item.Code.ID(), item.ID, location, item.Message, item.EditCount, item.Applicability)
		}
	}

	if len(res.FileChanges) > 0 {
		if dryRun {
			fmt.Fprintln(out, "Files that would change:")
		} else {
			fmt.Fprintln(out, "Updated files:")
		}
		for _, change := range res.FileChanges {
			fmt.Fprintf(out, "  %s (%d edits)\n", change.Path, change.EditCount)
		}
	}

	if len(res.Skipped) > 0 {
		fmt.Fprintln(out, "Skipped fixes:")
		for _, skip := range res.Skipped {
			id := skip.ID
			if id == "" {
				id = "(unnamed)"
			}
			if skip.Detail != "" {
				fmt.Fprintf(out, "  [%s]: %s (%s)\n", id, skip.Reason, skip.Detail)
			} else {
				fmt.Fprintf(out, "  [%s]: %s\n", id, skip.Reason)
			}
		}
	}

	if applyErr != nil {
		if errors.Is(applyErr, fix.ErrNoFixes) && len(res.Applied) == 0 {
			fmt.Fprintln(out, "No applicable fixes found.")
			return nil
		}
		return applyErr
	}
	if len(res.Applied) == 0 {
		fmt.Fprintln(out, "No fixes applied.")
	}
	return nil
}
