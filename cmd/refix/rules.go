package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/rules"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "List registered rules and whether they are enabled",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		settings, err := readRunSettings(cmd)
		if err != nil {
			return err
		}
		cfg, err := loadConfig(settings, ".")
		if err != nil {
			return err
		}
		reg := rules.Default()
		active, err := reg.Resolve(cfg)
		if err != nil {
			return err
		}
		enabled := make(map[string]rules.Active, len(active))
		for _, a := range active {
			enabled[a.Rule.ID()] = a
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "CODE\tRULE\tSTATUS\tSEVERITY\tDESCRIPTION")
		for _, r := range reg.All() {
			status, sev := "disabled", r.DefaultSeverity()
			if a, ok := enabled[r.ID()]; ok {
				status, sev = "enabled", a.Severity
			}
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.Code().ID(), r.ID(), status, sev, r.Description())
		}
		if cfg.Path != "" && !settings.quiet {
			fmt.Fprintf(tw, "\nconfig: %s\n", cfg.Path)
		}
		return tw.Flush()
	},
}
