package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/cache"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/config"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/diagfmt"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/driver"
	"github.com/PicnicSupermarket/error-prone-support-sub000/internal/rules"
)

// colorOutput is decided once per run by setupColor.
var colorOutput bool

func setupColor(cmd *cobra.Command) error {
	mode, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return fmt.Errorf("failed to get color flag: %w", err)
	}
	switch mode {
	case "on":
		colorOutput = true
	case "off":
		colorOutput = false
	case "auto":
		colorOutput = isTerminal(os.Stdout) && os.Getenv("NO_COLOR") == ""
	default:
		return fmt.Errorf("unknown color value: %s (expected auto|on|off)", mode)
	}
	color.NoColor = !colorOutput
	return nil
}

// runSettings are the root flags every document command needs.
type runSettings struct {
	quiet          bool
	timings        bool
	maxDiagnostics int
	noCache        bool
	configPath     string
	ui             bool
}

func readRunSettings(cmd *cobra.Command) (runSettings, error) {
	var (
		s   runSettings
		err error
	)
	flags := cmd.Root().PersistentFlags()
	if s.quiet, err = flags.GetBool("quiet"); err != nil {
		return s, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if s.timings, err = flags.GetBool("timings"); err != nil {
		return s, fmt.Errorf("failed to get timings flag: %w", err)
	}
	if s.maxDiagnostics, err = flags.GetInt("max-diagnostics"); err != nil {
		return s, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	if s.noCache, err = flags.GetBool("no-cache"); err != nil {
		return s, fmt.Errorf("failed to get no-cache flag: %w", err)
	}
	if s.configPath, err = flags.GetString("config"); err != nil {
		return s, fmt.Errorf("failed to get config flag: %w", err)
	}
	uiMode, err := flags.GetString("ui")
	if err != nil {
		return s, fmt.Errorf("failed to get ui flag: %w", err)
	}
	switch uiMode {
	case "on":
		s.ui = true
	case "off":
		s.ui = false
	case "auto":
		s.ui = !s.quiet && isTerminal(os.Stderr) && os.Getenv("CI") == ""
	default:
		return s, fmt.Errorf("unknown ui value: %s (expected auto|on|off)", uiMode)
	}
	return s, nil
}

// loadConfig reads the explicit config file or discovers one upwards from target.
func loadConfig(s runSettings, target string) (*config.Config, error) {
	start := target
	if info, err := os.Stat(target); err == nil && !info.IsDir() {
		start = filepath.Dir(target)
	}
	cfg, err := config.Load(s.configPath, start)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

// runPurpose tells runDriver what the findings are for.
type runPurpose uint8

const (
	// purposeReport keeps the per-document --max-diagnostics cap and the cache.
	purposeReport runPurpose = iota
	// purposeFix keeps every finding: each proposal has to reach the resolver.
	purposeFix
)

// driverOptions builds the driver options for one run.
func driverOptions(s runSettings, cfg *config.Config, jobs int, purpose runPurpose) driver.Options {
	opts := driver.Options{
		Config:   cfg,
		Registry: rules.Default(),
		Jobs:     jobs,
	}
	if purpose == purposeReport {
		opts.MaxDiagnostics = s.maxDiagnostics
	}
	return opts
}

// runDriver checks every document under target.
func runDriver(cmd *cobra.Command, s runSettings, title, target string, jobs int, purpose runPurpose) (*driver.Result, *config.Config, error) {
	cfg, err := loadConfig(s, target)
	if err != nil {
		return nil, nil, err
	}
	opts := driverOptions(s, cfg, jobs, purpose)
	// кэш хранит только чистые документы, для исправлений он бесполезен
	if purpose == purposeReport && !s.noCache && cfg.Run.Cache {
		disk, cacheErr := cache.Open("refix")
		if cacheErr != nil {
			// без кэша всё равно работаем
			if !s.quiet {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: cache disabled: %v\n", cacheErr)
			}
		} else {
			opts.Cache = disk
		}
	}
	var res *driver.Result
	if s.ui {
		res, err = runWithUI(cmd.Context(), title, []string{target}, opts)
	} else {
		res, err = driver.Run(cmd.Context(), []string{target}, opts)
	}
	if err != nil {
		return nil, nil, err
	}
	dumpFailedDocuments(cmd, res)
	return res, cfg, nil
}

func printTimings(cmd *cobra.Command, res *driver.Result) {
	out := cmd.ErrOrStderr()
	fmt.Fprint(out, res.Timings.String())
	fmt.Fprintln(out, res.Metrics.String())
}

func pathModeFor(fullPath bool) diagfmt.PathMode {
	if fullPath {
		return diagfmt.PathModeAbsolute
	}
	return diagfmt.PathModeRelative
}
