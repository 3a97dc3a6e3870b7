package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/runrex"
	"github.com/praetorian-inc/runrex/internal/logging"
	"github.com/praetorian-inc/runrex/pkg/config"
	"github.com/praetorian-inc/runrex/pkg/pattern"
)

var (
	runConfigPath  string
	runPatterns    string
	runAlgorithms  []string
	runWorkers     int
	runIncremental bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run algorithms over a corpus",
	Long:  "Load a run configuration, its patterns and corpus, and write the records of every configured algorithm",
	Args:  cobra.NoArgs,
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Path to run configuration (yaml, json or toml)")
	runCmd.Flags().StringVar(&runPatterns, "patterns", "", "Restrict the run to these pattern names (comma-separated)")
	runCmd.Flags().StringSliceVar(&runAlgorithms, "algorithm", nil, "Algorithm to run (repeatable, replaces the configured list)")
	runCmd.Flags().IntVar(&runWorkers, "workers", 0, "Number of concurrent workers (0 = configured value)")
	runCmd.Flags().BoolVar(&runIncremental, "incremental", false, "Skip documents already recorded in the sqlite output")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadRunConfiguration(runConfigPath)
	if err != nil {
		return err
	}
	rc, err := config.ParseRunConfig(cfg)
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:     rc.LogInfo.Level,
		Directory: rc.LogInfo.Directory,
		Verbose:   verbose,
		Quiet:     quiet,
		Stderr:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}
	defer closeLog()

	p, err := runrex.NewPipeline(cfg, runrex.WithLogger(logger))
	if err != nil {
		return err
	}

	summary, err := p.Run(commandContext(cmd))
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	if quiet {
		return nil
	}
	out := cmd.OutOrStdout()
	if summary.Skipped > 0 {
		fmt.Fprintf(out, "Run complete: %d documents, %d records (%d documents skipped)\n", summary.Units, summary.Results, summary.Skipped)
	} else {
		fmt.Fprintf(out, "Run complete: %d documents, %d records\n", summary.Units, summary.Results)
	}
	if verbose {
		for _, key := range summary.Categories() {
			fmt.Fprintf(out, "  %s: %d\n", key, summary.ByCategory[key])
		}
	}
	fmt.Fprintf(out, "Results stored in: %s\n", p.Target())
	return nil
}

// loadRunConfiguration reads path and applies the run command's flag
// overrides before validation.
func loadRunConfiguration(path string) (*config.Configuration, error) {
	cfg, err := config.LoadFile(path, config.RunSchema)
	if err != nil {
		return nil, err
	}

	settings := cfg.Settings()
	changed := false
	if runPatterns != "" {
		settings["patterns"] = pattern.ParseList(runPatterns)
		changed = true
	}
	if len(runAlgorithms) > 0 {
		settings["algorithms"] = runAlgorithms
		changed = true
	}
	if runWorkers > 0 {
		settings["workers"] = runWorkers
		changed = true
	}
	if runIncremental {
		settings["incremental"] = true
		changed = true
	}
	if !changed {
		return cfg, nil
	}
	return config.FromMap(settings, config.RunSchema)
}
