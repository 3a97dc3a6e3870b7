package main

import (
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/runrex"
	"github.com/praetorian-inc/runrex/internal/logging"
	"github.com/praetorian-inc/runrex/pkg/config"
)

var serveConfigPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming NDJSON server",
	Long: `Run runrex as a long-lived server that accepts documents via stdin and
writes their records to stdout using NDJSON.

The process loads the configuration and patterns once at startup and handles
"process", "process_batch" and "close" requests until stdin closes or the
process is interrupted. Logs go to stderr or the configured log directory.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveConfigPath, "config", "", "Path to run configuration (yaml, json or toml)")
	serveCmd.MarkFlagRequired("config")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, rc, err := config.LoadRunConfig(serveConfigPath)
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
	return p.Serve(commandContext(cmd), cmd.InOrStdin(), cmd.OutOrStdout())
}
