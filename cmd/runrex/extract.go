package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/runrex/internal/logging"
	"github.com/praetorian-inc/runrex/pkg/extract"
	"github.com/praetorian-inc/runrex/pkg/sink"
)

var (
	extractFile             string
	extractOutputDirectory  string
	extractConnectionString string
	extractDatabase         string
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract a jsonl result file",
	Long: `Summarize a jsonl result file: write a CSV of its records and a statistics file,
or upload the records to a postgres table (--connection-string) or sqlite database (--database).`,
	Args: cobra.NoArgs,
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractFile, "file", "i", "", "Path to input jsonl file")
	extractCmd.Flags().StringVar(&extractOutputDirectory, "output-directory", "", "Directory to place the extracted CSV (default: next to the input)")
	extractCmd.Flags().StringVar(&extractConnectionString, "connection-string", "", "Postgres connection string to upload records to")
	extractCmd.Flags().StringVar(&extractDatabase, "database", "", "SQLite database to upload records to")
	extractCmd.MarkFlagRequired("file")
	extractCmd.MarkFlagsMutuallyExclusive("connection-string", "database")
}

func runExtract(cmd *cobra.Command, args []string) error {
	if _, err := os.Stat(extractFile); err != nil {
		return fmt.Errorf("input does not exist: %s", extractFile)
	}

	logger, closeLog, err := logging.New(logging.Options{Verbose: verbose, Quiet: quiet, Stderr: cmd.ErrOrStderr()})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx := commandContext(cmd)
	runID := uuid.NewString()
	var out sink.Sink
	target := ""
	switch {
	case extractConnectionString != "":
		target = sink.TableName(extract.SourceName(extractFile))
		out, err = sink.NewPostgres(ctx, extractConnectionString, target, runID)
	case extractDatabase != "":
		target = extractDatabase
		out, err = sink.NewSQLite(ctx, extractDatabase, runID)
	}
	if err != nil {
		return err
	}

	stats, err := extract.File(ctx, extractFile, extract.Options{
		OutputDir: extractOutputDirectory,
		Sink:      out,
		Logger:    logger,
	})
	if out != nil {
		err = errors.Join(err, out.Close())
	}
	if err != nil {
		return fmt.Errorf("extracting %s: %w", extractFile, err)
	}

	if quiet {
		return nil
	}
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Extract complete: %d documents with a hit\n", stats.Documents())
	if target != "" {
		fmt.Fprintf(w, "Records uploaded to: %s\n", target)
	}
	if out == nil || extractOutputDirectory != "" {
		fmt.Fprintf(w, "CSV written to: %s\n", extract.CSVPath(extractFile, extractOutputDirectory))
	}
	fmt.Fprintf(w, "Statistics: %s\n", extract.StatsPath(extractFile))
	return nil
}
