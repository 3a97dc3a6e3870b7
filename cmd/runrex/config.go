package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/praetorian-inc/runrex/pkg/config"
)

var configFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect run configurations",
	Long:  "Commands for validating run configuration files and showing their resolved values",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate <file>",
	Short: "Validate a run configuration",
	Long:  "Check a run configuration file and report every invalid field",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigValidate,
}

var configShowCmd = &cobra.Command{
	Use:   "show <file>",
	Short: "Show a resolved run configuration",
	Long:  "Print a run configuration with defaults applied",
	Args:  cobra.ExactArgs(1),
	RunE:  runConfigShow,
}

func init() {
	configCmd.AddCommand(configValidateCmd)
	configCmd.AddCommand(configShowCmd)
	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format: yaml, json")
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	_, rc, err := config.LoadRunConfig(args[0])
	if err != nil {
		var verr *config.ConfigValidationError
		if errors.As(err, &verr) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d invalid fields\n", args[0], len(verr.Violations))
			for _, v := range verr.Violations {
				fmt.Fprintf(out, "  %s\n", v)
			}
		}
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s: valid (%d algorithms, output %s)\n", args[0], len(rc.Algorithms), rc.Output.Kind)
	return nil
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	cfg, _, err := config.LoadRunConfig(args[0])
	if err != nil {
		return err
	}

	settings := cfg.Settings()
	switch configFormat {
	case "json":
		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(settings)
	case "yaml":
		encoder := yaml.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent(2)
		if err := encoder.Encode(settings); err != nil {
			return err
		}
		return encoder.Close()
	default:
		return fmt.Errorf("unknown output format: %s", configFormat)
	}
}
