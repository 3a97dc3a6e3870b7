package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/praetorian-inc/runrex/pkg/harness"
	"github.com/praetorian-inc/runrex/pkg/pattern"
)

var (
	patternsPath    string
	patternsInclude string
	patternsExclude string
	patternsTags    string
	outputFormat    string
	patternsColor   string
)

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "Manage patterns",
	Long:  "Commands for listing and testing the patterns of a pattern source",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List patterns",
	Long:  "Display the patterns of a pattern source with their tags and keywords",
	RunE:  runPatternsList,
}

var patternsTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Test patterns against their examples",
	Long:  "Check every pattern against its examples and negative examples; exits non-zero if any pattern fails",
	RunE:  runPatternsTest,
}

func init() {
	patternsCmd.AddCommand(patternsListCmd)
	patternsCmd.AddCommand(patternsTestCmd)

	for _, c := range []*cobra.Command{patternsListCmd, patternsTestCmd} {
		c.Flags().StringVar(&patternsPath, "patterns", "", "Path to pattern source file or directory")
		c.Flags().StringVar(&patternsInclude, "include", "", "Include patterns whose name matches regex (comma-separated)")
		c.Flags().StringVar(&patternsExclude, "exclude", "", "Exclude patterns whose name matches regex (comma-separated)")
		c.Flags().StringVar(&patternsTags, "tags", "", "Only patterns carrying one of these tags (comma-separated)")
		c.MarkFlagRequired("patterns")
	}
	patternsListCmd.Flags().StringVar(&outputFormat, "format", "table", "Output format: table, json")
	patternsTestCmd.Flags().StringVar(&patternsColor, "color", "auto", "Color output: auto, always, never")
}

func loadPatterns() (*pattern.Registry, error) {
	reg, err := pattern.LoadPath(patternsPath)
	if err != nil {
		return nil, fmt.Errorf("loading patterns from %s: %w", patternsPath, err)
	}
	return reg.Filter(pattern.FilterConfig{
		Include: pattern.ParseList(patternsInclude),
		Exclude: pattern.ParseList(patternsExclude),
		Tags:    pattern.ParseList(patternsTags),
	})
}

func runPatternsList(cmd *cobra.Command, args []string) error {
	reg, err := loadPatterns()
	if err != nil {
		return err
	}

	switch outputFormat {
	case "json":
		return outputPatternsJSON(cmd, reg.Patterns())
	case "table":
		return outputPatternsTable(cmd, reg.Patterns())
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}

func runPatternsTest(cmd *cobra.Command, args []string) error {
	reg, err := loadPatterns()
	if err != nil {
		return err
	}

	switch patternsColor {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	default: // "auto"
		if !term.IsTerminal(int(os.Stdout.Fd())) || os.Getenv("NO_COLOR") != "" {
			color.NoColor = true
		} else {
			color.NoColor = false
		}
	}

	report := harness.Run(reg)
	if err := report.Write(cmd.OutOrStdout(), harness.NewStyles(!color.NoColor)); err != nil {
		return err
	}
	if !report.OK() {
		return fmt.Errorf("%d of %d patterns failed", len(report.Failed()), len(report.Results))
	}
	return nil
}

// =============================================================================
// HELPERS
// =============================================================================

type patternInfo struct {
	Name             string   `json:"name"`
	Pattern          string   `json:"pattern"`
	Description      string   `json:"description,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	Keywords         []string `json:"keywords,omitempty"`
	Examples         int      `json:"examples"`
	NegativeExamples int      `json:"negative_examples"`
}

func outputPatternsJSON(cmd *cobra.Command, pats []*pattern.Pattern) error {
	infos := make([]patternInfo, len(pats))
	for i, p := range pats {
		infos[i] = patternInfo{
			Name:             p.Name(),
			Pattern:          p.Expression(),
			Description:      p.Description(),
			Tags:             p.Tags(),
			Keywords:         p.Keywords(),
			Examples:         len(p.Examples()),
			NegativeExamples: len(p.NegativeExamples()),
		}
	}
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(infos)
}

func outputPatternsTable(cmd *cobra.Command, pats []*pattern.Pattern) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "Name\tTags\tKeywords\tExamples\n")
	fmt.Fprintf(w, "----\t----\t--------\t--------\n")

	for _, p := range pats {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d/%d\n",
			p.Name(),
			strings.Join(p.Tags(), ","),
			strings.Join(p.Keywords(), ","),
			len(p.Examples()), len(p.NegativeExamples()))
	}

	return nil
}
