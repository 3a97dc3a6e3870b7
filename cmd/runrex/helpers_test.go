package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

const testPatterns = `patterns:
  - name: email
    pattern: '[\w.]+@[\w.]+'
    tags: [contact]
    keywords: ['@']
    examples: [a@b.com]
    negative_examples: [not-an-email]
  - name: burden
    pattern: 'cost burden'
    tags: [finance]
    examples: [cost-burden]
`

// writeFile writes content to name under dir and returns its path.
func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testCommand returns a command writing to buf.
func testCommand(buf *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	return cmd
}

func resetGlobals() {
	verbose, quiet = false, false
	runConfigPath, runPatterns, runAlgorithms, runWorkers, runIncremental = "", "", nil, 0, false
	patternsPath, patternsInclude, patternsExclude, patternsTags = "", "", "", ""
	outputFormat, patternsColor = "table", "never"
	configFormat = "yaml"
	extractFile, extractOutputDirectory, extractConnectionString, extractDatabase = "", "", "", ""
	serveConfigPath = ""
}
