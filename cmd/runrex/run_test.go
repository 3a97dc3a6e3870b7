package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runFixture(t *testing.T) (dir, configPath string) {
	t.Helper()
	dir = t.TempDir()
	writeFile(t, dir, "docs/a.txt", "contact a@b.com please")
	writeFile(t, dir, "docs/b.txt", "the cost burden was high")
	patterns := writeFile(t, dir, "patterns.yaml", testPatterns)

	config := strings.Join([]string{
		"pattern_source: " + patterns,
		"corpus:",
		"  directories: [" + filepath.Join(dir, "docs") + "]",
		"output:",
		"  path: " + filepath.Join(dir, "out"),
		"  name: results",
		"loginfo:",
		"  level: warn",
	}, "\n") + "\n"
	return dir, writeFile(t, dir, "config.yaml", config)
}

func TestRunRun(t *testing.T) {
	resetGlobals()
	dir, configPath := runFixture(t)
	runConfigPath = configPath

	var buf bytes.Buffer
	err := runRun(testCommand(&buf), []string{})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Run complete: 2 documents, 2 records")
	assert.Contains(t, output, "Results stored in: "+filepath.Join(dir, "out", "results.jsonl"))

	data, err := os.ReadFile(filepath.Join(dir, "out", "results.jsonl"))
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))
}

func TestRunRunOverrides(t *testing.T) {
	resetGlobals()
	dir, configPath := runFixture(t)
	runConfigPath = configPath
	runPatterns = "burden"
	runAlgorithms = []string{"sentence_results"}
	verbose = true

	var buf bytes.Buffer
	err := runRun(testCommand(&buf), []string{})
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Run complete: 2 documents, 1 records")
	assert.Contains(t, output, "sentence_results/burden: 1")

	data, err := os.ReadFile(filepath.Join(dir, "out", "results.jsonl"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text":"the cost burden was high"`)
}

func TestRunRunQuiet(t *testing.T) {
	resetGlobals()
	_, configPath := runFixture(t)
	runConfigPath = configPath
	quiet = true

	var buf bytes.Buffer
	require.NoError(t, runRun(testCommand(&buf), []string{}))
	assert.Empty(t, buf.String())
}

func TestRunRunIncrementalNeedsSQLite(t *testing.T) {
	resetGlobals()
	_, configPath := runFixture(t)
	runConfigPath = configPath
	runIncremental = true

	var buf bytes.Buffer
	err := runRun(testCommand(&buf), []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "incremental requires")
}

func TestRunRunUnknownAlgorithm(t *testing.T) {
	resetGlobals()
	_, configPath := runFixture(t)
	runConfigPath = configPath
	runAlgorithms = []string{"nope"}

	var buf bytes.Buffer
	err := runRun(testCommand(&buf), []string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown algorithm "nope"`)
}

func TestRunRunMissingConfig(t *testing.T) {
	resetGlobals()
	runConfigPath = filepath.Join(t.TempDir(), "missing.yaml")

	var buf bytes.Buffer
	assert.Error(t, runRun(testCommand(&buf), []string{}))
}
