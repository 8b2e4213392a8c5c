package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/log"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/report"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/shrink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	log.SetOutput(io.Discard)
	os.Exit(m.Run())
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, text string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func buildOutput(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, dir, "main.js", `const a = "mat-toolbar mat-primary"; const b = 'card';`)
	writeFile(t, dir, "styles.css", ".mat-toolbar{height:64px}\n.card{padding:8px}\n.unused{color:red}")
	writeFile(t, dir, "styles.css.map", `{"version":3}`)
	return dir
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "css-shrink version:")
	assert.Contains(t, out, "go version:")
}

func TestRunCommand(t *testing.T) {
	dir := buildOutput(t)
	metricsFile := filepath.Join(t.TempDir(), "css_shrink.prom")

	out, err := execute(t, "run", dir, "--report", "json", "--metrics-file", metricsFile)
	require.NoError(t, err)

	var data report.Data
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	require.Len(t, data.Stylesheets, 1)
	assert.Equal(t, "styles.css", data.Stylesheets[0].Name)
	assert.Equal(t, 2, data.Stylesheets[0].RulesAfter)

	styles, err := os.ReadFile(filepath.Join(dir, "styles.css"))
	require.NoError(t, err)
	assert.Equal(t, ".mat-toolbar{height:64px}.card{padding:8px}", string(styles))

	metrics, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(metrics), "css_shrink_candidate_classes")
}

func TestRunCommandDryRunWithDebug(t *testing.T) {
	dir := buildOutput(t)
	debugDir := t.TempDir()

	_, err := execute(t, "run", dir, "--dry-run", "--debug", "--debug-dir", debugDir, "--report", "none")
	require.NoError(t, err)

	styles, err := os.ReadFile(filepath.Join(dir, "styles.css"))
	require.NoError(t, err)
	assert.Contains(t, string(styles), ".unused{color:red}")

	classList, err := os.ReadFile(filepath.Join(debugDir, "css-shrink-debug-classlist.txt"))
	require.NoError(t, err)
	assert.Equal(t, "card\nmat-primary\nmat-toolbar", string(classList))
}

func TestRunCommandConfigFile(t *testing.T) {
	dir := buildOutput(t)
	cfgPath := writeFile(t, t.TempDir(), "css-shrink.yaml", "minClassLength: 4\n")

	out, err := execute(t, "run", dir, "--config", cfgPath, "--report", "json")
	require.NoError(t, err)

	var data report.Data
	require.NoError(t, json.Unmarshal([]byte(out), &data))
	// "card" has 4 characters and no longer counts as a candidate
	assert.Equal(t, 2, data.Candidates)
	assert.Equal(t, 1, data.Stylesheets[0].RulesAfter)

	t.Run("flag overrides file", func(t *testing.T) {
		dir := buildOutput(t)
		out, err := execute(t, "run", dir, "--config", cfgPath, "--min-class-length", "1", "--report", "json")
		require.NoError(t, err)
		require.NoError(t, json.Unmarshal([]byte(out), &data))
		assert.Equal(t, 3, data.Candidates)
	})
}

func TestRunCommandClearCache(t *testing.T) {
	cacheDir := t.TempDir()
	stale := writeFile(t, cacheDir, "stale.json", `{"key":"stale"}`)

	_, err := execute(t, "run", buildOutput(t), "--cache-dir", cacheDir, "--report", "none")
	require.NoError(t, err)
	assert.FileExists(t, stale)

	_, err = execute(t, "run", buildOutput(t), "--cache-dir", cacheDir, "--clear-cache", "--report", "none")
	require.NoError(t, err)
	assert.NoFileExists(t, stale)

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "the run after clearing caches its stylesheet again")
}

func TestCloseParsers(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.js", `x = "after-close";`)

	_, err := execute(t, "extract", script)
	require.NoError(t, err)
	closeParsers()

	out, err := execute(t, "extract", script)
	require.NoError(t, err)
	assert.Equal(t, "after-close\n", out)
}

func TestRunCommandErrors(t *testing.T) {
	t.Run("invalid delimiter", func(t *testing.T) {
		_, err := execute(t, "run", buildOutput(t), "--delimiter", "[a-")
		assert.True(t, errors.Is(err, shrink.ErrInvalidPattern))
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := execute(t, "run", filepath.Join(t.TempDir(), "dist"))
		assert.Error(t, err)
	})
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	script := writeFile(t, dir, "main.js", `el.className = "btn btn-primary"; const x = 'a';`)
	broken := writeFile(t, dir, "broken.js", `x = "open-ended`)

	out, err := execute(t, "extract", script, broken)
	require.NoError(t, err)
	assert.Equal(t, "btn\nbtn-primary\n", out)

	_, err = execute(t, "extract")
	assert.Error(t, err)
}

func TestFilterCommand(t *testing.T) {
	dir := t.TempDir()
	classes := writeFile(t, dir, "classes.txt", "card\n\n  btn  \n")
	stylesheet := writeFile(t, dir, "styles.css", ".card{a:b}\n.gone{a:b}\n.btn:hover{c:d}")

	out, err := execute(t, "filter", "--classes", classes, stylesheet)
	require.NoError(t, err)
	assert.Equal(t, ".card{a:b}.btn:hover{c:d}\n", out)

	t.Run("to file", func(t *testing.T) {
		target := filepath.Join(dir, "out.css")
		_, err := execute(t, "filter", "--classes", classes, "-o", target, stylesheet)
		require.NoError(t, err)

		data, err := os.ReadFile(target)
		require.NoError(t, err)
		assert.Equal(t, ".card{a:b}.btn:hover{c:d}", string(data))
	})

	t.Run("classes flag is required", func(t *testing.T) {
		_, err := execute(t, "filter", stylesheet)
		assert.Error(t, err)
	})

	t.Run("unparsable stylesheet", func(t *testing.T) {
		broken := writeFile(t, dir, "broken.css", ".a { color: red; } }")
		_, err := execute(t, "filter", "--classes", classes, broken)
		assert.True(t, errors.Is(err, shrink.ErrParse))
	})
}
