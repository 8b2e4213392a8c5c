package report_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/collections"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/pipeline"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/report"
	"github.com/Orange-OpenSource/angular-css-shrink/internal/shrink"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func summary() *pipeline.Summary {
	errs := &pipeline.Errors{}
	errs.Add("broken.css", errors.New("syntax error at 1:20"))

	return &pipeline.Summary{
		Scripts:        3,
		SkippedScripts: []string{"polyfills.js"},
		Candidates:     collections.NewSet("card", "mat-toolbar"),
		Results: []*shrink.Result{
			{Name: "styles.css", BytesBefore: 200, BytesAfter: 50, RulesBefore: 8, RulesAfter: 2},
			{Name: "theme.css", BytesBefore: 100, BytesAfter: 100, RulesBefore: 3, RulesAfter: 3},
		},
		Errors:    errs,
		CacheHits: 1,
		Duration:  1500 * time.Millisecond,
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]report.Format{
		"text":     report.FormatText,
		"JSON":     report.FormatJSON,
		"md":       report.FormatMarkdown,
		"markdown": report.FormatMarkdown,
		"none":     report.FormatNone,
		"off":      report.FormatNone,
		"":         report.FormatText,
		"unknown":  report.FormatText,
	}
	for input, want := range tests {
		assert.Equal(t, want, report.ParseFormat(input), input)
	}
}

func TestNewData(t *testing.T) {
	d := report.NewData(summary())

	require.Len(t, d.Stylesheets, 2)
	assert.InDelta(t, 0.75, d.Stylesheets[0].Gain, 1e-9)
	assert.InDelta(t, 0.0, d.Stylesheets[1].Gain, 1e-9)
	assert.Equal(t, 300, d.BytesBefore)
	assert.Equal(t, 150, d.BytesAfter)
	assert.InDelta(t, 0.5, d.Gain, 1e-9)
	assert.Equal(t, 2, d.Candidates)
	assert.Equal(t, int64(1500), d.DurationMillis)
	require.Len(t, d.Failures, 1)
	assert.Equal(t, "broken.css", d.Failures[0].Path)
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, summary(), report.FormatText, false))

	out := buf.String()
	assert.Contains(t, out, "styles.css")
	assert.Contains(t, out, "75.00%")
	assert.Contains(t, out, "2/8")
	assert.Contains(t, out, "50.00%")
	assert.Contains(t, out, "2 candidate classes from 3 scripts, 1 cached")
	assert.Contains(t, out, "skipped script polyfills.js")
	assert.Contains(t, out, "failed broken.css: syntax error at 1:20")
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, summary(), report.FormatJSON, false))

	var d report.Data
	require.NoError(t, json.Unmarshal(buf.Bytes(), &d))
	assert.Len(t, d.Stylesheets, 2)
	assert.Equal(t, "theme.css", d.Stylesheets[1].Name)
	assert.Equal(t, []string{"polyfills.js"}, d.SkippedScripts)
}

func TestWriteMarkdown(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, summary(), report.FormatMarkdown, false))

	out := buf.String()
	assert.Contains(t, out, "| Stylesheet | Before | After | Rules | Gain |")
	assert.Contains(t, out, "| styles.css | 200 | 50 | 2/8 | 75.00% |")
	assert.Contains(t, out, "| **Total** | 300 | 150 | | 50.00% |")
	assert.Contains(t, out, "- `broken.css`: syntax error at 1:20")
}

func TestWriteNone(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, summary(), report.FormatNone, true))
	assert.Empty(t, buf.String())
}
