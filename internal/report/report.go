// Package report renders the outcome of a shrink pass.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/Orange-OpenSource/angular-css-shrink/internal/pipeline"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Format is a report output format
type Format string

const (
	FormatText     Format = "text"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "markdown"
	// FormatNone disables the report
	FormatNone Format = "none"
)

// ParseFormat converts a string to Format, defaulting to text
func ParseFormat(s string) Format {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON
	case "markdown", "md":
		return FormatMarkdown
	case "none", "off":
		return FormatNone
	default:
		return FormatText
	}
}

var headers = []string{"Stylesheet", "Before", "After", "Rules", "Gain"}

// Stylesheet is the serialized form of one filtered stylesheet
type Stylesheet struct {
	Name        string  `json:"name"`
	BytesBefore int     `json:"bytesBefore"`
	BytesAfter  int     `json:"bytesAfter"`
	RulesBefore int     `json:"rulesBefore"`
	RulesAfter  int     `json:"rulesAfter"`
	Gain        float64 `json:"gain"`
}

// Failure is the serialized form of one asset failure
type Failure struct {
	Path  string `json:"path"`
	Error string `json:"error"`
}

// Data is the serialized form of a whole pass
type Data struct {
	Stylesheets    []Stylesheet `json:"stylesheets"`
	Candidates     int          `json:"candidates"`
	Scripts        int          `json:"scripts"`
	SkippedScripts []string     `json:"skippedScripts,omitempty"`
	CacheHits      int          `json:"cacheHits"`
	BytesBefore    int          `json:"bytesBefore"`
	BytesAfter     int          `json:"bytesAfter"`
	Gain           float64      `json:"gain"`
	Failures       []Failure    `json:"failures,omitempty"`
	DurationMillis int64        `json:"durationMs"`
}

// NewData flattens a pass summary
func NewData(s *pipeline.Summary) *Data {
	d := &Data{
		Stylesheets:    make([]Stylesheet, 0, len(s.Results)),
		Candidates:     len(s.Candidates),
		Scripts:        s.Scripts,
		SkippedScripts: s.SkippedScripts,
		CacheHits:      s.CacheHits,
		BytesBefore:    s.BytesBefore(),
		BytesAfter:     s.BytesAfter(),
		Gain:           s.Ratio(),
		DurationMillis: s.Duration.Milliseconds(),
	}
	for _, r := range s.Results {
		d.Stylesheets = append(d.Stylesheets, Stylesheet{
			Name:        r.Name,
			BytesBefore: r.BytesBefore,
			BytesAfter:  r.BytesAfter,
			RulesBefore: r.RulesBefore,
			RulesAfter:  r.RulesAfter,
			Gain:        r.Ratio(),
		})
	}
	for _, fe := range s.Errors.List() {
		d.Failures = append(d.Failures, Failure{Path: fe.Path, Error: fe.Err.Error()})
	}
	return d
}

// Write renders s to w in format
func Write(w io.Writer, s *pipeline.Summary, format Format, colored bool) error {
	d := NewData(s)
	switch format {
	case FormatNone:
		return nil
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		return encoder.Encode(d)
	case FormatMarkdown:
		return d.renderMarkdown(w)
	default:
		return d.renderText(w, colored)
	}
}

func (d *Data) rows() [][]string {
	rows := make([][]string, 0, len(d.Stylesheets))
	for _, s := range d.Stylesheets {
		rows = append(rows, []string{
			s.Name,
			strconv.Itoa(s.BytesBefore),
			strconv.Itoa(s.BytesAfter),
			fmt.Sprintf("%d/%d", s.RulesAfter, s.RulesBefore),
			percent(s.Gain),
		})
	}
	return rows
}

func (d *Data) renderText(w io.Writer, colored bool) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Footer: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{
				Left:   tw.Off,
				Right:  tw.Off,
				Top:    tw.Off,
				Bottom: tw.Off,
			},
			Settings: tw.Settings{
				Separators: tw.Separators{
					BetweenColumns: tw.Off,
				},
			},
		}),
	)

	table.Header(headers)
	for _, row := range d.rows() {
		if err := table.Append(row); err != nil {
			return err
		}
	}
	table.Footer("Total", strconv.Itoa(d.BytesBefore), strconv.Itoa(d.BytesAfter), "", percent(d.Gain))
	if err := table.Render(); err != nil {
		return err
	}
	fmt.Fprintln(w)

	summary := fmt.Sprintf("%d candidate classes from %d scripts", d.Candidates, d.Scripts)
	if d.CacheHits > 0 {
		summary += fmt.Sprintf(", %d cached", d.CacheHits)
	}
	writeLine(w, colored, color.New(color.FgCyan), summary)

	for _, name := range d.SkippedScripts {
		writeLine(w, colored, color.New(color.FgYellow), "skipped script "+name)
	}
	for _, f := range d.Failures {
		writeLine(w, colored, color.New(color.FgRed), "failed "+f.Path+": "+f.Error)
	}
	return nil
}

func (d *Data) renderMarkdown(w io.Writer) error {
	fmt.Fprintln(w, "## css-shrink")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "| %s |\n", strings.Join(headers, " | "))
	fmt.Fprintf(w, "|%s\n", strings.Repeat("---|", len(headers)))
	for _, row := range d.rows() {
		fmt.Fprintf(w, "| %s |\n", strings.Join(row, " | "))
	}
	fmt.Fprintf(w, "| **Total** | %d | %d | | %s |\n", d.BytesBefore, d.BytesAfter, percent(d.Gain))

	if len(d.Failures) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, "### Failures")
		fmt.Fprintln(w)
		for _, f := range d.Failures {
			fmt.Fprintf(w, "- `%s`: %s\n", f.Path, f.Error)
		}
	}
	return nil
}

func writeLine(w io.Writer, colored bool, c *color.Color, text string) {
	if colored {
		c.Fprintln(w, text)
		return
	}
	fmt.Fprintln(w, text)
}

func percent(ratio float64) string {
	return fmt.Sprintf("%.2f%%", ratio*100)
}
