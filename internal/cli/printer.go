package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"gopkg.in/yaml.v3"
)

// OutputFormat represents the output format for CLI commands
type OutputFormat string

const (
	OutputFormatTable OutputFormat = "table"
	OutputFormatJSON  OutputFormat = "json"
	OutputFormatYAML  OutputFormat = "yaml"
)

// Printer renders command results in the selected output format.
type Printer struct {
	Format OutputFormat
	Quiet  bool
	Out    io.Writer
}

// NewPrinter validates the format string and builds a Printer writing to
// stdout.
func NewPrinter(format string, quiet bool) (*Printer, error) {
	f := OutputFormat(format)
	switch f {
	case OutputFormatTable, OutputFormatJSON, OutputFormatYAML:
	default:
		return nil, fmt.Errorf("unsupported output format: %s (use table, json, or yaml)", format)
	}
	return &Printer{Format: f, Quiet: quiet, Out: os.Stdout}, nil
}

// List renders a uniform slice of records. Keys order the table columns;
// json and yaml output marshal the records as-is.
func (p *Printer) List(keys []string, records []map[string]interface{}) error {
	if len(records) == 0 {
		if !p.Quiet {
			fmt.Fprintln(p.Out, text.FgYellow.Sprint("No items found"))
		}
		return nil
	}

	switch p.Format {
	case OutputFormatJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Fprintln(p.Out, string(data))
		return nil
	case OutputFormatYAML:
		data, err := yaml.Marshal(records)
		if err != nil {
			return fmt.Errorf("failed to marshal YAML: %w", err)
		}
		fmt.Fprint(p.Out, string(data))
		return nil
	default:
		p.renderTable(keys, records)
		return nil
	}
}

func (p *Printer) renderTable(keys []string, records []map[string]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(p.Out)
	t.SetStyle(table.StyleRounded)

	headers := make(table.Row, len(keys))
	for i, key := range keys {
		headers[i] = text.FgHiCyan.Sprint(strings.ToUpper(key))
	}
	t.AppendHeader(headers)

	for _, record := range records {
		row := make(table.Row, len(keys))
		for i, key := range keys {
			row[i] = record[key]
		}
		t.AppendRow(row)
	}

	t.Render()
}

// FormatState colorizes a supervisor state for table output.
func FormatState(state string) string {
	switch strings.ToLower(state) {
	case "running":
		return text.FgGreen.Sprint("🟢 Running")
	case "starting":
		return text.FgYellow.Sprint("⏳ Starting")
	case "stopping":
		return text.FgYellow.Sprint("⏸️  Stopping")
	case "idle":
		return text.FgHiBlack.Sprint("⚪ Idle")
	default:
		return state
	}
}
