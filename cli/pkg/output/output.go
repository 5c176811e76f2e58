// Package output renders CLI results as coloured status lines, tables,
// JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"gopkg.in/yaml.v3"
)

// Format is an output format accepted by --output.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// ParseFormat validates an --output value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatTable, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("unsupported output format %q (use table, json or yaml)", s)
	}
}

var (
	successColor = color.New(color.FgGreen, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	warnColor    = color.New(color.FgYellow)
	headerColor  = color.New(color.FgWhite, color.Bold)
)

func Success(format string, a ...any) {
	successColor.Fprintf(os.Stdout, "✓ "+format+"\n", a...)
}

func Error(format string, a ...any) {
	errorColor.Fprintf(os.Stderr, "✗ "+format+"\n", a...)
}

func Info(format string, a ...any) {
	infoColor.Fprintf(os.Stdout, format+"\n", a...)
}

func Warn(format string, a ...any) {
	warnColor.Fprintf(os.Stdout, "⚠ "+format+"\n", a...)
}

// Severity colours a threat level for terminal display.
func Severity(level string) string {
	switch level {
	case "critical":
		return color.New(color.FgRed, color.Bold).Sprint(level)
	case "high":
		return color.RedString(level)
	case "medium":
		return color.YellowString(level)
	case "low":
		return color.CyanString(level)
	default:
		return level
	}
}

// JSON writes v as indented JSON.
func JSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// YAML writes v as YAML. v is passed through JSON first so field names
// match the API's JSON tags.
func YAML(w io.Writer, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	var generic any
	if err := json.Unmarshal(data, &generic); err != nil {
		return fmt.Errorf("decode: %w", err)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(generic); err != nil {
		return err
	}
	return enc.Close()
}

// Write renders v in format. table builds the table view; when nil, table
// output falls back to JSON.
func Write(w io.Writer, format Format, v any, table func() *Table) error {
	switch format {
	case FormatYAML:
		return YAML(w, v)
	case FormatTable:
		if table != nil {
			table().Render(w)
			return nil
		}
		return JSON(w, v)
	default:
		return JSON(w, v)
	}
}

type Table struct {
	headers []string
	rows    [][]string
}

func NewTable(headers ...string) *Table {
	return &Table{
		headers: headers,
		rows:    [][]string{},
	}
}

func (t *Table) AddRow(row ...string) {
	t.rows = append(t.rows, row)
}

// Render writes the table with columns padded to their widest cell.
// Widths ignore ANSI colour codes.
func (t *Table) Render(w io.Writer) {
	widths := make([]int, len(t.headers))
	for i, header := range t.headers {
		widths[i] = len(header)
	}

	for _, row := range t.rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	for i, header := range t.headers {
		headerColor.Fprint(w, pad(header, widths[i])+"  ")
	}
	fmt.Fprintln(w)

	for i := range t.headers {
		fmt.Fprint(w, strings.Repeat("-", widths[i])+"  ")
	}
	fmt.Fprintln(w)

	for _, row := range t.rows {
		for i, cell := range row {
			if i >= len(widths) {
				break
			}
			fmt.Fprint(w, pad(cell, widths[i])+"  ")
		}
		fmt.Fprintln(w)
	}
}

func pad(s string, width int) string {
	if n := visibleLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// visibleLen is the printed width of s, skipping ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			if r == 'm' {
				inEscape = false
			}
		default:
			n++
		}
	}
	return n
}
