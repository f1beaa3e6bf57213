package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// style is an ANSI SGR sequence.
type style string

const (
	styleReset  style = "\033[0m"
	styleRed    style = "\033[31m"
	styleGreen  style = "\033[32m"
	styleYellow style = "\033[33m"
	styleBold   style = "\033[1m"
	styleDim    style = "\033[2m"
)

// Output writes command results either as styled text or as JSON.
type Output struct {
	writer       io.Writer
	jsonMode     bool
	colorEnabled bool
}

// NewOutput creates an Output for cmd. Styling is applied only when
// allowColor is set, --json is off and stdout is a terminal.
func NewOutput(cmd *cobra.Command, allowColor bool) *Output {
	jsonMode, _ := cmd.Flags().GetBool("json")
	return &Output{
		writer:       cmd.OutOrStdout(),
		jsonMode:     jsonMode,
		colorEnabled: allowColor && !jsonMode && stdoutIsTerminal(),
	}
}

func stdoutIsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

// IsJSON reports whether --json was given.
func (o *Output) IsJSON() bool {
	return o.jsonMode
}

// JSON writes v as indented JSON.
func (o *Output) JSON(v interface{}) error {
	enc := json.NewEncoder(o.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (o *Output) Println(args ...interface{}) {
	fmt.Fprintln(o.writer, args...)
}

func (o *Output) Printf(format string, args ...interface{}) {
	fmt.Fprintf(o.writer, format, args...)
}

// Success, Error, Warning, Bold and Dim print one styled line.
func (o *Output) Success(format string, args ...interface{}) { o.line(styleGreen, format, args...) }
func (o *Output) Error(format string, args ...interface{})   { o.line(styleRed, format, args...) }
func (o *Output) Warning(format string, args ...interface{}) { o.line(styleYellow, format, args...) }
func (o *Output) Bold(format string, args ...interface{})    { o.line(styleBold, format, args...) }
func (o *Output) Dim(format string, args ...interface{})     { o.line(styleDim, format, args...) }

func (o *Output) line(s style, format string, args ...interface{}) {
	fmt.Fprintln(o.writer, o.paint(s, fmt.Sprintf(format, args...)))
}

func (o *Output) paint(s style, text string) string {
	if !o.colorEnabled || text == "" {
		return text
	}
	return string(s) + text + string(styleReset)
}

// Change renders text green when delta is positive and red when negative.
func (o *Output) Change(delta float64, text string) string {
	switch {
	case delta > 0:
		return o.paint(styleGreen, text)
	case delta < 0:
		return o.paint(styleRed, text)
	default:
		return text
	}
}

// Table renders aligned columns. Cells may carry ANSI styling; widths are
// measured on the visible text.
type Table struct {
	output  *Output
	headers []string
	right   map[int]bool
	rows    [][]string
}

// NewTable creates a table with the given column headers.
func NewTable(output *Output, headers ...string) *Table {
	return &Table{output: output, headers: headers, right: make(map[int]bool)}
}

// AlignRight right-aligns the given columns, typically the numeric ones.
func (t *Table) AlignRight(cols ...int) *Table {
	for _, c := range cols {
		t.right[c] = true
	}
	return t
}

// AddRow appends a row. Cells beyond the header count are ignored.
func (t *Table) AddRow(cells ...string) {
	t.rows = append(t.rows, cells)
}

// Render writes the header, a separator and every row.
func (t *Table) Render() {
	if len(t.headers) == 0 {
		return
	}

	widths := make([]int, len(t.headers))
	measure := func(cells []string) {
		for i, c := range cells {
			if i < len(widths) {
				if w := visibleWidth(c); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}

	header := make([]string, len(t.headers))
	for i, h := range t.headers {
		header[i] = t.output.paint(styleBold, h)
	}
	t.writeRow(header, widths)

	dashes := make([]string, len(widths))
	for i, w := range widths {
		dashes[i] = strings.Repeat("-", w)
	}
	t.output.Println(t.output.paint(styleDim, strings.Join(dashes, "--")))

	for _, row := range t.rows {
		t.writeRow(row, widths)
	}
}

func (t *Table) writeRow(cells []string, widths []int) {
	parts := make([]string, 0, len(widths))
	for i, w := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		pad := strings.Repeat(" ", w-visibleWidth(cell))
		if t.right[i] {
			parts = append(parts, pad+cell)
		} else {
			parts = append(parts, cell+pad)
		}
	}
	t.output.Println(strings.TrimRight(strings.Join(parts, "  "), " "))
}

// visibleWidth counts runes outside ANSI escape sequences.
func visibleWidth(s string) int {
	n, inEscape := 0, false
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
