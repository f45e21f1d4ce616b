package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/mattn/go-runewidth"
	"golang.org/x/term"

	"github.com/rodstewart/estatectl/internal/resources"
)

// minWideWidth keeps free-text columns readable on narrow terminals
const minWideWidth = 16

func getTerminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 100
}

func outputJSON(v any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// renderTable prints rows under headers. Cells of wide columns are
// truncated so the table fits the terminal; go-pretty's WidthMax miscounts
// multi-byte text, so truncation happens here.
func renderTable(w io.Writer, headers []string, wide []bool, rows [][]string) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)

	limit := wideLimit(getTerminalWidth(), headers, wide, rows)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	t.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(row))
		for i, cell := range row {
			cell = strings.ReplaceAll(cell, "\n", " ")
			if i < len(wide) && wide[i] {
				cell = runewidth.Truncate(cell, limit, "...")
			}
			r[i] = cell
		}
		t.AppendRow(r)
	}
	t.Render()
}

// wideLimit shares the width left by the narrow columns among the wide ones
func wideLimit(termWidth int, headers []string, wide []bool, rows [][]string) int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) {
				widths[i] = max(widths[i], runewidth.StringWidth(cell))
			}
		}
	}

	used, wideCount := 0, 0
	for i, width := range widths {
		// borders and padding
		used += 3
		if i < len(wide) && wide[i] {
			wideCount++
			continue
		}
		used += width
	}
	if wideCount == 0 {
		return termWidth
	}
	return max((termWidth-used-1)/wideCount, minWideWidth)
}

func wideColumns[T any](columns []resources.Column[T]) []bool {
	wide := make([]bool, len(columns))
	for i, c := range columns {
		wide[i] = c.Wide
	}
	return wide
}

// printFields prints aligned label/value lines, skipping empty values
func printFields(w io.Writer, fields []resources.Field) {
	labelWidth := 0
	for _, f := range fields {
		labelWidth = max(labelWidth, len(f.Label))
	}
	for _, f := range fields {
		if f.Value == "" {
			continue
		}
		lines := strings.Split(f.Value, "\n")
		fmt.Fprintf(w, "%-*s  %s\n", labelWidth+1, f.Label+":", lines[0])
		for _, line := range lines[1:] {
			fmt.Fprintf(w, "%-*s  %s\n", labelWidth+1, "", line)
		}
	}
}
