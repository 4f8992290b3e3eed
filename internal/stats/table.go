package stats

import (
	"strings"
	"unicode/utf8"
)

// Column describes one table column.
type Column struct {
	Title      string
	RightAlign bool
}

// FormatTable lays out rows under the given columns with single-space
// separators, padding every cell to the widest entry of its column.
func FormatTable(cols []Column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	widths := make([]int, len(cols))
	for i, col := range cols {
		widths[i] = utf8.RuneCountInString(col.Title)
	}
	for _, row := range rows {
		for i := range cols {
			if i < len(row) {
				if w := utf8.RuneCountInString(row[i]); w > widths[i] {
					widths[i] = w
				}
			}
		}
	}

	lines := make([]string, 0, len(rows)+1)
	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Title
	}
	lines = append(lines, formatRow(cols, headers, widths))
	for _, row := range rows {
		lines = append(lines, formatRow(cols, row, widths))
	}
	return lines
}

func formatRow(cols []Column, row []string, widths []int) string {
	var b strings.Builder
	for i := range cols {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(padCell(cell, widths[i], cols[i].RightAlign))
	}
	return strings.TrimRight(b.String(), " ")
}

func padCell(value string, width int, rightAlign bool) string {
	pad := width - utf8.RuneCountInString(value)
	if pad <= 0 {
		return value
	}
	if rightAlign {
		return strings.Repeat(" ", pad) + value
	}
	return value + strings.Repeat(" ", pad)
}
