package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

type column struct {
	header string
	right  bool
}

// formatTable pads every cell to the widest value of its column, measured in
// terminal cells.
func formatTable(cols []column, rows [][]string) []string {
	if len(cols) == 0 {
		return nil
	}
	headers := make([]string, len(cols))
	widths := make([]int, len(cols))
	for i, col := range cols {
		headers[i] = col.header
		widths[i] = runewidth.StringWidth(col.header)
	}
	for _, row := range rows {
		for i := range min(len(row), len(cols)) {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	lines := make([]string, 0, len(rows)+1)
	lines = append(lines, layoutRow(cols, widths, headers))
	for _, row := range rows {
		lines = append(lines, layoutRow(cols, widths, row))
	}
	return lines
}

func layoutRow(cols []column, widths []int, cells []string) string {
	padded := make([]string, len(cols))
	for i, col := range cols {
		var cell string
		if i < len(cells) {
			cell = cells[i]
		}
		if col.right {
			padded[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			padded[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.Join(padded, " ")
}
