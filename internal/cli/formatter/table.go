package formatter

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const tableGap = 2

// RenderTable renders an aligned two-axis table: a styled header row, a
// dim separator, then the data rows. The first column is left-aligned
// and every other column is right-aligned, which suits count tables
// like the per-owner breakdown. Widths are measured with lipgloss so
// styled cells pad correctly.
func RenderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	widths := columnWidths(headers, rows)

	var b strings.Builder
	writeTableRow(&b, styledHeaders(headers), widths, true)
	writeSeparator(&b, widths)
	for _, row := range rows {
		writeTableRow(&b, row, widths, false)
	}
	return b.String()
}

func columnWidths(headers []string, rows [][]string) []int {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i := 0; i < len(widths) && i < len(row); i++ {
			if w := lipgloss.Width(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func styledHeaders(headers []string) []string {
	styled := make([]string, len(headers))
	for i, h := range headers {
		styled[i] = StyleHeader.Render(h)
	}
	return styled
}

// writeTableRow pads each cell to its column width. Headers stay
// left-aligned across the board so the separator lines up under them.
func writeTableRow(b *strings.Builder, row []string, widths []int, header bool) {
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		pad := width - lipgloss.Width(cell)
		if pad < 0 {
			pad = 0
		}
		switch {
		case i == 0 || header:
			b.WriteString(cell)
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", pad+tableGap))
			}
		default:
			b.WriteString(strings.Repeat(" ", pad))
			b.WriteString(cell)
			if i < len(widths)-1 {
				b.WriteString(strings.Repeat(" ", tableGap))
			}
		}
	}
	b.WriteString("\n")
}

func writeSeparator(b *strings.Builder, widths []int) {
	for i, w := range widths {
		b.WriteString(StyleDim.Render(strings.Repeat("─", w)))
		if i < len(widths)-1 {
			b.WriteString(strings.Repeat(" ", tableGap))
		}
	}
	b.WriteString("\n")
}
