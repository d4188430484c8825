package formatter

import (
	"fmt"
	"strings"

	"github.com/teamdigest/teamdigest/internal/domain"
	"github.com/teamdigest/teamdigest/internal/service"
)

// FormatRun formats the outcome of a digest run for the terminal.
// ownerBreakdown adds the per-owner priority table when the digest has one.
func FormatRun(res *service.GenerateResult, ownerBreakdown bool) string {
	var b strings.Builder

	b.WriteString(Header("Digest"))
	b.WriteString("\n\n")

	counts := res.Digest.Counts
	rows := [][]string{
		{"Range", StyleFg.Render(rangeLabel(res))},
		{"Days matched", StyleFg.Render(fmt.Sprintf("%d", counts.DaysMatched))},
		{"Actions", actionSummary(res.Digest)},
		{"Decisions", StyleFg.Render(fmt.Sprintf("%d", counts.Decisions))},
		{"Risks", StyleFg.Render(fmt.Sprintf("%d", counts.Risks))},
		{"Output", StyleBlue.Render(res.Path)},
	}
	for _, row := range rows {
		fmt.Fprintf(&b, "%s  %s\n", Bold(padRight(row[0], 14)), row[1])
	}

	if ownerBreakdown && len(res.Digest.OwnerBreakdown) > 0 {
		b.WriteString("\n")
		b.WriteString(ownerTable(res.Digest.OwnerBreakdown))
	}

	if res.Delivered {
		b.WriteString("\n" + StyleGreen.Render("Posted to Slack") + "\n")
	}
	if res.DeliveryErr != nil {
		b.WriteString("\n" + StyleRed.Render(fmt.Sprintf("Delivery failed: %v", res.DeliveryErr)) + "\n")
	}

	if len(res.Warnings) > 0 {
		b.WriteString("\n")
		for _, w := range res.Warnings {
			b.WriteString(StyleYellow.Render(fmt.Sprintf("  WARNING: %s: %v", w.Source, w.Err)) + "\n")
		}
	}

	return b.String()
}

// ownerTable renders the per-owner priority cross-tabulation.
func ownerTable(breakdown []domain.OwnerRow) string {
	headers := []string{"OWNER", "HIGH", "MEDIUM", "LOW", "TOTAL"}
	rows := make([][]string, 0, len(breakdown))
	for _, row := range breakdown {
		rows = append(rows, []string{
			Bold(row.Owner),
			PriorityColor(domain.PriorityHigh).Render(fmt.Sprintf("%d", row.High)),
			PriorityColor(domain.PriorityMedium).Render(fmt.Sprintf("%d", row.Medium)),
			PriorityColor(domain.PriorityLow).Render(fmt.Sprintf("%d", row.Low)),
			StyleFg.Render(fmt.Sprintf("%d", row.Total)),
		})
	}
	return RenderTable(headers, rows)
}

func actionSummary(d *domain.Digest) string {
	parts := []string{StyleFg.Render(fmt.Sprintf("%d", d.Counts.Actions))}
	for _, p := range domain.PriorityOrder {
		if n := len(d.Actions[p]); n > 0 {
			parts = append(parts, PriorityColor(p).Render(fmt.Sprintf("%d %s", n, strings.ToLower(p.Label()))))
		}
	}
	return strings.Join(parts, Dim(" | "))
}

func rangeLabel(res *service.GenerateResult) string {
	start := res.Window.Start.Format(domain.DateLayout)
	end := res.Window.End.Format(domain.DateLayout)
	if start == end {
		return start
	}
	return start + " → " + end
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
