package formatter

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdigest/teamdigest/internal/domain"
	"github.com/teamdigest/teamdigest/internal/service"
	"github.com/teamdigest/teamdigest/internal/window"
)

func sampleResult() *service.GenerateResult {
	start := time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC)

	d := &domain.Digest{
		Start: start,
		End:   end,
		Actions: map[domain.Priority][]domain.ActionItem{
			domain.PriorityHigh:   {{Text: "fix importer"}},
			domain.PriorityMedium: {{Text: "update docs"}, {Text: "rotate keys"}},
			domain.PriorityLow:    {},
		},
		OwnerBreakdown: []domain.OwnerRow{
			{Owner: "Alex", High: 1, Medium: 2, Total: 3},
			{Owner: "Priya", Medium: 1, Low: 1, Total: 2},
		},
		Counts: domain.Counts{DaysMatched: 4, Actions: 3, Decisions: 2, Risks: 1},
	}
	return &service.GenerateResult{
		Digest: d,
		Window: window.Window{Start: start, End: end},
		Path:   "outputs/weekly_2025-10-13_2025-10-19.md",
	}
}

func TestFormatRun(t *testing.T) {
	out := FormatRun(sampleResult(), false)

	assert.Contains(t, out, "DIGEST")
	assert.Contains(t, out, "2025-10-13 → 2025-10-19")
	assert.Contains(t, out, "Days matched")
	assert.Contains(t, out, "outputs/weekly_2025-10-13_2025-10-19.md")
	assert.Contains(t, out, "1 high")
	assert.Contains(t, out, "2 medium")
	assert.NotContains(t, out, "low", "empty priority buckets are omitted")
	assert.NotContains(t, out, "OWNER", "breakdown table only shown on request")
	assert.NotContains(t, out, "WARNING")
}

func TestFormatRun_OwnerBreakdownTable(t *testing.T) {
	out := FormatRun(sampleResult(), true)

	assert.Contains(t, out, "OWNER")
	assert.Contains(t, out, "HIGH")
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "Alex")
	assert.Contains(t, out, "Priya")
}

func TestFormatRun_OwnerBreakdownEmpty(t *testing.T) {
	res := sampleResult()
	res.Digest.OwnerBreakdown = nil

	out := FormatRun(res, true)

	assert.NotContains(t, out, "OWNER", "no table without owned actions")
}

func TestFormatRun_WarningsAndDelivery(t *testing.T) {
	res := sampleResult()
	res.Warnings = []service.Warning{{Source: "logs/undated.md", Err: errors.New("no date found")}}
	res.DeliveryErr = errors.New("webhook down")

	out := FormatRun(res, false)

	assert.Contains(t, out, "WARNING: logs/undated.md: no date found")
	assert.Contains(t, out, "Delivery failed: webhook down")
}

func TestFormatRun_Delivered(t *testing.T) {
	res := sampleResult()
	res.Delivered = true

	assert.Contains(t, FormatRun(res, false), "Posted to Slack")
}

func TestRenderTable(t *testing.T) {
	out := RenderTable(
		[]string{"OWNER", "TOTAL"},
		[][]string{{"Alex", "4"}, {"Priya", "3"}},
	)

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Contains(t, lines[0], "OWNER")
	assert.Contains(t, lines[2], "Alex")
	assert.True(t, strings.HasSuffix(lines[2], "    4"), "count columns are right-aligned")
	assert.True(t, strings.HasSuffix(lines[3], "    3"))
}
