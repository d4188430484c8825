package cli

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamdigest/teamdigest/internal/domain"
	"github.com/teamdigest/teamdigest/internal/parser"
	"github.com/teamdigest/teamdigest/internal/render"
	"github.com/teamdigest/teamdigest/internal/service"
	"github.com/teamdigest/teamdigest/internal/window"
)

type fakeRunner struct {
	req    service.GenerateRequest
	result *service.GenerateResult
	err    error
}

func (f *fakeRunner) Generate(_ context.Context, req service.GenerateRequest) (*service.GenerateResult, error) {
	f.req = req
	if f.err != nil {
		return nil, f.err
	}
	if f.result != nil {
		return f.result, nil
	}
	w := window.Window{
		Start: time.Date(2025, 10, 13, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 10, 19, 0, 0, 0, 0, time.UTC),
	}
	return &service.GenerateResult{
		Digest: &domain.Digest{
			Start:   w.Start,
			End:     w.End,
			Actions: map[domain.Priority][]domain.ActionItem{},
		},
		Window: w,
		Output: "rendered digest body\n",
		Path:   "outputs/weekly_2025-10-13_2025-10-19.md",
	}, nil
}

func execute(t *testing.T, runner *fakeRunner, args ...string) (string, error) {
	t.Helper()
	app := &App{
		NewRunner: func(parser.OwnerResolver) DigestRunner { return runner },
	}
	var out bytes.Buffer
	app.Out = &out
	app.Err = &out

	root := NewRootCmd(app)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestDaily_BuildsRequestFromFlags(t *testing.T) {
	runner := &fakeRunner{}
	_, err := execute(t, runner, "daily",
		"--date", "2025-10-14",
		"--logs-dir", "teamlogs",
		"--format", "json",
		"--emit-kpis",
		"--title", "Standup digest",
	)

	require.NoError(t, err)
	assert.Equal(t, window.ModeDaily, runner.req.Mode)
	require.NotNil(t, runner.req.Anchor)
	assert.Equal(t, "2025-10-14", runner.req.Anchor.Format(domain.DateLayout))
	assert.Equal(t, "teamlogs", runner.req.LogsDir)
	assert.Equal(t, render.FormatJSON, runner.req.Format)
	assert.True(t, runner.req.EmitKPIs)
	assert.False(t, runner.req.OwnerBreakdown)
	assert.Equal(t, "Standup digest", runner.req.Title)
}

func TestWeekly_DefaultsFromSettings(t *testing.T) {
	runner := &fakeRunner{}
	_, err := execute(t, runner, "weekly")

	require.NoError(t, err)
	assert.Equal(t, window.ModeWeekly, runner.req.Mode)
	assert.Equal(t, "logs", runner.req.LogsDir)
	assert.Equal(t, "*.md", runner.req.Pattern)
	assert.Equal(t, "outputs", runner.req.OutputDir)
	assert.Equal(t, render.FormatMarkdown, runner.req.Format)
	assert.Nil(t, runner.req.Anchor)
}

func TestWeekly_MalformedFromDate(t *testing.T) {
	runner := &fakeRunner{}
	_, err := execute(t, runner, "weekly", "--from", "not-a-date", "--to", "2025-10-19")

	require.Error(t, err)
	assert.ErrorIs(t, err, window.ErrInvalidRange)
}

func TestMonthly_YearWithoutMonth(t *testing.T) {
	runner := &fakeRunner{}
	_, err := execute(t, runner, "monthly", "--year", "2025")

	require.Error(t, err)
	assert.ErrorIs(t, err, window.ErrInvalidRange)
}

func TestMonthly_ExplicitMonth(t *testing.T) {
	runner := &fakeRunner{}
	_, err := execute(t, runner, "monthly", "--year", "2025", "--month", "2")

	require.NoError(t, err)
	assert.Equal(t, 2025, runner.req.Year)
	assert.Equal(t, time.February, runner.req.Month)
}

func TestDigest_UnknownFormat(t *testing.T) {
	runner := &fakeRunner{}
	_, err := execute(t, runner, "weekly", "--format", "xml")
	assert.Error(t, err)
}

func TestDigest_OwnerBreakdownImpliesKPIs(t *testing.T) {
	runner := &fakeRunner{}
	_, err := execute(t, runner, "weekly", "--owner-breakdown")

	require.NoError(t, err)
	assert.True(t, runner.req.EmitKPIs)
	assert.True(t, runner.req.OwnerBreakdown)
}

func TestDigest_DryRunPrintsRenderedOutput(t *testing.T) {
	runner := &fakeRunner{}
	out, err := execute(t, runner, "weekly", "--dry-run")

	require.NoError(t, err)
	assert.True(t, runner.req.DryRun)
	assert.Contains(t, out, "rendered digest body")
	assert.NotContains(t, out, "DIGEST", "dry runs print the digest, not the run summary")
}

func TestDigest_RunSummaryPrinted(t *testing.T) {
	runner := &fakeRunner{}
	out, err := execute(t, runner, "weekly")

	require.NoError(t, err)
	assert.Contains(t, out, "outputs/weekly_2025-10-13_2025-10-19.md")
}

func TestWatch_UnknownMode(t *testing.T) {
	runner := &fakeRunner{}
	_, err := execute(t, runner, "watch", "--mode", "hourly")

	require.Error(t, err)
	assert.ErrorIs(t, err, window.ErrInvalidRange)
}

func TestWatch_RegenerationReanchorsClock(t *testing.T) {
	runner := &fakeRunner{}
	req := service.GenerateRequest{Mode: window.ModeDaily}

	ticks := []time.Time{
		time.Date(2025, 10, 22, 23, 50, 0, 0, time.UTC),
		time.Date(2025, 10, 23, 0, 10, 0, 0, time.UTC),
	}
	i := 0
	clock := func() time.Time {
		tick := ticks[i]
		i++
		return tick
	}

	var out bytes.Buffer
	regenerate := newRegenerator(runner, req, time.UTC, clock, &out, &out)

	regenerate(context.Background())
	require.NotNil(t, runner.req.Now)
	assert.Equal(t, 22, runner.req.Now.Day())

	regenerate(context.Background())
	require.NotNil(t, runner.req.Now)
	assert.Equal(t, 23, runner.req.Now.Day(), "a run past midnight must see the new day")
}

func TestDigestFlags_Location(t *testing.T) {
	app := &App{}
	f := &digestFlags{timezone: "Europe/Amsterdam"}

	loc, err := f.location(app)
	require.NoError(t, err)
	assert.Equal(t, "Europe/Amsterdam", loc.String())

	f.timezone = ""
	loc, err = f.location(app)
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	f.timezone = "Mars/Olympus"
	_, err = f.location(app)
	assert.Error(t, err)
}

func TestVersion(t *testing.T) {
	app := &App{Version: "1.2.3"}
	var out bytes.Buffer
	app.Out = &out

	root := NewRootCmd(app)
	root.SetArgs([]string{"version"})
	root.SetOut(&out)
	require.NoError(t, root.Execute())
	assert.Equal(t, "teamdigest 1.2.3\n", out.String())
}
