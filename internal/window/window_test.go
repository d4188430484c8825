package window

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teamdigest/teamdigest/internal/domain"
)

func date(s string) time.Time {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func ptr(t time.Time) *time.Time { return &t }

func TestResolveWeekly_AnchoredWednesday(t *testing.T) {
	// 2025-10-22 is a Wednesday; the previous full week is Mon 10-13 .. Sun 10-19.
	w, err := Resolve(Request{Mode: ModeWeekly, Anchor: ptr(date("2025-10-22"))}, date("2025-10-22"), nil)
	require.NoError(t, err)
	assert.Equal(t, date("2025-10-13"), w.Start)
	assert.Equal(t, date("2025-10-19"), w.End)
}

func TestResolveWeekly_AnchoredMonday(t *testing.T) {
	// Anchor on a Monday still resolves the week strictly before it.
	w, err := Resolve(Request{Mode: ModeWeekly, Anchor: ptr(date("2025-10-20"))}, date("2025-10-20"), nil)
	require.NoError(t, err)
	assert.Equal(t, date("2025-10-13"), w.Start)
	assert.Equal(t, date("2025-10-19"), w.End)
}

func TestResolveWeekly_AnchoredSunday(t *testing.T) {
	// 2025-10-26 is a Sunday, inside the week starting 10-20; previous week is 10-13..10-19.
	w, err := Resolve(Request{Mode: ModeWeekly, Anchor: ptr(date("2025-10-26"))}, date("2025-10-26"), nil)
	require.NoError(t, err)
	assert.Equal(t, date("2025-10-13"), w.Start)
	assert.Equal(t, date("2025-10-19"), w.End)
}

func TestResolveMonthly_PreviousMonth(t *testing.T) {
	w, err := Resolve(Request{Mode: ModeMonthly, Anchor: ptr(date("2025-10-17"))}, date("2025-10-17"), nil)
	require.NoError(t, err)
	assert.Equal(t, date("2025-09-01"), w.Start)
	assert.Equal(t, date("2025-09-30"), w.End)
}

func TestResolveMonthly_JanuaryRollsToPreviousYear(t *testing.T) {
	w, err := Resolve(Request{Mode: ModeMonthly, Anchor: ptr(date("2026-01-05"))}, date("2026-01-05"), nil)
	require.NoError(t, err)
	assert.Equal(t, date("2025-12-01"), w.Start)
	assert.Equal(t, date("2025-12-31"), w.End)
}

func TestResolveMonthly_ExplicitOverride(t *testing.T) {
	w, err := Resolve(Request{Mode: ModeMonthly, Year: 2025, Month: time.February}, date("2025-10-17"), nil)
	require.NoError(t, err)
	assert.Equal(t, date("2025-02-01"), w.Start)
	assert.Equal(t, date("2025-02-28"), w.End)
}

func TestResolveDaily_ExplicitAnchor(t *testing.T) {
	w, err := Resolve(Request{Mode: ModeDaily, Anchor: ptr(date("2025-10-17"))}, date("2025-10-22"), nil)
	require.NoError(t, err)
	assert.Equal(t, date("2025-10-17"), w.Start)
	assert.Equal(t, date("2025-10-17"), w.End)
}

func TestResolveDaily_WalksBackToMostRecentLog(t *testing.T) {
	// Today is Monday 10-20; the most recent log is Friday 10-17.
	hasLog := func(d time.Time) bool { return d.Equal(date("2025-10-17")) }
	w, err := Resolve(Request{Mode: ModeDaily}, date("2025-10-20"), hasLog)
	require.NoError(t, err)
	assert.Equal(t, date("2025-10-17"), w.Start)
	assert.Equal(t, date("2025-10-17"), w.End)
}

func TestResolveDaily_NoLogsCollapsesToToday(t *testing.T) {
	hasLog := func(time.Time) bool { return false }
	w, err := Resolve(Request{Mode: ModeDaily}, date("2025-10-20"), hasLog)
	require.NoError(t, err)
	assert.Equal(t, date("2025-10-20"), w.Start)
	assert.Equal(t, date("2025-10-20"), w.End)
}

func TestResolveDaily_LookbackBounded(t *testing.T) {
	// A log older than the lookback is not found.
	old := date("2025-09-01")
	hasLog := func(d time.Time) bool { return d.Equal(old) }
	w, err := Resolve(Request{Mode: ModeDaily}, date("2025-10-20"), hasLog)
	require.NoError(t, err)
	assert.Equal(t, date("2025-10-20"), w.Start, "range collapses to today, not the stale log")
}

func TestResolve_ExplicitRangeOverridesMode(t *testing.T) {
	w, err := Resolve(Request{
		Mode: ModeWeekly,
		From: ptr(date("2025-10-01")),
		To:   ptr(date("2025-10-05")),
	}, date("2025-10-22"), nil)
	require.NoError(t, err)
	assert.Equal(t, date("2025-10-01"), w.Start)
	assert.Equal(t, date("2025-10-05"), w.End)
}

func TestResolve_EndBeforeStart(t *testing.T) {
	_, err := Resolve(Request{
		Mode: ModeWeekly,
		From: ptr(date("2025-10-10")),
		To:   ptr(date("2025-10-01")),
	}, date("2025-10-22"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestResolve_FromWithoutTo(t *testing.T) {
	_, err := Resolve(Request{Mode: ModeDaily, From: ptr(date("2025-10-10"))}, date("2025-10-22"), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestResolve_UnknownMode(t *testing.T) {
	_, err := Resolve(Request{Mode: "fortnightly"}, date("2025-10-22"), nil)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestWindowContains(t *testing.T) {
	w := Window{Start: date("2025-10-13"), End: date("2025-10-19")}
	assert.True(t, w.Contains(date("2025-10-13")))
	assert.True(t, w.Contains(date("2025-10-19")))
	assert.True(t, w.Contains(date("2025-10-16")))
	assert.False(t, w.Contains(date("2025-10-12")))
	assert.False(t, w.Contains(date("2025-10-20")))
}
