// Package window computes the inclusive [start, end] date range a digest
// covers: a single day, the previous full Monday-Sunday week, or the
// previous full calendar month, with an explicit from/to override.
package window

import (
	"errors"
	"fmt"
	"time"

	"github.com/teamdigest/teamdigest/internal/domain"
)

// Mode selects how the date window is derived.
type Mode string

const (
	ModeDaily   Mode = "daily"
	ModeWeekly  Mode = "weekly"
	ModeMonthly Mode = "monthly"
)

// ErrInvalidRange indicates an explicit date/range request is not
// well-formed. Surfaced before any file I/O happens.
var ErrInvalidRange = errors.New("invalid date range")

// DailyLookbackDays bounds how far the daily anchor walks backward looking
// for a day that has a log.
const DailyLookbackDays = 14

// Request carries the resolved parameters for a window computation. The
// resolver does not care how they were obtained (CLI flags, scheduler, ...).
type Request struct {
	Mode   Mode
	Anchor *time.Time // explicit anchor date; nil means today
	From   *time.Time // explicit range override, must pair with To
	To     *time.Time

	// Monthly override: selects that exact calendar month when both set.
	Year  int
	Month time.Month
}

// Window is an inclusive calendar date range.
type Window struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether the date falls inside the window.
func (w Window) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

// ValidateOverride checks an explicit from/to pair without touching any
// other state, so malformed ranges abort before file I/O.
func ValidateOverride(from, to *time.Time) error {
	if from == nil && to == nil {
		return nil
	}
	if from == nil || to == nil {
		return fmt.Errorf("%w: --from and --to must be given together", ErrInvalidRange)
	}
	if to.Before(*from) {
		return fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidRange, to.Format(domain.DateLayout), from.Format(domain.DateLayout))
	}
	return nil
}

// Resolve computes the window for a request. now supplies "today" (already
// in the caller's time zone); hasLog reports whether a given date has at
// least one log file and drives the daily anchor walk-back. An explicit
// from/to pair always overrides the mode-derived window.
func Resolve(req Request, now time.Time, hasLog func(time.Time) bool) (Window, error) {
	if err := ValidateOverride(req.From, req.To); err != nil {
		return Window{}, err
	}
	if req.From != nil {
		return Window{Start: domain.DateOf(*req.From), End: domain.DateOf(*req.To)}, nil
	}

	today := domain.DateOf(now)
	anchor := today
	if req.Anchor != nil {
		anchor = domain.DateOf(*req.Anchor)
	}

	switch req.Mode {
	case ModeDaily:
		return resolveDaily(req, today, hasLog), nil
	case ModeWeekly:
		return resolveWeekly(anchor), nil
	case ModeMonthly:
		return resolveMonthly(req, anchor), nil
	default:
		return Window{}, fmt.Errorf("%w: unknown mode %q", ErrInvalidRange, req.Mode)
	}
}

// resolveDaily picks the anchor day. An explicit anchor is taken as-is;
// otherwise we walk backward from today (yesterday, the last weekday, and
// so on) to the most recent day that has a log. If nothing matches within
// the lookback, the range collapses to today with zero matched days, which
// is not an error.
func resolveDaily(req Request, today time.Time, hasLog func(time.Time) bool) Window {
	if req.Anchor != nil {
		day := domain.DateOf(*req.Anchor)
		return Window{Start: day, End: day}
	}
	if hasLog != nil {
		for back := 0; back <= DailyLookbackDays; back++ {
			day := today.AddDate(0, 0, -back)
			if hasLog(day) {
				return Window{Start: day, End: day}
			}
		}
	}
	return Window{Start: today, End: today}
}

// resolveWeekly returns the previous full Monday-Sunday window, strictly
// before the anchor's current week even when the anchor is itself a Monday.
func resolveWeekly(anchor time.Time) Window {
	// Monday=0 .. Sunday=6
	dow := (int(anchor.Weekday()) + 6) % 7
	start := anchor.AddDate(0, 0, -(dow + 7))
	return Window{Start: start, End: start.AddDate(0, 0, 6)}
}

// resolveMonthly returns the previous full calendar month relative to the
// anchor, or the exact month named by the Year/Month override.
func resolveMonthly(req Request, anchor time.Time) Window {
	var first time.Time
	if req.Year != 0 && req.Month != 0 {
		first = domain.NewDate(req.Year, req.Month, 1)
	} else {
		first = domain.NewDate(anchor.Year(), anchor.Month(), 1).AddDate(0, -1, 0)
	}
	return Window{Start: first, End: first.AddDate(0, 1, -1)}
}
