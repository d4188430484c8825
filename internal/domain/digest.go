package domain

import "time"

// DateLayout is the calendar-date format used throughout: filenames,
// flags, rendered output, and JSON.
const DateLayout = "2006-01-02"

// NewDate returns the given calendar date at midnight UTC. All dates in the
// system are normalized this way so they compare with ==.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a normalized date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// DateOf truncates a time to its calendar date in the time's location,
// re-anchored at midnight UTC.
func DateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return NewDate(y, m, d)
}

// LogRecord is the parsed content of one log file for one calendar date.
// Sections holds the raw bullet strings per canonical section in source
// order; Actions holds the structured form of the Actions bullets, aligned
// with Sections[SectionActions].
type LogRecord struct {
	Date     time.Time
	Source   string
	Sections map[Section][]string
	Actions  []ActionItem
}

// NewLogRecord returns an empty record for the given date with all six
// section slices initialized.
func NewLogRecord(date time.Time, source string) *LogRecord {
	sections := make(map[Section][]string, len(SectionOrder))
	for _, s := range SectionOrder {
		sections[s] = []string{}
	}
	return &LogRecord{Date: date, Source: source, Sections: sections}
}

// Counts holds the derived totals for a digest.
type Counts struct {
	DaysMatched int
	Actions     int
	Decisions   int
	Risks       int
}

// OwnerRow is one row of the per-owner priority cross-tabulation.
type OwnerRow struct {
	Owner  string
	High   int
	Medium int
	Low    int
	Total  int
}

// Digest is the aggregated output for a resolved date range. It is built
// once per invocation and discarded after rendering; nothing persists
// between runs.
type Digest struct {
	Start  time.Time
	End    time.Time
	Source string

	// Sections pools bullets across all matched records in (date asc,
	// file order) sequence. Duplicate text across dates is preserved:
	// distinct days may legitimately restate a recurring note.
	Sections map[Section][]string

	// Actions redistributes the pooled Actions bullets into priority
	// buckets, preserving the pooled ordering within each bucket.
	Actions map[Priority][]ActionItem

	OwnerBreakdown []OwnerRow
	Counts         Counts
}
