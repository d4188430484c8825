// Package aggregate merges per-date LogRecords into a single Digest for a
// resolved window, and derives the per-owner priority cross-tabulation.
package aggregate

import (
	"sort"
	"time"

	"github.com/teamdigest/teamdigest/internal/domain"
	"github.com/teamdigest/teamdigest/internal/window"
)

// Merge pools the given records into a Digest for the window. Records are
// ordered by date ascending with the caller's original order preserved on
// ties, so bullets appear in (date asc, file order) sequence. Duplicate
// bullet text across different dates is preserved as-is: distinct days may
// legitimately restate a recurring note, so the aggregator never
// deduplicates content.
func Merge(records []*domain.LogRecord, w window.Window, source string) *domain.Digest {
	ordered := make([]*domain.LogRecord, len(records))
	copy(ordered, records)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Date.Before(ordered[j].Date)
	})

	digest := &domain.Digest{
		Start:    w.Start,
		End:      w.End,
		Source:   source,
		Sections: make(map[domain.Section][]string, len(domain.SectionOrder)),
		Actions:  make(map[domain.Priority][]domain.ActionItem, len(domain.PriorityOrder)),
	}
	for _, section := range domain.SectionOrder {
		digest.Sections[section] = []string{}
	}
	for _, priority := range domain.PriorityOrder {
		digest.Actions[priority] = []domain.ActionItem{}
	}

	seen := make(map[time.Time]bool)
	for _, rec := range ordered {
		seen[rec.Date] = true
		for _, section := range domain.SectionOrder {
			digest.Sections[section] = append(digest.Sections[section], rec.Sections[section]...)
		}
		for _, item := range rec.Actions {
			digest.Actions[item.Priority] = append(digest.Actions[item.Priority], item)
			digest.Counts.Actions++
		}
	}

	// Days matched counts distinct dates with at least one record, not the
	// length of the date span.
	digest.Counts.DaysMatched = len(seen)
	digest.Counts.Decisions = len(digest.Sections[domain.SectionDecisions])
	digest.Counts.Risks = len(digest.Sections[domain.SectionRisks])

	digest.OwnerBreakdown = OwnerBreakdown(digest.Actions)

	return digest
}
