package aggregate

import (
	"sort"

	"github.com/teamdigest/teamdigest/internal/domain"
)

// OwnerBreakdown computes one row per owner appearing in any action, with
// per-priority counts and a total. Rows sort by total descending, then
// owner name ascending on ties. Actions with no resolvable owner do not
// contribute a row. Empty input yields an empty breakdown, never an error.
func OwnerBreakdown(actions map[domain.Priority][]domain.ActionItem) []domain.OwnerRow {
	byOwner := make(map[string]*domain.OwnerRow)

	for _, priority := range domain.PriorityOrder {
		for _, item := range actions[priority] {
			if item.Owner == "" {
				continue
			}
			row, ok := byOwner[item.Owner]
			if !ok {
				row = &domain.OwnerRow{Owner: item.Owner}
				byOwner[item.Owner] = row
			}
			switch priority {
			case domain.PriorityHigh:
				row.High++
			case domain.PriorityMedium:
				row.Medium++
			case domain.PriorityLow:
				row.Low++
			}
			row.Total++
		}
	}

	rows := make([]domain.OwnerRow, 0, len(byOwner))
	for _, row := range byOwner {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Total != rows[j].Total {
			return rows[i].Total > rows[j].Total
		}
		return rows[i].Owner < rows[j].Owner
	})
	return rows
}
