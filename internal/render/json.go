package render

import (
	"encoding/json"
	"fmt"

	"github.com/teamdigest/teamdigest/internal/domain"
)

// The JSON layout mirrors the Markdown layout field for field so the two
// formats stay structurally equivalent. Every key is always present; empty
// sections serialize as empty sequences, never absent keys.

type digestJSON struct {
	Start          string         `json:"start"`
	End            string         `json:"end"`
	Source         string         `json:"source"`
	Counts         countsJSON     `json:"counts"`
	Sections       sectionsJSON   `json:"sections"`
	Actions        actionsJSON    `json:"actions"`
	OwnerBreakdown []ownerRowJSON `json:"owner_breakdown"`
}

type countsJSON struct {
	DaysMatched int `json:"days_matched"`
	Actions     int `json:"actions"`
	Decisions   int `json:"decisions"`
	Risks       int `json:"risks"`
}

type sectionsJSON struct {
	Summary      []string `json:"summary"`
	Decisions    []string `json:"decisions"`
	Actions      []string `json:"actions"`
	Risks        []string `json:"risks"`
	Dependencies []string `json:"dependencies"`
	Notes        []string `json:"notes"`
}

type actionsJSON struct {
	High   []actionJSON `json:"high"`
	Medium []actionJSON `json:"medium"`
	Low    []actionJSON `json:"low"`
}

type actionJSON struct {
	Text  string `json:"text"`
	Owner string `json:"owner"`
	Due   string `json:"due"`
}

type ownerRowJSON struct {
	Owner  string `json:"owner"`
	High   int    `json:"high"`
	Medium int    `json:"medium"`
	Low    int    `json:"low"`
	Total  int    `json:"total"`
}

// JSON renders the digest as indented JSON with a trailing newline. Field
// order follows struct declaration order, so output is deterministic.
func JSON(d *domain.Digest) (string, error) {
	out, err := json.MarshalIndent(toJSON(d), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding digest: %w", err)
	}
	return string(out) + "\n", nil
}

// ParseJSON decodes rendered JSON back into a Digest. Together with JSON
// this forms a lossless round trip.
func ParseJSON(data []byte) (*domain.Digest, error) {
	var dto digestJSON
	if err := json.Unmarshal(data, &dto); err != nil {
		return nil, fmt.Errorf("decoding digest: %w", err)
	}
	return fromJSON(&dto)
}

func toJSON(d *domain.Digest) *digestJSON {
	return &digestJSON{
		Start:  d.Start.Format(domain.DateLayout),
		End:    d.End.Format(domain.DateLayout),
		Source: d.Source,
		Counts: countsJSON{
			DaysMatched: d.Counts.DaysMatched,
			Actions:     d.Counts.Actions,
			Decisions:   d.Counts.Decisions,
			Risks:       d.Counts.Risks,
		},
		Sections: sectionsJSON{
			Summary:      emptyIfNil(d.Sections[domain.SectionSummary]),
			Decisions:    emptyIfNil(d.Sections[domain.SectionDecisions]),
			Actions:      emptyIfNil(d.Sections[domain.SectionActions]),
			Risks:        emptyIfNil(d.Sections[domain.SectionRisks]),
			Dependencies: emptyIfNil(d.Sections[domain.SectionDependencies]),
			Notes:        emptyIfNil(d.Sections[domain.SectionNotes]),
		},
		Actions: actionsJSON{
			High:   actionsToJSON(d.Actions[domain.PriorityHigh]),
			Medium: actionsToJSON(d.Actions[domain.PriorityMedium]),
			Low:    actionsToJSON(d.Actions[domain.PriorityLow]),
		},
		OwnerBreakdown: rowsToJSON(d.OwnerBreakdown),
	}
}

func fromJSON(dto *digestJSON) (*domain.Digest, error) {
	start, err := domain.ParseDate(dto.Start)
	if err != nil {
		return nil, fmt.Errorf("decoding digest start: %w", err)
	}
	end, err := domain.ParseDate(dto.End)
	if err != nil {
		return nil, fmt.Errorf("decoding digest end: %w", err)
	}

	d := &domain.Digest{
		Start:  start,
		End:    end,
		Source: dto.Source,
		Counts: domain.Counts{
			DaysMatched: dto.Counts.DaysMatched,
			Actions:     dto.Counts.Actions,
			Decisions:   dto.Counts.Decisions,
			Risks:       dto.Counts.Risks,
		},
		Sections: map[domain.Section][]string{
			domain.SectionSummary:      emptyIfNil(dto.Sections.Summary),
			domain.SectionDecisions:    emptyIfNil(dto.Sections.Decisions),
			domain.SectionActions:      emptyIfNil(dto.Sections.Actions),
			domain.SectionRisks:        emptyIfNil(dto.Sections.Risks),
			domain.SectionDependencies: emptyIfNil(dto.Sections.Dependencies),
			domain.SectionNotes:        emptyIfNil(dto.Sections.Notes),
		},
	}

	d.Actions = map[domain.Priority][]domain.ActionItem{}
	for priority, items := range map[domain.Priority][]actionJSON{
		domain.PriorityHigh:   dto.Actions.High,
		domain.PriorityMedium: dto.Actions.Medium,
		domain.PriorityLow:    dto.Actions.Low,
	} {
		bucket, err := actionsFromJSON(items, priority)
		if err != nil {
			return nil, err
		}
		d.Actions[priority] = bucket
	}

	d.OwnerBreakdown = rowsFromJSON(dto.OwnerBreakdown)
	return d, nil
}

func actionsToJSON(items []domain.ActionItem) []actionJSON {
	out := make([]actionJSON, 0, len(items))
	for _, item := range items {
		due := ""
		if item.Due != nil {
			due = item.Due.Format(domain.DateLayout)
		}
		out = append(out, actionJSON{Text: item.Text, Owner: item.Owner, Due: due})
	}
	return out
}

func actionsFromJSON(items []actionJSON, priority domain.Priority) ([]domain.ActionItem, error) {
	out := make([]domain.ActionItem, 0, len(items))
	for _, item := range items {
		parsed := domain.ActionItem{Text: item.Text, Owner: item.Owner, Priority: priority}
		if item.Due != "" {
			due, err := domain.ParseDate(item.Due)
			if err != nil {
				return nil, fmt.Errorf("decoding action due date %q: %w", item.Due, err)
			}
			parsed.Due = &due
		}
		out = append(out, parsed)
	}
	return out, nil
}

func rowsToJSON(rows []domain.OwnerRow) []ownerRowJSON {
	out := make([]ownerRowJSON, 0, len(rows))
	for _, row := range rows {
		out = append(out, ownerRowJSON{
			Owner: row.Owner, High: row.High, Medium: row.Medium, Low: row.Low, Total: row.Total,
		})
	}
	return out
}

func rowsFromJSON(rows []ownerRowJSON) []domain.OwnerRow {
	out := make([]domain.OwnerRow, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.OwnerRow{
			Owner: row.Owner, High: row.High, Medium: row.Medium, Low: row.Low, Total: row.Total,
		})
	}
	return out
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
