package domain

// Section identifies one of the six canonical log sections.
type Section string

const (
	SectionSummary      Section = "Summary"
	SectionDecisions    Section = "Decisions"
	SectionActions      Section = "Actions"
	SectionRisks        Section = "Risks"
	SectionDependencies Section = "Dependencies"
	SectionNotes        Section = "Notes"
)

// SectionOrder is the canonical ordering used everywhere sections are
// iterated: parsing, aggregation, and rendering.
var SectionOrder = []Section{
	SectionSummary,
	SectionDecisions,
	SectionActions,
	SectionRisks,
	SectionDependencies,
	SectionNotes,
}

// Noun returns the lowercase noun used in empty-section placeholders,
// e.g. "_No actions._".
func (s Section) Noun() string {
	switch s {
	case SectionSummary:
		return "summary"
	case SectionDecisions:
		return "decisions"
	case SectionActions:
		return "actions"
	case SectionRisks:
		return "risks"
	case SectionDependencies:
		return "dependencies"
	default:
		return "notes"
	}
}
