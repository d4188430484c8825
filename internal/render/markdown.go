// Package render serializes a Digest to Markdown or JSON with a stable,
// diff-friendly layout: identical digests always produce byte-identical
// output.
package render

import (
	"fmt"
	"strings"

	"github.com/teamdigest/teamdigest/internal/domain"
)

// Format selects the output serialization.
type Format string

const (
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// ParseFormat normalizes a user-supplied format name.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown format %q (expected md or json)", s)
	}
}

// Ext returns the file extension for the format, with the leading dot.
func (f Format) Ext() string {
	if f == FormatJSON {
		return ".json"
	}
	return ".md"
}

// Options control the optional parts of rendered output. The digest content
// itself is never affected, only what is emitted.
type Options struct {
	Title          string // empty derives "Team Digest (<range>)"
	EmitKPIs       bool   // include the Executive KPIs block
	OwnerBreakdown bool   // include the per-owner table in the KPIs block
}

// Render serializes the digest in the requested format.
func Render(d *domain.Digest, format Format, opts Options) (string, error) {
	if format == FormatJSON {
		return JSON(d)
	}
	return Markdown(d, opts), nil
}

// Title returns the effective document title for the digest.
func Title(d *domain.Digest, override string) string {
	if override != "" {
		return override
	}
	return "Team Digest (" + rangeLabel(d) + ")"
}

// Markdown renders the digest as Markdown: title, metadata line, optional
// KPIs block, then the six sections in canonical order. Every section is
// present; empty sections render a placeholder sentence.
func Markdown(d *domain.Digest, opts Options) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", Title(d, opts.Title))
	fmt.Fprintf(&b, "_Range: %s | Source: %s | Days matched: %d | Actions: %d_\n",
		rangeLabel(d), d.Source, d.Counts.DaysMatched, d.Counts.Actions)

	if opts.EmitKPIs {
		writeKPIs(&b, d, opts.OwnerBreakdown)
	}

	for _, section := range domain.SectionOrder {
		fmt.Fprintf(&b, "\n## %s\n\n", section)
		if section == domain.SectionActions {
			writeActions(&b, d)
			continue
		}
		bullets := d.Sections[section]
		if len(bullets) == 0 {
			fmt.Fprintf(&b, "_No %s._\n", section.Noun())
			continue
		}
		for _, bullet := range bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
	}

	return b.String()
}

func writeActions(b *strings.Builder, d *domain.Digest) {
	if d.Counts.Actions == 0 {
		fmt.Fprintf(b, "_No %s._\n", domain.SectionActions.Noun())
		return
	}
	first := true
	for _, priority := range domain.PriorityOrder {
		items := d.Actions[priority]
		if len(items) == 0 {
			continue
		}
		if !first {
			b.WriteString("\n")
		}
		first = false
		fmt.Fprintf(b, "### %s priority\n\n", priority.Label())
		for _, item := range items {
			fmt.Fprintf(b, "- %s\n", item.Text)
		}
	}
}

func writeKPIs(b *strings.Builder, d *domain.Digest, ownerBreakdown bool) {
	fmt.Fprintf(b, "\n## Executive KPIs\n\n")
	fmt.Fprintf(b, "- Days matched: %d\n", d.Counts.DaysMatched)
	fmt.Fprintf(b, "- Actions: %d (High: %d, Medium: %d, Low: %d)\n",
		d.Counts.Actions,
		len(d.Actions[domain.PriorityHigh]),
		len(d.Actions[domain.PriorityMedium]),
		len(d.Actions[domain.PriorityLow]))
	fmt.Fprintf(b, "- Decisions: %d\n", d.Counts.Decisions)
	fmt.Fprintf(b, "- Risks: %d\n", d.Counts.Risks)

	if !ownerBreakdown || len(d.OwnerBreakdown) == 0 {
		return
	}
	b.WriteString("\n| Owner | High | Medium | Low | Total |\n")
	b.WriteString("| --- | ---: | ---: | ---: | ---: |\n")
	for _, row := range d.OwnerBreakdown {
		fmt.Fprintf(b, "| %s | %d | %d | %d | %d |\n",
			row.Owner, row.High, row.Medium, row.Low, row.Total)
	}
}

func rangeLabel(d *domain.Digest) string {
	start := d.Start.Format(domain.DateLayout)
	end := d.End.Format(domain.DateLayout)
	if start == end {
		return start
	}
	return start + " → " + end
}
