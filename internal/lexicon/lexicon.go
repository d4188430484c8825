// Package lexicon provides pure lexical classification of log lines:
// section headings, bullet markers, and the inline tag vocabulary
// (priority tags, owner phrasing, due dates). All recognition is driven
// by static tables so new synonyms are data changes, not code changes.
package lexicon

import (
	"regexp"
	"strings"
	"time"

	"github.com/teamdigest/teamdigest/internal/domain"
)

// BulletMarker identifies the kind of bullet marker found on a line.
type BulletMarker int

const (
	MarkerNone BulletMarker = iota
	MarkerHyphen
	MarkerAsterisk
	MarkerPlus
	MarkerNumbered
	MarkerCheckbox
	MarkerUnicode
)

// headingAliases maps a normalized heading word to its canonical section.
var headingAliases = map[string]domain.Section{
	"summary":      domain.SectionSummary,
	"decision":     domain.SectionDecisions,
	"decisions":    domain.SectionDecisions,
	"action":       domain.SectionActions,
	"actions":      domain.SectionActions,
	"todo":         domain.SectionActions,
	"todos":        domain.SectionActions,
	"to-dos":       domain.SectionActions,
	"risk":         domain.SectionRisks,
	"risks":        domain.SectionRisks,
	"dependency":   domain.SectionDependencies,
	"dependencies": domain.SectionDependencies,
	"deps":         domain.SectionDependencies,
	"note":         domain.SectionNotes,
	"notes":        domain.SectionNotes,
}

// priorityTags maps a lowercase tag word to its priority bucket.
// The pN forms are synonyms for the three labels.
var priorityTags = map[string]domain.Priority{
	"high":   domain.PriorityHigh,
	"p0":     domain.PriorityHigh,
	"medium": domain.PriorityMedium,
	"p1":     domain.PriorityMedium,
	"low":    domain.PriorityLow,
	"p2":     domain.PriorityLow,
}

var (
	// Headings: 2-6 '#' markers, then a word-initial name. Level-1 titles
	// are document titles, not section headings, and are ignored.
	headingRE = regexp.MustCompile(`^[ \t]*(#{2,6})[ \t]*([A-Za-z][^#\n]*)$`)

	// Wide bullet detection: -, *, +, numbered 1./1), checkboxes, unicode
	// bullets/dashes. An optional leading backslash tolerates escaped
	// bullets that survive copy/paste from rendered Markdown.
	bulletRE = regexp.MustCompile(`^[\s\x{00A0}]*\\?((?:[-*+])|(?:\d+[.)])|(?:\[[ xX\-]\])|[\x{2022}\x{2023}\x{2043}\x{2219}\x{25AA}\x{25AB}\x{25CF}\x{25E6}\x{2013}\x{2014}])[ \t]+(.*)$`)

	priorityRE = regexp.MustCompile(`(?i)\[(high|medium|low|p0|p1|p2)\]`)

	isoDateRE = regexp.MustCompile(`\b(\d{4}-\d{2}-\d{2})\b`)

	spaceRunRE = regexp.MustCompile(`[ \t]{2,}`)
)

// ownerPatterns recognize the leading owner phrasings on an action bullet:
// "Alex to ...", "Priya — ...", and an explicit "(owner: Name)" marker.
var ownerPatterns = []*regexp.Regexp{
	regexp.MustCompile(`^([A-Z][\w.\- ]{0,40}?)\s+to\b`),
	regexp.MustCompile(`^([A-Z][\w.\- ]{0,40}?)\s*[\x{2014}\x{2013}-]\s`),
	regexp.MustCompile(`(?i)\(owner:\s*([^)]+?)\s*\)`),
}

// ClassifyHeading reports whether the line is a recognized section heading.
// It returns the canonical section and the nesting level (2-6). Unrecognized
// heading names are not headings for our purposes; the caller ignores them.
func ClassifyHeading(line string) (domain.Section, int, bool) {
	m := headingRE.FindStringSubmatch(line)
	if m == nil {
		return "", 0, false
	}
	section, ok := headingAliases[normalizeHeading(m[2])]
	if !ok {
		return "", 0, false
	}
	return section, len(m[1]), true
}

// IsHeading reports whether the line is any heading (2-6 markers), whether
// or not its name is recognized. Unrecognized headings still reset the
// current-section pointer during parsing.
func IsHeading(line string) bool {
	return headingRE.MatchString(line)
}

// ClassifyBullet reports whether the line is a bullet, returning the marker
// kind and the bullet content with the marker stripped.
func ClassifyBullet(line string) (BulletMarker, string, bool) {
	m := bulletRE.FindStringSubmatch(line)
	if m == nil {
		return MarkerNone, "", false
	}
	return markerKind(m[1]), strings.TrimSpace(m[2]), true
}

// ExtractPriority scans bullet content for a priority tag. It returns the
// bucket, the text with the tag substring removed, and whether a tag was
// found. Untagged content defaults to PriorityMedium.
func ExtractPriority(text string) (domain.Priority, string, bool) {
	loc := priorityRE.FindStringSubmatchIndex(text)
	if loc == nil {
		return domain.PriorityMedium, text, false
	}
	tag := strings.ToLower(text[loc[2]:loc[3]])
	stripped := text[:loc[0]] + text[loc[1]:]
	stripped = strings.TrimSpace(spaceRunRE.ReplaceAllString(stripped, " "))
	return priorityTags[tag], stripped, true
}

// HasPriorityTag reports whether the line carries any recognized priority
// tag. Used by the parser's Actions fallback for tag-bearing plain lines.
func HasPriorityTag(line string) bool {
	return priorityRE.MatchString(line)
}

// ExtractOwner returns the owner identifier found in the action text, if
// any. The identifier is raw: initials or a display name, unresolved.
func ExtractOwner(text string) (string, bool) {
	for _, re := range ownerPatterns {
		if m := re.FindStringSubmatch(text); m != nil {
			return strings.TrimSpace(m[1]), true
		}
	}
	return "", false
}

// ExtractDue returns the first embedded ISO date token in the text, if any.
// Tokens that merely look like dates but do not parse are ignored.
func ExtractDue(text string) (time.Time, bool) {
	for _, m := range isoDateRE.FindAllStringSubmatch(text, -1) {
		if d, err := domain.ParseDate(m[1]); err == nil {
			return d, true
		}
	}
	return time.Time{}, false
}

// normalizeHeading reduces a raw heading name to its lookup key: first
// word, trailing punctuation stripped, lowercased.
func normalizeHeading(raw string) string {
	fields := strings.Fields(raw)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimRight(fields[0], ":-—–"))
}

func markerKind(marker string) BulletMarker {
	switch marker {
	case "-":
		return MarkerHyphen
	case "*":
		return MarkerAsterisk
	case "+":
		return MarkerPlus
	}
	if marker[0] == '[' {
		return MarkerCheckbox
	}
	if marker[0] >= '0' && marker[0] <= '9' {
		return MarkerNumbered
	}
	return MarkerUnicode
}
