// Package parser converts one log file's text into a structured LogRecord.
// Parsing is a single finite-state scan over lines: a current-section
// pointer that resets on every heading, with recognized bullets appended to
// the current section. All state is local to one parse call.
package parser

import (
	"bytes"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/teamdigest/teamdigest/internal/domain"
	"github.com/teamdigest/teamdigest/internal/lexicon"
)

var (
	// ErrNoDate indicates no calendar date could be determined for a file.
	ErrNoDate = errors.New("log date could not be determined")

	// ErrUndecodable indicates file content could not be decoded even
	// after replacement fallbacks.
	ErrUndecodable = errors.New("log content could not be decoded")
)

// OwnerResolver maps a short owner identifier to a display name. Absent
// entries pass the raw identifier through unchanged.
type OwnerResolver interface {
	Resolve(id string) string
}

// mojibakeFixes repairs the common artifacts of UTF-8 text mis-decoded as
// Latin-1 somewhere upstream.
var mojibakeFixes = [][2]string{
	{"â€“", "–"}, // –
	{"â€”", "—"}, // —
	{"â€˜", "‘"}, // ‘
	{"â€™", "’"}, // ’
	{"â€œ", "“"}, // “
	{"â€", "”"}, // ”
	{"â€¢", "•"}, // •
}

// ParseRecord decodes a log file's bytes, resolves its date, and parses its
// sections into a LogRecord. Decoding failures are repaired with replacement
// characters where possible; only content that still cannot be treated as
// text (embedded NUL bytes) yields ErrUndecodable.
func ParseRecord(path string, content []byte, owners OwnerResolver) (*domain.LogRecord, error) {
	text, err := decode(content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	date, err := ResolveDate(path, text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return ParseText(date, filepath.Base(path), text, owners), nil
}

// ParseText parses already-decoded log text into a LogRecord for the given
// date. Exposed separately so tests can supply synthetic records without
// real files.
func ParseText(date time.Time, source, text string, owners OwnerResolver) *domain.LogRecord {
	rec := domain.NewLogRecord(date, source)

	var (
		current     domain.Section
		haveCurrent bool
		seenHeading bool
		actionsRaw  []string // non-bullet Actions lines, for the tag fallback
	)

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimRight(line, " \t")
		if strings.TrimSpace(line) == "" {
			continue
		}

		if section, _, ok := lexicon.ClassifyHeading(line); ok {
			current, haveCurrent, seenHeading = section, true, true
			continue
		}
		if lexicon.IsHeading(line) {
			// Unrecognized heading: resets the pointer, content below
			// it is ignored until the next recognized heading.
			haveCurrent, seenHeading = false, true
			continue
		}

		_, content, isBullet := lexicon.ClassifyBullet(line)
		switch {
		case isBullet && haveCurrent:
			rec.Sections[current] = append(rec.Sections[current], content)
		case isBullet && !seenHeading:
			// Bullets before any heading land in Notes rather than
			// being dropped.
			rec.Sections[domain.SectionNotes] = append(rec.Sections[domain.SectionNotes], content)
		case !isBullet && haveCurrent && current == domain.SectionActions:
			actionsRaw = append(actionsRaw, strings.TrimSpace(line))
		}
	}

	// Fallback: an Actions block with no recognizable bullets but with
	// priority-tagged lines treats each non-empty line as an item.
	if len(rec.Sections[domain.SectionActions]) == 0 && anyTagged(actionsRaw) {
		rec.Sections[domain.SectionActions] = actionsRaw
	}

	for _, bullet := range rec.Sections[domain.SectionActions] {
		rec.Actions = append(rec.Actions, parseAction(bullet, owners))
	}

	return rec
}

// parseAction turns one Actions bullet into an ActionItem: priority from the
// tag lexicon (tag stripped from the text), owner from the leading phrasing
// resolved through the owner map, due date from an embedded ISO token.
func parseAction(bullet string, owners OwnerResolver) domain.ActionItem {
	priority, text, _ := lexicon.ExtractPriority(bullet)

	item := domain.ActionItem{Text: text, Priority: priority}

	if raw, ok := lexicon.ExtractOwner(text); ok {
		item.Owner = resolve(owners, raw)
	}
	if due, ok := lexicon.ExtractDue(text); ok {
		item.Due = &due
	}
	return item
}

// decode turns raw file bytes into clean text: invalid UTF-8 is replaced,
// mojibake repaired, line endings normalized. Content with embedded NUL
// bytes is not text and cannot be repaired.
func decode(content []byte) (string, error) {
	if bytes.IndexByte(content, 0) >= 0 {
		return "", ErrUndecodable
	}
	text := strings.ToValidUTF8(string(content), "�")
	for _, fix := range mojibakeFixes {
		text = strings.ReplaceAll(text, fix[0], fix[1])
	}
	return strings.ReplaceAll(text, "\r\n", "\n"), nil
}

func anyTagged(lines []string) bool {
	for _, line := range lines {
		if lexicon.HasPriorityTag(line) {
			return true
		}
	}
	return false
}

func resolve(owners OwnerResolver, id string) string {
	if owners == nil {
		return id
	}
	return owners.Resolve(id)
}
