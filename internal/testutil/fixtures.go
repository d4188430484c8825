// Package testutil provides shared fixtures for building team log files
// and records in tests.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/teamdigest/teamdigest/internal/domain"
)

// LogOption mutates the sections of a generated log body.
type LogOption func(*logFixture)

type logFixture struct {
	sections map[domain.Section][]string
}

// WithSection sets the bullets under a section heading.
func WithSection(section domain.Section, bullets ...string) LogOption {
	return func(s *logFixture) {
		s.sections[section] = bullets
	}
}

// LogBody builds a Markdown team log with the given sections. Sections
// not named are omitted entirely.
func LogBody(opts ...LogOption) string {
	f := &logFixture{sections: map[domain.Section][]string{}}
	for _, opt := range opts {
		opt(f)
	}

	var b strings.Builder
	for _, section := range domain.SectionOrder {
		bullets, ok := f.sections[section]
		if !ok {
			continue
		}
		fmt.Fprintf(&b, "## %s\n", section)
		for _, bullet := range bullets {
			fmt.Fprintf(&b, "- %s\n", bullet)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// WriteLog writes a dated log file named notes-<date>.md into dir.
func WriteLog(t *testing.T, dir string, date time.Time, body string) string {
	t.Helper()
	name := fmt.Sprintf("notes-%s.md", date.Format(domain.DateLayout))
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("writing log fixture %s: %v", path, err)
	}
	return path
}

// Date parses a YYYY-MM-DD string, failing the test on bad input.
func Date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := domain.ParseDate(s)
	if err != nil {
		t.Fatalf("parsing date fixture %q: %v", s, err)
	}
	return d
}
