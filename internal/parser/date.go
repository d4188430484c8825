package parser

import (
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/teamdigest/teamdigest/internal/domain"
)

var (
	fileDateRE    = regexp.MustCompile(`(?i)notes-(\d{4}-\d{2}-\d{2})\.[a-z]+$`)
	isoTokenRE    = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)
	contentDateRE = regexp.MustCompile(`(?i)^date:\s*(\d{4}-\d{2}-\d{2})\s*$`)
)

// dateHeaderScanLines bounds how far into a file we look for a "Date:" line.
const dateHeaderScanLines = 10

// ResolveDate determines the calendar date a log file belongs to. The
// filesystem is the source of truth: the conventional notes-YYYY-MM-DD name
// wins, then any ISO date token in the filename, then a "Date: YYYY-MM-DD"
// line near the top of the content. Returns ErrNoDate when nothing resolves.
func ResolveDate(path string, content string) (time.Time, error) {
	base := filepath.Base(path)

	if m := fileDateRE.FindStringSubmatch(base); m != nil {
		if d, err := domain.ParseDate(m[1]); err == nil {
			return d, nil
		}
	}

	for _, tok := range isoTokenRE.FindAllString(base, -1) {
		if d, err := domain.ParseDate(tok); err == nil {
			return d, nil
		}
	}

	scanned := 0
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line == "---" {
			continue
		}
		if m := contentDateRE.FindStringSubmatch(line); m != nil {
			if d, err := domain.ParseDate(m[1]); err == nil {
				return d, nil
			}
		}
		scanned++
		if scanned >= dateHeaderScanLines {
			break
		}
	}

	return time.Time{}, ErrNoDate
}
