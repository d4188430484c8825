package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"

	"github.com/teamdigest/teamdigest/internal/aggregate"
	"github.com/teamdigest/teamdigest/internal/domain"
	"github.com/teamdigest/teamdigest/internal/parser"
	"github.com/teamdigest/teamdigest/internal/render"
	"github.com/teamdigest/teamdigest/internal/window"
)

// Deliverer posts a rendered digest somewhere external. Delivery failures
// are reported but never invalidate the digest already written to disk.
type Deliverer interface {
	Deliver(ctx context.Context, name, title, body string) error
}

// GenerateRequest carries everything one digest run needs.
type GenerateRequest struct {
	Mode   window.Mode
	Anchor *time.Time
	From   *time.Time
	To     *time.Time
	Year   int
	Month  time.Month
	Now    *time.Time // overrides the service clock; carries the caller's zone

	LogsDir string
	Pattern string // glob over LogsDir, defaults to *.md

	Format         render.Format
	OutputPath     string // explicit file or directory; empty uses OutputDir
	OutputDir      string
	Title          string
	EmitKPIs       bool
	OwnerBreakdown bool

	Post   bool
	DryRun bool
}

// Warning records a log file that was skipped without aborting the run.
type Warning struct {
	Source string
	Err    error
}

// GenerateResult is the outcome of one digest run.
type GenerateResult struct {
	Digest      *domain.Digest
	Window      window.Window
	Output      string // rendered text
	FileName    string
	Path        string // written file; set even on dry runs
	Warnings    []Warning
	FilesRead   int
	RunID       string
	Delivered   bool
	DeliveryErr error
}

// DigestService turns a directory of team logs into a rendered digest.
type DigestService struct {
	owners   parser.OwnerResolver
	deliver  Deliverer
	observer RunObserver
	now      func() time.Time
}

// NewDigestService wires a digest service. owners may be nil (identifiers
// pass through unresolved), deliverer may be nil (posting unavailable).
func NewDigestService(owners parser.OwnerResolver, deliverer Deliverer, observers ...RunObserver) *DigestService {
	return &DigestService{
		owners:   owners,
		deliver:  deliverer,
		observer: runObserverOrNoop(observers),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// WithClock overrides the time source. Test seam.
func (s *DigestService) WithClock(now func() time.Time) *DigestService {
	s.now = now
	return s
}

// Generate runs the full pipeline: validate the range request, parse every
// matching log, resolve the window, aggregate the in-window records, render,
// write, and optionally deliver. Malformed individual logs become warnings;
// a malformed range or an unreadable logs directory aborts.
func (s *DigestService) Generate(ctx context.Context, req GenerateRequest) (*GenerateResult, error) {
	started := s.now()
	runID := uuid.NewString()

	res, err := s.generate(ctx, req, runID)

	event := RunEvent{
		Name:      "generate",
		RunID:     runID,
		Duration:  s.now().Sub(started),
		Success:   err == nil,
		Err:       err,
		StartedAt: started,
		Fields:    map[string]any{"mode": string(req.Mode)},
	}
	if res != nil {
		event.Fields["files_read"] = res.FilesRead
		event.Fields["days_matched"] = res.Digest.Counts.DaysMatched
		event.Fields["warnings"] = len(res.Warnings)
	}
	s.observer.ObserveRun(ctx, event)

	return res, err
}

func (s *DigestService) generate(ctx context.Context, req GenerateRequest, runID string) (*GenerateResult, error) {
	if err := window.ValidateOverride(req.From, req.To); err != nil {
		return nil, err
	}
	if req.Format == "" {
		req.Format = render.FormatMarkdown
	}

	paths, err := listLogs(req.LogsDir, req.Pattern)
	if err != nil {
		return nil, err
	}

	var (
		records  []*domain.LogRecord
		warnings []Warning
	)
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		content, err := os.ReadFile(path)
		if err != nil {
			warnings = append(warnings, Warning{Source: path, Err: err})
			continue
		}
		rec, err := parser.ParseRecord(path, content, s.owners)
		if err != nil {
			warnings = append(warnings, Warning{Source: path, Err: err})
			continue
		}
		records = append(records, rec)
	}

	logDates := make(map[time.Time]bool, len(records))
	for _, rec := range records {
		logDates[rec.Date] = true
	}

	now := s.now()
	if req.Now != nil {
		now = *req.Now
	}

	w, err := window.Resolve(window.Request{
		Mode:   req.Mode,
		Anchor: req.Anchor,
		From:   req.From,
		To:     req.To,
		Year:   req.Year,
		Month:  req.Month,
	}, now, func(day time.Time) bool { return logDates[day] })
	if err != nil {
		return nil, err
	}

	var matched []*domain.LogRecord
	for _, rec := range records {
		if w.Contains(rec.Date) {
			matched = append(matched, rec)
		}
	}

	digest := aggregate.Merge(matched, w, filepath.ToSlash(filepath.Clean(req.LogsDir)))

	opts := render.Options{
		Title:          req.Title,
		EmitKPIs:       req.EmitKPIs,
		OwnerBreakdown: req.OwnerBreakdown,
	}
	output, err := render.Render(digest, req.Format, opts)
	if err != nil {
		return nil, fmt.Errorf("rendering digest: %w", err)
	}

	name := FileName(req.Mode, w, req.Format)
	path, err := resolveOutputPath(req, name)
	if err != nil {
		return nil, err
	}

	res := &GenerateResult{
		Digest:    digest,
		Window:    w,
		Output:    output,
		FileName:  name,
		Path:      path,
		Warnings:  warnings,
		FilesRead: len(paths),
		RunID:     runID,
	}

	if !req.DryRun {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("creating output directory: %w", err)
		}
		if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
			return nil, fmt.Errorf("writing digest: %w", err)
		}
	}

	if req.Post && !req.DryRun {
		if s.deliver == nil {
			res.DeliveryErr = errors.New("no deliverer configured")
		} else if err := s.deliver.Deliver(ctx, name, render.Title(digest, req.Title), output); err != nil {
			res.DeliveryErr = err
		} else {
			res.Delivered = true
		}
	}

	return res, nil
}

// FileName derives the canonical output name for a window, so repeated runs
// over the same range overwrite the same file.
func FileName(mode window.Mode, w window.Window, format render.Format) string {
	prefix := string(mode)
	if prefix == "" {
		prefix = "range"
	}
	start := w.Start.Format(domain.DateLayout)
	if w.Start.Equal(w.End) {
		return prefix + "_" + start + format.Ext()
	}
	return prefix + "_" + start + "_" + w.End.Format(domain.DateLayout) + format.Ext()
}

// listLogs globs the logs directory and returns the matches sorted by name,
// so runs are deterministic regardless of directory iteration order.
func listLogs(dir, pattern string) ([]string, error) {
	if dir == "" {
		dir = "."
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("logs directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("logs directory: %s is not a directory", dir)
	}
	if pattern == "" {
		pattern = "*.md"
	}

	paths, err := doublestar.FilepathGlob(filepath.Join(dir, pattern))
	if err != nil {
		return nil, fmt.Errorf("globbing logs: %w", err)
	}
	sort.Strings(paths)
	return paths, nil
}

func resolveOutputPath(req GenerateRequest, name string) (string, error) {
	if req.OutputPath != "" {
		if info, err := os.Stat(req.OutputPath); err == nil && info.IsDir() {
			return filepath.Join(req.OutputPath, name), nil
		}
		return req.OutputPath, nil
	}
	dir := req.OutputDir
	if dir == "" {
		dir = "outputs"
	}
	return filepath.Join(dir, name), nil
}
