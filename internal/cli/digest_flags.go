package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teamdigest/teamdigest/internal/cli/formatter"
	"github.com/teamdigest/teamdigest/internal/config"
	"github.com/teamdigest/teamdigest/internal/domain"
	"github.com/teamdigest/teamdigest/internal/render"
	"github.com/teamdigest/teamdigest/internal/service"
	"github.com/teamdigest/teamdigest/internal/window"
)

// digestFlags are the flags shared by the daily, weekly, monthly, and
// watch commands.
type digestFlags struct {
	logsDir        string
	pattern        string
	from           string
	to             string
	format         string
	output         string
	ownerMap       string
	title          string
	timezone       string
	emitKPIs       bool
	ownerBreakdown bool
	post           bool
	dryRun         bool
}

func addDigestFlags(cmd *cobra.Command, f *digestFlags) {
	fl := cmd.Flags()
	fl.StringVar(&f.logsDir, "logs-dir", "", "directory containing team log files")
	fl.StringVar(&f.pattern, "pattern", "", "glob for log files within the logs directory")
	fl.StringVar(&f.from, "from", "", "explicit range start (YYYY-MM-DD), requires --to")
	fl.StringVar(&f.to, "to", "", "explicit range end (YYYY-MM-DD), requires --from")
	fl.StringVar(&f.format, "format", "md", "output format: md or json")
	fl.StringVarP(&f.output, "output", "o", "", "output file or directory (default: output dir with a derived name)")
	fl.StringVar(&f.ownerMap, "owner-map", "", "YAML file mapping owner identifiers to display names")
	fl.StringVar(&f.title, "title", "", "override the digest title")
	fl.StringVar(&f.timezone, "timezone", "", "IANA time zone used to resolve \"today\"")
	fl.BoolVar(&f.emitKPIs, "emit-kpis", false, "include the Executive KPIs block")
	fl.BoolVar(&f.ownerBreakdown, "owner-breakdown", false, "include the per-owner table (implies --emit-kpis)")
	fl.BoolVar(&f.post, "post", false, "post the digest to the configured Slack webhook")
	fl.BoolVar(&f.dryRun, "dry-run", false, "render to stdout without writing or posting")
}

// buildRequest merges flags over settings into a GenerateRequest plus the
// resolved owner map.
func (f *digestFlags) buildRequest(cmd *cobra.Command, app *App, mode window.Mode) (service.GenerateRequest, config.OwnerMap, error) {
	var zero service.GenerateRequest

	format, err := render.ParseFormat(f.format)
	if err != nil {
		return zero, nil, err
	}

	from, err := optionalDate(f.from, "--from")
	if err != nil {
		return zero, nil, err
	}
	to, err := optionalDate(f.to, "--to")
	if err != nil {
		return zero, nil, err
	}

	owners, err := f.resolveOwners(cmd, app)
	if err != nil {
		return zero, nil, err
	}

	req := service.GenerateRequest{
		Mode:           mode,
		From:           from,
		To:             to,
		LogsDir:        firstNonEmpty(f.logsDir, app.Settings.LogsDir),
		Pattern:        firstNonEmpty(f.pattern, app.Settings.Pattern),
		Format:         format,
		OutputPath:     f.output,
		OutputDir:      app.Settings.OutputDir,
		Title:          f.title,
		EmitKPIs:       f.emitKPIs || f.ownerBreakdown,
		OwnerBreakdown: f.ownerBreakdown,
		Post:           f.post,
		DryRun:         f.dryRun,
	}

	loc, err := f.location(app)
	if err != nil {
		return zero, nil, err
	}
	now := time.Now().In(loc)
	req.Now = &now

	return req, owners, nil
}

// location resolves the effective time zone, flags over settings.
func (f *digestFlags) location(app *App) (*time.Location, error) {
	tz := firstNonEmpty(f.timezone, app.Settings.Timezone)
	if tz == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", config.ErrInvalidSettings, tz, err)
	}
	return loc, nil
}

// resolveOwners loads the owner map. An explicitly flagged path must
// exist; the settings default silently degrades to the identity mapping.
func (f *digestFlags) resolveOwners(cmd *cobra.Command, app *App) (config.OwnerMap, error) {
	if cmd.Flags().Changed("owner-map") {
		return config.LoadOwnerMap(f.ownerMap)
	}
	return config.LoadOwnerMapIfPresent(app.Settings.OwnerMap)
}

// runDigest executes one generation and prints the outcome. Dry runs
// print the rendered digest itself.
func runDigest(cmd *cobra.Command, app *App, req service.GenerateRequest, owners config.OwnerMap) error {
	runner := app.NewRunner(owners)
	res, err := runner.Generate(cmd.Context(), req)
	if err != nil {
		return err
	}

	if req.DryRun {
		fmt.Fprint(app.Out, res.Output)
		return nil
	}
	fmt.Fprint(app.Out, formatter.FormatRun(res, req.OwnerBreakdown))
	return nil
}

func optionalDate(value, flag string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := domain.ParseDate(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s %q is not a YYYY-MM-DD date", window.ErrInvalidRange, flag, value)
	}
	return &t, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
