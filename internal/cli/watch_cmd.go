package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/teamdigest/teamdigest/internal/cli/formatter"
	"github.com/teamdigest/teamdigest/internal/service"
	"github.com/teamdigest/teamdigest/internal/watcher"
	"github.com/teamdigest/teamdigest/internal/window"
)

func newWatchCmd(app *App) *cobra.Command {
	var flags digestFlags
	var mode string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the digest whenever a log file changes",
		Long: `Watch the logs directory and regenerate the digest after each settled
burst of changes. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			m := window.Mode(mode)
			switch m {
			case window.ModeDaily, window.ModeWeekly, window.ModeMonthly:
			default:
				return fmt.Errorf("%w: unknown mode %q", window.ErrInvalidRange, mode)
			}

			req, owners, err := flags.buildRequest(cmd, app, m)
			if err != nil {
				return err
			}
			req.Post = false // watch regenerates only; posting stays manual

			loc, err := flags.location(app)
			if err != nil {
				return err
			}

			runner := app.NewRunner(owners)
			regenerate := newRegenerator(runner, req, loc, time.Now, app.Out, app.Err)

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// Initial run so the digest exists before the first change.
			regenerate(ctx)

			w, err := watcher.New(req.LogsDir, req.Pattern, slog.New(slog.NewTextHandler(app.Err, nil)))
			if err != nil {
				return err
			}
			fmt.Fprintf(app.Err, "Watching %s for changes (Ctrl-C to stop)\n", req.LogsDir)
			w.Start(ctx, regenerate)
			return nil
		},
	}

	addDigestFlags(cmd, &flags)
	cmd.Flags().StringVar(&mode, "mode", string(window.ModeDaily), "window to regenerate: daily, weekly, or monthly")

	return cmd
}

// newRegenerator returns the watcher callback. It re-anchors "today" on
// every invocation so a session left running rolls over at midnight
// instead of resolving the window it started with.
func newRegenerator(runner DigestRunner, req service.GenerateRequest, loc *time.Location, clock func() time.Time, out, errw io.Writer) func(context.Context) {
	return func(ctx context.Context) {
		now := clock().In(loc)
		req.Now = &now

		res, err := runner.Generate(ctx, req)
		if err != nil {
			fmt.Fprintf(errw, "Error: %v\n", err)
			return
		}
		fmt.Fprint(out, formatter.FormatRun(res, req.OwnerBreakdown))
	}
}
