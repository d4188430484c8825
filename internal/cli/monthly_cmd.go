package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/teamdigest/teamdigest/internal/window"
)

func newMonthlyCmd(app *App) *cobra.Command {
	var flags digestFlags
	var year, month int

	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Digest for the previous full calendar month",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, owners, err := flags.buildRequest(cmd, app, window.ModeMonthly)
			if err != nil {
				return err
			}
			if (year == 0) != (month == 0) {
				return fmt.Errorf("%w: --year and --month must be given together", window.ErrInvalidRange)
			}
			if month < 0 || month > 12 {
				return fmt.Errorf("%w: --month %d is not in 1..12", window.ErrInvalidRange, month)
			}
			req.Year = year
			req.Month = time.Month(month)
			return runDigest(cmd, app, req, owners)
		},
	}

	addDigestFlags(cmd, &flags)
	cmd.Flags().IntVar(&year, "year", 0, "digest this exact year (requires --month)")
	cmd.Flags().IntVar(&month, "month", 0, "digest this exact month 1-12 (requires --year)")

	return cmd
}
