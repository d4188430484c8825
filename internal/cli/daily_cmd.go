package cli

import (
	"github.com/spf13/cobra"

	"github.com/teamdigest/teamdigest/internal/window"
)

func newDailyCmd(app *App) *cobra.Command {
	var flags digestFlags
	var date string

	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Digest for a single day",
		Long: `Digest for a single day. Without --date the most recent day with a
log within the last two weeks is used, so a Monday morning run picks
up Friday's log.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, owners, err := flags.buildRequest(cmd, app, window.ModeDaily)
			if err != nil {
				return err
			}
			anchor, err := optionalDate(date, "--date")
			if err != nil {
				return err
			}
			req.Anchor = anchor
			return runDigest(cmd, app, req, owners)
		},
	}

	addDigestFlags(cmd, &flags)
	cmd.Flags().StringVar(&date, "date", "", "exact day to digest (YYYY-MM-DD)")

	return cmd
}
