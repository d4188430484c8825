package cli

import (
	"github.com/spf13/cobra"

	"github.com/teamdigest/teamdigest/internal/window"
)

func newWeeklyCmd(app *App) *cobra.Command {
	var flags digestFlags
	var anchor string

	cmd := &cobra.Command{
		Use:   "weekly",
		Short: "Digest for the previous full Monday-Sunday week",
		RunE: func(cmd *cobra.Command, args []string) error {
			req, owners, err := flags.buildRequest(cmd, app, window.ModeWeekly)
			if err != nil {
				return err
			}
			a, err := optionalDate(anchor, "--anchor")
			if err != nil {
				return err
			}
			req.Anchor = a
			return runDigest(cmd, app, req, owners)
		},
	}

	addDigestFlags(cmd, &flags)
	cmd.Flags().StringVar(&anchor, "anchor", "", "compute the week relative to this date instead of today (YYYY-MM-DD)")

	return cmd
}
