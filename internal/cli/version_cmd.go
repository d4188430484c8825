package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the teamdigest version",
		// Skip settings loading, version must work without a config file.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error { return nil },
		RunE: func(cmd *cobra.Command, args []string) error {
			version := app.Version
			if version == "" {
				version = "dev"
			}
			fmt.Fprintf(app.Out, "teamdigest %s\n", version)
			return nil
		},
	}
}
