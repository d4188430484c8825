package cli

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/teamdigest/teamdigest/internal/config"
	"github.com/teamdigest/teamdigest/internal/parser"
	"github.com/teamdigest/teamdigest/internal/service"
)

// DigestRunner executes one digest generation. Satisfied by
// *service.DigestService; tests substitute fakes.
type DigestRunner interface {
	Generate(ctx context.Context, req service.GenerateRequest) (*service.GenerateResult, error)
}

// RunnerFactory builds a runner bound to a resolved owner map.
type RunnerFactory func(owners parser.OwnerResolver) DigestRunner

// App holds everything CLI commands need.
type App struct {
	Settings  config.Settings
	NewRunner RunnerFactory
	Out       io.Writer
	Err       io.Writer
	Version   string
}

// NewRootCmd creates the top-level "teamdigest" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Err == nil {
		app.Err = os.Stderr
	}

	var cfgFile string

	root := &cobra.Command{
		Use:   "teamdigest",
		Short: "Team log digest generator",
		Long: `teamdigest turns a folder of date-stamped team logs into a single
Markdown or JSON digest covering a day, the previous full week, or
the previous full calendar month.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			settings, err := loadSettings(cfgFile)
			if err != nil {
				return err
			}
			app.Settings = settings
			return nil
		},
	}

	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./.teamdigest.yaml)")

	root.AddCommand(
		newDailyCmd(app),
		newWeeklyCmd(app),
		newMonthlyCmd(app),
		newWatchCmd(app),
		newInitCmd(app),
		newVersionCmd(app),
	)

	return root
}

// loadSettings resolves file, environment, and defaults. A missing config
// file is fine; a malformed one is not.
func loadSettings(cfgFile string) (config.Settings, error) {
	v := viper.New()
	config.BindDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return config.Settings{}, err
		}
	} else {
		v.SetConfigName(".teamdigest")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return config.Settings{}, err
			}
		}
	}

	v.SetEnvPrefix("TEAMDIGEST")
	v.AutomaticEnv()

	return config.LoadSettings(v)
}
