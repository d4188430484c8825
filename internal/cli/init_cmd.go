package cli

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teamdigest/teamdigest/internal/delivery"
)

const settingsFileName = ".teamdigest.yaml"

// settingsDoc mirrors config.Settings with yaml tags so the generated
// file has a stable field order.
type settingsDoc struct {
	LogsDir    string `yaml:"logs_dir"`
	OutputDir  string `yaml:"output_dir"`
	Pattern    string `yaml:"pattern"`
	OwnerMap   string `yaml:"owner_map"`
	WebhookURL string `yaml:"webhook_url,omitempty"`
	Timezone   string `yaml:"timezone"`
}

func newInitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Interactively create the config file and an owner map stub",
		RunE: func(cmd *cobra.Command, args []string) error {
			if f, ok := cmd.InOrStdin().(*os.File); ok && !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
				return fmt.Errorf("init needs an interactive terminal; create %s by hand instead", settingsFileName)
			}

			doc := settingsDoc{
				LogsDir:    app.Settings.LogsDir,
				OutputDir:  app.Settings.OutputDir,
				Pattern:    app.Settings.Pattern,
				OwnerMap:   app.Settings.OwnerMap,
				WebhookURL: app.Settings.WebhookURL,
				Timezone:   app.Settings.Timezone,
			}
			confirm := true

			form := huh.NewForm(
				huh.NewGroup(
					huh.NewInput().
						Title("Logs directory").
						Description("Folder holding the date-stamped team logs").
						Value(&doc.LogsDir).
						Validate(required("logs directory")),
					huh.NewInput().
						Title("Output directory").
						Value(&doc.OutputDir).
						Validate(required("output directory")),
					huh.NewInput().
						Title("Time zone").
						Placeholder("UTC").
						Value(&doc.Timezone).
						Validate(validateTimezone),
					huh.NewInput().
						Title("Slack webhook URL (blank to skip posting)").
						Value(&doc.WebhookURL).
						Validate(validateOptionalWebhook),
				),
				huh.NewGroup(
					huh.NewConfirm().
						Title(fmt.Sprintf("Write %s?", settingsFileName)).
						Value(&confirm),
				),
			).WithShowHelp(false)

			if err := form.Run(); err != nil {
				return err
			}
			if !confirm {
				fmt.Fprintln(app.Out, "Aborted, nothing written.")
				return nil
			}

			data, err := yaml.Marshal(doc)
			if err != nil {
				return err
			}
			if err := os.WriteFile(settingsFileName, data, 0o644); err != nil {
				return fmt.Errorf("writing %s: %w", settingsFileName, err)
			}
			fmt.Fprintf(app.Out, "Wrote %s\n", settingsFileName)

			if err := writeOwnerMapStub(doc.OwnerMap); err != nil {
				return err
			}
			fmt.Fprintf(app.Out, "Owner map at %s\n", doc.OwnerMap)
			return nil
		},
	}
	return cmd
}

// writeOwnerMapStub creates an example owner map unless one already exists.
func writeOwnerMapStub(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err == nil {
		return nil
	}
	stub := "# Map owner identifiers found in logs to display names.\n" +
		"# AD: Anuraj Deol\n"
	if err := os.WriteFile(path, []byte(stub), 0o644); err != nil {
		return fmt.Errorf("writing owner map stub: %w", err)
	}
	return nil
}

func required(name string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s is required", name)
		}
		return nil
	}
}

func validateTimezone(s string) error {
	if s == "" {
		return nil
	}
	if _, err := time.LoadLocation(s); err != nil {
		return fmt.Errorf("unknown time zone %q", s)
	}
	return nil
}

func validateOptionalWebhook(s string) error {
	if s == "" {
		return nil
	}
	return delivery.ValidateWebhookURL(s)
}
