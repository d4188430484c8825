package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/teamdigest/teamdigest/internal/cli"
	"github.com/teamdigest/teamdigest/internal/delivery"
	"github.com/teamdigest/teamdigest/internal/parser"
	"github.com/teamdigest/teamdigest/internal/service"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	app := &cli.App{Version: version}

	// Built lazily so the settings resolved from flags, file, and
	// environment are already on the App.
	app.NewRunner = func(owners parser.OwnerResolver) cli.DigestRunner {
		var observer service.RunObserver = service.NoopRunObserver{}
		if v := os.Getenv("TEAMDIGEST_LOG_RUNS"); v != "" {
			if enabled, _ := strconv.ParseBool(v); enabled {
				observer = service.NewLogRunObserver(os.Stderr)
			}
		}

		cfg := delivery.LoadConfig()
		if cfg.WebhookURL == "" {
			cfg.WebhookURL = app.Settings.WebhookURL
		}

		return service.NewDigestService(owners, delivery.NewClient(cfg), observer)
	}

	return cli.NewRootCmd(app).Execute()
}
