package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidSettings indicates the settings document exists but does not
// have the expected shape.
var ErrInvalidSettings = errors.New("invalid settings document")

// Settings holds the tool-level defaults resolved from the config file,
// environment, and flags. CLI flags always win over the file.
type Settings struct {
	LogsDir    string `mapstructure:"logs_dir"`
	OutputDir  string `mapstructure:"output_dir"`
	Pattern    string `mapstructure:"pattern"`
	OwnerMap   string `mapstructure:"owner_map"`
	WebhookURL string `mapstructure:"webhook_url"`
	Timezone   string `mapstructure:"timezone"`
}

// DefaultSettings returns the built-in defaults used when no config file
// is present.
func DefaultSettings() Settings {
	return Settings{
		LogsDir:   "logs",
		OutputDir: "outputs",
		Pattern:   "*.md",
		OwnerMap:  "owners.yaml",
		Timezone:  "UTC",
	}
}

// BindDefaults registers the default values on a viper instance so file
// and environment values overlay them.
func BindDefaults(v *viper.Viper) {
	defaults := DefaultSettings()
	v.SetDefault("logs_dir", defaults.LogsDir)
	v.SetDefault("output_dir", defaults.OutputDir)
	v.SetDefault("pattern", defaults.Pattern)
	v.SetDefault("owner_map", defaults.OwnerMap)
	v.SetDefault("webhook_url", defaults.WebhookURL)
	v.SetDefault("timezone", defaults.Timezone)
}

// LoadSettings unmarshals the resolved viper state into Settings.
func LoadSettings(v *viper.Viper) (Settings, error) {
	var s Settings
	if err := v.Unmarshal(&s); err != nil {
		return Settings{}, fmt.Errorf("%w: %v", ErrInvalidSettings, err)
	}
	return s, nil
}

// Location resolves the configured time zone. An empty value means UTC.
func (s Settings) Location() (*time.Location, error) {
	if s.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: timezone %q: %v", ErrInvalidSettings, s.Timezone, err)
	}
	return loc, nil
}
