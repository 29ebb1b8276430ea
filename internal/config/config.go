package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DefaultAPIBaseURL is the hosted analysis API.
const DefaultAPIBaseURL = "https://ai-powered-startup-market-research.onrender.com"

type ConfigOption struct {
	Key     string
	Default any
	Comment string
}

// GetConfigOptions returns the default configuration options and their meanings.
func GetConfigOptions() []ConfigOption {
	return []ConfigOption{
		{Key: "data_dir", Default: defaultDataDir(), Comment: "Directory for local state; DB is data_dir/ideaval.db (\":memory:\" keeps nothing)"},
		{Key: "output", Default: "tui", Comment: "Default output mode: tui|styled|pretty|plain|json|yaml"},

		{Key: "api.base_url", Default: DefaultAPIBaseURL, Comment: "Analysis API root; requests go to <base_url>/validate"},
		{Key: "api.timeout", Default: "0s", Comment: "Per-request timeout; 0s waits indefinitely"},

		{Key: "render.glamour_style", Default: "dracula", Comment: "Glamour style for pretty output (dark|light|dracula|notty|ascii)"},
		{Key: "render.width", Default: 0, Comment: "Wrap width for non-interactive output; 0 uses the terminal width"},

		{Key: "log.level", Default: "info", Comment: "Log level: debug|info|warn|error"},
		{Key: "log.file", Default: "", Comment: "Log file; empty writes data_dir/ideaval.log"},

		{Key: "history.enabled", Default: true, Comment: "Record every submission in local history"},
		{Key: "history.limit", Default: 20, Comment: "Entries shown by `ideaval history`"},

		{Key: "serve.addr", Default: ":8000", Comment: "Listen address of the demo analysis backend"},
	}
}

// applyDefaults seeds Viper with defaults defined in GetConfigOptions.
func applyDefaults(v *viper.Viper) {
	for _, o := range GetConfigOptions() {
		v.SetDefault(o.Key, o.Default)
	}
}

// Load resolves configuration with precedence: defaults < file < env.
// The provided Viper instance is mutated with defaults, file contents, and env.
func Load(ctx context.Context, v *viper.Viper) error {
	// SetConfigFile upstream wins over these search paths.
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "ideaval"))
		}
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ideaval"))
		}
		v.AddConfigPath(".")
	}

	applyDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
	}

	// IDEAVAL_API_BASE_URL and friends
	v.SetEnvPrefix("ideaval")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if strings.TrimSpace(v.GetString("data_dir")) == "" {
		v.Set("data_dir", defaultDataDir())
	}
	v.Set("data_dir", expandHome(v.GetString("data_dir")))
	if strings.TrimSpace(v.GetString("log.file")) == "" && v.GetString("data_dir") != ":memory:" {
		v.Set("log.file", filepath.Join(v.GetString("data_dir"), "ideaval.log"))
	}
	return nil
}

// defaultDataDir resolves default data dir: $XDG_DATA_HOME/ideaval or ~/.local/share/ideaval
func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "ideaval")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", "ideaval")
}

// DefaultConfigPath resolves the standard config.toml location.
func DefaultConfigPath() string {
	xdg := os.Getenv("XDG_CONFIG_HOME")
	if xdg == "" {
		home, _ := os.UserHomeDir()
		xdg = filepath.Join(home, ".config")
	}
	return filepath.Join(xdg, "ideaval", "config.toml")
}

func expandHome(dir string) string {
	if strings.HasPrefix(dir, "~/") || dir == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return dir
}

// IsKnownKey reports whether key is one of GetConfigOptions.
func IsKnownKey(key string) bool {
	for _, o := range GetConfigOptions() {
		if o.Key == key {
			return true
		}
	}
	return false
}
