// Package config loads scriptpack settings from the environment and an
// optional config file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

const (
	// AppName is the application name, used for the config directory.
	AppName = "scriptpack"
	// envPrefix prefixes every environment override, e.g.
	// SCRIPTPACK_ROOT_URL.
	envPrefix = "SCRIPTPACK"
)

// Config holds the settings one run consumes.
type Config struct {
	// RootURL is the project root all addresses are built from.
	// Required; no default.
	RootURL string
	// FetchTimeout bounds each individual remote fetch.
	FetchTimeout time.Duration
	// Jobs caps concurrent script resolutions. Zero means one per CPU.
	Jobs int
	// ScriptExt is the script file extension, leading dot included.
	ScriptExt string
}

// configDirOverride lets tests point config loading at a temp dir.
var configDirOverride string

// SetConfigDirOverride overrides the config directory, primarily for
// tests. Pass "" to restore the default.
func SetConfigDirOverride(dir string) {
	configDirOverride = dir
}

// ConfigDir returns the scriptpack configuration directory.
func ConfigDir() (string, error) {
	if configDirOverride != "" {
		return configDirOverride, nil
	}
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("failed to resolve config directory: %w", err)
	}
	return filepath.Join(base, AppName), nil
}

// Load reads configuration with this precedence: environment variables
// (SCRIPTPACK_*), then the optional YAML config file, then defaults.
// A missing config file is fine; a missing root URL is not.
func Load() (*Config, error) {
	v := viper.New()

	v.SetDefault("fetch_timeout", "30s")
	v.SetDefault("jobs", 0)
	v.SetDefault("script_ext", ".py")

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	dir, err := ConfigDir()
	if err == nil {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(dir)
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{
		RootURL:      v.GetString("root_url"),
		FetchTimeout: v.GetDuration("fetch_timeout"),
		Jobs:         v.GetInt("jobs"),
		ScriptExt:    v.GetString("script_ext"),
	}

	if cfg.RootURL == "" {
		return nil, fmt.Errorf("root_url is not configured (set %s_ROOT_URL or add root_url to %s)",
			envPrefix, filepath.Join(dir, "config.yaml"))
	}
	if cfg.ScriptExt == "" || cfg.ScriptExt[0] != '.' {
		return nil, fmt.Errorf("script_ext must start with a dot, got %q", cfg.ScriptExt)
	}

	return cfg, nil
}
