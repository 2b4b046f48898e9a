package app

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds runtime wiring options for building the app.
type Config struct {
	Home     string `yaml:"home"`      // config directory, e.g. $HOME/.shadowtalk
	RelayURL string `yaml:"relay_url"` // relay base URL, e.g. http://127.0.0.1:8080
	Username string `yaml:"username"`  // default account for commands
	LogLevel string `yaml:"log_level"` // debug, info, warn or error

	HTTP *http.Client `yaml:"-"` // optional; defaults to http.DefaultClient
}

// DefaultConfig returns the config used when no file or flag overrides it.
func DefaultConfig() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Home:     filepath.Join(home, ".shadowtalk"),
		RelayURL: "http://127.0.0.1:8080",
		LogLevel: "info",
	}
}

// ConfigFile is the file LoadConfig looks for inside the home directory.
const ConfigFile = "config.yaml"

// LoadConfig reads the YAML config under home, layered over the defaults.
// A missing file is not an error; a malformed one is. An empty home means
// the default location.
func LoadConfig(home string) (Config, error) {
	cfg := DefaultConfig()
	if home != "" {
		cfg.Home = home
	}

	raw, err := os.ReadFile(filepath.Join(cfg.Home, ConfigFile))
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	// The flag wins over whatever the file says.
	if home != "" {
		cfg.Home = home
	}
	return cfg, nil
}

// SaveConfig writes cfg into its home directory, creating it if needed.
func SaveConfig(cfg Config) error {
	if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
		return fmt.Errorf("create home: %w", err)
	}
	raw, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(cfg.Home, ConfigFile), raw, 0o600)
}
