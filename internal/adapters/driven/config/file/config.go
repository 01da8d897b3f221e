// Package file provides TOML-based configuration loading for the
// Tecfag retrieval CLI. Provider credentials are read from the config
// file and can be overridden by environment variables, so business
// logic never reaches into the environment itself.
package file

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// ProviderConfig holds the settings of one external provider.
type ProviderConfig struct {
	APIKey  string `toml:"api_key"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// StorageConfig holds storage settings.
type StorageConfig struct {
	// DataDir is the directory for the SQLite database.
	// Empty means ~/.tecfag/data.
	DataDir string `toml:"data_dir"`
}

// Config is the full application configuration.
type Config struct {
	Gemini  ProviderConfig `toml:"gemini"`
	Groq    ProviderConfig `toml:"groq"`
	Storage StorageConfig  `toml:"storage"`
}

// DefaultPath returns the default config file location
// (~/.tecfag/config.toml).
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".tecfag", "config.toml"), nil
}

// Load reads the config file at path, tolerating a missing file, and
// applies environment overrides (GEMINI_API_KEY, GROQ_API_KEY,
// TECFAG_DATA_DIR).
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// Missing config is fine; env vars may carry everything.
	default:
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	applyEnv(cfg)
	return cfg, nil
}

// Save writes the config to path, creating parent directories.
func Save(path string, cfg *Config) error {
	if path == "" {
		defaultPath, err := DefaultPath()
		if err != nil {
			return err
		}
		path = defaultPath
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		cfg.Gemini.APIKey = key
	}
	if key := os.Getenv("GROQ_API_KEY"); key != "" {
		cfg.Groq.APIKey = key
	}
	if dir := os.Getenv("TECFAG_DATA_DIR"); dir != "" {
		cfg.Storage.DataDir = dir
	}
}
