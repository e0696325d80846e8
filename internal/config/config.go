// Package config loads and saves the cxdash TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
)

// Environment overrides, checked before the config file.
const (
	EnvChatURL   = "CXDASH_CHAT_URL"
	EnvImportURL = "CXDASH_IMPORT_URL"
)

// Config holds all cxdash configuration.
type Config struct {
	General    GeneralConfig    `toml:"general"`
	Store      StoreConfig      `toml:"store"`
	Remote     RemoteConfig     `toml:"remote"`
	Appearance AppearanceConfig `toml:"appearance"`
	Server     ServerConfig     `toml:"server"`
}

// GeneralConfig holds general preferences.
type GeneralConfig struct {
	// Seed loads the bundled starter records at startup.
	Seed bool `toml:"seed"`
	// SeedFile, when set, is imported at startup after the bundled seed.
	SeedFile string `toml:"seed_file,omitempty"`
	PageSize int    `toml:"page_size" validate:"min=1,max=100"`
}

// StoreConfig selects the record store backend.
type StoreConfig struct {
	Backend string `toml:"backend" validate:"oneof=memory sqlite"`
	// Path is the sqlite database file. Empty keeps the database in memory.
	Path string `toml:"path,omitempty"`
}

// RemoteConfig holds the collaborating backend endpoints.
type RemoteConfig struct {
	ChatURL        string `toml:"chat_url" validate:"omitempty,url"`
	ImportURL      string `toml:"import_url" validate:"omitempty,url"`
	TimeoutSec     int    `toml:"timeout_sec" validate:"min=1,max=600"`
	ForwardImports bool   `toml:"forward_imports"`
}

// AppearanceConfig holds theme settings.
type AppearanceConfig struct {
	Theme string `toml:"theme"`
}

// ServerConfig holds the headless HTTP API settings.
type ServerConfig struct {
	Addr         string `toml:"addr" validate:"required,hostname_port"`
	EventsBuffer int    `toml:"events_buffer" validate:"min=1"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		General: GeneralConfig{
			Seed:     true,
			PageSize: 5,
		},
		Store: StoreConfig{
			Backend: "memory",
		},
		Remote: RemoteConfig{
			ChatURL:        "http://127.0.0.1:8000/chat",
			ImportURL:      "http://localhost:8000/api/projects",
			TimeoutSec:     30,
			ForwardImports: true,
		},
		Appearance: AppearanceConfig{
			Theme: "flexoki-dark",
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8787",
			EventsBuffer: 200,
		},
	}
}

// Timeout returns the remote request timeout as a duration.
func (r RemoteConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSec) * time.Second
}

// Dir returns the XDG-compliant config directory.
func Dir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "cxdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "cxdash")
}

// Path returns the full path to the default config file.
func Path() string {
	return filepath.Join(Dir(), "config.toml")
}

// CacheDir returns the platform-appropriate cache directory.
func CacheDir() string {
	if xdg := os.Getenv("XDG_CACHE_HOME"); xdg != "" {
		return filepath.Join(xdg, "cxdash")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "cxdash")
}

// Load reads the default config file.
func Load() (Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, returning defaults if it doesn't
// exist. Environment overrides are applied before validation.
func LoadFrom(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path) //nolint:gosec // path is user-chosen config location
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return cfg, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config: %w", err)
		}
	}

	applyEnv(&cfg)
	if err := Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func Validate(cfg Config) error {
	if err := validator.New().Struct(&cfg); err != nil {
		return fmt.Errorf("validate config: %w", err)
	}
	return nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvChatURL); v != "" {
		cfg.Remote.ChatURL = v
	}
	if v := os.Getenv(EnvImportURL); v != "" {
		cfg.Remote.ImportURL = v
	}
}

// Save writes the config to the default path.
func Save(cfg Config) error {
	return SaveTo(Path(), cfg)
}

// SaveTo validates cfg and writes it to path.
func SaveTo(path string, cfg Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // path is user-chosen config location
	if err != nil {
		return fmt.Errorf("creating config file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return toml.NewEncoder(f).Encode(cfg)
}

// Exists returns true if a config file exists at the default path.
func Exists() bool {
	_, err := os.Stat(Path())
	return err == nil
}
