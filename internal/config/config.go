package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Store manages the runtime configuration for the app.
type Store struct {
	path    string
	warning error
	Config  Data
}

// Data represents persisted user preferences.
type Data struct {
	Name            string `toml:"name"`
	Timezone        string `toml:"timezone"`
	CatalogURL      string `toml:"catalog_url"`
	CatalogLanguage int    `toml:"catalog_language"`
	LogFile         string `toml:"log_file"`
}

const (
	defaultCatalogURL = "https://wger.de/api/v2"
	// Language id 2 is English in the wger catalog.
	defaultCatalogLanguage = 2
)

// Load retrieves the config from disk, creating defaults if needed. An
// unreadable or corrupt file never stops the app: Load falls back to the
// defaults and records the problem, retrievable via LoadWarning once a
// logger is up.
func Load() *Store {
	cfgPath, err := resolvePath()
	if err != nil {
		return &Store{warning: err, Config: defaultConfig()}
	}

	cfg := Data{}
	var warning error
	if _, err := os.Stat(cfgPath); err != nil {
		cfg = defaultConfig()
		if !errors.Is(err, os.ErrNotExist) {
			warning = fmt.Errorf("stat config: %w", err)
		} else if err := writeConfig(cfgPath, cfg); err != nil {
			warning = err
		}
	} else if bytes, err := os.ReadFile(cfgPath); err != nil {
		warning = fmt.Errorf("read config: %w", err)
	} else if err := toml.Unmarshal(bytes, &cfg); err != nil {
		// Discard whatever partially decoded.
		cfg = Data{}
		warning = fmt.Errorf("parse config: %w", err)
	}

	applyDefaults(&cfg)
	return &Store{path: cfgPath, warning: warning, Config: cfg}
}

// LoadWarning reports the non-fatal problem Load ran into, if any.
func (s *Store) LoadWarning() error {
	if s == nil {
		return nil
	}
	return s.warning
}

// Save writes the current config values to disk.
func (s *Store) Save() error {
	if s == nil {
		return errors.New("nil config store")
	}
	return writeConfig(s.path, s.Config)
}

func resolvePath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		base = os.Getenv("HOME")
		if base == "" {
			if err != nil {
				return "", fmt.Errorf("cannot resolve config directory: %w", err)
			}
			return "", errors.New("cannot resolve config directory")
		}
	}
	dir := filepath.Join(base, "fitterm")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config dir: %w", err)
	}
	return filepath.Join(dir, "config.toml"), nil
}

func writeConfig(path string, cfg Data) error {
	bytes, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, bytes, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

func defaultConfig() Data {
	cfg := Data{}
	applyDefaults(&cfg)
	return cfg
}

func applyDefaults(cfg *Data) {
	if cfg.Name == "" {
		cfg.Name = defaultName()
	}
	if cfg.Timezone == "" {
		cfg.Timezone = defaultTimezone()
	}
	if cfg.CatalogURL == "" {
		cfg.CatalogURL = defaultCatalogURL
	}
	if cfg.CatalogLanguage == 0 {
		cfg.CatalogLanguage = defaultCatalogLanguage
	}
}

func defaultName() string {
	if name := os.Getenv("USER"); name != "" {
		return name
	}
	if runtime.GOOS == "windows" {
		if name := os.Getenv("USERNAME"); name != "" {
			return name
		}
	}
	return "Coach"
}

func defaultTimezone() string {
	if locName := time.Now().Location().String(); locName != "Local" && locName != "" {
		return locName
	}
	return "UTC"
}

// Location returns the configured timezone Location, defaulting to UTC on error.
func (s *Store) Location() *time.Location {
	if s == nil {
		return time.UTC
	}
	if loc, err := time.LoadLocation(s.Config.Timezone); err == nil {
		return loc
	}
	return time.UTC
}
