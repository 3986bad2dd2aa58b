package settings

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// The environment variable which, if set, names the hub file to use instead of the default.
const HUB_FILE_VAR = "FMATH_HUB"

type DatabaseConfig struct {
	Driver   string `json:"driver"`
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     int    `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// The persistent settings of the hub and the command line.
type Config struct {
	StrictLexer bool           `json:"strict_lexer"`
	LogLevel    string         `json:"log_level"`
	CachePath   string         `json:"cache_path"`
	Database    DatabaseConfig `json:"database"`
	Width       int            `json:"width"`
}

func DefaultConfig() *Config {
	dir := configDir()
	return &Config{
		LogLevel:  "info",
		CachePath: filepath.Join(dir, "cache.db"),
		Database:  DatabaseConfig{Driver: "SQLite", Name: filepath.Join(dir, "programs.db")},
		Width:     92,
	}
}

// HubFile returns the path of the hub file, respecting FMATH_HUB.
func HubFile() string {
	if path := os.Getenv(HUB_FILE_VAR); path != "" {
		return path
	}
	return filepath.Join(configDir(), "hub.json")
}

func configDir() string {
	home, e := os.UserHomeDir()
	if e != nil {
		return ".fmath"
	}
	return filepath.Join(home, ".fmath")
}

// LoadConfig reads the hub file at the given path. A missing file isn't an error: you get the defaults.
// Fields absent from the file keep their default values.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, e := os.ReadFile(path)
	if os.IsNotExist(e) {
		return cfg, nil
	}
	if e != nil {
		return nil, errors.Wrapf(e, "reading hub file %s", path)
	}
	if e := json.Unmarshal(data, cfg); e != nil {
		return nil, errors.Wrapf(e, "parsing hub file %s", path)
	}
	return cfg, nil
}

func SaveConfig(path string, cfg *Config) error {
	data, e := json.MarshalIndent(cfg, "", "  ")
	if e != nil {
		return errors.Wrap(e, "encoding hub file")
	}
	if e := os.MkdirAll(filepath.Dir(path), 0o755); e != nil {
		return errors.Wrapf(e, "creating directory for %s", path)
	}
	return errors.Wrapf(os.WriteFile(path, data, 0o644), "writing hub file %s", path)
}
