package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dukerupert/notepad/internal/store"
)

// Config holds runtime settings. Values come from defaults, then an optional
// YAML file, then NOTEPAD_* environment variables (a .env file in the
// working directory is loaded into the environment first).
type Config struct {
	Port      string     `yaml:"port"`
	DBPath    string     `yaml:"db_path"`
	LogLevel  string     `yaml:"log_level"`
	LogFormat string     `yaml:"log_format"`
	Mode      store.Mode `yaml:"mode"`
	Timezone  string     `yaml:"timezone"`

	// TrustProxy keys the restore rate limit on X-Forwarded-For.
	TrustProxy bool `yaml:"trust_proxy"`
	// AllowedOrigins are extra origin host patterns accepted for the editor
	// websocket. The app's own host is always accepted.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

func Default() Config {
	return Config{
		Port:      "8080",
		DBPath:    "notepad.db",
		LogLevel:  "info",
		LogFormat: "text",
		Mode:      store.ModePersisted,
	}
}

var envKeys = map[string]func(*Config, string) error{
	"NOTEPAD_PORT":       func(c *Config, v string) error { c.Port = v; return nil },
	"NOTEPAD_DB_PATH":    func(c *Config, v string) error { c.DBPath = v; return nil },
	"NOTEPAD_LOG_LEVEL":  func(c *Config, v string) error { c.LogLevel = v; return nil },
	"NOTEPAD_LOG_FORMAT": func(c *Config, v string) error { c.LogFormat = v; return nil },
	"NOTEPAD_MODE":       func(c *Config, v string) error { c.Mode = store.Mode(v); return nil },
	"NOTEPAD_TIMEZONE":   func(c *Config, v string) error { c.Timezone = v; return nil },
	"NOTEPAD_TRUST_PROXY": func(c *Config, v string) error {
		trust, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: NOTEPAD_TRUST_PROXY: %w", err)
		}
		c.TrustProxy = trust
		return nil
	},
	"NOTEPAD_ALLOWED_ORIGINS": func(c *Config, v string) error {
		c.AllowedOrigins = splitList(v)
		return nil
	},
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Load builds the configuration. yamlPath may be empty.
func Load(yamlPath string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()
	if yamlPath != "" {
		if err := cfg.mergeYAML(yamlPath); err != nil {
			return Config{}, err
		}
	}
	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeYAML(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	var file Config
	if err := yaml.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if file.Port != "" {
		c.Port = file.Port
	}
	if file.DBPath != "" {
		c.DBPath = file.DBPath
	}
	if file.LogLevel != "" {
		c.LogLevel = file.LogLevel
	}
	if file.LogFormat != "" {
		c.LogFormat = file.LogFormat
	}
	if file.Mode != "" {
		c.Mode = file.Mode
	}
	if file.Timezone != "" {
		c.Timezone = file.Timezone
	}
	if file.TrustProxy {
		c.TrustProxy = true
	}
	if len(file.AllowedOrigins) > 0 {
		c.AllowedOrigins = file.AllowedOrigins
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	for key, set := range envKeys {
		if v, ok := lookup(key); ok && v != "" {
			if err := set(c, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Validate normalizes Mode and checks that Timezone names a known zone.
func (c *Config) Validate() error {
	mode, err := store.ParseMode(string(c.Mode))
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}
	c.Mode = mode

	if _, err := c.Location(); err != nil {
		return err
	}
	if c.Port == "" {
		return errors.New("config: port is required")
	}
	return nil
}

// Location returns the zone used for note dates, defaulting to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
