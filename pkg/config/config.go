package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	xdgAppName = "mdtasks"
	configFile = "config.json"
	envPrefix  = "MDTASKS"

	DefaultFormat   = "csv"
	DefaultProdID   = "-//MDTASKS//Markdown Task Exporter//EN"
	DefaultLogLevel = "info"
)

type Config struct {
	// Format is the export format used when none is given on the command line.
	Format string `mapstructure:"format" json:"format"`
	// Output is the default output path; empty means tasks.<ext>.
	Output string `mapstructure:"output" json:"output,omitempty"`
	// Timezone names the IANA zone due dates are written in; empty is local.
	Timezone string `mapstructure:"timezone" json:"timezone,omitempty"`
	// Credentials is the Google OAuth client secrets file.
	Credentials string `mapstructure:"credentials" json:"credentials,omitempty"`
	ProdID      string `mapstructure:"prodid" json:"prodid,omitempty"`
	LogLevel    string `mapstructure:"log_level" json:"log_level,omitempty"`
	// MetricsFile receives Prometheus text metrics after each run.
	MetricsFile string `mapstructure:"metrics_file" json:"metrics_file,omitempty"`
	// TaskwarriorProject and TaskwarriorTags are stamped on every task of the
	// taskwarrior export.
	TaskwarriorProject string   `mapstructure:"taskwarrior_project" json:"taskwarrior_project,omitempty"`
	TaskwarriorTags    []string `mapstructure:"taskwarrior_tags" json:"taskwarrior_tags,omitempty"`
}

// Keys lists the settable configuration keys.
var Keys = []string{
	"format", "output", "timezone", "credentials", "prodid", "log_level",
	"metrics_file", "taskwarrior_project", "taskwarrior_tags",
}

// Dir returns $XDG_CONFIG_HOME/mdtasks, or ~/.config/mdtasks.
func Dir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, xdgAppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", xdgAppName), nil
}

func GetConfigPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFile), nil
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{
		Format:   DefaultFormat,
		ProdID:   DefaultProdID,
		LogLevel: DefaultLogLevel,
	}
	if dir, err := Dir(); err == nil {
		cfg.Credentials = filepath.Join(dir, "credentials.json")
	}
	return cfg
}

// Load reads the config file at path (GetConfigPath when empty) and applies
// MDTASKS_* environment overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	def := Default()
	v := viper.New()
	v.SetDefault("format", def.Format)
	v.SetDefault("output", def.Output)
	v.SetDefault("timezone", def.Timezone)
	v.SetDefault("credentials", def.Credentials)
	v.SetDefault("prodid", def.ProdID)
	v.SetDefault("log_level", def.LogLevel)
	v.SetDefault("metrics_file", def.MetricsFile)
	v.SetDefault("taskwarrior_project", def.TaskwarriorProject)
	v.SetDefault("taskwarrior_tags", []string{})
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	if _, err := os.Stat(path); err == nil {
		v.SetConfigFile(path)
		v.SetConfigType("json")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	if cfg.Format == "" {
		cfg.Format = DefaultFormat
	}
	if cfg.ProdID == "" {
		cfg.ProdID = DefaultProdID
	}
	cfg.TaskwarriorTags = splitTags(cfg.TaskwarriorTags...)
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Save writes cfg to path (GetConfigPath when empty).
func Save(cfg *Config, path string) error {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return err
		}
		path = p
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to open config file for writing: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	encoder.SetIndent("", "  ")
	return encoder.Encode(cfg)
}

// Set assigns one key by name.
func (c *Config) Set(key, value string) error {
	switch strings.ToLower(key) {
	case "format":
		c.Format = value
	case "output":
		c.Output = value
	case "timezone":
		if _, err := loadLocation(value); err != nil {
			return err
		}
		c.Timezone = value
	case "credentials":
		c.Credentials = value
	case "prodid":
		c.ProdID = value
	case "log_level":
		c.LogLevel = value
	case "metrics_file":
		c.MetricsFile = value
	case "taskwarrior_project":
		c.TaskwarriorProject = value
	case "taskwarrior_tags":
		c.TaskwarriorTags = splitTags(value)
	default:
		return fmt.Errorf("unknown config key %q (want one of %s)", key, strings.Join(Keys, ", "))
	}
	return nil
}

// splitTags splits comma separated values and drops empty entries. It
// returns nil when nothing is left.
func splitTags(values ...string) []string {
	var tags []string
	for _, v := range values {
		for _, tag := range strings.Split(v, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}
	return tags
}

// Location resolves Timezone.
func (c *Config) Location() (*time.Location, error) {
	return loadLocation(c.Timezone)
}

func loadLocation(name string) (*time.Location, error) {
	if name == "" || strings.EqualFold(name, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", name, err)
	}
	return loc, nil
}
