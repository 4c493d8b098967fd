// Package config loads mdsift defaults from a YAML file and the environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// FileName is the project-level configuration file looked up in the
// working directory.
const FileName = ".mdsift.yaml"

// Config holds the defaults applied when a flag is not given.
type Config struct {
	Root          string   `yaml:"root"`
	Extensions    []string `yaml:"extensions"`
	Workers       int      `yaml:"workers"`
	Delimiter     string   `yaml:"delimiter"`
	CaseSensitive bool     `yaml:"case_sensitive"`
	NoColor       bool     `yaml:"no_color"`
	LogLevel      string   `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Root:       ".",
		Extensions: []string{".md"},
		Workers:    10,
		Delimiter:  " ",
		LogLevel:   "warn",
	}
}

// Load layers the configuration: defaults, then the YAML file, then .env,
// then MDSIFT_* environment variables. An explicit path must exist; the
// implicit locations are optional.
func Load(path string) (Config, error) {
	cfg := Default()

	file, explicit := path, path != ""
	if !explicit {
		file = findConfigFile()
	}

	if file != "" {
		if err := cfg.mergeFile(file); err != nil {
			if explicit || !errors.Is(err, fs.ErrNotExist) {
				return Config{}, err
			}
		}
	}

	// .env never overrides variables that are already set.
	_ = godotenv.Load()

	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative, got %d", c.Workers)
	}

	return nil
}

func (c *Config) mergeFile(path string) error {
	// #nosec G304 - path is the user's own config file
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config %s: %w", path, err)
	}

	var fileCfg Config
	if err := yaml.Unmarshal(data, &fileCfg); err != nil {
		return fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	if fileCfg.Root != "" {
		c.Root = fileCfg.Root
	}

	if len(fileCfg.Extensions) > 0 {
		c.Extensions = fileCfg.Extensions
	}

	if fileCfg.Workers != 0 {
		c.Workers = fileCfg.Workers
	}

	if fileCfg.Delimiter != "" {
		c.Delimiter = fileCfg.Delimiter
	}

	if fileCfg.LogLevel != "" {
		c.LogLevel = fileCfg.LogLevel
	}

	c.CaseSensitive = c.CaseSensitive || fileCfg.CaseSensitive
	c.NoColor = c.NoColor || fileCfg.NoColor

	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("MDSIFT_ROOT"); ok && v != "" {
		c.Root = v
	}

	if v, ok := lookup("MDSIFT_EXTENSIONS"); ok && v != "" {
		c.Extensions = splitList(v)
	}

	if v, ok := lookup("MDSIFT_DELIMITER"); ok && v != "" {
		c.Delimiter = v
	}

	if v, ok := lookup("MDSIFT_LOG_LEVEL"); ok && v != "" {
		c.LogLevel = v
	}

	if v, ok := lookup("MDSIFT_WORKERS"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid MDSIFT_WORKERS %q: %w", v, err)
		}

		c.Workers = n
	}

	if v, ok := lookup("MDSIFT_CASE_SENSITIVE"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MDSIFT_CASE_SENSITIVE %q: %w", v, err)
		}

		c.CaseSensitive = b
	}

	// https://no-color.org: any non-empty value disables colour.
	if v, ok := lookup("NO_COLOR"); ok && v != "" {
		c.NoColor = true
	}

	if v, ok := lookup("MDSIFT_NO_COLOR"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid MDSIFT_NO_COLOR %q: %w", v, err)
		}

		c.NoColor = b
	}

	return nil
}

func findConfigFile() string {
	if _, err := os.Stat(FileName); err == nil {
		return FileName
	}

	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}

	return filepath.Join(dir, "mdsift", "config.yaml")
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
