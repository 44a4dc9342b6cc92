// Package config loads application configuration from an optional YAML file
// and environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// Load policies for records that fail validation when the data file is read.
const (
	LoadPolicyAbort = "abort"
	LoadPolicySkip  = "skip"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr string `yaml:"listen_addr"`
	DBPath     string `yaml:"db_path"`
	DataFile   string `yaml:"data_file"`
	LoadPolicy string `yaml:"load_policy"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		ListenAddr: "127.0.0.1:8080",
		DBPath:     "workbook.db",
		DataFile:   "data/workbook.json",
		LoadPolicy: LoadPolicyAbort,
	}
}

// Load returns a validated Config. Defaults are overridden first by the YAML
// file named in WORKBOOK_CONFIG (if set), then by WORKBOOK_LISTEN_ADDR,
// WORKBOOK_DB_PATH, WORKBOOK_DATA_FILE and WORKBOOK_LOAD_POLICY.
func Load() (*Config, error) {
	cfg := Default()

	if path, ok := os.LookupEnv("WORKBOOK_CONFIG"); ok && path != "" {
		if err := loadFile(path, &cfg); err != nil {
			return nil, err
		}
	}

	if v, ok := os.LookupEnv("WORKBOOK_LISTEN_ADDR"); ok {
		cfg.ListenAddr = v
	}
	if v, ok := os.LookupEnv("WORKBOOK_DB_PATH"); ok {
		cfg.DBPath = v
	}
	if v, ok := os.LookupEnv("WORKBOOK_DATA_FILE"); ok {
		cfg.DataFile = v
	}
	if v, ok := os.LookupEnv("WORKBOOK_LOAD_POLICY"); ok {
		cfg.LoadPolicy = v
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	if c.ListenAddr == "" {
		return errors.New("config: listen_addr cannot be empty")
	}
	if c.DBPath == "" {
		return errors.New("config: db_path cannot be empty")
	}
	if c.DataFile == "" {
		return errors.New("config: data_file cannot be empty")
	}
	switch c.LoadPolicy {
	case LoadPolicyAbort, LoadPolicySkip:
	default:
		return fmt.Errorf("config: load_policy must be %q or %q, got %q", LoadPolicyAbort, LoadPolicySkip, c.LoadPolicy)
	}
	return nil
}

// loadFile decodes the YAML file at path over cfg. Unknown keys are rejected.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: reading %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		// Empty and comment-only files decode to EOF.
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return nil
}
