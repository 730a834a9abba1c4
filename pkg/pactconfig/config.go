// Package pactconfig loads pactverify's configuration from a YAML file,
// environment variables, and CLI flags, in that increasing order of
// precedence, mirroring the teacher's config/env/flag layering.
package pactconfig

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Source names where a config field's effective value came from, for
// diagnostics (pactverify -v prints these).
const (
	SourceDefault = "default"
	SourceFile    = "file"
	SourceEnv     = "env"
	SourceFlag    = "flag"
)

// Config is the full set of settings a verification run needs, however they
// were gathered.
type Config struct {
	ProviderName      string            `yaml:"providerName"`
	ProviderBaseURL   string            `yaml:"providerBaseURL"`
	ProviderSetupURL  string            `yaml:"providerSetupURL"`
	BrokerURL         string            `yaml:"brokerURL"`
	BrokerToken       string            `yaml:"brokerToken"`
	LocalPact         string            `yaml:"localPact"`
	ConsumerName      string            `yaml:"consumerName"`
	PublishResults    bool              `yaml:"publishResults"`
	ProviderVersion   string            `yaml:"providerVersion"`
	CustomHeaders     map[string]string `yaml:"customHeaders"`
	Verbose           bool              `yaml:"verbose"`

	Sources map[string]string `yaml:"-"`
}

// DefaultFileName is the config file pactverify init writes and verify reads
// by default when --config isn't given.
const DefaultFileName = ".pactverify.yaml"

// Default returns a Config with every field at its zero value, stamped as
// coming from defaults.
func Default() *Config {
	return &Config{Sources: map[string]string{}}
}

// LoadFile reads and parses a YAML config file, stamping every field it sets
// as SourceFile. A missing file is not an error — callers fall back to flags
// and env vars only.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("pactconfig: reading %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("pactconfig: parsing %s: %w", path, err)
	}

	for _, field := range []struct {
		name string
		set  bool
	}{
		{"providerName", cfg.ProviderName != ""},
		{"providerBaseURL", cfg.ProviderBaseURL != ""},
		{"providerSetupURL", cfg.ProviderSetupURL != ""},
		{"brokerURL", cfg.BrokerURL != ""},
		{"brokerToken", cfg.BrokerToken != ""},
		{"localPact", cfg.LocalPact != ""},
		{"consumerName", cfg.ConsumerName != ""},
		{"publishResults", cfg.PublishResults},
		{"providerVersion", cfg.ProviderVersion != ""},
		{"customHeaders", len(cfg.CustomHeaders) > 0},
		{"verbose", cfg.Verbose},
	} {
		if field.set {
			cfg.Sources[field.name] = SourceFile
		}
	}
	return cfg, nil
}

// Save writes cfg to path as YAML, used by `pactverify init`.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("pactconfig: marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("pactconfig: writing %s: %w", path, err)
	}
	return nil
}
