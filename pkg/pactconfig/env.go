package pactconfig

import (
	"os"
	"strings"
)

// Environment variable names pactverify honours, each overriding the config
// file's value but yielding to an explicit CLI flag.
const (
	EnvBrokerURL    = "PACT_BROKER_URL"
	EnvBrokerToken  = "PACT_BROKER_TOKEN"
	EnvExtraHeader  = "PROVIDER_EXTRA_HEADER"
	EnvUseMockingSv = "PACT_USE_MOCKING_SERVER"
)

// MergeEnv overlays environment variables onto cfg, stamping each field it
// touches as SourceEnv. Only variables actually present in the environment
// are applied.
func MergeEnv(cfg *Config) {
	if cfg.Sources == nil {
		cfg.Sources = map[string]string{}
	}

	if v := os.Getenv(EnvBrokerURL); v != "" {
		cfg.BrokerURL = v
		cfg.Sources["brokerURL"] = SourceEnv
	}
	if v := os.Getenv(EnvBrokerToken); v != "" {
		cfg.BrokerToken = v
		cfg.Sources["brokerToken"] = SourceEnv
	}
	if v := os.Getenv(EnvExtraHeader); v != "" {
		name, value, ok := splitHeader(v)
		if ok {
			if cfg.CustomHeaders == nil {
				cfg.CustomHeaders = map[string]string{}
			}
			cfg.CustomHeaders[name] = value
			cfg.Sources["customHeaders"] = SourceEnv
		}
	}
}

// UseMockingServer reports whether PACT_USE_MOCKING_SERVER is set to "true",
// "1" or "yes". No package in this module calls it: pkg/consumer's transport
// always listens on an ephemeral port, whatever the variable says.
func UseMockingServer() bool {
	v := os.Getenv(EnvUseMockingSv)
	return v == "true" || v == "1" || v == "yes"
}

func splitHeader(raw string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(raw, ":")
	return name, strings.TrimSpace(value), ok
}
