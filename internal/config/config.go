// Package config loads the simulator's ambient, non-protocol settings,
// mirroring main.go's getEnv/loadConfig pair and kitchen.go's
// kitchenConfig/shelfConfig YAML-populate pattern from the teacher.
//
// Nothing here ever supplies periodicity, capacity, recipes, lots, or
// orders — those are wire data and always come from stdin per spec §6.
// This is strictly for settings a deployment might want to tune without
// touching the protocol: log verbosity and the name-length ceiling
// mentioned informationally in spec §6.
package config

import (
	"fmt"
	"os"

	"go.uber.org/config"
)

// EnvKey is the environment variable that selects which config/<env>.yaml
// to load, matching the teacher's EnvKey/getEnv convention in main.go.
const EnvKey = "SIMULATOR_ENV"

// Env is the runtime environment name, e.g. "development" or "production".
type Env string

// GetEnv reads EnvKey, defaulting to "development" when unset or empty,
// exactly as the teacher's getEnv does.
func GetEnv() Env {
	env, exists := os.LookupEnv(EnvKey)
	if !exists || len(env) == 0 {
		return "development"
	}
	return Env(env)
}

// Config holds the ambient settings populated from config/<env>.yaml
// under the "simulator" top-level key.
type Config struct {
	LogLevel   string `yaml:"log_level"`
	MaxNameLen int    `yaml:"max_name_len"`
}

// defaults returns a Config with every field set to its documented
// default, used whenever no config file is present for the current env.
func defaults() Config {
	return Config{LogLevel: "info", MaxNameLen: 19}
}

// Load builds a config.Provider for env. Missing files are not an error —
// this mirrors the teacher's loadConfig, except a missing file yields an
// empty provider (all-defaults Config) instead of a YAML-parse failure,
// since unlike the teacher's always-deployed service, this simulator is
// frequently run standalone with no config directory at all.
func Load(env Env) (config.Provider, error) {
	path := fmt.Sprintf("config/%s.yaml", env)
	if _, err := os.Stat(path); err != nil {
		return config.NewYAMLProviderFromBytes([]byte(`simulator: {}`))
	}
	return config.NewYAMLProviderFromFiles(path)
}

// Populate extracts the "simulator" section from provider, filling in any
// field left zero-valued with its default.
func Populate(provider config.Provider) Config {
	cfg := defaults()
	var loaded Config
	if err := provider.Get("simulator").Populate(&loaded); err == nil {
		if loaded.LogLevel != "" {
			cfg.LogLevel = loaded.LogLevel
		}
		if loaded.MaxNameLen != 0 {
			cfg.MaxNameLen = loaded.MaxNameLen
		}
	}
	return cfg
}
