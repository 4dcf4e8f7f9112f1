package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// Load reads and parses configuration from a file.
// Environment variable references of the form ${VAR} are interpolated
// before parsing, so secrets can live outside the file.
func Load(configPath string) (*Config, error) {
	// Resolve to absolute path for consistent error messages
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve config path %q: %w", configPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return nil, fmt.Errorf("config file not found: %s\n"+
			"Hint: Check the path or run with --config flag", absPath)
	}

	if info.IsDir() {
		// Directory provided - look for config.yaml inside
		absPath = filepath.Join(absPath, "config.yaml")
		if _, err := os.Stat(absPath); err != nil {
			return nil, fmt.Errorf("directory provided but config.yaml not found: %s", absPath)
		}
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	interpolated := interpolateEnv(string(data))

	cfg := Defaults()
	if err := yaml.Unmarshal([]byte(interpolated), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	applyDefaults(cfg)

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// DiscoverConfigPath finds the config file by checking standard locations.
// Priority order: $GHALA_HOOKS_CONFIG, ~/.config/ghala-hooks/config.yaml, ./config.yaml
func DiscoverConfigPath() (string, error) {
	if path := os.Getenv("GHALA_HOOKS_CONFIG"); path != "" {
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}

	if homeDir, err := os.UserHomeDir(); err == nil {
		userConfig := filepath.Join(homeDir, ".config", "ghala-hooks", "config.yaml")
		if _, err := os.Stat(userConfig); err == nil {
			return userConfig, nil
		}
	}

	legacyConfigPath := "./config.yaml"
	if _, err := os.Stat(legacyConfigPath); err == nil {
		return legacyConfigPath, nil
	}

	return "", fmt.Errorf("no config found (checked: $GHALA_HOOKS_CONFIG, ~/.config/ghala-hooks, ./config.yaml)")
}

// interpolateEnv replaces ${VAR} references with environment values.
// Unset variables interpolate to the empty string; validation downstream
// catches secrets that resolved empty.
func interpolateEnv(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		name := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(name)
	})
}

// applyDefaults fills zero values left by an explicit but partial config.
func applyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "ghala-hooks"
	}
	if cfg.Service.LogLevel == "" {
		cfg.Service.LogLevel = "INFO"
	}
	if cfg.Webhooks.Listen == "" {
		cfg.Webhooks.Listen = "127.0.0.1:8080"
	}
	if cfg.Webhooks.MaxBodySize == "" {
		cfg.Webhooks.MaxBodySize = "1MB"
	}
	if cfg.Webhooks.MaxTimestampAge == 0 {
		cfg.Webhooks.MaxTimestampAge = 5 * time.Minute
	}
}

// validate checks structural configuration constraints. Per-event secret
// resolution happens in the webhook package, which knows the event set.
func validate(cfg *Config) error {
	if strings.TrimSpace(cfg.Webhooks.Listen) == "" {
		return fmt.Errorf("webhooks.listen is required")
	}
	if len(cfg.Webhooks.Secrets) == 0 {
		return fmt.Errorf("webhooks.secrets is required (one secret per event)")
	}
	if cfg.Webhooks.MaxTimestampAge < 0 {
		return fmt.Errorf("webhooks.max_timestamp_age must not be negative")
	}
	if cfg.Webhooks.DispatchTimeout < 0 {
		return fmt.Errorf("webhooks.dispatch_timeout must not be negative")
	}
	return nil
}
