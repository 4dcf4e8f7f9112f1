package config

import "time"

// Config represents the complete ghala-hooks configuration.
type Config struct {
	Service  ServiceConfig         `yaml:"service"`
	Webhooks WebhooksConfig        `yaml:"webhooks"`
	Plugins  map[string]PluginConf `yaml:"plugins,omitempty"`
}

// ServiceConfig defines core service settings.
type ServiceConfig struct {
	Name     string `yaml:"name"`
	LogLevel string `yaml:"log_level"`
}

// WebhooksConfig defines the webhook listener settings.
type WebhooksConfig struct {
	Listen string `yaml:"listen"`

	// MaxBodySize is the maximum request body size, e.g. "1MB" or "65536".
	MaxBodySize string `yaml:"max_body_size,omitempty"`

	// MaxTimestampAge is the replay-protection freshness window.
	MaxTimestampAge time.Duration `yaml:"max_timestamp_age,omitempty"`

	// DispatchTimeout bounds a single event dispatch across all handlers.
	// Zero disables the bound.
	DispatchTimeout time.Duration `yaml:"dispatch_timeout,omitempty"`

	// Secrets maps an event name (e.g. "order.created") to its signing
	// secret. Values support ${ENV_VAR} interpolation.
	Secrets map[string]string `yaml:"secrets"`
}

// PluginConf defines configuration for a single plugin.
type PluginConf struct {
	Active *bool          `yaml:"active,omitempty"`
	Config map[string]any `yaml:"config,omitempty"`
}

// IsActive reports whether the plugin is enabled. Absent flag means active.
func (p PluginConf) IsActive() bool {
	return p.Active == nil || *p.Active
}

// ChecksumManifest is the on-disk format of the .checksums file.
type ChecksumManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// Defaults returns a Config with sensible defaults.
func Defaults() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:     "ghala-hooks",
			LogLevel: "INFO",
		},
		Webhooks: WebhooksConfig{
			Listen:          "127.0.0.1:8080",
			MaxBodySize:     "1MB",
			MaxTimestampAge: 5 * time.Minute,
		},
	}
}
