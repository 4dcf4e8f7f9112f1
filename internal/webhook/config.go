package webhook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/erickweyunga/ghala-hooks/internal/config"
)

// FromGlobalConfig converts config.WebhooksConfig to webhook.Config.
// Every supported event must resolve to a non-empty secret; a missing
// secret is a fatal configuration error, not a runtime fallback.
func FromGlobalConfig(wc *config.WebhooksConfig) (Config, error) {
	if wc == nil {
		return Config{}, fmt.Errorf("webhooks config is nil")
	}

	maxBodySize, err := parseMaxBodySize(wc.MaxBodySize)
	if err != nil {
		return Config{}, fmt.Errorf("invalid max_body_size %q: %w", wc.MaxBodySize, err)
	}

	secrets := make(map[string]string, len(Events()))
	for _, event := range Events() {
		secret, ok := wc.Secrets[event]
		if !ok || strings.TrimSpace(secret) == "" {
			return Config{}, fmt.Errorf("no secret configured for event %q (set webhooks.secrets[%q])", event, event)
		}
		secrets[event] = secret
	}

	for event := range wc.Secrets {
		if _, ok := secrets[event]; !ok {
			return Config{}, fmt.Errorf("secret configured for unknown event %q", event)
		}
	}

	maxAge := wc.MaxTimestampAge
	if maxAge == 0 {
		maxAge = DefaultMaxTimestampAge
	}

	return Config{
		Listen:          wc.Listen,
		MaxBodySize:     maxBodySize,
		MaxTimestampAge: maxAge,
		DispatchTimeout: wc.DispatchTimeout,
		Secrets:         secrets,
	}, nil
}

// parseMaxBodySize parses size strings like "1MB", "64KB", "2048576" to bytes.
// Returns DefaultMaxBodySize if empty.
func parseMaxBodySize(size string) (int64, error) {
	if size == "" {
		return DefaultMaxBodySize, nil
	}

	upper := strings.ToUpper(size)
	multiplier := int64(1)

	if strings.HasSuffix(upper, "KB") {
		multiplier = 1024
		size = strings.TrimSuffix(upper, "KB")
	} else if strings.HasSuffix(upper, "MB") {
		multiplier = 1024 * 1024
		size = strings.TrimSuffix(upper, "MB")
	} else if strings.HasSuffix(upper, "GB") {
		multiplier = 1024 * 1024 * 1024
		size = strings.TrimSuffix(upper, "GB")
	}

	value, err := strconv.ParseInt(strings.TrimSpace(size), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value: %w", err)
	}

	if value <= 0 {
		return 0, fmt.Errorf("size must be positive")
	}

	result := value * multiplier
	if result < 0 { // Check for overflow
		return 0, fmt.Errorf("size too large")
	}

	return result, nil
}
