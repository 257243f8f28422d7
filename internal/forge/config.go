package forge

import (
	"errors"
	"os"
	"strings"
	"time"
)

var ErrMissingWebhookURL = errors.New("FORGE_WEBHOOK_URL environment variable is required")

// DefaultTimeout bounds a single webhook round-trip. Generation is slow; edits
// with an uploaded source image even more so.
const DefaultTimeout = 120 * time.Second

// Config holds configuration for the generation webhook.
type Config struct {
	// WebhookURL is the single endpoint performing generation and editing.
	WebhookURL string

	Timeout time.Duration
}

// LoadFromEnv loads webhook configuration from environment variables.
//
// Environment variables:
//   - FORGE_WEBHOOK_URL: the generation/editing webhook endpoint (required)
//   - FORGE_TIMEOUT: request timeout, Go duration syntax (default: 120s)
func LoadFromEnv() Config {
	timeout := DefaultTimeout
	if raw := strings.TrimSpace(os.Getenv("FORGE_TIMEOUT")); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			timeout = parsed
		}
	}

	return Config{
		WebhookURL: strings.TrimSpace(os.Getenv("FORGE_WEBHOOK_URL")),
		Timeout:    timeout,
	}
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	if c.WebhookURL == "" {
		return ErrMissingWebhookURL
	}
	return nil
}
