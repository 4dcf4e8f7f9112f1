package webhook

import (
	"context"
	"time"

	"github.com/erickweyunga/ghala-hooks/internal/events"
)

// EventDispatcher defines the interface for delivering decoded events to
// registered handlers.
type EventDispatcher interface {
	Dispatch(ctx context.Context, event string, payload any, meta events.Meta) error
}

// Config holds webhook server configuration.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string

	// MaxBodySize is the maximum allowed request body size in bytes.
	MaxBodySize int64

	// MaxTimestampAge is the replay-protection freshness window.
	MaxTimestampAge time.Duration

	// DispatchTimeout bounds a single dispatch across all handlers.
	// Zero means no bound.
	DispatchTimeout time.Duration

	// Secrets maps each event name to its HMAC signing secret.
	// Every supported event must have a non-empty secret.
	Secrets map[string]string
}

// AckResponse is the JSON response for verified webhooks.
type AckResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON response for rejected webhooks.
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// Default values
const (
	DefaultMaxBodySize = 1048576 // 1 MB
	BasePath           = "/ghala/webhook"
)
