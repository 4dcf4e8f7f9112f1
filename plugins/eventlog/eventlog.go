// Package eventlog provides the built-in event logging plugin: a wildcard
// subscriber that records every dispatched event with its key identifiers.
package eventlog

import (
	"context"

	"github.com/erickweyunga/ghala-hooks/internal/events"
	"github.com/erickweyunga/ghala-hooks/internal/log"
	"github.com/erickweyunga/ghala-hooks/internal/plugin"
	"github.com/erickweyunga/ghala-hooks/internal/webhook"
)

// New returns the eventlog plugin, active by default. Deactivate it via
// plugins.eventlog.active in the config file.
func New() *plugin.Plugin {
	logger := log.WithPlugin("eventlog")

	handler := func(ctx context.Context, payload any, meta events.Meta) error {
		switch data := payload.(type) {
		case *webhook.OrderData:
			logger.Info("order event",
				"event", meta.Event,
				"delivery_id", meta.DeliveryID,
				"order_id", int64Value(data.OrderID),
				"total", floatValue(data.Total),
				"products", len(data.Products),
			)
		case *webhook.PaymentData:
			logger.Info("payment event",
				"event", meta.Event,
				"delivery_id", meta.DeliveryID,
				"order_id", int64Value(data.OrderID),
				"payment_id", data.PaymentID,
				"status", data.Status,
				"currency", data.Currency,
			)
		default:
			logger.Info("event",
				"event", meta.Event,
				"delivery_id", meta.DeliveryID,
			)
		}
		return nil
	}

	return &plugin.Plugin{
		Name:        "eventlog",
		Description: "Logs every dispatched webhook event",
		Active:      true,
		Subscriptions: []plugin.Subscription{
			{Event: events.Wildcard, Handler: handler},
		},
	}
}

func int64Value(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}

func floatValue(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
