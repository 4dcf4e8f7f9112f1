package eventlog

import (
	"context"
	"testing"

	"github.com/erickweyunga/ghala-hooks/internal/events"
	"github.com/erickweyunga/ghala-hooks/internal/webhook"
)

func TestNew(t *testing.T) {
	p := New()

	if p.Name != "eventlog" {
		t.Errorf("Name = %q, want eventlog", p.Name)
	}
	if !p.Active {
		t.Error("eventlog should be active by default")
	}
	if len(p.Subscriptions) != 1 {
		t.Fatalf("subscriptions = %d, want 1", len(p.Subscriptions))
	}
	if p.Subscriptions[0].Event != events.Wildcard {
		t.Errorf("subscription event = %q, want wildcard", p.Subscriptions[0].Event)
	}
}

func TestHandlerAcceptsAllPayloadShapes(t *testing.T) {
	h := New().Subscriptions[0].Handler
	meta := events.Meta{Event: "order.created", DeliveryID: "dlv-1"}

	orderID := int64(42)
	total := 9.99
	payloads := []any{
		&webhook.OrderData{OrderID: &orderID, Total: &total},
		&webhook.PaymentData{OrderID: &orderID, PaymentID: "p1", Status: "completed"},
		map[string]any{"loose": true},
		nil,
	}

	for _, payload := range payloads {
		if err := h(context.Background(), payload, meta); err != nil {
			t.Errorf("handler returned error for %T: %v", payload, err)
		}
	}
}
