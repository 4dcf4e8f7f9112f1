package webhook

import "encoding/json"

// DecodeError indicates the request body failed JSON parsing or schema
// validation. The reason is safe to return to the sender.
type DecodeError struct {
	Reason string
}

func (e *DecodeError) Error() string {
	return "invalid payload: " + e.Reason
}

// Envelope is a decoded webhook body: an event name plus a typed data block.
type Envelope interface {
	EventName() string
	// Payload returns the inner data block for dispatch. Callers hand this,
	// not the envelope, to the event bus.
	Payload() any
	Validate() error
}

// Schema produces a fresh empty envelope to decode into.
type Schema func() Envelope

// SchemaFor returns the envelope schema for a known event name, or nil for
// unknown events (callers then decode in loose mode).
func SchemaFor(event string) Schema {
	switch event {
	case EventOrderCreated, EventOrderUpdated, EventOrderCancelled:
		return func() Envelope { return &OrderWebhook{} }
	case EventPaymentSuccessful, EventPaymentFailed:
		return func() Envelope { return &PaymentWebhook{} }
	}
	return nil
}

// Decode parses rawBody as JSON and validates it against the schema.
// Unknown fields are ignored; a missing required field or a type mismatch
// fails with DecodeError and no partial object is returned.
//
// With a nil schema Decode runs in loose mode: the decoded JSON value is
// returned unchanged, for contexts where typed validation is not required.
func Decode(rawBody []byte, schema Schema) (any, error) {
	if schema == nil {
		var v any
		if err := json.Unmarshal(rawBody, &v); err != nil {
			return nil, &DecodeError{Reason: err.Error()}
		}
		return v, nil
	}

	env := schema()
	if err := json.Unmarshal(rawBody, env); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	if err := env.Validate(); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	return env, nil
}
