package webhook

import "fmt"

// Event names dispatched by Ghala. One webhook route and one secret each.
const (
	EventOrderCreated      = "order.created"
	EventOrderUpdated      = "order.updated"
	EventOrderCancelled    = "order.cancelled"
	EventPaymentSuccessful = "payment.successful"
	EventPaymentFailed     = "payment.failed"
)

// Events returns all supported event names in a stable order.
func Events() []string {
	return []string{
		EventOrderCreated,
		EventOrderUpdated,
		EventOrderCancelled,
		EventPaymentSuccessful,
		EventPaymentFailed,
	}
}

// Customer identifies the buyer on order and payment events.
type Customer struct {
	Name        string `json:"name"`
	Phone       string `json:"phone,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Email       string `json:"email,omitempty"`
}

func (c *Customer) validate(path string) error {
	if c.Name == "" {
		return fmt.Errorf("%s.name is required", path)
	}
	return nil
}

// Product is a single line item on an order. Required numeric fields are
// pointers so a missing key is distinguishable from a legitimate zero.
type Product struct {
	ID                        *int64   `json:"id,omitempty"`
	Name                      string   `json:"name"`
	Price                     *float64 `json:"price"`
	UniqueID                  string   `json:"unique_id,omitempty"`
	DiscountAmount            float64  `json:"discount_amount,omitempty"`
	AdditionalCost            float64  `json:"additional_cost,omitempty"`
	AdditionalCostDescription string   `json:"additional_cost_description,omitempty"`
	Quantity                  *float64 `json:"quantity"`
}

func (p *Product) validate(path string) error {
	if p.Name == "" {
		return fmt.Errorf("%s.name is required", path)
	}
	if p.Price == nil {
		return fmt.Errorf("%s.price is required", path)
	}
	if p.Quantity == nil {
		return fmt.Errorf("%s.quantity is required", path)
	}
	return nil
}

// OrderData is the data block of order.* events.
type OrderData struct {
	Customer            *Customer `json:"customer"`
	OrderID             *int64    `json:"order_id"`
	Total               *float64  `json:"total"`
	DiscountTotal       float64   `json:"discount_total,omitempty"`
	PromoDiscountAmount float64   `json:"promo_discount_amount,omitempty"`
	Products            []Product `json:"products"`
}

func (d *OrderData) validate() error {
	if d.Customer == nil {
		return fmt.Errorf("data.customer is required")
	}
	if err := d.Customer.validate("data.customer"); err != nil {
		return err
	}
	if d.OrderID == nil {
		return fmt.Errorf("data.order_id is required")
	}
	if d.Total == nil {
		return fmt.Errorf("data.total is required")
	}
	if d.Products == nil {
		return fmt.Errorf("data.products is required")
	}
	for i := range d.Products {
		if err := d.Products[i].validate(fmt.Sprintf("data.products[%d]", i)); err != nil {
			return err
		}
	}
	return nil
}

// PaymentData is the data block of payment.* events.
type PaymentData struct {
	OrderID   *int64    `json:"order_id"`
	Amount    *float64  `json:"amount"`
	Currency  string    `json:"currency"`
	PaymentID string    `json:"payment_id"`
	Status    string    `json:"status"`
	Customer  *Customer `json:"customer"`
}

func (d *PaymentData) validate() error {
	if d.OrderID == nil {
		return fmt.Errorf("data.order_id is required")
	}
	if d.Amount == nil {
		return fmt.Errorf("data.amount is required")
	}
	if d.Currency == "" {
		return fmt.Errorf("data.currency is required")
	}
	if d.PaymentID == "" {
		return fmt.Errorf("data.payment_id is required")
	}
	if d.Status == "" {
		return fmt.Errorf("data.status is required")
	}
	if d.Customer == nil {
		return fmt.Errorf("data.customer is required")
	}
	return d.Customer.validate("data.customer")
}

// OrderWebhook is the envelope for order.* events.
type OrderWebhook struct {
	Event     string     `json:"event"`
	Timestamp *float64   `json:"timestamp,omitempty"`
	Data      *OrderData `json:"data"`
}

// EventName returns the event name carried in the envelope.
func (w *OrderWebhook) EventName() string { return w.Event }

// Payload returns the inner data block; this is what gets dispatched,
// not the envelope.
func (w *OrderWebhook) Payload() any { return w.Data }

// Validate checks envelope shape and required fields.
func (w *OrderWebhook) Validate() error {
	if w.Event == "" {
		return fmt.Errorf("event is required")
	}
	if w.Data == nil {
		return fmt.Errorf("data is required")
	}
	return w.Data.validate()
}

// PaymentWebhook is the envelope for payment.* events.
type PaymentWebhook struct {
	Event     string       `json:"event"`
	Timestamp *float64     `json:"timestamp,omitempty"`
	Data      *PaymentData `json:"data"`
}

// EventName returns the event name carried in the envelope.
func (w *PaymentWebhook) EventName() string { return w.Event }

// Payload returns the inner data block.
func (w *PaymentWebhook) Payload() any { return w.Data }

// Validate checks envelope shape and required fields.
func (w *PaymentWebhook) Validate() error {
	if w.Event == "" {
		return fmt.Errorf("event is required")
	}
	if w.Data == nil {
		return fmt.Errorf("data is required")
	}
	return w.Data.validate()
}
