package checkout

import (
	"encoding/json"
	"time"
)

const (
	TopicOrderCreated = "checkout.order.created"
	TopicOrderUpdated = "checkout.order.updated"
)

const (
	EventOrderCreated = "OrderCreated"
	EventOrderUpdated = "OrderStatusUpdated"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // referenceSale
	Payload       json.RawMessage `json:"payload"`
}

type OrderCreatedPayload struct {
	OrderID       string `json:"order_id"`
	Reference     string `json:"reference"`
	TransactionID string `json:"transaction_id"`
	AmountCents   int64  `json:"amount_cents"`
	Currency      string `json:"currency"`
	CustomerEmail string `json:"customer_email"`
}

type OrderUpdatedPayload struct {
	OrderID       string `json:"order_id"`
	Reference     string `json:"reference"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
}

// Partition key = referenceSale, so every event of one checkout keeps order.
func PartitionKey(reference string) []byte { return []byte(reference) }
