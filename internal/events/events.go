package events

import (
	"encoding/json"
	"time"
)

const (
	EventOrderCompleted = "CheckoutOrderCompleted"
	EventOrderFailed    = "CheckoutOrderFailed"
)

const (
	TopicOrderCompleted = "checkout.order.completed"
	TopicOrderFailed    = "checkout.order.failed"
)

// Partition key = order_id, supaya semua event 1 order maintain urutan.
func PartitionKey(orderID string) []byte { return []byte(orderID) }

type Envelope struct {
	EventID       string          `json:"event_id"`      // uuid
	EventType     string          `json:"event_type"`    // salah satu const di atas
	EventVersion  int             `json:"event_version"` // 1
	OccurredAt    time.Time       `json:"occurred_at"`   // RFC3339
	Producer      string          `json:"producer"`      // e.g., "storefront-api"
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // order_id
	Payload       json.RawMessage `json:"payload"`
}

type OrderCompletedPayload struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
	ItemCount int    `json:"item_count"`
	Total     string `json:"total,omitempty"` // display currency, from the snapshot
	Recorded  bool   `json:"recorded"`        // history entry appended
}

type OrderFailedPayload struct {
	OrderID   string `json:"order_id"`
	SessionID string `json:"session_id"`
	Status    string `json:"status,omitempty"` // processor status when capture returned one
	Reason    string `json:"reason"`
}
