package checkout

import (
	"context"

	"github.com/ariefcatur/go-storefront/internal/paypal"
)

// Store is the durable key-value state of a session: one pending cart
// snapshot and the purchase history.
type Store interface {
	SaveSnapshot(ctx context.Context, sessionID string, items []LineItem) error
	// LoadSnapshot returns nil, nil when no snapshot exists.
	LoadSnapshot(ctx context.Context, sessionID string) ([]LineItem, error)
	DeleteSnapshot(ctx context.Context, sessionID string) error

	LoadHistory(ctx context.Context, sessionID string) ([]HistoryEntry, error)
	SaveHistory(ctx context.Context, sessionID string, entries []HistoryEntry) error
}

// Processor is the payment processor as seen by the checkout flow.
type Processor interface {
	CreateOrder(ctx context.Context, in paypal.OrderRequest) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.Order, error)
}

// OutcomeSink is told about every terminal outcome of the return handler.
type OutcomeSink interface {
	OutcomeReached(ctx context.Context, sessionID string, out Outcome)
}
