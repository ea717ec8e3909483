package checkout

import (
	"context"
	"fmt"
	"time"
)

// Recorder prepends completed orders to the purchase history.
type Recorder struct {
	Store Store
	Now   func() time.Time
}

// Record adds an entry for orderID unless one is already present, which can
// happen when a capture is replayed after an interrupted return. The bool
// reports whether a new entry was written.
func (r *Recorder) Record(ctx context.Context, sessionID, orderID string, items []LineItem) (HistoryEntry, bool, error) {
	history, err := r.Store.LoadHistory(ctx, sessionID)
	if err != nil {
		return HistoryEntry{}, false, fmt.Errorf("load history: %w", err)
	}
	for _, e := range history {
		if e.OrderID == orderID {
			return e, false, nil
		}
	}

	entry := HistoryEntry{
		OrderID:   orderID,
		Timestamp: r.now(),
		Items:     items,
		Total:     Sum(items),
	}
	next := make([]HistoryEntry, 0, len(history)+1)
	next = append(next, entry)
	next = append(next, history...)

	if err := r.Store.SaveHistory(ctx, sessionID, next); err != nil {
		return HistoryEntry{}, false, fmt.Errorf("save history: %w", err)
	}
	return entry, true, nil
}

func (r *Recorder) now() time.Time {
	if r.Now != nil {
		return r.Now().UTC()
	}
	return time.Now().UTC()
}
