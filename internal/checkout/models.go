package checkout

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// LineItem is one product in a cart. Price is in display currency.
type LineItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Description string          `json:"description"`
}

// Cart is the live, session-owned list of line items.
type Cart struct {
	Items []LineItem `json:"items"`
}

func (c *Cart) Add(it LineItem) { c.Items = append(c.Items, it) }

func (c *Cart) Remove(i int) error {
	if i < 0 || i >= len(c.Items) {
		return fmt.Errorf("cart index %d out of range", i)
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return nil
}

func (c *Cart) Clear() { c.Items = nil }

func (c *Cart) Len() int { return len(c.Items) }

func (c *Cart) Total() decimal.Decimal { return Sum(c.Items) }

// Snapshot copies the items so later cart mutations do not leak into it.
func (c *Cart) Snapshot() []LineItem {
	out := make([]LineItem, len(c.Items))
	copy(out, c.Items)
	return out
}

func Sum(items []LineItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.Price)
	}
	return total
}

// HistoryEntry is one completed purchase.
type HistoryEntry struct {
	OrderID   string          `json:"order_id"`
	Timestamp time.Time       `json:"timestamp"`
	Items     []LineItem      `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// Session is the per-browser state every checkout component works on.
type Session struct {
	ID   string
	Cart Cart
}
