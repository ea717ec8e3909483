package checkout

import (
	"context"
	"fmt"

	"github.com/ariefcatur/go-storefront/internal/apperr"
)

// Created is what the caller needs to send the user off to approve payment.
type Created struct {
	OrderID         string `json:"order_id"`
	Status          string `json:"status"`
	ApprovalURL     string `json:"approval_url"`
	SettlementTotal string `json:"settlement_total"`
	DisplayTotal    string `json:"display_total"`
}

type Creator struct {
	Processor Processor
	Store     Store
	Rates     Rates

	// Origin (scheme://host) the return page must be served from; empty allows any.
	Origin string
}

// Create validates the cart, persists its snapshot and creates the order.
// The snapshot is written before the order is submitted, so it exists by the
// time the user is redirected to the approval page.
func (c *Creator) Create(ctx context.Context, s *Session, pageURL string) (*Created, error) {
	if s.Cart.Len() == 0 {
		return nil, apperr.New(apperr.KindValidation, "Your cart is empty.")
	}
	total := s.Cart.Total()
	if !total.IsPositive() {
		return nil, apperr.New(apperr.KindValidation, "Cart total must be greater than zero.")
	}
	returnURL, err := StripURL(pageURL)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindValidation, err)
	}
	if c.Origin != "" && !SameOrigin(returnURL, c.Origin) {
		return nil, apperr.New(apperr.KindValidation, "Return page must be on "+c.Origin+".")
	}

	items := s.Cart.Snapshot()
	req := BuildOrderRequest(items, c.Rates, returnURL)

	if err := c.Store.SaveSnapshot(ctx, s.ID, items); err != nil {
		return nil, fmt.Errorf("save cart snapshot: %w", err)
	}

	order, err := c.Processor.CreateOrder(ctx, req)
	if err != nil {
		return nil, err
	}
	link, ok := order.ApprovalLink()
	if !ok {
		return nil, apperr.New(apperr.KindMissingApprovalLink, "No approval link returned for order "+order.ID)
	}

	return &Created{
		OrderID:         order.ID,
		Status:          order.Status,
		ApprovalURL:     link,
		SettlementTotal: req.PurchaseUnits[0].Amount.Value,
		DisplayTotal:    total.StringFixed(2),
	}, nil
}
