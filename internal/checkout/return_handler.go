package checkout

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/ariefcatur/go-storefront/internal/paypal"
)

// OrderIDParam is the query parameter the processor appends to the return URL.
const OrderIDParam = "token"

type Outcome struct {
	State   State         `json:"state"`
	OrderID string        `json:"order_id,omitempty"`
	Status  string        `json:"status,omitempty"`
	Message string        `json:"message,omitempty"`
	Entry   *HistoryEntry `json:"entry,omitempty"`

	// RedirectURL is the page address without query and fragment; set on
	// both terminal states so a refresh cannot trigger another capture.
	RedirectURL string `json:"-"`
	Err         error  `json:"-"`
}

func (o *Outcome) advance(to State) {
	if !CanTransition(o.State, to) {
		panic(fmt.Sprintf("checkout: illegal transition %s -> %s", o.State, to))
	}
	o.State = to
}

// ReturnHandler runs on every page load and finishes a pending checkout when
// the processor redirected the user back with an order id.
type ReturnHandler struct {
	Processor Processor
	Store     Store
	History   *Recorder
	Sink      OutcomeSink // optional
}

func (h *ReturnHandler) Handle(ctx context.Context, s *Session, page *url.URL) (out Outcome) {
	out.State = StateIdle
	orderID := page.Query().Get(OrderIDParam)
	if orderID == "" {
		return out
	}
	out.advance(StateCapturing)
	out.OrderID = orderID
	defer h.exit(ctx, s, page, &out)

	items, err := h.Store.LoadSnapshot(ctx, s.ID)
	if err != nil {
		log.Printf("session=%s order=%s load snapshot: %v", s.ID, orderID, err)
		items = nil
	}

	order, err := h.Processor.CaptureOrder(ctx, orderID)
	if err != nil {
		out.advance(StateFailed)
		out.Err = err
		out.Message = "Payment capture failed: " + err.Error()
		return out
	}
	out.Status = order.Status
	if order.Status != paypal.StatusCompleted {
		out.advance(StateFailed)
		out.Message = fmt.Sprintf("Payment not completed. Status: %s", order.Status)
		return out
	}

	out.advance(StateCompleted)
	out.Message = "Payment completed! Order ID: " + orderID
	if amt, ok := order.CapturedAmount(); ok {
		log.Printf("session=%s order=%s captured %s %s", s.ID, orderID, amt.Value, amt.CurrencyCode)
	}
	if len(items) > 0 {
		entry, added, err := h.History.Record(ctx, s.ID, orderID, items)
		switch {
		case err != nil:
			log.Printf("session=%s order=%s record history: %v", s.ID, orderID, err)
			out.Err = err
			out.Message += " (purchase history could not be saved)"
		case added:
			out.Entry = &entry
		default:
			log.Printf("session=%s order=%s already in history, skipped", s.ID, orderID)
		}
	}
	s.Cart.Clear()
	return out
}

// exitTimeout bounds the exit action, which runs even after the request
// context has expired.
const exitTimeout = 2 * time.Second

// exit runs on both terminal states.
func (h *ReturnHandler) exit(parent context.Context, s *Session, page *url.URL, out *Outcome) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(parent), exitTimeout)
	defer cancel()
	if err := h.Store.DeleteSnapshot(ctx, s.ID); err != nil {
		log.Printf("session=%s order=%s delete snapshot: %v", s.ID, out.OrderID, err)
	}
	clean, err := StripURL(page.String())
	if err != nil {
		clean = page.Path
	}
	out.RedirectURL = clean
	if h.Sink != nil {
		h.Sink.OutcomeReached(ctx, s.ID, *out)
	}
}
