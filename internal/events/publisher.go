package events

import (
	"context"
	"log"
	"time"

	"github.com/ariefcatur/go-storefront/internal/checkout"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
)

// Sender is satisfied by *kafka.Producer.
type Sender interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafkago.Header) error
}

// Publisher turns return-handler outcomes into checkout events.
type Publisher struct {
	Completed Sender
	Failed    Sender
	Service   string
}

var _ checkout.OutcomeSink = (*Publisher)(nil)

// OutcomeReached never fails the page load; publish errors are only logged.
func (p *Publisher) OutcomeReached(ctx context.Context, sessionID string, out checkout.Outcome) {
	var (
		sender    Sender
		eventType string
		payload   any
	)
	switch out.State {
	case checkout.StateCompleted:
		pl := OrderCompletedPayload{OrderID: out.OrderID, SessionID: sessionID}
		if out.Entry != nil {
			pl.ItemCount = len(out.Entry.Items)
			pl.Total = out.Entry.Total.StringFixed(2)
			pl.Recorded = true
		}
		sender, eventType, payload = p.Completed, EventOrderCompleted, pl
	case checkout.StateFailed:
		sender, eventType, payload = p.Failed, EventOrderFailed, OrderFailedPayload{
			OrderID:   out.OrderID,
			SessionID: sessionID,
			Status:    out.Status,
			Reason:    out.Message,
		}
	default:
		return
	}
	if sender == nil {
		return
	}

	ev := Envelope{
		EventID:       uuid.NewString(),
		EventType:     eventType,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      p.Service,
		TraceID:       middleware.GetReqID(ctx),
		CorrelationID: out.OrderID,
		Payload:       kafkax.MustMarshal(payload),
	}
	err := sender.Publish(ctx, PartitionKey(out.OrderID), kafkax.MustMarshal(ev),
		kafkago.Header{Key: "x-event-type", Value: []byte(eventType)},
		kafkago.Header{Key: "x-event-version", Value: []byte("1")},
	)
	if err != nil {
		log.Printf("publish %s order=%s: %v", eventType, out.OrderID, err)
	}
}
