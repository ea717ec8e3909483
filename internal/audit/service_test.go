package audit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/ariefcatur/go-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) (*Service, *Stats) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return &Service{Redis: client, ServiceName: "auditor"}, &Stats{Redis: client}
}

func message(eventID, eventType string, payload any) kafkago.Message {
	env := events.Envelope{
		EventID:      eventID,
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Payload:      kafkax.MustMarshal(payload),
	}
	return kafkago.Message{Value: kafkax.MustMarshal(env)}
}

func TestHandleCheckoutEvent_CountsAndDedups(t *testing.T) {
	svc, stats := setup(t)
	ctx := context.Background()

	done := message("ev-1", events.EventOrderCompleted, events.OrderCompletedPayload{OrderID: "A", Recorded: true})
	require.NoError(t, svc.HandleCheckoutEvent(ctx, done))
	require.NoError(t, svc.HandleCheckoutEvent(ctx, done)) // redelivery
	require.NoError(t, svc.HandleCheckoutEvent(ctx, message("ev-2", events.EventOrderCompleted, events.OrderCompletedPayload{OrderID: "B"})))
	require.NoError(t, svc.HandleCheckoutEvent(ctx, message("ev-3", events.EventOrderFailed, events.OrderFailedPayload{OrderID: "C", Reason: "declined"})))

	got, err := stats.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]int64{FieldCompleted: 2, FieldFailed: 1, FieldRecorded: 1}, got)
}

func TestHandleCheckoutEvent_IgnoresUnknownType(t *testing.T) {
	svc, stats := setup(t)
	ctx := context.Background()

	require.NoError(t, svc.HandleCheckoutEvent(ctx, message("ev-9", "SomethingElse", map[string]string{})))

	got, err := stats.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), got[FieldCompleted])
	assert.Equal(t, int64(0), got[FieldFailed])
}

func TestHandleCheckoutEvent_BadJSON(t *testing.T) {
	svc, _ := setup(t)
	err := svc.HandleCheckoutEvent(context.Background(), kafkago.Message{Value: []byte("{")})
	assert.Error(t, err)
}

func TestHandleCheckoutEvent_FailedCountIsRetried(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc, stats := &Service{Redis: client, ServiceName: "auditor"}, &Stats{Redis: client}
	ctx := context.Background()

	// counters key holds the wrong type, so HINCRBY fails
	require.NoError(t, mr.Set(redisx.KeyCheckoutStats, "oops"))
	msg := message("ev-7", events.EventOrderFailed, events.OrderFailedPayload{OrderID: "D"})
	require.Error(t, svc.HandleCheckoutEvent(ctx, msg))
	assert.False(t, mr.Exists("dedup:auditor:ev-7"))

	mr.Del(redisx.KeyCheckoutStats)
	require.NoError(t, svc.HandleCheckoutEvent(ctx, msg))

	got, err := stats.Read(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), got[FieldFailed])
}
