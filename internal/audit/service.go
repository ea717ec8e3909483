package audit

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"

	"github.com/ariefcatur/go-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"
)

const (
	FieldCompleted = "completed"
	FieldFailed    = "failed"
	FieldRecorded  = "recorded"
)

// Service keeps checkout outcome counters from the event stream.
type Service struct {
	Redis       *redis.Client
	ServiceName string
}

// HandleCheckoutEvent: dipasang sebagai handler consumer untuk kedua topic.
func (s *Service) HandleCheckoutEvent(ctx context.Context, m kafkago.Message) error {
	var env events.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup via Redis (pakai event_id); SETNX supaya dua worker tidak dobel hitung
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	fresh, err := s.Redis.SetNX(ctx, dkey, "1", redisx.TTLDedup).Result()
	if err != nil {
		return err
	}
	if !fresh {
		return nil
	}

	if err := s.count(ctx, env); err != nil {
		// lepas kunci dedup supaya redelivery tetap dihitung
		if derr := s.Redis.Del(context.WithoutCancel(ctx), dkey).Err(); derr != nil {
			log.Printf("audit: release dedup key %s: %v", dkey, derr)
		}
		return err
	}
	return nil
}

func (s *Service) count(ctx context.Context, env events.Envelope) error {
	switch env.EventType {
	case events.EventOrderCompleted:
		p, err := kafkax.UnwrapPayload[events.OrderCompletedPayload](env.Payload)
		if err != nil {
			return err
		}
		pipe := s.Redis.TxPipeline()
		pipe.HIncrBy(ctx, redisx.KeyCheckoutStats, FieldCompleted, 1)
		if p.Recorded {
			pipe.HIncrBy(ctx, redisx.KeyCheckoutStats, FieldRecorded, 1)
		}
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		log.Printf("audit: order=%s completed session=%s items=%d total=%s", p.OrderID, p.SessionID, p.ItemCount, p.Total)
	case events.EventOrderFailed:
		p, err := kafkax.UnwrapPayload[events.OrderFailedPayload](env.Payload)
		if err != nil {
			return err
		}
		if err := s.Redis.HIncrBy(ctx, redisx.KeyCheckoutStats, FieldFailed, 1).Err(); err != nil {
			return err
		}
		log.Printf("audit: order=%s failed session=%s status=%s reason=%q", p.OrderID, p.SessionID, p.Status, p.Reason)
	default:
		// ignore
	}
	return nil
}

// Stats reads the counters written by Service.
type Stats struct {
	Redis *redis.Client
}

func (s *Stats) Read(ctx context.Context) (map[string]int64, error) {
	raw, err := s.Redis.HGetAll(ctx, redisx.KeyCheckoutStats).Result()
	if err != nil {
		return nil, err
	}
	out := map[string]int64{FieldCompleted: 0, FieldFailed: 0, FieldRecorded: 0}
	for k, v := range raw {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("stats field %s: %w", k, err)
		}
		out[k] = n
	}
	return out, nil
}
