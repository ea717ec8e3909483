package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/ariefcatur/go-storefront/internal/audit"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/events"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &audit.Service{
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-auditor",
	}

	// satu consumer per topic, group yang sama
	g, gctx := errgroup.WithContext(ctx)
	for _, topic := range []string{events.TopicOrderCompleted, events.TopicOrderFailed} {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, cfg.AuditorGroup, topic, cfg.AuditorWorkers)
		g.Go(func() error {
			log.Printf("auditor consumer started: group=%s topic=%s workers=%d", cfg.AuditorGroup, topic, cfg.AuditorWorkers)
			return cons.Start(gctx, svc.HandleCheckoutEvent)
		})
	}

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		log.Printf("consumer exit: %v", err)
	}
	log.Println("auditor stopped")
}
