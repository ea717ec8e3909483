package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/ariefcatur/go-storefront/internal/audit"
	"github.com/ariefcatur/go-storefront/internal/catalog"
	"github.com/ariefcatur/go-storefront/internal/checkout"
	"github.com/ariefcatur/go-storefront/internal/config"
	"github.com/ariefcatur/go-storefront/internal/events"
	"github.com/ariefcatur/go-storefront/internal/graph"
	"github.com/ariefcatur/go-storefront/internal/httpx"
	kafkax "github.com/ariefcatur/go-storefront/internal/kafka"
	"github.com/ariefcatur/go-storefront/internal/paypal"
	"github.com/ariefcatur/go-storefront/internal/postgres"
	"github.com/ariefcatur/go-storefront/internal/redisx"
	"github.com/ariefcatur/go-storefront/internal/session"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()
	store := redisx.NewStore(rdb)
	ready := map[string]httpx.Check{
		"redis": func(ctx context.Context) error { return rdb.Ping(ctx).Err() },
	}

	// Catalog: Postgres kalau DSN diisi, selain itu YAML
	var products catalog.Source
	switch {
	case cfg.PostgresDSN != "":
		db, err := postgres.Connect(ctx, cfg.PostgresDSN)
		if err != nil {
			log.Fatalf("db connect: %v", err)
		}
		defer db.Close()
		if err := postgres.EnsureSchema(ctx, db); err != nil {
			log.Fatalf("db: %v", err)
		}
		pg := &catalog.Postgres{DB: db}
		seed, _ := catalog.Default().List(ctx)
		if n, err := pg.SeedIfEmpty(ctx, seed); err != nil {
			log.Fatalf("db: %v", err)
		} else if n > 0 {
			log.Printf("catalog seeded with %d products", n)
		}
		products = pg
		ready["postgres"] = db.Ping
	case cfg.CatalogFile != "":
		c, err := catalog.LoadFile(cfg.CatalogFile)
		if err != nil {
			log.Fatalf("catalog: %v", err)
		}
		products = c
	default:
		products = catalog.Default()
	}

	// Kafka producers: completed & failed
	pDone := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderCompleted, 1024)
	pDone.Start()
	pFail := kafkax.NewProducer(cfg.KafkaBrokers, events.TopicOrderFailed, 1024)
	pFail.Start()

	pp := paypal.New(paypal.Config{
		BaseURL:      cfg.PayPal.BaseURL,
		ClientID:     cfg.PayPal.ClientID,
		ClientSecret: cfg.PayPal.ClientSecret,
	})

	sessions := session.NewRegistry(24 * time.Hour)
	sessions.Secure = strings.HasPrefix(cfg.PublicURL, "https:")
	go sweep(ctx, sessions, 10*time.Minute)

	storefront := &httpx.StorefrontHandler{
		Catalog:  products,
		Sessions: sessions,
		Store:    store,
		Creator: &checkout.Creator{
			Processor: pp,
			Store:     store,
			Rates: checkout.Rates{
				Display:    cfg.DisplayCurrency,
				Settlement: cfg.SettlementCurrency,
				Rate:       cfg.ExchangeRate,
			},
			Origin: cfg.PublicURL,
		},
		Returns: &checkout.ReturnHandler{
			Processor: pp,
			Store:     store,
			History:   &checkout.Recorder{Store: store},
			Sink:      &events.Publisher{Completed: pDone, Failed: pFail, Service: cfg.ServiceName},
		},
		Stats:     &audit.Stats{Redis: rdb},
		PublicURL: cfg.PublicURL,
		Currency:  cfg.DisplayCurrency,
	}
	profiles := &httpx.GraphHandler{
		Client:        graph.NewClient(cfg.Graph.BaseURL, cfg.Graph.APIVersion),
		Sessions:      sessions,
		AppID:         cfg.Graph.AppID,
		RedirectURI:   cfg.Graph.RedirectURI,
		StaticFriends: cfg.Graph.StaticFriends,
	}

	router := httpx.NewRouter(30*time.Second, ready)
	storefront.Register(router)
	profiles.Register(router)

	// HTTP server
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           otelhttp.NewHandler(router, cfg.ServiceName),
		ReadHeaderTimeout: 5 * time.Second,
	}

	// graceful shutdown
	go func() {
		log.Printf("HTTP listening at %s (public %s, %s->%s @ %s)",
			cfg.HTTPAddr, cfg.PublicURL, cfg.DisplayCurrency, cfg.SettlementCurrency, cfg.ExchangeRate)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// wait signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	cancel()
	pDone.Close() // flush & close writer
	pFail.Close()
	pDone.WaitClosed()
	pFail.WaitClosed()
}

func sweep(ctx context.Context, r *session.Registry, every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := r.Sweep(); n > 0 {
				log.Printf("session sweep: dropped=%d live=%d", n, r.Len())
			}
		}
	}
}
