package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

type PayPal struct {
	BaseURL      string
	ClientID     string
	ClientSecret string
}

type Graph struct {
	AppID         string
	RedirectURI   string
	APIVersion    string
	BaseURL       string
	StaticFriends []string
}

type Config struct {
	HTTPAddr     string
	PublicURL    string // alamat storefront yang dilihat browser, dipakai untuk return/cancel URL
	PostgresDSN  string // kosong -> katalog dari YAML
	CatalogFile  string // kosong -> katalog embedded
	RedisAddr    string
	KafkaBrokers []string
	ServiceName  string

	PayPal             PayPal
	DisplayCurrency    string
	SettlementCurrency string
	ExchangeRate       decimal.Decimal // unit display currency per 1 unit settlement currency

	Graph Graph

	AuditorGroup   string
	AuditorWorkers int
}

func Load() Config {
	return Config{
		HTTPAddr:     getenv("HTTP_ADDR", ":8081"),
		PublicURL:    strings.TrimRight(getenv("PUBLIC_URL", "http://localhost:8081"), "/"),
		PostgresDSN:  os.Getenv("POSTGRES_DSN"),
		CatalogFile:  os.Getenv("CATALOG_FILE"),
		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		KafkaBrokers: splitCSV(getenv("KAFKA_BROKERS", "kafka:9092")),
		ServiceName:  getenv("SERVICE_NAME", "storefront-api"),

		PayPal: PayPal{
			BaseURL:      strings.TrimRight(getenv("PAYPAL_BASE_URL", "https://api-m.sandbox.paypal.com"), "/"),
			ClientID:     os.Getenv("PAYPAL_CLIENT_ID"),
			ClientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		},
		DisplayCurrency:    getenv("DISPLAY_CURRENCY", "PHP"),
		SettlementCurrency: getenv("SETTLEMENT_CURRENCY", "USD"),
		ExchangeRate:       mustDecimal(os.Getenv("EXCHANGE_RATE"), "56"),

		Graph: Graph{
			AppID:         os.Getenv("FB_APP_ID"),
			RedirectURI:   getenv("FB_REDIRECT_URI", "http://localhost:8081/"),
			APIVersion:    getenv("FB_API_VERSION", "v24.0"),
			BaseURL:       strings.TrimRight(getenv("FB_GRAPH_URL", "https://graph.facebook.com"), "/"),
			StaticFriends: splitCSV(os.Getenv("FB_STATIC_FRIENDS")),
		},

		AuditorGroup:   getenv("AUDITOR_GROUP", "checkout-auditor"),
		AuditorWorkers: mustAtoi(os.Getenv("AUDITOR_WORKERS"), "4"),
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil || i <= 0 {
		return 1
	}
	return i
}

// Rate yang tidak valid (<= 0 atau bukan angka) jatuh ke default.
func mustDecimal(s, def string) decimal.Decimal {
	fallback := decimal.RequireFromString(def)
	if s == "" {
		return fallback
	}
	d, err := decimal.NewFromString(s)
	if err != nil || !d.IsPositive() {
		log.Printf("config: invalid decimal %q, using %s", s, def)
		return fallback
	}
	return d
}
