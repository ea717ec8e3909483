package redisx

import "time"

const (
	// Snapshot cart yang sedang menunggu approval: checkout:snapshot:{session_id} -> JSON []LineItem
	KeySnapshot = "checkout:snapshot:%s"

	// Riwayat pembelian per session, terbaru di depan: checkout:history:{session_id} -> JSON []HistoryEntry
	KeyHistory = "checkout:history:%s"

	// Dedup event processing: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"

	// Counter hasil checkout (hash): field completed | failed
	KeyCheckoutStats = "checkout:stats"
)

var (
	// Order PayPal yang belum di-approve kedaluwarsa jauh sebelum ini.
	TTLSnapshot = 6 * time.Hour
	TTLDedup    = 48 * time.Hour
)
