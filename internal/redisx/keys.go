package redisx

import "time"

const (
	// Payment/order status cache, keyed by referenceSale.
	KeyOrderStatus = "checkout:status:%s"

	// Dedup of consumed events: checkout:dedup:{service}:{event_id}
	KeyDedup = "checkout:dedup:%s:%s"
)

var (
	TTLStatusCache = 5 * time.Minute
	TTLDedup       = 48 * time.Hour
)
