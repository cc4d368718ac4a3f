package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "fleetbook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort     = "8080"
	DefaultLogLevel = "info"

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	// Advisory lock covering the availability check + insert window.
	DefaultVehicleLockTTL = 10 * time.Second

	// Next-available-slot search: step granularity and the hard horizon
	// that caps worst-case latency.
	DefaultSlotSearchStep    = 30 * time.Minute
	DefaultSlotSearchHorizon = 60 * 24 * time.Hour

	// Upper bound on reservations fetched for one overlap check. A vehicle
	// cannot realistically hold more blocking reservations in one window.
	DefaultMaxOverlapFetch = 50

	DefaultIdentityCacheTTL = 15 * time.Minute

	// Bookings at or above this total require operator approval; the
	// orchestrator only raises the event, dispatching is external.
	DefaultApprovalAmountThreshold = 5000.0
	DefaultApprovalTopic           = "fleetbook.reservations.approval"

	DefaultPaginationLimit = 100
)

func NormalizePaginationLimit(limit int) int {
	if limit <= 0 {
		return 10
	}
	if limit > DefaultPaginationLimit {
		return DefaultPaginationLimit
	}
	return limit
}

func NormalizeOffset(offset int64) int64 {
	if offset < 0 {
		return 0
	}
	return offset
}
