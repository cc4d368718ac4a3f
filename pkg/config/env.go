package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort     = "PORT"
	EnvLogLevel = "LOG_LEVEL"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvVehicleLockTTL    = "VEHICLE_LOCK_TTL"
	EnvSlotSearchStep    = "SLOT_SEARCH_STEP"
	EnvSlotSearchHorizon = "SLOT_SEARCH_HORIZON"
	EnvMaxOverlapFetch   = "MAX_OVERLAP_FETCH"

	EnvIdentityCacheTTL = "IDENTITY_CACHE_TTL"

	EnvApprovalAmountThreshold = "APPROVAL_AMOUNT_THRESHOLD"
	EnvApprovalEventsEnabled   = "APPROVAL_EVENTS_ENABLED"
	EnvApprovalTopic           = "APPROVAL_TOPIC"
)
