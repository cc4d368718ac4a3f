package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"time"

	"fleetbook/pkg/client"
	"fleetbook/pkg/logger"
)

type Config struct {
	MongoURI          string
	MongoDatabaseName string
	MongoConnTimeout  time.Duration

	Port string

	RequestTimeout time.Duration
	IdempotencyTTL time.Duration
	MaxRequestSize int

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration

	VehicleLockTTL    time.Duration
	SlotSearchStep    time.Duration
	SlotSearchHorizon time.Duration
	MaxOverlapFetch   int

	IdentityCacheTTL time.Duration

	ApprovalAmountThreshold float64
	ApprovalEventsEnabled   bool
	ApprovalTopic           string

	Log    *logger.Logger
	Client *client.Client
}

func Load(serviceName string) *Config {
	cfg := &Config{
		MongoURI:          getEnvStr(EnvMongoURI, DefaultMongoURI),
		MongoDatabaseName: getEnvStr(EnvMongoDatabaseName, DefaultMongoDatabaseName),
		MongoConnTimeout:  getEnvDuration(EnvMongoConnTimeout, DefaultMongoConnTimeout),

		Port: getEnvStr(EnvPort, DefaultPort),

		RequestTimeout: getEnvDuration(EnvRequestTimeout, DefaultRequestTimeout),
		IdempotencyTTL: getEnvDuration(EnvIdempotencyTTL, DefaultIdempotencyTTL),
		MaxRequestSize: getEnvNum(EnvMaxRequestSize, DefaultMaxRequestSize),

		ReadTimeout:     getEnvDuration(EnvReadTimeout, DefaultReadTimeout),
		WriteTimeout:    getEnvDuration(EnvWriteTimeout, DefaultWriteTimeout),
		IdleTimeout:     getEnvDuration(EnvIdleTimeout, DefaultIdleTimeout),
		ShutdownTimeout: getEnvDuration(EnvShutdownTimeout, DefaultShutdownTimeout),

		VehicleLockTTL:    getEnvDuration(EnvVehicleLockTTL, DefaultVehicleLockTTL),
		SlotSearchStep:    getEnvDuration(EnvSlotSearchStep, DefaultSlotSearchStep),
		SlotSearchHorizon: getEnvDuration(EnvSlotSearchHorizon, DefaultSlotSearchHorizon),
		MaxOverlapFetch:   getEnvNum(EnvMaxOverlapFetch, DefaultMaxOverlapFetch),

		IdentityCacheTTL: getEnvDuration(EnvIdentityCacheTTL, DefaultIdentityCacheTTL),

		ApprovalAmountThreshold: getEnvFloat(EnvApprovalAmountThreshold, DefaultApprovalAmountThreshold),
		ApprovalEventsEnabled:   getEnvBool(EnvApprovalEventsEnabled, false),
		ApprovalTopic:           getEnvStr(EnvApprovalTopic, DefaultApprovalTopic),

		Log: logger.New(logger.Config{
			Level:     getEnvStr(EnvLogLevel, DefaultLogLevel),
			Format:    logger.JSON,
			AddSource: true,
			Service:   serviceName,
		}),
		Client: client.NewClient(),
	}

	if err := cfg.Validate(); err != nil {
		cfg.Log.Fatal(err.Error())
	}
	cfg.LogConfiguration()
	return cfg
}

func (cfg *Config) SetMongo() {
	cfg.Client.SetMongo(cfg.Log, cfg.MongoURI, cfg.MongoConnTimeout)
}

func (cfg *Config) Validate() error {
	var errors []string

	if port, err := strconv.Atoi(cfg.Port); err != nil || port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("Port must be between 1 and 65535, got: %s", cfg.Port))
	}

	if cfg.MongoURI == "" {
		errors = append(errors, "MongoURI cannot be empty")
	} else if !regexp.MustCompile(`^mongodb(\+srv)?://`).MatchString(cfg.MongoURI) {
		errors = append(errors, fmt.Sprintf("MongoURI must start with 'mongodb://' or 'mongodb+srv://', got: %s", cfg.MongoURI))
	}

	if cfg.MongoDatabaseName == "" {
		errors = append(errors, "MongoDatabaseName cannot be empty")
	}

	if cfg.MongoConnTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("MongoConnTimeout must be positive, got: %s", cfg.MongoConnTimeout))
	}
	if cfg.RequestTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("RequestTimeout must be positive, got: %s", cfg.RequestTimeout))
	}
	if cfg.IdempotencyTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdempotencyTTL must be positive, got: %s", cfg.IdempotencyTTL))
	}
	if cfg.ReadTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ReadTimeout must be positive, got: %s", cfg.ReadTimeout))
	}
	if cfg.WriteTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("WriteTimeout must be positive, got: %s", cfg.WriteTimeout))
	}
	if cfg.IdleTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("IdleTimeout must be positive, got: %s", cfg.IdleTimeout))
	}
	if cfg.ShutdownTimeout <= 0 {
		errors = append(errors, fmt.Sprintf("ShutdownTimeout must be positive, got: %s", cfg.ShutdownTimeout))
	}
	if cfg.MaxRequestSize <= 0 {
		errors = append(errors, fmt.Sprintf("MaxRequestSize must be positive, got: %d", cfg.MaxRequestSize))
	}

	if cfg.VehicleLockTTL <= 0 {
		errors = append(errors, fmt.Sprintf("VehicleLockTTL must be positive, got: %s", cfg.VehicleLockTTL))
	}
	if cfg.SlotSearchStep <= 0 {
		errors = append(errors, fmt.Sprintf("SlotSearchStep must be positive, got: %s", cfg.SlotSearchStep))
	}
	if cfg.SlotSearchHorizon < cfg.SlotSearchStep {
		errors = append(errors, fmt.Sprintf("SlotSearchHorizon (%s) must be >= SlotSearchStep (%s)", cfg.SlotSearchHorizon, cfg.SlotSearchStep))
	}
	if cfg.MaxOverlapFetch <= 0 {
		errors = append(errors, fmt.Sprintf("MaxOverlapFetch must be positive, got: %d", cfg.MaxOverlapFetch))
	}
	if cfg.IdentityCacheTTL <= 0 {
		errors = append(errors, fmt.Sprintf("IdentityCacheTTL must be positive, got: %s", cfg.IdentityCacheTTL))
	}
	if cfg.ApprovalAmountThreshold < 0 {
		errors = append(errors, fmt.Sprintf("ApprovalAmountThreshold cannot be negative, got: %f", cfg.ApprovalAmountThreshold))
	}
	if cfg.ApprovalEventsEnabled && cfg.ApprovalTopic == "" {
		errors = append(errors, "ApprovalTopic cannot be empty when approval events are enabled")
	}

	if len(errors) > 0 {
		errMsg := "Configuration validation failed:\n"
		for i, err := range errors {
			errMsg += fmt.Sprintf("  %d. %s\n", i+1, err)
		}
		return fmt.Errorf("%s", errMsg)
	}

	return nil
}

func (cfg *Config) LogConfiguration() {
	cfg.Log.Info("Configuration loaded successfully",
		"mongo_uri", redactMongoURI(cfg.MongoURI),
		"mongo_database", cfg.MongoDatabaseName,
		"mongo_conn_timeout", cfg.MongoConnTimeout,
		"port", cfg.Port,
		"request_timeout", cfg.RequestTimeout,
		"idempotency_ttl", cfg.IdempotencyTTL,
		"max_request_size", cfg.MaxRequestSize,
		"read_timeout", cfg.ReadTimeout,
		"write_timeout", cfg.WriteTimeout,
		"idle_timeout", cfg.IdleTimeout,
		"shutdown_timeout", cfg.ShutdownTimeout,
		"vehicle_lock_ttl", cfg.VehicleLockTTL,
		"slot_search_step", cfg.SlotSearchStep,
		"slot_search_horizon", cfg.SlotSearchHorizon,
		"max_overlap_fetch", cfg.MaxOverlapFetch,
		"identity_cache_ttl", cfg.IdentityCacheTTL,
		"approval_amount_threshold", cfg.ApprovalAmountThreshold,
		"approval_events_enabled", cfg.ApprovalEventsEnabled,
		"approval_topic", cfg.ApprovalTopic,
	)
}

func redactMongoURI(uri string) string {
	credentialRegex := regexp.MustCompile(`(mongodb(\+srv)?://)[^:]+:[^@]+@`)
	return credentialRegex.ReplaceAllString(uri, "${1}***:***@")
}

func getEnvStr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvNum(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func (cfg *Config) GracefulShutdown() {
	cfg.Client.GracefulShutdown()
}
