package config

import (
	"os"
	"time"
)

// Server captures process-level configuration.
type Server struct {
	Addr        string
	Environment string

	DatabaseURL string
	RedisAddr   string

	KafkaBrokers string
	AuditTopic   string

	JWTSigningKey string

	RegistryBaseURL  string
	RegistryAPIKey   string
	RegistryTimeout  time.Duration
	RegistryCacheTTL time.Duration

	// NumberResetPolicy scopes the document-number counter period:
	// "yearly" (default) or "never".
	NumberResetPolicy string

	// TracingEnabled turns on OpenTelemetry spans for registry lookups.
	// Spans go to the global tracer provider configured by the runtime.
	TracingEnabled bool

	SeedDemoData bool
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:              getEnv("SURATDESA_ADDR", ":8080"),
		Environment:       getEnv("SURATDESA_ENV", "development"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		RedisAddr:         os.Getenv("REDIS_ADDR"),
		KafkaBrokers:      os.Getenv("KAFKA_BROKERS"),
		AuditTopic:        getEnv("AUDIT_TOPIC", "suratdesa.audit"),
		JWTSigningKey:     getEnv("JWT_SIGNING_KEY", "dev-secret-key-change-in-production"),
		RegistryBaseURL:   os.Getenv("REGISTRY_BASE_URL"),
		RegistryAPIKey:    os.Getenv("REGISTRY_API_KEY"),
		RegistryTimeout:   getDuration("REGISTRY_TIMEOUT", 5*time.Second),
		RegistryCacheTTL:  getDuration("REGISTRY_CACHE_TTL", 5*time.Minute),
		NumberResetPolicy: getEnv("NUMBER_RESET_POLICY", "yearly"),
		TracingEnabled:    os.Getenv("OTEL_TRACING_ENABLED") == "true",
		SeedDemoData:      os.Getenv("SEED_DEMO_DATA") == "true",
	}
	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
