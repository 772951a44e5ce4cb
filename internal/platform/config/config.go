package config

import (
	"os"
	"time"

	dErrors "rollcall/pkg/domain-errors"
)

// Server captures process-level configuration.
type Server struct {
	Addr           string
	DatabaseURL    string
	RedisURL       string
	KafkaBrokers   string
	AuditTopic     string
	JWTSigningKey  string
	OrgTimezone    string
	StorageTimeout time.Duration
	TokenTTL       time.Duration
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() Server {
	cfg := Server{
		Addr:           getenv("ROLLCALL_ADDR", ":8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		RedisURL:       os.Getenv("REDIS_URL"),
		KafkaBrokers:   os.Getenv("KAFKA_BROKERS"),
		AuditTopic:     getenv("AUDIT_TOPIC", "rollcall.audit"),
		JWTSigningKey:  os.Getenv("JWT_SIGNING_KEY"),
		OrgTimezone:    getenv("ORG_TIMEZONE", "Africa/Nairobi"),
		StorageTimeout: getduration("STORAGE_TIMEOUT", 5*time.Second),
		TokenTTL:       getduration("TOKEN_TTL", time.Hour),
	}
	if cfg.JWTSigningKey == "" {
		// Use a default for development - must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

// OrgLocation loads the organization timezone the admission window and day
// buckets are interpreted in. An unknown zone is a configuration error, not a
// silent fallback to UTC.
func (s Server) OrgLocation() (*time.Location, error) {
	loc, err := time.LoadLocation(s.OrgTimezone)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "invalid ORG_TIMEZONE")
	}
	return loc, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getduration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
