package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	DriverFile     = "file"
	DriverMemory   = "memory"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is read from environment variables.
type Config struct {
	HTTPAddr        string
	StoreDriver     string
	DBPath          string
	DatabaseURL     string
	SQLitePath      string
	KafkaBrokers    []string
	KafkaTopic      string
	ConsumerGroup   string
	Env             string
	LogLevel        string
	LogFile         string
	ShutdownTimeout time.Duration
}

func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:      getEnv("HTTP_ADDR", ":5000"),
		StoreDriver:   strings.ToLower(getEnv("STORE_DRIVER", DriverFile)),
		DBPath:        getEnv("DB_PATH", "data/db.json"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    getEnv("SQLITE_PATH", "data/ecshop.db"),
		KafkaBrokers:  splitList(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:    getEnv("KAFKA_TOPIC", "order-events"),
		ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "eventlog"),
		Env:           getEnv("LOG_ENV", "development"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		LogFile:       os.Getenv("LOG_FILE"),
	}

	timeout, err := time.ParseDuration(getEnv("SHUTDOWN_TIMEOUT", "5s"))
	if err != nil {
		return Config{}, fmt.Errorf("SHUTDOWN_TIMEOUT: %w", err)
	}
	cfg.ShutdownTimeout = timeout

	switch cfg.StoreDriver {
	case DriverFile, DriverMemory, DriverSQLite:
	case DriverPostgres:
		if cfg.DatabaseURL == "" {
			return Config{}, fmt.Errorf("DATABASE_URL is required when STORE_DRIVER=%s", DriverPostgres)
		}
	default:
		return Config{}, fmt.Errorf("unknown STORE_DRIVER %q", cfg.StoreDriver)
	}

	return cfg, nil
}

// KafkaEnabled reports whether lifecycle events should be published
func (c Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
