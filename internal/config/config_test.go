package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"HTTP_ADDR", "STORE_DRIVER", "DB_PATH", "DATABASE_URL", "SQLITE_PATH", "KAFKA_BROKERS",
		"KAFKA_TOPIC", "KAFKA_CONSUMER_GROUP", "LOG_ENV", "LOG_LEVEL", "LOG_FILE", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, ":5000", cfg.HTTPAddr)
	assert.Equal(t, DriverFile, cfg.StoreDriver)
	assert.Equal(t, "data/db.json", cfg.DBPath)
	assert.Equal(t, "data/ecshop.db", cfg.SQLitePath)
	assert.Equal(t, "order-events", cfg.KafkaTopic)
	assert.Equal(t, 5*time.Second, cfg.ShutdownTimeout)
	assert.False(t, cfg.KafkaEnabled())
}

func TestLoad_KafkaBrokers(t *testing.T) {
	clearEnv(t)
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,,")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.True(t, cfg.KafkaEnabled())
}

func TestLoad_Logging(t *testing.T) {
	clearEnv(t)
	t.Setenv("LOG_ENV", "production")
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FILE", "/var/log/ecshop/api.log")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/var/log/ecshop/api.log", cfg.LogFile)
}

func TestLoad_PostgresRequiresURL(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "postgres")

	_, err := Load()

	assert.ErrorContains(t, err, "DATABASE_URL")
}

func TestLoad_SQLiteDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/var/lib/ecshop/orders.db")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/var/lib/ecshop/orders.db", cfg.SQLitePath)
}

func TestLoad_UnknownDriver(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORE_DRIVER", "mongo")

	_, err := Load()

	assert.ErrorContains(t, err, "mongo")
}

func TestLoad_BadTimeout(t *testing.T) {
	clearEnv(t)
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	_, err := Load()

	assert.ErrorContains(t, err, "SHUTDOWN_TIMEOUT")
}
