package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SALES_NUMBER_WIDTH", "")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092 ,")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, StoragePostgres, cfg.App.Storage)
	assert.Equal(t, 6, cfg.Sales.NumberWidth, "un valor vacío debe caer al default")
	assert.Equal(t, "VEN-", cfg.Sales.NumberPrefix)
	assert.Equal(t, 5*time.Second, cfg.Sales.TxTimeout)
	assert.Equal(t, 2*time.Second, cfg.DB.LockTimeout)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
}

func TestLoad_EnvTienePrioridad(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("SALES_NUMBER_WIDTH", "3")
	t.Setenv("SALES_MAX_RETRIES", "5")
	t.Setenv("STORAGE_DRIVER", "MEMORY")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Sales.NumberWidth)
	assert.Equal(t, 5, cfg.Sales.MaxRetries)
	assert.Equal(t, StorageMemory, cfg.App.Storage)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			App:   AppConfig{Env: "production", Storage: StoragePostgres},
			JWT:   JWTConfig{Secret: "s3cr3t"},
			Sales: SalesConfig{NumberWidth: 6, MaxRetries: 3},
		}
	}

	assert.NoError(t, base().Validate())

	c := base()
	c.JWT.Secret = ""
	assert.Error(t, c.Validate(), "sin secreto en producción debe fallar")

	c = base()
	c.Sales.NumberWidth = 2
	assert.Error(t, c.Validate())

	c = base()
	c.App.Storage = "mongo"
	assert.Error(t, c.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:word", DBName: "stockpro", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aword@db:5432/stockpro?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://other"
	assert.Equal(t, "postgres://other", c.ConnectionString())
}
