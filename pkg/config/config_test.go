package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/rack-inventario-api/pkg/config"
)

// clearEnv deja vacías las variables que leen los tests; viper ignora las vacías.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"APP_ENV", "APP_NAME", "LOG_LEVEL", "STORAGE_DRIVER", "DATABASE_URL", "DB_HOST", "DB_PORT",
		"DB_MAX_CONNS", "DB_AUTO_MIGRATE", "JWT_SECRET", "HTTP_PORT", "KAFKA_BROKERS", "KAFKA_TOPIC",
		"METRICS_ENABLED", "ENGINE_RECONCILE_ON_UPDATE", "ENGINE_DELETE_EMPTY_PLACEMENTS",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_ValoresPorDefecto(t *testing.T) {
	clearEnv(t)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, config.StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, 25, cfg.DB.MaxConns)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.False(t, cfg.Kafka.Enabled())
	assert.True(t, cfg.Metrics.Enabled)
	assert.False(t, cfg.Engine.ReconcileOnUpdate)
	assert.False(t, cfg.Engine.DeleteEmptyPlacements)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_LeeVariablesDeEntorno(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("DB_MAX_CONNS", "7")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("ENGINE_RECONCILE_ON_UPDATE", "true")
	t.Setenv("ENGINE_DELETE_EMPTY_PLACEMENTS", "1")
	t.Setenv("METRICS_ENABLED", "false")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StorageMemory, cfg.Storage.Driver)
	assert.Equal(t, 7, cfg.DB.MaxConns)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Engine.ReconcileOnUpdate)
	assert.True(t, cfg.Engine.DeleteEmptyPlacements)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_DriverDesconocidoFalla(t *testing.T) {
	clearEnv(t)
	t.Setenv("STORAGE_DRIVER", "mongo")

	_, err := config.Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "STORAGE_DRIVER")
}

func TestValidate_SecretoObligatorioEnProduccion(t *testing.T) {
	cfg := &config.Config{
		App:     config.AppConfig{Env: "production"},
		Storage: config.StorageConfig{Driver: config.StorageMemory},
		HTTP:    config.HTTPConfig{Port: 8080},
	}
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")

	cfg.JWT.Secret = "s3cr3t"
	assert.NoError(t, cfg.Validate())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss", DBName: "racks", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss@db:5432/racks?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://override"
	assert.Equal(t, "postgres://override", c.ConnectionString())
}
