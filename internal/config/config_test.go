package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("API_PORT", "9090")
	t.Setenv("POPULATION_SOURCE", "postgres")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.GetServerAddr())
	assert.Equal(t, "localhost:6379", cfg.GetRedisAddr())
	assert.True(t, cfg.UsesPostgres())
	assert.Equal(t, "dashboard-workers", cfg.Worker.ConsumerGroup)
	assert.Equal(t, 3, cfg.Worker.MaxRetries)
	assert.Equal(t, "data", cfg.Data.Dir)
}

func TestConfig_Validate(t *testing.T) {
	cfg := &Config{Server: ServerConfig{Port: 0}, Data: DataConfig{PopulationSource: PopulationFromCatalog}}
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidPort)

	cfg.Server.Port = 8080
	cfg.Data.PopulationSource = "csv"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidPopulationSource)

	cfg.Data.PopulationSource = PopulationFromCatalog
	assert.NoError(t, cfg.Validate())
}

func TestConnectionStrings(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host: "db", Port: 5432, User: "dash", Password: "secret", DBName: "regions", SSLMode: "disable",
		},
		Redis: RedisConfig{Host: "cache", Port: 6380},
	}

	assert.Equal(t,
		"host=db port=5432 user=dash password=secret dbname=regions sslmode=disable application_name=region-dashboard",
		cfg.Database.DSN())
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
}
