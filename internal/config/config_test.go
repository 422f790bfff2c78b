package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8084", cfg.Port)
	assert.Equal(t, "route_db", cfg.DBConfig.DBName)
	assert.Equal(t, "route.events", cfg.KafkaConfig.Topic)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 10.0, cfg.MapsConfig.RateLimit)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("ROUTE_SERVICE_PORT", "9090")
	t.Setenv("ROUTE_GOOGLE_MAPS_API_KEY", "AIza-test")
	t.Setenv("ROUTE_MAPS_REQUEST_TIMEOUT", "3s")
	t.Setenv("ROUTE_MAPS_REGION", "pk")
	t.Setenv("ROUTE_DB_ENABLED", "false")
	t.Setenv("ROUTE_CORS_ALLOWED_ORIGINS", "https://maps.example.com, http://localhost:3000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Port)
	assert.Equal(t, "AIza-test", cfg.MapsConfig.APIKey)
	assert.Equal(t, "pk", cfg.MapsConfig.Region)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.DBConfig.Enabled)
	assert.Equal(t, []string{"https://maps.example.com", "http://localhost:3000"}, cfg.AllowedOrigins)
}
