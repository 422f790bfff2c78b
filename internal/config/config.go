package config

import (
	"time"

	"github.com/Kilat-Pet-Delivery/service-route/internal/directions"
	"github.com/Kilat-Pet-Delivery/service-route/internal/events"
	"github.com/Kilat-Pet-Delivery/service-route/internal/platform/config"
)

// ServiceConfig holds all configuration for the route service.
type ServiceConfig struct {
	Port           string
	AppEnv         string
	DBConfig       config.DatabaseConfig
	KafkaConfig    config.KafkaConfig
	MapsConfig     directions.Config
	RequestTimeout time.Duration
	AllowedOrigins []string
}

// Load reads configuration from ROUTE_ prefixed environment variables.
func Load() (*ServiceConfig, error) {
	v, err := config.Load("ROUTE")
	if err != nil {
		return nil, err
	}

	v.SetDefault("SERVICE_PORT", "8084")
	v.SetDefault("DB_NAME", "route_db")
	v.SetDefault("KAFKA_TOPIC", events.TopicRouteEvents)
	v.SetDefault("MAPS_REQUEST_TIMEOUT", "10s")
	v.SetDefault("MAPS_RATE_LIMIT", 10.0)
	v.SetDefault("MAPS_RATE_BURST", 20)

	return &ServiceConfig{
		Port:        config.GetServicePort(v, "SERVICE_PORT"),
		AppEnv:      config.GetAppEnv(v),
		DBConfig:    config.LoadDatabaseConfig(v, "DB_NAME"),
		KafkaConfig: config.LoadKafkaConfig(v),
		MapsConfig: directions.Config{
			APIKey:    v.GetString("GOOGLE_MAPS_API_KEY"),
			Language:  v.GetString("MAPS_LANGUAGE"),
			Region:    v.GetString("MAPS_REGION"),
			RateLimit: v.GetFloat64("MAPS_RATE_LIMIT"),
			RateBurst: v.GetInt("MAPS_RATE_BURST"),
		},
		RequestTimeout: v.GetDuration("MAPS_REQUEST_TIMEOUT"),
		AllowedOrigins: config.GetStringList(v, "CORS_ALLOWED_ORIGINS"),
	}, nil
}
