package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port             string
	Mode             string
	InputFile        string
	OTelServiceName  string
	OTelEndpoint     string
	Environment      string
	TelemetryEnabled bool
	ShutdownTimeout  time.Duration
}

func Load() *Config {
	return &Config{
		Port:             envOr("APP_PORT", "8080"),
		Mode:             envOr("APP_MODE", "cli"),
		InputFile:        envOr("APP_INPUT", ""),
		OTelServiceName:  envOr("OTEL_SERVICE_NAME", "parking-lot-service"),
		OTelEndpoint:     envOr("OTEL_EXPORTER_OTLP_ENDPOINT", "http://localhost:4318"),
		Environment:      envOr("SCOUT_ENVIRONMENT", "development"),
		TelemetryEnabled: envOrBool("TELEMETRY_ENABLED", true),
		ShutdownTimeout:  time.Duration(envOrInt("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envOrBool(key string, fallback bool) bool {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
