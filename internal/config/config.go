// Package config reads the counter's settings from the environment.
// A .env file is honoured when present; see cmd/counter.
package config

import (
	"os"
	"strconv"
)

type Config struct {
	Server     ServerConfig
	Backend    BackendConfig
	Redis      RedisConfig
	ReceiptLog ReceiptLogConfig
}

type ServerConfig struct {
	AppEnv      string
	Port        string
	ServiceName string
}

// BackendConfig points at the external sales service that owns all
// persistence.
type BackendConfig struct {
	BaseURL string
}

// RedisConfig is optional; with no address the catalog snapshot cache is
// disabled and the counter starts with an empty catalog until the first load.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type ReceiptLogConfig struct {
	// Path of the sqlite file holding the append-only receipt log.
	// Empty disables auditing.
	Path string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:      getEnv("APP_ENV", "dev"),
			Port:        getEnv("PORT", "8080"),
			ServiceName: getEnv("OTEL_SERVICE_NAME", "pos-counter"),
		},
		Backend: BackendConfig{
			BaseURL: getEnv("SALES_SERVICE_URL", "http://localhost:4000"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		ReceiptLog: ReceiptLogConfig{
			Path: getEnv("RECEIPT_LOG_PATH", "receipts.db"),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}
