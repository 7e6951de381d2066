// Package config loads process configuration from the environment, with an
// optional YAML file override for deployments that ship a config file.
package config

import (
	"os"
	"strconv"
)

// Config holds server configuration.
type Config struct {
	Port     string `yaml:"port"`
	LogLevel string `yaml:"log_level"`

	// DatabaseURL selects the driver by scheme: postgres:// uses lib/pq,
	// sqlite: uses the modernc driver.
	DatabaseURL string `yaml:"database_url"`

	// FailureQueue selects where unrecoverable audit and history errors
	// land: "file", "redis", or "kafka".
	FailureQueue     string `yaml:"failure_queue"`
	FailureQueuePath string `yaml:"failure_queue_path"`
	RedisAddr        string `yaml:"redis_addr"`
	RedisQueueKey    string `yaml:"redis_queue_key"`
	KafkaBroker      string `yaml:"kafka_broker"`
	KafkaTopic       string `yaml:"kafka_topic"`

	RateLimitRPS   int `yaml:"rate_limit_rps"`
	RateLimitBurst int `yaml:"rate_limit_burst"`

	TracingEnabled bool   `yaml:"tracing_enabled"`
	OTLPEndpoint   string `yaml:"otlp_endpoint"`
}

// Load reads configuration from environment variables with defaults.
func Load() *Config {
	cfg := &Config{
		Port:             getenv("PORT", "8080"),
		LogLevel:         getenv("LOG_LEVEL", "INFO"),
		DatabaseURL:      getenv("DATABASE_URL", "postgres://provenance@localhost:5432/provenance?sslmode=disable"),
		FailureQueue:     getenv("FAILURE_QUEUE", "file"),
		FailureQueuePath: getenv("FAILURE_QUEUE_PATH", "provenance-failures.log"),
		RedisAddr:        getenv("REDIS_ADDR", "localhost:6379"),
		RedisQueueKey:    getenv("REDIS_QUEUE_KEY", "provenance:failures"),
		KafkaBroker:      getenv("KAFKA_BROKER", "localhost:9092"),
		KafkaTopic:       getenv("KAFKA_TOPIC", "provenance-failures"),
		RateLimitRPS:     getenvInt("RATE_LIMIT_RPS", 50),
		RateLimitBurst:   getenvInt("RATE_LIMIT_BURST", 100),
		TracingEnabled:   os.Getenv("TRACING_ENABLED") == "true",
		OTLPEndpoint:     getenv("OTLP_ENDPOINT", "localhost:4317"),
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
