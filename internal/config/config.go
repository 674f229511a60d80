package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	HTTPPort        string
	CatalogDBPath   string
	CatalogMigrate  string
	OrdersMigrate   string
	RedisAddr       string
	RedisPassword   string
	PostgresHost    string
	PostgresPort    int
	PostgresUser    string
	PostgresPass    string
	PostgresDB      string
	KafkaBrokers    string
	MessageTemplate string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
	SettingsTTL     time.Duration
}

func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "constrular.db"),
		CatalogMigrate:  getEnv("CATALOG_MIGRATIONS_PATH", "migrations/catalog"),
		OrdersMigrate:   getEnv("ORDERS_MIGRATIONS_PATH", "migrations/orders"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		PostgresHost:    getEnv("POSTGRES_HOST", "localhost"),
		PostgresPort:    getEnvInt("POSTGRES_PORT", 5432),
		PostgresUser:    getEnv("POSTGRES_USER", "constrular"),
		PostgresPass:    getEnv("POSTGRES_PASSWORD", "constrular"),
		PostgresDB:      getEnv("POSTGRES_DB", "constrular"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		MessageTemplate: getEnv("MESSAGE_TEMPLATE", "plain"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		SettingsTTL:     time.Minute,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}
