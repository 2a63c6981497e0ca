package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

// Config is everything the binaries need from the environment.
type Config struct {
	HTTPAddr string // listen address for the API server

	OwnerPrincipal string // contract owner, required

	PostgresDSN string // empty means in-memory stores only

	KafkaBrokers []string // empty means no notification stream
	KafkaTopic   string   // audit notification topic
}

// Load reads .env (when present) and then the environment. Missing
// optional values fall back to defaults; a missing owner is an error
// because the contract cannot exist without one.
func Load() (Config, error) {
	// .env is a developer convenience; absence is not an error
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:       getEnv("HTTP_ADDR", ":8080"),
		OwnerPrincipal: os.Getenv("OWNER_PRINCIPAL"),
		PostgresDSN:    os.Getenv("POSTGRES_DSN"),
		KafkaTopic:     getEnv("KAFKA_TOPIC", "audit_notifications"),
	}
	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}
	if cfg.OwnerPrincipal == "" {
		return Config{}, errors.New("OWNER_PRINCIPAL must be set")
	}
	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
