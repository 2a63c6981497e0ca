package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sheikh-saqib/donation-ledger/internal/config"
)

func TestLoad(t *testing.T) {
	t.Run("owner is required", func(t *testing.T) {
		_, err := config.Load()
		assert.Error(t, err)
	})

	t.Run("defaults apply", func(t *testing.T) {
		t.Setenv("OWNER_PRINCIPAL", "0xowner")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "0xowner", cfg.OwnerPrincipal)
		assert.Empty(t, cfg.PostgresDSN)
		assert.Empty(t, cfg.KafkaBrokers)
		assert.Equal(t, "audit_notifications", cfg.KafkaTopic)
	})

	t.Run("broker list is split and trimmed", func(t *testing.T) {
		t.Setenv("OWNER_PRINCIPAL", "0xowner")
		t.Setenv("KAFKA_BROKERS", "broker-1:9092, broker-2:9092,")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, []string{"broker-1:9092", "broker-2:9092"}, cfg.KafkaBrokers)
	})

	t.Run("explicit values win over defaults", func(t *testing.T) {
		t.Setenv("OWNER_PRINCIPAL", "0xowner")
		t.Setenv("HTTP_ADDR", ":9999")
		t.Setenv("KAFKA_TOPIC", "ledger_audit")

		cfg, err := config.Load()
		require.NoError(t, err)
		assert.Equal(t, ":9999", cfg.HTTPAddr)
		assert.Equal(t, "ledger_audit", cfg.KafkaTopic)
	})
}
