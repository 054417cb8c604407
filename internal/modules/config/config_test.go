package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "values_test.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 3002, cfg.Service.PublicPort)
	assert.Equal(t, 8080, cfg.Service.AdminPort)
	assert.Equal(t, "USDT", cfg.Trading.QuoteAsset)
	assert.Equal(t, 30, cfg.Trading.Leverage)
	assert.Equal(t, 1.0, cfg.Trading.BalanceReserve)
	assert.Equal(t, "1m", cfg.Trading.CloseInterval)
	assert.Equal(t, 10*time.Second, cfg.Trading.OrderTimeout)
	assert.Equal(t, "wss://fstream.binance.com", cfg.Binance.WSBaseURL)
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	path := writeConfig(t, `
service:
  public_port: 4000
binance:
  api_key: file-key
  testnet: true
trading:
  quote_asset: usdc
  leverage: 10
  order_timeout: 3s
telegram:
  chat_id: 12345
`)
	t.Setenv("BINANCE_API_KEY", "env-key")
	t.Setenv("TRADING_LEVERAGE", "20")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 4000, cfg.Service.PublicPort)
	assert.Equal(t, "env-key", cfg.Binance.APIKey)
	assert.True(t, cfg.Binance.Testnet)
	assert.Equal(t, "USDC", cfg.Trading.QuoteAsset)
	assert.Equal(t, 20, cfg.Trading.Leverage)
	assert.Equal(t, 3*time.Second, cfg.Trading.OrderTimeout)
	assert.Equal(t, int64(12345), cfg.Telegram.ChatID)
}

func TestLoad_Invalid(t *testing.T) {
	path := writeConfig(t, `
service:
  public_port: 8080
  admin_port: 8080
`)
	_, err := Load(path)
	assert.Error(t, err)

	path = writeConfig(t, "trading:\n  leverage: 0\n")
	_, err = Load(path)
	assert.Error(t, err)

	path = writeConfig(t, "trading:\n  close_interval: 7m\n")
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoad_NormalizesCloseInterval(t *testing.T) {
	path := writeConfig(t, "trading:\n  close_interval: 60m\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "1h", cfg.Trading.CloseInterval)
}

func TestRedacted_MasksSecrets(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	cfg.Binance.APIKey = "abcdef123456"
	cfg.Binance.APISecret = "supersecret"
	cfg.Telegram.Token = "xyz"

	out := cfg.Redacted()
	assert.Contains(t, out, "api_key: abcd****")
	assert.NotContains(t, out, "supersecret")
	assert.NotContains(t, out, "xyz")
	assert.Contains(t, out, "public_port: 3002")
	// исходный конфиг не изменился
	assert.Equal(t, "abcdef123456", cfg.Binance.APIKey)
}
