package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver)
	assert.Equal(t, "wish-area", cfg.Storage.Namespace)
	assert.Equal(t, "100", cfg.Pricing.FreeShippingThreshold)
	assert.Equal(t, "15", cfg.Pricing.ShippingFee)
	assert.Equal(t, "0.08", cfg.Pricing.TaxRate)
	assert.Equal(t, 500*time.Millisecond, cfg.Auth.Latency)
	assert.Equal(t, 2*time.Second, cfg.Checkout.Latency)
	assert.Equal(t, "0.0.0.0:8080", cfg.Gateway.Addr())
	assert.False(t, cfg.MySQL.Enabled)
}

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
storage:
  driver: etcd
etcd:
  endpoints: ["etcd-1:2379", "etcd-2:2379"]
  dial_timeout: 3s
pricing:
  shipping_fee: "9.99"
mysql:
  enabled: true
  host: db
  port: 3307
  username: shop
  password: secret
  database: orders
`
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "etcd", cfg.Storage.Driver)
	assert.Equal(t, []string{"etcd-1:2379", "etcd-2:2379"}, cfg.Etcd.Endpoints)
	assert.Equal(t, 3*time.Second, cfg.Etcd.DialTimeout)
	assert.Equal(t, "9.99", cfg.Pricing.ShippingFee)
	assert.Equal(t, "0.08", cfg.Pricing.TaxRate)
	assert.Equal(t, "shop:secret@tcp(db:3307)/orders?charset=utf8mb4&parseTime=True&loc=Local", cfg.MySQL.DSN())
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("STOREFRONT_STORAGE_DRIVER", "redis")
	t.Setenv("STOREFRONT_REDIS_ADDR", "cache:6380")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "redis", cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoad_ShippedConfig(t *testing.T) {
	cfg, err := Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Driver, "runs without external services")
	assert.Empty(t, cfg.Session.Secret, "no secret is published with the sample")

	t.Setenv("STOREFRONT_SESSION_SECRET", "from-the-environment")
	cfg, err = Load(filepath.Join("..", "..", "config", "config.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "from-the-environment", cfg.Session.Secret)
}
