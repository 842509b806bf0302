package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cleared-dev/ledgerview/internal/model"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.API.BaseURL = "https://bank.example.com"
	cfg.API.Timeout = 3 * time.Second
	cfg.Seed.Current = decimal.RequireFromString("123.45")

	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://bank.example.com", got.API.BaseURL)
	assert.Equal(t, 3*time.Second, got.API.Timeout)
	assert.Equal(t, cfg.Storage.Dir, got.Storage.Dir)
	assert.Equal(t, cfg.Log.Level, got.Log.Level)
	assert.True(t, got.Seed.Current.Equal(decimal.RequireFromString("123.45")))
	assert.True(t, got.Seed.Savings.Equal(decimal.NewFromInt(50000)))
}

func TestDefaults(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, ".ledgerview", cfg.Storage.Dir)
	assert.Equal(t, "info", cfg.Log.Level)

	seed := cfg.Seed.Balances()
	assert.True(t, seed.Get(model.AccountCurrent).Equal(decimal.NewFromInt(25000)))
	assert.True(t, seed.Get(model.AccountSavings).Equal(decimal.NewFromInt(50000)))
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("api:\n  base_url: http://10.0.0.5:9000\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "http://10.0.0.5:9000", cfg.API.BaseURL)
	assert.Equal(t, 10*time.Second, cfg.API.Timeout)
	assert.Equal(t, ".ledgerview", cfg.Storage.Dir)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte("api: [unclosed\n"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing config")
}

func TestYAMLFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, Save(path, Default()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "base_url: http://localhost:8080")
	assert.Contains(t, contents, "timeout: 10s")
	assert.Contains(t, contents, "dir: .ledgerview")
	assert.Contains(t, contents, "level: info")
}

func TestLoadEnv_FileAndOverride(t *testing.T) {
	envFile := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(envFile, []byte(EnvAPIURL+"=http://from-dotenv:8080\n"), 0o644))

	// godotenv does not override variables that are already set.
	t.Setenv(EnvAPIURL, "")
	require.NoError(t, os.Unsetenv(EnvAPIURL))

	cfg := Default()
	require.NoError(t, LoadEnv(cfg, envFile))
	assert.Equal(t, "http://from-dotenv:8080", cfg.API.BaseURL)

	t.Setenv(EnvAPIURL, "http://from-env:8080")
	cfg = Default()
	require.NoError(t, LoadEnv(cfg, envFile))
	assert.Equal(t, "http://from-env:8080", cfg.API.BaseURL)
}

func TestLoadEnv_MissingFile(t *testing.T) {
	t.Setenv(EnvAPIURL, "")
	cfg := Default()
	require.NoError(t, LoadEnv(cfg, filepath.Join(t.TempDir(), ".env")))
	assert.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
}
