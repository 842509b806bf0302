package config

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledgerview/internal/accounts"
	"github.com/cleared-dev/ledgerview/internal/model"
)

// FileName is the configuration file looked up in the working directory.
const FileName = "ledgerview.yaml"

// EnvAPIURL overrides API.BaseURL when set.
const EnvAPIURL = "LEDGERVIEW_API_URL"

// Config represents the top-level ledgerview.yaml configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	Storage StorageConfig `yaml:"storage"`
	Seed    SeedConfig    `yaml:"seed"`
	Log     LogConfig     `yaml:"log"`
}

// APIConfig locates the banking backend.
type APIConfig struct {
	BaseURL string        `yaml:"base_url"`
	Timeout time.Duration `yaml:"timeout"`
}

// StorageConfig locates the local cache.
type StorageConfig struct {
	Dir string `yaml:"dir"`
}

// SeedConfig holds the balances shown when nothing better is known.
type SeedConfig struct {
	Current decimal.Decimal `yaml:"current"`
	Savings decimal.Decimal `yaml:"savings"`
}

// Balances returns the seed as a balances map.
func (s SeedConfig) Balances() model.Balances {
	return model.Balances{
		model.AccountCurrent: s.Current,
		model.AccountSavings: s.Savings,
	}
}

// LogConfig controls logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Load reads a ledgerview.yaml file from disk. Missing fields keep their
// defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config for a local development backend.
func Default() *Config {
	seed := accounts.DefaultSeedBalances()
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			Dir: ".ledgerview",
		},
		Seed: SeedConfig{
			Current: seed.Get(model.AccountCurrent),
			Savings: seed.Get(model.AccountSavings),
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// LoadEnv loads envFile into the process environment when it exists, then
// applies environment overrides to cfg. Variables already set win over the
// file.
func LoadEnv(cfg *Config, envFile string) error {
	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := godotenv.Load(envFile); err != nil {
				return fmt.Errorf("loading %s: %w", envFile, err)
			}
		}
	}
	if v := os.Getenv(EnvAPIURL); v != "" {
		cfg.API.BaseURL = v
	}
	return nil
}
