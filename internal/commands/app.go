package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleared-dev/ledgerview/internal/accounts"
	"github.com/cleared-dev/ledgerview/internal/activitylog"
	"github.com/cleared-dev/ledgerview/internal/config"
	"github.com/cleared-dev/ledgerview/internal/ledger"
	"github.com/cleared-dev/ledgerview/internal/logging"
	"github.com/cleared-dev/ledgerview/internal/model"
	"github.com/cleared-dev/ledgerview/internal/remote"
	"github.com/cleared-dev/ledgerview/internal/store"
	"github.com/cleared-dev/ledgerview/internal/teller"
)

// app holds the root flags and builds the services a command needs.
type app struct {
	configPath string
	apiURL     string
	logLevel   string
	envFile    string
}

// loadConfig reads the config file, or uses defaults when the file is
// absent and was not named explicitly.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(a.configPath)
	switch {
	case err == nil:
	case errors.Is(err, os.ErrNotExist) && !cmd.Flags().Changed("config"):
		cfg = config.Default()
	default:
		return nil, err
	}

	if err := config.LoadEnv(cfg, a.envFile); err != nil {
		return nil, err
	}
	if a.apiURL != "" {
		cfg.API.BaseURL = a.apiURL
	}
	if a.logLevel != "" {
		cfg.Log.Level = a.logLevel
	}

	// A relative cache dir is resolved against the config file location.
	if !filepath.IsAbs(cfg.Storage.Dir) {
		cfg.Storage.Dir = filepath.Join(filepath.Dir(a.configPath), cfg.Storage.Dir)
	}
	return cfg, nil
}

// env is everything a command needs to talk to the backend and the cache.
type env struct {
	log      *logrus.Logger
	accounts *accounts.Service
	teller   *teller.Service
}

func (a *app) env(cmd *cobra.Command) (*env, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}

	log, err := logging.Setup(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	accts := accounts.Default()
	svc := teller.NewService(teller.Options{
		Remote:      remote.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log),
		Cache:       store.New(cfg.Storage.Dir),
		Activity:    activitylog.New(cfg.Storage.Dir),
		Synthesizer: ledger.NewSynthesizer(accts),
		Seed:        cfg.Seed.Balances(),
		Logger:      log,
	})

	return &env{log: log, accounts: accts, teller: svc}, nil
}

// parseAccount validates an --account style flag value. Empty is allowed
// only when optional is set.
func parseAccount(value string, optional bool) (model.AccountType, error) {
	if value == "" {
		if optional {
			return "", nil
		}
		return "", errors.New("account is required (current or savings)")
	}
	t := model.AccountType(value)
	if !t.Valid() {
		return "", fmt.Errorf("unknown account %q (want current or savings)", value)
	}
	return t, nil
}
