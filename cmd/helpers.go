package cmd

import (
	"fmt"
	"time"

	"github.com/legistyr/termbench/internal/config"
	"github.com/legistyr/termbench/internal/history"
	"github.com/legistyr/termbench/internal/openrouter"
)

// loadConfig loads and validates the config, providing a user-friendly error.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w\nRun `termbench init` to create a config file", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// retryPolicy converts the config retry block to the client's policy type.
func retryPolicy(rc config.RetryConfig) openrouter.Policy {
	return openrouter.Policy{
		MaxAttempts: rc.MaxAttempts,
		BaseDelay:   time.Duration(rc.BaseDelayMS) * time.Millisecond,
		Multiplier:  rc.Multiplier,
		MaxDelay:    time.Duration(rc.MaxDelayMS) * time.Millisecond,
		Jitter:      rc.Jitter,
	}
}

// openHistory opens the run ledger configured in cfg.
func openHistory(cfg *config.Config) (*history.Store, *history.DB, error) {
	db, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening run history: %w", err)
	}
	return history.NewStore(db), db, nil
}
