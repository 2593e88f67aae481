package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"github.com/yjpartners/valet/internal/common"
	"github.com/yjpartners/valet/internal/config"
	"github.com/yjpartners/valet/internal/exchange"
	"github.com/yjpartners/valet/internal/ledger"
	"github.com/yjpartners/valet/internal/model"
	"github.com/yjpartners/valet/internal/rules"
	"github.com/yjpartners/valet/internal/store"
)

// openLedger opens the usage ledger at the configured path and brings
// its schema current.
func openLedger(ctx context.Context) (*ledger.Ledger, error) {
	dbPath := config.ExpandPath(viper.GetString("ledger.path"))

	l, err := ledger.Open(dbPath)
	if err != nil {
		return nil, err
	}

	if err := l.Migrate(ctx); err != nil {
		_ = l.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return l, nil
}

// loadRuleset reads a rules file, falling back to the built-in
// starter categories when none exists yet. An empty path means the
// configured rules.path.
func loadRuleset(path string) (model.Ruleset, error) {
	if path == "" {
		path = viper.GetString("rules.path")
	}
	path = config.ExpandPath(path)

	rs, err := rules.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Warn("No rules file found, using built-in categories", "path", path)
			return rules.Default(), nil
		}
		return model.Ruleset{}, err
	}
	return rs, nil
}

// newExchangeClient builds the USD→KRW rate client from config.
func newExchangeClient() *exchange.Client {
	return exchange.NewClient(exchange.Config{
		URL:       viper.GetString("exchange.url"),
		CachePath: config.ExpandPath(viper.GetString("exchange.cache_path")),
		Fallback:  viper.GetFloat64("exchange.fallback_rate"),
	})
}

// driveAuthConfig collects the OAuth client settings, erroring with
// setup instructions when they are missing.
func driveAuthConfig() (store.DriveAuthConfig, error) {
	clientID := viper.GetString("drive.client_id")
	clientSecret := viper.GetString("drive.client_secret")
	if clientID == "" || clientSecret == "" {
		return store.DriveAuthConfig{}, common.NewUserError(
			fmt.Sprintf("Google Drive is not configured. Set drive.client_id and drive.client_secret in %s/config.yaml.", config.Dir()),
			common.ErrMissingConfig,
		)
	}

	return store.DriveAuthConfig{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		TokenFile:    config.ExpandPath(viper.GetString("drive.token_path")),
	}, nil
}

// newDriveStore connects to Google Drive, running the interactive
// OAuth flow if no cached token exists yet.
func newDriveStore(ctx context.Context) (*store.DriveStore, error) {
	cfg, err := driveAuthConfig()
	if err != nil {
		return nil, err
	}

	ts, err := cfg.TokenSource(ctx)
	if err != nil {
		return nil, err
	}

	return store.NewDriveStore(ctx, ts)
}
