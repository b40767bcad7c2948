package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/payroll-check/internal/adapters/driven/freee"
	"github.com/custodia-labs/payroll-check/internal/adapters/driven/memory"
	"github.com/custodia-labs/payroll-check/internal/adapters/driven/postgres"
	redisadapter "github.com/custodia-labs/payroll-check/internal/adapters/driven/redis"
	"github.com/custodia-labs/payroll-check/internal/adapters/driven/secrets"
	"github.com/custodia-labs/payroll-check/internal/config"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driven"
	"github.com/custodia-labs/payroll-check/internal/core/ports/driving"
	"github.com/custodia-labs/payroll-check/internal/core/services"
)

// stores bundles the persistence backends selected by STORE_BACKEND.
type stores struct {
	states  driven.StateStore
	tokens  driven.TokenStore
	closers []func() error
}

func (s *stores) Close() error {
	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(cfg.Log.Level) {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}

func openStores(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*stores, error) {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		encryptor, err := secrets.NewEncryptorFromPassphrase(cfg.Store.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("token encryption: %w", err)
		}
		client, err := redisadapter.Connect(ctx, cfg.Store.RedisURL)
		if err != nil {
			return nil, err
		}
		logger.Info("using redis store")
		return &stores{
			states:  redisadapter.NewStateStore(client),
			tokens:  redisadapter.NewTokenStore(client, encryptor),
			closers: []func() error{client.Close},
		}, nil

	case config.BackendPostgres:
		encryptor, err := secrets.NewEncryptorFromPassphrase(cfg.Store.EncryptionKey)
		if err != nil {
			return nil, fmt.Errorf("token encryption: %w", err)
		}
		db, err := postgres.Connect(ctx, postgres.DefaultConfig(cfg.Store.DatabaseURL))
		if err != nil {
			return nil, err
		}
		if err := db.InitSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		logger.Info("using postgres store")
		return &stores{
			states:  postgres.NewStateStore(db.DB),
			tokens:  postgres.NewTokenStore(db.DB, encryptor),
			closers: []func() error{db.Close},
		}, nil

	default:
		logger.Info("using in-memory store; credentials are lost on restart")
		return &stores{
			states: memory.NewStateStore(time.Minute),
			tokens: memory.NewTokenStore(),
		}, nil
	}
}

func freeeConfig(cfg *config.Config) freee.Config {
	return freee.Config{
		AuthURL:  cfg.Freee.AuthURL,
		TokenURL: cfg.Freee.TokenURL,
		APIURL:   cfg.Freee.APIURL,
		Timeout:  cfg.UpstreamTimeout(),
	}
}

func newCheckService(cfg *config.Config, st *stores, logger *slog.Logger) driving.PayrollCheckService {
	fetcher := services.NewStatementFetcher(services.StatementFetcherConfig{
		TokenStore: st.tokens,
		Client:     freee.NewPayrollClient(freeeConfig(cfg)),
		CompanyID:  cfg.Freee.CompanyID,
		Logger:     logger,
	})
	return services.NewPayrollCheckService(fetcher, logger)
}
