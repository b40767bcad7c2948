package main

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/payroll-check/internal/adapters/driven/memory"
	"github.com/custodia-labs/payroll-check/internal/adapters/driven/secrets"
	"github.com/custodia-labs/payroll-check/internal/config"
)

func TestOpenStores_Memory(t *testing.T) {
	cfg := config.Default()

	st, err := openStores(context.Background(), cfg, slog.Default())
	require.NoError(t, err)
	defer st.Close()

	assert.IsType(t, &memory.StateStore{}, st.states)
	assert.IsType(t, &memory.TokenStore{}, st.tokens)
	assert.NoError(t, st.states.Ping(context.Background()))
}

func TestOpenStores_PostgresNeedsEncryptionKey(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendPostgres
	cfg.Store.DatabaseURL = "postgres://localhost/payroll?sslmode=disable"

	_, err := openStores(context.Background(), cfg, slog.Default())
	assert.Error(t, err)
}

func TestOpenStores_RedisNeedsEncryptionKey(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Backend = config.BackendRedis
	cfg.Store.RedisURL = "redis://localhost:6379/0"

	_, err := openStores(context.Background(), cfg, slog.Default())
	assert.ErrorIs(t, err, secrets.ErrEmptyPassphrase)
}

func TestNewLogger_Level(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "debug"
	cfg.Log.Format = "json"

	logger := newLogger(cfg)
	assert.True(t, logger.Enabled(context.Background(), slog.LevelDebug))

	cfg.Log.Level = "warn"
	logger = newLogger(cfg)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
}

func TestRootCommand_Subcommands(t *testing.T) {
	names := map[string]bool{}
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}
	for _, want := range []string{"serve", "check", "token", "cleanup"} {
		assert.True(t, names[want], "missing subcommand %s", want)
	}
}
