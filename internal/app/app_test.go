package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/capman/config"
)

func TestApp_PersistsAcrossRestarts(t *testing.T) {
	backends := []struct {
		name string
		path func(dir string) string
	}{
		{name: config.BackendFile, path: func(dir string) string { return dir }},
		{name: config.BackendWAL, path: func(dir string) string { return filepath.Join(dir, "wal") }},
		{name: config.BackendSQLite, path: func(dir string) string { return filepath.Join(dir, "capman.db") }},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			ctx := context.Background()
			cfg := config.Default()
			cfg.Storage.Backend = b.name
			cfg.Storage.Path = b.path(t.TempDir())

			a, err := New(ctx, cfg, nil)
			require.NoError(t, err)
			require.NoError(t, a.Manager.Initialize(ctx, decimal.Zero, decimal.NewFromInt(1000), decimal.NewFromInt(100)))
			_, err = a.Manager.BuyDollars(ctx, decimal.NewFromInt(5), decimal.NewFromInt(100))
			require.NoError(t, err)
			require.NoError(t, a.Close())

			reopened, err := New(ctx, cfg, nil)
			require.NoError(t, err)
			defer reopened.Close()

			bal := reopened.Manager.Balances()
			require.True(t, bal.Initialized)
			require.Equal(t, "5", bal.Base.String())
			require.Equal(t, "500", bal.Quote.String())
			require.Len(t, reopened.Manager.Snapshot().Transactions, 1)
		})
	}
}

func TestOpenKV_UnknownBackend(t *testing.T) {
	_, err := OpenKV(config.StorageConfig{Backend: "redis"}, nil)
	require.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	for _, level := range []string{"debug", "info", "warn", "error"} {
		logger, err := NewLogger(level)
		require.NoError(t, err, level)
		require.NotNil(t, logger)
	}

	_, err := NewLogger("loud")
	require.Error(t, err)
}
