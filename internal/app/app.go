// Package app wires configuration, storage and the capital manager together.
package app

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/capman/config"
	"github.com/vadiminshakov/capman/internal/services/capital"
	"github.com/vadiminshakov/capman/internal/storage"
	"github.com/vadiminshakov/capman/internal/storage/filekv"
	"github.com/vadiminshakov/capman/internal/storage/sqlitekv"
	"github.com/vadiminshakov/capman/internal/storage/walkv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// App running application components.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Manager *capital.Manager

	repo *storage.Repository
}

// New opens the configured storage backend and loads the ledger.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	kv, err := OpenKV(cfg.Storage, logger)
	if err != nil {
		return nil, err
	}

	repo := storage.NewRepository(kv, logger.Named("storage"))
	manager, err := capital.New(ctx, repo, logger.Named("capital"), capital.WithPair(cfg.Pair()))
	if err != nil {
		_ = repo.Close()
		return nil, err
	}

	return &App{
		Config:  cfg,
		Logger:  logger,
		Manager: manager,
		repo:    repo,
	}, nil
}

// Close releases the storage backend.
func (a *App) Close() error {
	return a.repo.Close()
}

// OpenKV opens the key-value backend named in cfg.
func OpenKV(cfg config.StorageConfig, logger *zap.Logger) (storage.KV, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	var (
		kv  storage.KV
		err error
	)
	switch cfg.Backend {
	case config.BackendFile, "":
		kv, err = filekv.NewStore(cfg.Path)
	case config.BackendWAL:
		kv, err = walkv.NewStore(cfg.Path, logger.Named("wal"))
	case config.BackendSQLite:
		kv, err = sqlitekv.NewStore(cfg.Path)
	default:
		return nil, errors.Errorf("unsupported storage backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, errors.Wrapf(err, "open %s storage", cfg.Backend)
	}
	return kv, nil
}

// NewLogger builds a console logger at the given level. Debug level adds
// development-mode stack traces.
func NewLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, errors.Wrapf(err, "parse log level %q", level)
	}

	zcfg := zap.NewProductionConfig()
	if lvl == zapcore.DebugLevel {
		zcfg = zap.NewDevelopmentConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(lvl)
	zcfg.Encoding = "console"
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.ErrorOutputPaths = []string{"stderr"}

	return zcfg.Build()
}
