package storage

import (
	"context"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/capman/internal/domain"
	"go.uber.org/zap"
)

// SnapshotKey fixed name of the ledger record.
const SnapshotKey = "capitalManagerData"

// Repository maps the ledger to its snapshot record in a KV store.
type Repository struct {
	kv     KV
	key    string
	logger *zap.Logger
}

// NewRepository creates a repository storing the ledger under SnapshotKey.
func NewRepository(kv KV, logger *zap.Logger) *Repository {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository{kv: kv, key: SnapshotKey, logger: logger}
}

// Load reads the ledger. A missing record yields an uninitialized ledger;
// an undecodable one yields ErrCorruptSnapshot.
func (r *Repository) Load(ctx context.Context) (*domain.Ledger, error) {
	payload, err := r.kv.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			r.logger.Debug("no ledger snapshot stored, starting empty", zap.String("key", r.key))
			return domain.NewLedger(), nil
		}
		return nil, errors.Wrap(err, "read ledger snapshot")
	}

	if len(payload) == 0 {
		return domain.NewLedger(), nil
	}

	ledger, err := Decode(payload)
	if err != nil {
		return nil, err
	}

	r.logger.Debug("ledger snapshot loaded",
		zap.Bool("initialized", ledger.Initialized),
		zap.Int("transactions", len(ledger.Transactions)))

	return ledger, nil
}

// Save writes the full ledger snapshot.
func (r *Repository) Save(ctx context.Context, ledger *domain.Ledger) error {
	payload, err := Encode(ledger)
	if err != nil {
		return err
	}
	if err := r.kv.Put(ctx, r.key, payload); err != nil {
		return errors.Wrap(err, "write ledger snapshot")
	}
	return nil
}

// Clear removes the stored snapshot.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.kv.Delete(ctx, r.key); err != nil {
		return errors.Wrap(err, "delete ledger snapshot")
	}
	return nil
}

// Close closes the underlying store.
func (r *Repository) Close() error {
	return r.kv.Close()
}
