// Package walkv keeps records in a write-ahead log; the latest write for a key wins.
package walkv

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/capman/internal/storage"
	"github.com/vadiminshakov/gowal"
	"go.uber.org/zap"
)

const (
	defaultWALDir       = "./wal/ledger"
	walSegmentThreshold = 1000
	walMaxSegments      = 100
	tombstonePrefix     = "deleted:"
)

// Store WAL-backed key-value store. Values are replayed into memory on open.
type Store struct {
	wal    *gowal.Wal
	logger *zap.Logger
	mu     sync.RWMutex
	values map[string][]byte
}

// NewStore opens (or creates) the WAL under dir and replays it.
func NewStore(dir string, logger *zap.Logger) (*Store, error) {
	if dir == "" {
		dir = defaultWALDir
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "ledger_",
		SegmentThreshold: walSegmentThreshold,
		MaxSegments:      walMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init ledger WAL")
	}

	s := &Store{
		wal:    wal,
		logger: logger,
		values: make(map[string][]byte),
	}

	records := 0
	for msg := range wal.Iterator() {
		records++
		if strings.HasPrefix(msg.Key, tombstonePrefix) {
			delete(s.values, strings.TrimPrefix(msg.Key, tombstonePrefix))
			continue
		}
		value := make([]byte, len(msg.Value))
		copy(value, msg.Value)
		s.values[msg.Key] = value
	}

	logger.Debug("ledger WAL replayed",
		zap.String("dir", dir),
		zap.Int("records", records),
		zap.Int("keys", len(s.values)))

	return s, nil
}

// Get returns the latest value written for key.
func (s *Store) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, ok := s.values[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	out := make([]byte, len(value))
	copy(out, value)
	return out, nil
}

// Put appends a new record for key.
func (s *Store) Put(_ context.Context, key string, value []byte) error {
	if strings.HasPrefix(key, tombstonePrefix) {
		return errors.Errorf("key %q uses reserved prefix", key)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, key, value); err != nil {
		return errors.Wrap(err, "append ledger record")
	}

	stored := make([]byte, len(value))
	copy(stored, value)
	s.values[key] = stored
	return nil
}

// Delete appends a tombstone for key.
func (s *Store) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.values[key]; !ok {
		return nil
	}

	nextIndex := s.wal.CurrentIndex() + 1
	if err := s.wal.Write(nextIndex, tombstonePrefix+key, []byte("1")); err != nil {
		return errors.Wrap(err, "append ledger tombstone")
	}
	delete(s.values, key)
	return nil
}

// Close closes the underlying WAL.
func (s *Store) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("ledger WAL is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
