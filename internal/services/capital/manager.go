// Package capital serializes ledger operations and persists every change.
package capital

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/internal/domain"
	"github.com/vadiminshakov/capman/internal/storage"
	"github.com/vadiminshakov/capman/pkg/retrier"
	"go.uber.org/zap"
)

// Repository loads and stores the ledger snapshot.
type Repository interface {
	Load(ctx context.Context) (*domain.Ledger, error)
	Save(ctx context.Context, ledger *domain.Ledger) error
	Clear(ctx context.Context) error
}

// Balances current holdings and cost basis.
type Balances struct {
	Initialized bool
	Base        decimal.Decimal
	Quote       decimal.Decimal
	AvgBuyRate  decimal.Decimal
}

// Manager owns the in-memory ledger. Mutations are applied to a copy, persisted,
// and only then made visible, so a failed write leaves the ledger unchanged.
type Manager struct {
	mu      sync.RWMutex
	ledger  *domain.Ledger
	repo    Repository
	logger  *zap.Logger
	retrier *retrier.Retrier
	pair    domain.Pair
	now     func() time.Time
	newID   func() string
}

// Option configures the Manager.
type Option func(*Manager)

// WithPair sets the currency pair used in log output.
func WithPair(pair domain.Pair) Option {
	return func(m *Manager) {
		m.pair = pair
	}
}

// WithClock overrides the time source stamped on new transactions.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// WithIDGenerator overrides transaction id generation.
func WithIDGenerator(newID func() string) Option {
	return func(m *Manager) {
		m.newID = newID
	}
}

// WithRetrier overrides the retry policy for snapshot writes.
func WithRetrier(r *retrier.Retrier) Option {
	return func(m *Manager) {
		m.retrier = r
	}
}

// New loads the stored ledger. A corrupt snapshot is logged and replaced by an
// empty ledger; any other read failure is returned.
func New(ctx context.Context, repo Repository, logger *zap.Logger, opts ...Option) (*Manager, error) {
	if repo == nil {
		return nil, errors.New("repository is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		repo:   repo,
		logger: logger,
		pair:   domain.DefaultPair(),
		now:    time.Now,
		newID: func() string {
			return uuid.Must(uuid.NewV7()).String()
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.retrier == nil {
		m.retrier = retrier.New(retrier.WithOnRetry(func(attempt int, err error) {
			logger.Warn("retrying ledger write", zap.Int("attempt", attempt), zap.Error(err))
		}))
	}

	ledger, err := repo.Load(ctx)
	switch {
	case errors.Is(err, storage.ErrCorruptSnapshot):
		logger.Error("stored ledger is unreadable, starting empty", zap.Error(err))
		ledger = domain.NewLedger()
	case err != nil:
		return nil, errors.Wrap(err, "load ledger")
	}
	m.ledger = ledger

	logger.Info("capital manager ready",
		zap.String("pair", m.pair.String()),
		zap.Bool("initialized", ledger.Initialized),
		zap.String("base", ledger.BaseBalance.String()),
		zap.String("quote", ledger.QuoteBalance.String()),
		zap.Int("transactions", len(ledger.Transactions)))

	return m, nil
}

// Initialize resets the ledger to the given balances and initial rate, discarding history.
// Negative balances are accepted; they record money owed.
func (m *Manager) Initialize(ctx context.Context, base, quote, initialRate decimal.Decimal) error {
	err := m.apply(ctx, func(l *domain.Ledger) error {
		l.Reset(base, quote, initialRate)
		return nil
	})
	if err != nil {
		return err
	}

	m.logger.Info("ledger initialized",
		zap.String("base", base.String()),
		zap.String("quote", quote.String()),
		zap.String("initial_rate", initialRate.String()))
	return nil
}

// BuyDollars records a purchase of base currency paid in quote currency.
func (m *Manager) BuyDollars(ctx context.Context, amount, rate decimal.Decimal) (domain.Transaction, error) {
	return m.record(ctx, domain.TxKindBuy, amount, rate)
}

// SellDollars records a sale of base currency and stamps its realized profit.
func (m *Manager) SellDollars(ctx context.Context, amount, rate decimal.Decimal) (domain.Transaction, error) {
	return m.record(ctx, domain.TxKindSell, amount, rate)
}

// DepositDollars records base currency received from outside.
func (m *Manager) DepositDollars(ctx context.Context, amount, rate decimal.Decimal) (domain.Transaction, error) {
	return m.record(ctx, domain.TxKindDeposit, amount, rate)
}

func (m *Manager) record(ctx context.Context, kind domain.TxKind, amount, rate decimal.Decimal) (domain.Transaction, error) {
	var tx domain.Transaction

	err := m.apply(ctx, func(l *domain.Ledger) error {
		id, at := m.newID(), m.now()

		var err error
		switch kind {
		case domain.TxKindBuy:
			tx, err = l.Buy(id, amount, rate, at)
		case domain.TxKindSell:
			tx, err = l.Sell(id, amount, rate, at)
		case domain.TxKindDeposit:
			tx, err = l.Deposit(id, amount, rate, at)
		default:
			err = errors.Errorf("unknown transaction type %q", kind)
		}
		return err
	})
	if err != nil {
		return domain.Transaction{}, err
	}

	fields := []zap.Field{
		zap.String("id", tx.ID),
		zap.String("type", tx.Kind.String()),
		zap.String("amount", tx.Amount.String()),
		zap.String("rate", tx.Rate.String()),
		zap.String("total", tx.TotalValue.String()),
	}
	if kind == domain.TxKindSell {
		fields = append(fields, zap.String("profit", tx.Profit.String()))
	}
	m.logger.Info("transaction recorded", fields...)

	return tx, nil
}

// DeleteTransaction removes a transaction and reverses its balance effects.
// It reports false when no transaction has the given id.
func (m *Manager) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	var (
		removed domain.Transaction
		found   bool
	)

	err := m.apply(ctx, func(l *domain.Ledger) error {
		removed, found = l.Delete(id)
		if !found {
			return errNothingToDo
		}
		return nil
	})
	if errors.Is(err, errNothingToDo) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	m.logger.Info("transaction deleted",
		zap.String("id", removed.ID),
		zap.String("type", removed.Kind.String()),
		zap.String("amount", removed.Amount.String()))
	return true, nil
}

// OverrideBalances sets both balances directly, bypassing the transaction history.
func (m *Manager) OverrideBalances(ctx context.Context, base, quote decimal.Decimal) error {
	var prevBase, prevQuote decimal.Decimal
	err := m.apply(ctx, func(l *domain.Ledger) error {
		prevBase, prevQuote = l.BaseBalance, l.QuoteBalance
		return l.OverrideBalances(base, quote)
	})
	if err != nil {
		return err
	}

	m.logger.Warn("balances overridden",
		zap.String("source", "manual_override"),
		zap.String("base_before", prevBase.String()),
		zap.String("base_after", base.String()),
		zap.String("quote_before", prevQuote.String()),
		zap.String("quote_after", quote.String()))
	return nil
}

// Reset clears the stored record and returns to an uninitialized ledger.
func (m *Manager) Reset(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	err := m.retrier.Do(ctx, func(ctx context.Context) error {
		return m.repo.Clear(ctx)
	})
	if err != nil {
		return errors.Wrap(err, "clear ledger")
	}
	m.ledger = domain.NewLedger()

	m.logger.Warn("ledger reset")
	return nil
}

// CalculateAvgBuyRate returns the volume-weighted average buy rate, or the
// initial rate when nothing has been bought.
func (m *Manager) CalculateAvgBuyRate() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledger.AvgBuyRate()
}

// Balances returns current holdings.
func (m *Manager) Balances() Balances {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return Balances{
		Initialized: m.ledger.Initialized,
		Base:        m.ledger.BaseBalance,
		Quote:       m.ledger.QuoteBalance,
		AvgBuyRate:  m.ledger.AvgBuyRate(),
	}
}

// Snapshot returns a deep copy of the ledger.
func (m *Manager) Snapshot() *domain.Ledger {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ledger.Clone()
}

// Pair returns the configured currency pair.
func (m *Manager) Pair() domain.Pair {
	return m.pair
}

var errNothingToDo = errors.New("nothing to do")

// apply runs mutate on a copy of the ledger, persists the copy and swaps it in.
func (m *Manager) apply(ctx context.Context, mutate func(l *domain.Ledger) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	next := m.ledger.Clone()
	if err := mutate(next); err != nil {
		return err
	}

	err := m.retrier.Do(ctx, func(ctx context.Context) error {
		return m.repo.Save(ctx, next)
	})
	if err != nil {
		m.logger.Error("failed to persist ledger", zap.Error(err))
		return errors.Wrap(err, "persist ledger")
	}

	m.ledger = next
	return nil
}
