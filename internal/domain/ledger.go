package domain

import (
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Ledger balances and transaction history of a single capital account.
//
// Balances always equal the sum of the recorded transactions' effects, except
// after OverrideBalances. Every mutating method validates first and mutates
// only on success.
type Ledger struct {
	Initialized  bool
	BaseBalance  decimal.Decimal
	QuoteBalance decimal.Decimal
	// InitialRate cost basis used when no purchase is recorded.
	InitialRate decimal.Decimal
	// TotalBought running base quantity of all buy transactions.
	TotalBought decimal.Decimal
	// TotalSold running base quantity of all sell transactions.
	TotalSold    decimal.Decimal
	Transactions []Transaction
}

// NewLedger creates an uninitialized ledger with all fields zeroed.
func NewLedger() *Ledger {
	return &Ledger{
		BaseBalance:  decimal.Zero,
		QuoteBalance: decimal.Zero,
		InitialRate:  decimal.Zero,
		TotalBought:  decimal.Zero,
		TotalSold:    decimal.Zero,
		Transactions: make([]Transaction, 0),
	}
}

// Reset discards all history and starts over with the given balances.
func (l *Ledger) Reset(base, quote, initialRate decimal.Decimal) {
	*l = *NewLedger()
	l.BaseBalance = base
	l.QuoteBalance = quote
	l.InitialRate = initialRate
	l.Initialized = true
}

// Clone returns a deep copy of the ledger.
func (l *Ledger) Clone() *Ledger {
	clone := *l
	clone.Transactions = make([]Transaction, len(l.Transactions))
	copy(clone.Transactions, l.Transactions)
	return &clone
}

// Buy records a purchase of amount base units at rate, paid from the quote balance.
func (l *Ledger) Buy(id string, amount, rate decimal.Decimal, at time.Time) (Transaction, error) {
	if !l.Initialized {
		return Transaction{}, ErrNotInitialized
	}
	tx, err := newTransaction(id, TxKindBuy, amount, rate, at)
	if err != nil {
		return Transaction{}, err
	}
	if tx.TotalValue.GreaterThan(l.QuoteBalance) {
		return Transaction{}, errors.Wrapf(ErrInsufficientQuoteBalance,
			"cost %s, available %s", tx.TotalValue.String(), l.QuoteBalance.String())
	}
	if err := l.checkUnique(id); err != nil {
		return Transaction{}, err
	}

	l.BaseBalance = l.BaseBalance.Add(tx.Amount)
	l.QuoteBalance = l.QuoteBalance.Sub(tx.TotalValue)
	l.TotalBought = l.TotalBought.Add(tx.Amount)
	l.Transactions = append(l.Transactions, tx)

	return tx, nil
}

// Sell records a sale of amount base units at rate. Profit is computed against
// the average buy rate at this moment and never recomputed.
func (l *Ledger) Sell(id string, amount, rate decimal.Decimal, at time.Time) (Transaction, error) {
	if !l.Initialized {
		return Transaction{}, ErrNotInitialized
	}
	tx, err := newTransaction(id, TxKindSell, amount, rate, at)
	if err != nil {
		return Transaction{}, err
	}
	if tx.Amount.GreaterThan(l.BaseBalance) {
		return Transaction{}, errors.Wrapf(ErrInsufficientBaseBalance,
			"amount %s, available %s", tx.Amount.String(), l.BaseBalance.String())
	}
	if err := l.checkUnique(id); err != nil {
		return Transaction{}, err
	}

	avgBuyRate := l.AvgBuyRate()
	tx.Profit = tx.Amount.Mul(tx.Rate.Sub(avgBuyRate))

	l.BaseBalance = l.BaseBalance.Sub(tx.Amount)
	l.QuoteBalance = l.QuoteBalance.Add(tx.TotalValue)
	l.TotalSold = l.TotalSold.Add(tx.Amount)
	l.Transactions = append(l.Transactions, tx)

	return tx, nil
}

// Deposit records base currency received from outside; the quote balance is untouched.
func (l *Ledger) Deposit(id string, amount, rate decimal.Decimal, at time.Time) (Transaction, error) {
	if !l.Initialized {
		return Transaction{}, ErrNotInitialized
	}
	tx, err := newTransaction(id, TxKindDeposit, amount, rate, at)
	if err != nil {
		return Transaction{}, err
	}
	if err := l.checkUnique(id); err != nil {
		return Transaction{}, err
	}

	l.BaseBalance = l.BaseBalance.Add(tx.Amount)
	l.Transactions = append(l.Transactions, tx)

	return tx, nil
}

// AvgBuyRate returns the volume-weighted average rate of all buy transactions,
// or InitialRate when there is none.
func (l *Ledger) AvgBuyRate() decimal.Decimal {
	totalAmount := decimal.Zero
	totalValue := decimal.Zero
	buys := 0

	for _, tx := range l.Transactions {
		if tx.Kind != TxKindBuy {
			continue
		}
		buys++
		totalAmount = totalAmount.Add(tx.Amount)
		totalValue = totalValue.Add(tx.TotalValue)
	}

	if buys == 0 || totalAmount.IsZero() {
		return l.InitialRate
	}

	return totalValue.Div(totalAmount)
}

// Find returns the transaction with the given id.
func (l *Ledger) Find(id string) (Transaction, bool) {
	if i := l.indexOf(id); i >= 0 {
		return l.Transactions[i], true
	}
	return Transaction{}, false
}

// Delete removes a transaction and reverses its balance effects.
// Deleting a deposit takes its amount back out of the base balance.
func (l *Ledger) Delete(id string) (Transaction, bool) {
	i := l.indexOf(id)
	if i < 0 {
		return Transaction{}, false
	}
	tx := l.Transactions[i]

	switch tx.Kind {
	case TxKindBuy:
		l.BaseBalance = l.BaseBalance.Sub(tx.Amount)
		l.QuoteBalance = l.QuoteBalance.Add(tx.TotalValue)
		l.TotalBought = l.TotalBought.Sub(tx.Amount)
	case TxKindSell:
		l.BaseBalance = l.BaseBalance.Add(tx.Amount)
		l.QuoteBalance = l.QuoteBalance.Sub(tx.TotalValue)
		l.TotalSold = l.TotalSold.Sub(tx.Amount)
	case TxKindDeposit:
		l.BaseBalance = l.BaseBalance.Sub(tx.Amount)
	}

	l.Transactions = append(l.Transactions[:i], l.Transactions[i+1:]...)

	return tx, true
}

// OverrideBalances sets both balances directly.
//
// Manual correction escape hatch: it bypasses the transaction history, so the
// balances no longer equal the sum of recorded effects afterwards.
func (l *Ledger) OverrideBalances(base, quote decimal.Decimal) error {
	if !l.Initialized {
		return ErrNotInitialized
	}
	l.BaseBalance = base
	l.QuoteBalance = quote
	return nil
}

// Validate checks structural consistency of a restored ledger.
func (l *Ledger) Validate() error {
	seen := make(map[string]struct{}, len(l.Transactions))
	for _, tx := range l.Transactions {
		if _, ok := seen[tx.ID]; ok {
			return errors.Wrapf(ErrDuplicateID, "id %s", tx.ID)
		}
		seen[tx.ID] = struct{}{}
		if !tx.Kind.IsValid() {
			return errors.Errorf("transaction %s: unknown type %q", tx.ID, tx.Kind)
		}
	}
	return nil
}

func (l *Ledger) indexOf(id string) int {
	for i, tx := range l.Transactions {
		if tx.ID == id {
			return i
		}
	}
	return -1
}

func (l *Ledger) checkUnique(id string) error {
	if l.indexOf(id) >= 0 {
		return errors.Wrapf(ErrDuplicateID, "id %s", id)
	}
	return nil
}
