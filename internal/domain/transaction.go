package domain

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// Transaction single ledger event. Values are fixed at creation.
type Transaction struct {
	ID   string
	Kind TxKind
	// Amount quantity of the base currency.
	Amount decimal.Decimal
	// Rate quote per base unit at the time of the event.
	Rate decimal.Decimal
	// TotalValue Amount*Rate in quote currency. Informational for deposits.
	TotalValue decimal.Decimal
	// Profit realized profit stamped at sell time, zero for other kinds.
	Profit decimal.Decimal
	Date   time.Time
}

// newTransaction creates a validated transaction with TotalValue derived from amount and rate.
func newTransaction(id string, kind TxKind, amount, rate decimal.Decimal, date time.Time) (Transaction, error) {
	if id == "" {
		return Transaction{}, errors.New("transaction id is required")
	}
	if !kind.IsValid() {
		return Transaction{}, errors.Errorf("unknown transaction type %q", kind)
	}
	if !amount.IsPositive() {
		return Transaction{}, errors.Wrapf(ErrInvalidAmount, "got %s", amount.String())
	}
	if !rate.IsPositive() {
		return Transaction{}, errors.Wrapf(ErrInvalidRate, "got %s", rate.String())
	}

	return Transaction{
		ID:         id,
		Kind:       kind,
		Amount:     amount,
		Rate:       rate,
		TotalValue: amount.Mul(rate),
		Profit:     decimal.Zero,
		Date:       date,
	}, nil
}

// RestoreTransaction rebuilds a transaction from persisted fields.
// Stored values are taken as-is; a zero date falls back to now.
func RestoreTransaction(id string, kind TxKind, amount, rate, totalValue, profit decimal.Decimal, date time.Time) (Transaction, error) {
	if id == "" {
		return Transaction{}, errors.New("transaction id is required")
	}
	if !kind.IsValid() {
		return Transaction{}, errors.Errorf("unknown transaction type %q", kind)
	}
	if date.IsZero() {
		date = time.Now()
	}
	if kind != TxKindSell {
		profit = decimal.Zero
	}

	return Transaction{
		ID:         id,
		Kind:       kind,
		Amount:     amount,
		Rate:       rate,
		TotalValue: totalValue,
		Profit:     profit,
		Date:       date,
	}, nil
}

// IsLoss reports whether the sell realized a loss.
func (t Transaction) IsLoss() bool {
	return t.Profit.IsNegative()
}

// String returns a human-readable string representation.
func (t Transaction) String() string {
	return fmt.Sprintf("%s %s amount: %s rate: %s total: %s", t.ID, t.Kind, t.Amount.String(), t.Rate.String(), t.TotalValue.String())
}
