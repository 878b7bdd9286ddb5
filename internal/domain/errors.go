package domain

import "github.com/pkg/errors"

var (
	// ErrInsufficientQuoteBalance purchase cost exceeds the available quote funds.
	ErrInsufficientQuoteBalance = errors.New("insufficient quote balance for this purchase")
	// ErrInsufficientBaseBalance sale amount exceeds the base holdings.
	ErrInsufficientBaseBalance = errors.New("insufficient base balance for this sale")
	// ErrNotInitialized trading operation attempted before setup.
	ErrNotInitialized = errors.New("ledger is not initialized")
	// ErrInvalidAmount amount is zero or negative.
	ErrInvalidAmount = errors.New("amount must be positive")
	// ErrInvalidRate rate is zero or negative.
	ErrInvalidRate = errors.New("rate must be positive")
	// ErrDuplicateID transaction id already present in the ledger.
	ErrDuplicateID = errors.New("duplicate transaction id")
)
