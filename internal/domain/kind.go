package domain

import "github.com/pkg/errors"

// TxKind type of a ledger event.
type TxKind string

const (
	// TxKindBuy base currency bought with quote currency.
	TxKindBuy TxKind = "buy"
	// TxKindSell base currency sold for quote currency.
	TxKindSell TxKind = "sell"
	// TxKindDeposit base currency injected from outside the ledger.
	TxKindDeposit TxKind = "deposit"
)

// String returns the string representation.
func (k TxKind) String() string {
	return string(k)
}

// IsValid checks if the TxKind value is valid.
func (k TxKind) IsValid() bool {
	switch k {
	case TxKindBuy, TxKindSell, TxKindDeposit:
		return true
	}
	return false
}

// ParseTxKind converts a persisted kind string into a TxKind.
func ParseTxKind(s string) (TxKind, error) {
	k := TxKind(s)
	if !k.IsValid() {
		return "", errors.Errorf("unknown transaction type %q", s)
	}
	return k, nil
}
