// Package domain defines the capital ledger: transactions, balances and derived figures.
package domain

import (
	"fmt"
	"strings"

	"github.com/pkg/errors"
)

// Pair currency pair tracked by the ledger.
type Pair struct {
	// Base currency being accumulated and traded (e.g. USDT).
	Base string
	// Quote currency used to price the base currency (e.g. DZD).
	Quote string
}

// DefaultPair returns USDT/DZD.
func DefaultPair() Pair {
	return Pair{Base: "USDT", Quote: "DZD"}
}

// String returns the string representation.
func (p Pair) String() string {
	return fmt.Sprintf("%s_%s", p.Base, p.Quote)
}

// RateUnit returns the unit label for exchange rates, quote per base.
func (p Pair) RateUnit() string {
	return fmt.Sprintf("%s/%s", p.Quote, p.Base)
}

// ParsePair parses a BASE_QUOTE string.
func ParsePair(s string) (Pair, error) {
	parts := strings.Split(strings.TrimSpace(s), "_")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return Pair{}, errors.Errorf("invalid pair %q: must be BASE_QUOTE (e.g. USDT_DZD)", s)
	}
	return Pair{Base: strings.ToUpper(parts[0]), Quote: strings.ToUpper(parts[1])}, nil
}
