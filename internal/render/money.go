// Package render formats the ledger for the terminal.
package render

import (
	"sync"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

var registerOnce sync.Once

// stablecoins missing from the ISO table.
func registerCurrencies() {
	registerOnce.Do(func() {
		for _, code := range []string{"USDT", "USDC", "DAI"} {
			if money.GetCurrency(code) == nil {
				money.AddCurrency(code, code, "1 $", ".", ",", 2)
			}
		}
	})
}

// Money formats amount in the given currency, rounded to the currency's minor unit.
func Money(amount decimal.Decimal, code string) string {
	registerCurrencies()

	cur := money.GetCurrency(code)
	if cur == nil {
		return amount.StringFixed(2) + " " + code
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return cur.Formatter().Format(minor)
}

// SignedMoney is Money with an explicit sign; zero is rendered as "-".
func SignedMoney(amount decimal.Decimal, code string) string {
	switch {
	case amount.IsZero():
		return "-"
	case amount.IsPositive():
		return "+" + Money(amount, code)
	default:
		return Money(amount, code)
	}
}

// Rate formats an exchange rate.
func Rate(rate decimal.Decimal) string {
	return rate.StringFixed(2)
}

// Percent formats a percentage with two decimals.
func Percent(p decimal.Decimal) string {
	return p.StringFixed(2) + "%"
}
