package domain

import (
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

const percentageMultiplier = 100

// Period reporting window for profit aggregation.
type Period string

const (
	// PeriodDay from the start of the current calendar day.
	PeriodDay Period = "day"
	// PeriodWeek the last seven days.
	PeriodWeek Period = "week"
	// PeriodMonth the last calendar month.
	PeriodMonth Period = "month"
	// PeriodAll every recorded sale.
	PeriodAll Period = "all"
)

// ParsePeriod converts a period name into a Period.
func ParsePeriod(s string) (Period, error) {
	p := Period(s)
	switch p {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return p, nil
	}
	return "", errors.Errorf("unknown period %q (day, week, month, all)", s)
}

// Start returns the beginning of the window ending at now.
func (p Period) Start(now time.Time) time.Time {
	switch p {
	case PeriodDay:
		y, m, d := now.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	case PeriodWeek:
		return now.AddDate(0, 0, -7)
	case PeriodMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// TotalProfit sums the realized profit of all sell transactions.
func TotalProfit(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind == TxKindSell {
			total = total.Add(tx.Profit)
		}
	}
	return total
}

// TotalCost sums the quote value spent on purchases.
func TotalCost(txs []Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind == TxKindBuy {
			total = total.Add(tx.TotalValue)
		}
	}
	return total
}

// ProfitRate returns total profit as a percentage of total purchase cost,
// zero when nothing was bought.
func ProfitRate(txs []Transaction) decimal.Decimal {
	cost := TotalCost(txs)
	if cost.IsZero() {
		return decimal.Zero
	}
	return TotalProfit(txs).Div(cost).Mul(decimal.NewFromInt(percentageMultiplier))
}

// PeriodProfit sums the profit of sales dated within [p.Start(now), now].
func PeriodProfit(txs []Transaction, p Period, now time.Time) decimal.Decimal {
	start := p.Start(now)
	total := decimal.Zero
	for _, tx := range txs {
		if tx.Kind != TxKindSell {
			continue
		}
		if tx.Date.Before(start) || tx.Date.After(now) {
			continue
		}
		total = total.Add(tx.Profit)
	}
	return total
}

// TopProfitTransactions returns sales ordered by profit, highest first, at most limit of them.
func TopProfitTransactions(txs []Transaction, limit int) []Transaction {
	if limit <= 0 {
		return []Transaction{}
	}

	sells := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		if tx.Kind == TxKindSell {
			sells = append(sells, tx)
		}
	}

	sort.SliceStable(sells, func(i, j int) bool {
		return sells[i].Profit.GreaterThan(sells[j].Profit)
	})

	if len(sells) > limit {
		sells = sells[:limit]
	}
	return sells
}

// SortedByDate returns a copy of txs ordered newest first.
func SortedByDate(txs []Transaction) []Transaction {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.After(sorted[j].Date)
	})
	return sorted
}

// RecentTransactions returns the limit newest transactions.
func RecentTransactions(txs []Transaction, limit int) []Transaction {
	sorted := SortedByDate(txs)
	if limit >= 0 && len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
