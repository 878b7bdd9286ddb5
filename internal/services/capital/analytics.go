package capital

import (
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/internal/domain"
)

// TotalProfit sums realized profit over all sells.
func (m *Manager) TotalProfit() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.TotalProfit(m.ledger.Transactions)
}

// ProfitRate returns total profit as a percentage of total buy cost.
func (m *Manager) ProfitRate() decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.ProfitRate(m.ledger.Transactions)
}

// PeriodProfit sums realized profit of sells inside the period ending now.
func (m *Manager) PeriodProfit(p domain.Period) decimal.Decimal {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.PeriodProfit(m.ledger.Transactions, p, m.now())
}

// TopProfitTransactions returns up to limit sells ordered by profit, highest first.
func (m *Manager) TopProfitTransactions(limit int) []domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return domain.TopProfitTransactions(m.ledger.Transactions, limit)
}

// RecentTransactions returns up to limit transactions, newest first. A
// non-positive limit returns the whole history.
func (m *Manager) RecentTransactions(limit int) []domain.Transaction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if limit <= 0 {
		return domain.SortedByDate(m.ledger.Transactions)
	}
	return domain.RecentTransactions(m.ledger.Transactions, limit)
}
