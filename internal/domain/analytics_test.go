package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func sellAt(id, profit string, at time.Time) Transaction {
	return Transaction{ID: id, Kind: TxKindSell, Amount: dec("1"), Rate: dec("100"), TotalValue: dec("100"), Profit: dec(profit), Date: at}
}

func buyAt(id, amount, rate string, at time.Time) Transaction {
	return Transaction{ID: id, Kind: TxKindBuy, Amount: dec(amount), Rate: dec(rate), TotalValue: dec(amount).Mul(dec(rate)), Profit: dec("0"), Date: at}
}

func TestTotalProfitAndRate(t *testing.T) {
	txs := []Transaction{
		buyAt("b1", "5", "100", testTime),
		sellAt("s1", "40", testTime),
		sellAt("s2", "-15", testTime),
		{ID: "d1", Kind: TxKindDeposit, Amount: dec("1"), Rate: dec("100"), TotalValue: dec("100"), Profit: dec("0"), Date: testTime},
	}

	requireDecimal(t, "25", TotalProfit(txs))
	requireDecimal(t, "500", TotalCost(txs))
	requireDecimal(t, "5", ProfitRate(txs))
}

func TestProfitRate_NoBuys(t *testing.T) {
	requireDecimal(t, "0", ProfitRate(nil))
	requireDecimal(t, "0", ProfitRate([]Transaction{sellAt("s1", "40", testTime)}))
}

func TestPeriod_Start(t *testing.T) {
	now := time.Date(2025, 3, 31, 15, 30, 0, 0, time.UTC)

	require.Equal(t, time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC), PeriodDay.Start(now))
	require.Equal(t, time.Date(2025, 3, 24, 15, 30, 0, 0, time.UTC), PeriodWeek.Start(now))
	// AddDate normalizes February 31st to March 3rd
	require.Equal(t, time.Date(2025, 3, 3, 15, 30, 0, 0, time.UTC), PeriodMonth.Start(now))
	require.True(t, PeriodAll.Start(now).IsZero())
}

func TestPeriodProfit(t *testing.T) {
	now := time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC)
	txs := []Transaction{
		sellAt("today", "10", now.Add(-2*time.Hour)),
		sellAt("yesterday", "20", now.Add(-30*time.Hour)),
		sellAt("last-week", "40", now.AddDate(0, 0, -10)),
		sellAt("last-year", "80", now.AddDate(-1, 0, 0)),
		sellAt("future", "1000", now.Add(time.Hour)),
		buyAt("buy-today", "1", "100", now.Add(-time.Hour)),
	}

	tests := []struct {
		period   Period
		expected string
	}{
		{period: PeriodDay, expected: "10"},
		{period: PeriodWeek, expected: "30"},
		{period: PeriodMonth, expected: "70"},
		{period: PeriodAll, expected: "150"},
	}

	for _, tt := range tests {
		t.Run(string(tt.period), func(t *testing.T) {
			requireDecimal(t, tt.expected, PeriodProfit(txs, tt.period, now))
		})
	}
}

func TestPeriodProfit_BoundaryIncluded(t *testing.T) {
	now := time.Date(2025, 6, 20, 18, 0, 0, 0, time.UTC)
	txs := []Transaction{
		sellAt("start", "5", PeriodWeek.Start(now)),
		sellAt("now", "7", now),
	}
	requireDecimal(t, "12", PeriodProfit(txs, PeriodWeek, now))
}

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("week")
	require.NoError(t, err)
	require.Equal(t, PeriodWeek, p)

	_, err = ParsePeriod("fortnight")
	require.Error(t, err)
}

func TestTopProfitTransactions(t *testing.T) {
	txs := []Transaction{
		sellAt("s1", "10", testTime),
		buyAt("b1", "1", "100", testTime),
		sellAt("s2", "50", testTime),
		sellAt("s3", "-5", testTime),
		sellAt("s4", "50", testTime),
	}

	top := TopProfitTransactions(txs, 3)
	require.Len(t, top, 3)
	require.Equal(t, "s2", top[0].ID)
	require.Equal(t, "s4", top[1].ID)
	require.Equal(t, "s1", top[2].ID)

	require.Len(t, TopProfitTransactions(txs, 10), 4)
	require.Empty(t, TopProfitTransactions(txs, 0))
	require.Empty(t, TopProfitTransactions(nil, 5))
}

func TestSortedByDate(t *testing.T) {
	txs := []Transaction{
		sellAt("old", "1", testTime.Add(-time.Hour)),
		sellAt("new", "1", testTime.Add(time.Hour)),
		sellAt("mid", "1", testTime),
	}

	sorted := SortedByDate(txs)
	require.Equal(t, "new", sorted[0].ID)
	require.Equal(t, "mid", sorted[1].ID)
	require.Equal(t, "old", sorted[2].ID)
	// input untouched
	require.Equal(t, "old", txs[0].ID)

	recent := RecentTransactions(txs, 2)
	require.Len(t, recent, 2)
	require.Equal(t, "new", recent[0].ID)
}

func TestParseTxKindAndPair(t *testing.T) {
	k, err := ParseTxKind("deposit")
	require.NoError(t, err)
	require.Equal(t, TxKindDeposit, k)
	_, err = ParseTxKind("withdraw")
	require.Error(t, err)

	p, err := ParsePair("usdt_dzd")
	require.NoError(t, err)
	require.Equal(t, Pair{Base: "USDT", Quote: "DZD"}, p)
	require.Equal(t, "DZD/USDT", p.RateUnit())
	_, err = ParsePair("USDT")
	require.Error(t, err)
}
