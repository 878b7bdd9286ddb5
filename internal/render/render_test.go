package render

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/capman/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleTransactions(t *testing.T) []domain.Transaction {
	t.Helper()
	at := time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

	buy, err := domain.RestoreTransaction("b1", domain.TxKindBuy, dec("5"), dec("100"), dec("500"), decimal.Zero, at)
	require.NoError(t, err)
	sell, err := domain.RestoreTransaction("s1", domain.TxKindSell, dec("2"), dec("120"), dec("240"), dec("40"), at.Add(time.Hour))
	require.NoError(t, err)
	loss, err := domain.RestoreTransaction("s2", domain.TxKindSell, dec("1"), dec("90"), dec("90"), dec("-10"), at.Add(2*time.Hour))
	require.NoError(t, err)

	return []domain.Transaction{buy, sell, loss}
}

func TestMoney(t *testing.T) {
	assert.Contains(t, Money(dec("1234.567"), "USDT"), "1,234.57")
	assert.Contains(t, Money(dec("740"), "DZD"), "740")
	assert.Equal(t, "12.50 XYZ1", Money(dec("12.5"), "XYZ1"))

	assert.Equal(t, "-", SignedMoney(decimal.Zero, "DZD"))
	assert.True(t, len(SignedMoney(dec("40"), "DZD")) > 0 && SignedMoney(dec("40"), "DZD")[0] == '+')
	assert.Contains(t, SignedMoney(dec("-10"), "DZD"), "-")

	assert.Equal(t, "133.50", Rate(dec("133.5")))
	assert.Equal(t, "7.00%", Percent(dec("7")))
}

func TestTransactionsTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Transactions(&buf, domain.DefaultPair(), sampleTransactions(t)))

	out := buf.String()
	assert.Contains(t, out, "b1")
	assert.Contains(t, out, "s2")
	assert.Contains(t, out, "120.00")

	buf.Reset()
	require.NoError(t, Transactions(&buf, domain.DefaultPair(), nil))
	assert.Contains(t, buf.String(), "No transactions yet.")
}

func TestTopProfitsTable(t *testing.T) {
	var buf bytes.Buffer
	top := domain.TopProfitTransactions(sampleTransactions(t), 5)
	require.NoError(t, TopProfits(&buf, domain.DefaultPair(), top))

	out := buf.String()
	assert.Contains(t, out, "120.00")
	assert.Contains(t, out, "90.00")

	buf.Reset()
	require.NoError(t, TopProfits(&buf, domain.DefaultPair(), nil))
	assert.Contains(t, buf.String(), "No sales yet.")
}

func TestBalances(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Balances(&buf, BalanceView{Pair: domain.DefaultPair()}))
	assert.Contains(t, buf.String(), "not initialized")

	buf.Reset()
	require.NoError(t, Balances(&buf, BalanceView{
		Pair:        domain.DefaultPair(),
		Initialized: true,
		Base:        dec("3"),
		Quote:       dec("740"),
		AvgBuyRate:  dec("100"),
		TotalProfit: dec("40"),
		ProfitRate:  dec("8"),
	}))
	out := buf.String()
	assert.Contains(t, out, "USDT_DZD")
	assert.Contains(t, out, "100.00 DZD/USDT")
	assert.Contains(t, out, "8.00%")
}

func TestMarkdownReport(t *testing.T) {
	txs := sampleTransactions(t)
	data := ReportData{
		GeneratedAt: time.Date(2024, 3, 11, 9, 0, 0, 0, time.UTC),
		Balances: BalanceView{
			Pair:        domain.DefaultPair(),
			Initialized: true,
			Base:        dec("2"),
			Quote:       dec("830"),
			AvgBuyRate:  dec("100"),
			TotalProfit: dec("30"),
			ProfitRate:  dec("6"),
		},
		PeriodProfit: map[domain.Period]decimal.Decimal{
			domain.PeriodDay:   decimal.Zero,
			domain.PeriodWeek:  dec("30"),
			domain.PeriodMonth: dec("30"),
			domain.PeriodAll:   dec("30"),
		},
		Top: domain.TopProfitTransactions(txs, 2),
	}

	md, err := MarkdownReport(data)
	require.NoError(t, err)
	assert.Contains(t, md, "# Capital report USDT_DZD")
	assert.Contains(t, md, "_Generated 2024-03-11 09:00_")
	assert.Contains(t, md, "| day | - |")
	assert.Contains(t, md, "| 1 | 2024-03-10 |")
	assert.Contains(t, md, "| 2 | 2024-03-10 |")
	assert.Contains(t, md, "6.00%")

	out, err := TerminalReport(data, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Capital report")

	data.Top = nil
	md, err = MarkdownReport(data)
	require.NoError(t, err)
	assert.Contains(t, md, "No sales yet.")
}
