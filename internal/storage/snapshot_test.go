package storage

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/vadiminshakov/capman/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleLedger(t *testing.T) *domain.Ledger {
	t.Helper()

	l := domain.NewLedger()
	l.Reset(dec("0"), dec("1000"), dec("100"))
	at := time.Date(2024, 3, 10, 12, 30, 0, 123000000, time.UTC)

	_, err := l.Buy("b1", dec("5"), dec("100"), at)
	require.NoError(t, err)
	_, err = l.Sell("s1", dec("2"), dec("120"), at.Add(time.Hour))
	require.NoError(t, err)
	_, err = l.Deposit("d1", dec("0.1"), dec("133.3"), at.Add(2*time.Hour))
	require.NoError(t, err)

	return l
}

func TestEncodeDecode_RoundTrip(t *testing.T) {
	original := sampleLedger(t)

	payload, err := Encode(original)
	require.NoError(t, err)

	restored, err := Decode(payload)
	require.NoError(t, err)

	require.True(t, restored.Initialized)
	require.True(t, original.BaseBalance.Equal(restored.BaseBalance))
	require.True(t, original.QuoteBalance.Equal(restored.QuoteBalance))
	require.True(t, original.InitialRate.Equal(restored.InitialRate))
	require.True(t, original.TotalBought.Equal(restored.TotalBought))
	require.True(t, original.TotalSold.Equal(restored.TotalSold))
	require.Len(t, restored.Transactions, 3)

	for i, tx := range original.Transactions {
		got := restored.Transactions[i]
		require.Equal(t, tx.ID, got.ID)
		require.Equal(t, tx.Kind, got.Kind)
		require.True(t, tx.Amount.Equal(got.Amount))
		require.True(t, tx.Rate.Equal(got.Rate))
		require.True(t, tx.TotalValue.Equal(got.TotalValue))
		require.True(t, tx.Profit.Equal(got.Profit), "profit of %s", tx.ID)
		require.True(t, tx.Date.Equal(got.Date))
	}
	require.Equal(t, "40", restored.Transactions[1].Profit.String())
}

func TestEncode_WritesBareNumbers(t *testing.T) {
	payload, err := Encode(sampleLedger(t))
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(payload, &raw))

	require.Equal(t, true, raw["initialized"])
	require.InDelta(t, 3.1, raw["baseBalance"], 1e-9)
	require.InDelta(t, 740.0, raw["quoteBalance"], 1e-9)

	txs := raw["transactions"].([]any)
	first := txs[0].(map[string]any)
	require.Equal(t, "buy", first["type"])
	require.Equal(t, "2024-03-10T12:30:00.123Z", first["date"])
}

func TestDecode_LegacyPayload(t *testing.T) {
	payload := []byte(`{
		"initialized": true,
		"usdBalance": 3,
		"dzdBalance": 740,
		"initialRate": 100,
		"transactions": [
			{"id":"1710073800000","type":"buy","amount":5,"rate":100,"totalValue":500,"date":"2024-03-10T12:30:00.000Z","profit":0},
			{"id":"1710077400000","type":"sell","amount":2,"rate":120,"totalValue":240,"date":"2024-03-10T13:30:00.000Z","profit":40}
		],
		"totalBought": 5,
		"totalSold": 2
	}`)

	l, err := Decode(payload)
	require.NoError(t, err)
	require.Equal(t, "3", l.BaseBalance.String())
	require.Equal(t, "740", l.QuoteBalance.String())
	require.Len(t, l.Transactions, 2)
	require.Equal(t, domain.TxKindSell, l.Transactions[1].Kind)
	require.Equal(t, "40", l.Transactions[1].Profit.String())
	require.True(t, time.Date(2024, 3, 10, 13, 30, 0, 0, time.UTC).Equal(l.Transactions[1].Date))
}

func TestDecode_QuotedAndMissingNumbers(t *testing.T) {
	l, err := Decode([]byte(`{"initialized":true,"baseBalance":"1.5","quoteBalance":null,"transactions":[]}`))
	require.NoError(t, err)
	require.Equal(t, "1.5", l.BaseBalance.String())
	require.True(t, l.QuoteBalance.IsZero())
	require.True(t, l.InitialRate.IsZero())
}

func TestDecode_Corrupt(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "not json", payload: `{"initialized":`},
		{name: "bad number", payload: `{"baseBalance":"abc"}`},
		{name: "unknown type", payload: `{"transactions":[{"id":"1","type":"withdraw","amount":1,"rate":1,"totalValue":1,"date":"2024-01-01T00:00:00Z"}]}`},
		{name: "bad date", payload: `{"transactions":[{"id":"1","type":"buy","amount":1,"rate":1,"totalValue":1,"date":"yesterday"}]}`},
		{name: "missing id", payload: `{"transactions":[{"type":"buy","amount":1,"rate":1,"totalValue":1}]}`},
		{name: "duplicate id", payload: `{"transactions":[
			{"id":"1","type":"buy","amount":1,"rate":1,"totalValue":1,"date":"2024-01-01T00:00:00Z"},
			{"id":"1","type":"buy","amount":1,"rate":1,"totalValue":1,"date":"2024-01-01T00:00:00Z"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode([]byte(tt.payload))
			require.ErrorIs(t, err, ErrCorruptSnapshot)
		})
	}
}

func TestEncode_Nil(t *testing.T) {
	_, err := Encode(nil)
	require.Error(t, err)
}
