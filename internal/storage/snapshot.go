package storage

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/internal/domain"
)

// ErrCorruptSnapshot stored record cannot be decoded into a ledger.
var ErrCorruptSnapshot = errors.New("corrupt ledger snapshot")

// number decimal persisted as a bare JSON number with its full decimal text.
// Quoted numbers and null are accepted on decode.
type number decimal.Decimal

func newNumber(d decimal.Decimal) *number {
	n := number(d)
	return &n
}

func (n number) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(n).String()), nil
}

func (n *number) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(bytes.TrimSpace(b)), `"`)
	if s == "" || s == "null" {
		*n = number(decimal.Zero)
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return errors.Wrapf(err, "decode number %q", s)
	}
	*n = number(d)
	return nil
}

func (n *number) decimal() decimal.Decimal {
	if n == nil {
		return decimal.Zero
	}
	return decimal.Decimal(*n)
}

// snapshotRecord is the persisted form of domain.Ledger.
type snapshotRecord struct {
	Initialized  bool                `json:"initialized"`
	BaseBalance  *number             `json:"baseBalance,omitempty"`
	QuoteBalance *number             `json:"quoteBalance,omitempty"`
	InitialRate  *number             `json:"initialRate"`
	Transactions []transactionRecord `json:"transactions"`
	TotalBought  *number             `json:"totalBought"`
	TotalSold    *number             `json:"totalSold"`

	// legacy names written by the first version of the tracker
	LegacyBaseBalance  *number `json:"usdBalance,omitempty"`
	LegacyQuoteBalance *number `json:"dzdBalance,omitempty"`
}

type transactionRecord struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	Amount     *number `json:"amount"`
	Rate       *number `json:"rate"`
	TotalValue *number `json:"totalValue"`
	Date       string  `json:"date"`
	Profit     *number `json:"profit"`
}

// Encode serializes the ledger into its snapshot record.
func Encode(l *domain.Ledger) ([]byte, error) {
	if l == nil {
		return nil, errors.New("ledger is nil")
	}

	record := snapshotRecord{
		Initialized:  l.Initialized,
		BaseBalance:  newNumber(l.BaseBalance),
		QuoteBalance: newNumber(l.QuoteBalance),
		InitialRate:  newNumber(l.InitialRate),
		Transactions: make([]transactionRecord, 0, len(l.Transactions)),
		TotalBought:  newNumber(l.TotalBought),
		TotalSold:    newNumber(l.TotalSold),
	}

	for _, tx := range l.Transactions {
		record.Transactions = append(record.Transactions, transactionRecord{
			ID:         tx.ID,
			Type:       tx.Kind.String(),
			Amount:     newNumber(tx.Amount),
			Rate:       newNumber(tx.Rate),
			TotalValue: newNumber(tx.TotalValue),
			Date:       tx.Date.Format(time.RFC3339Nano),
			Profit:     newNumber(tx.Profit),
		})
	}

	payload, err := json.Marshal(record)
	if err != nil {
		return nil, errors.Wrap(err, "encode ledger snapshot")
	}
	return payload, nil
}

// Decode rebuilds a ledger from a snapshot record. Any decoding or consistency
// failure is reported as ErrCorruptSnapshot.
func Decode(payload []byte) (*domain.Ledger, error) {
	var record snapshotRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "decode: %v", err)
	}

	base := record.BaseBalance
	if base == nil {
		base = record.LegacyBaseBalance
	}
	quote := record.QuoteBalance
	if quote == nil {
		quote = record.LegacyQuoteBalance
	}

	l := domain.NewLedger()
	l.Initialized = record.Initialized
	l.BaseBalance = base.decimal()
	l.QuoteBalance = quote.decimal()
	l.InitialRate = record.InitialRate.decimal()
	l.TotalBought = record.TotalBought.decimal()
	l.TotalSold = record.TotalSold.decimal()

	for i, tr := range record.Transactions {
		kind, err := domain.ParseTxKind(tr.Type)
		if err != nil {
			return nil, errors.Wrapf(ErrCorruptSnapshot, "transaction %d: %v", i, err)
		}

		var date time.Time
		if tr.Date != "" {
			date, err = time.Parse(time.RFC3339Nano, tr.Date)
			if err != nil {
				return nil, errors.Wrapf(ErrCorruptSnapshot, "transaction %s: date: %v", tr.ID, err)
			}
		}

		tx, err := domain.RestoreTransaction(tr.ID, kind,
			tr.Amount.decimal(), tr.Rate.decimal(), tr.TotalValue.decimal(), tr.Profit.decimal(), date)
		if err != nil {
			return nil, errors.Wrapf(ErrCorruptSnapshot, "transaction %d: %v", i, err)
		}
		l.Transactions = append(l.Transactions, tx)
	}

	if err := l.Validate(); err != nil {
		return nil, errors.Wrapf(ErrCorruptSnapshot, "%v", err)
	}

	return l, nil
}
