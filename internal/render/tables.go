package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/internal/domain"
)

const dateLayout = "2006-01-02 15:04"

// BalanceView figures shown in the balance box.
type BalanceView struct {
	Pair        domain.Pair
	Initialized bool
	Base        decimal.Decimal
	Quote       decimal.Decimal
	AvgBuyRate  decimal.Decimal
	TotalProfit decimal.Decimal
	ProfitRate  decimal.Decimal
}

// Balances writes the balance summary box.
func Balances(w io.Writer, v BalanceView) error {
	if !v.Initialized {
		_, err := fmt.Fprintln(w, MutedStyle.Render("Ledger is not initialized. Run `capman init` first."))
		return err
	}

	lines := []string{
		TitleStyle.Render(v.Pair.String()),
		fmt.Sprintf("%-10s %s", v.Pair.Base, Money(v.Base, v.Pair.Base)),
		fmt.Sprintf("%-10s %s", v.Pair.Quote, Money(v.Quote, v.Pair.Quote)),
		fmt.Sprintf("%-10s %s %s", "Avg rate", Rate(v.AvgBuyRate), v.Pair.RateUnit()),
		fmt.Sprintf("%-10s %s (%s)", "Profit", Profit(v.TotalProfit, v.Pair.Quote), Percent(v.ProfitRate)),
	}

	_, err := fmt.Fprintln(w, BoxStyle.Render(strings.Join(lines, "\n")))
	return err
}

// Transactions writes the transaction list in the given order.
func Transactions(w io.Writer, pair domain.Pair, txs []domain.Transaction) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, MutedStyle.Render("No transactions yet."))
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Date", "Type", "Amount", "Rate", "Total", "Profit")

	for _, tx := range txs {
		profit := ""
		if tx.Kind == domain.TxKindSell {
			profit = Profit(tx.Profit, pair.Quote)
		}
		if err := table.Append(
			tx.ID,
			tx.Date.Local().Format(dateLayout),
			tx.Kind.String(),
			Money(tx.Amount, pair.Base),
			Rate(tx.Rate),
			Money(tx.TotalValue, pair.Quote),
			profit,
		); err != nil {
			return errors.Wrap(err, "append row")
		}
	}

	return table.Render()
}

// TopProfits writes the ranked most profitable sales.
func TopProfits(w io.Writer, pair domain.Pair, txs []domain.Transaction) error {
	if len(txs) == 0 {
		_, err := fmt.Fprintln(w, MutedStyle.Render("No sales yet."))
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("#", "Date", "Amount", "Rate", "Profit")

	for i, tx := range txs {
		if err := table.Append(
			fmt.Sprintf("%d", i+1),
			tx.Date.Local().Format(dateLayout),
			Money(tx.Amount, pair.Base),
			Rate(tx.Rate),
			Profit(tx.Profit, pair.Quote),
		); err != nil {
			return errors.Wrap(err, "append row")
		}
	}

	return table.Render()
}
