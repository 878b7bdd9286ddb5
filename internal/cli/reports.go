package cli

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/internal/app"
	"github.com/vadiminshakov/capman/internal/domain"
	"github.com/vadiminshakov/capman/internal/render"
)

func balanceView(a *app.App) render.BalanceView {
	b := a.Manager.Balances()
	return render.BalanceView{
		Pair:        a.Manager.Pair(),
		Initialized: b.Initialized,
		Base:        b.Base,
		Quote:       b.Quote,
		AvgBuyRate:  b.AvgBuyRate,
		TotalProfit: a.Manager.TotalProfit(),
		ProfitRate:  a.Manager.ProfitRate(),
	}
}

type balanceCmd struct {
	env *Env
}

func (*balanceCmd) Name() string             { return "balance" }
func (*balanceCmd) Synopsis() string         { return "show balances, average buy rate and profit" }
func (*balanceCmd) Usage() string            { return "capman balance\n" }
func (*balanceCmd) SetFlags(_ *flag.FlagSet) {}

func (c *balanceCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withApp(ctx, func(a *app.App) error {
		return render.Balances(c.env.Out, balanceView(a))
	})
}

type listCmd struct {
	env   *Env
	limit int
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions, newest first" }
func (*listCmd) Usage() string {
	return `capman list [-n <count>]

  Lists transactions, newest first.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 0, "Show only the N most recent transactions (0 for all).")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withApp(ctx, func(a *app.App) error {
		return render.Transactions(c.env.Out, a.Manager.Pair(), a.Manager.RecentTransactions(c.limit))
	})
}

type profitCmd struct {
	env    *Env
	period string
	top    int
}

func (*profitCmd) Name() string     { return "profit" }
func (*profitCmd) Synopsis() string { return "show realized profit for a period and the best sales" }
func (*profitCmd) Usage() string {
	return `capman profit [-p day|week|month|all] [-top <n>]

  Shows realized profit for the period and the most profitable sales.
`
}

func (c *profitCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.period, "p", string(domain.PeriodAll), "Period (day, week, month, all).")
	f.IntVar(&c.top, "top", 0, "Number of top sales to show (defaults to report.top_limit).")
}

func (c *profitCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	period, err := domain.ParsePeriod(c.period)
	if err != nil {
		return c.env.usage(f, err.Error())
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		pair := a.Manager.Pair()
		top := c.top
		if top <= 0 {
			top = a.Config.Report.TopLimit
		}

		fmt.Fprintf(c.env.Out, "%s %s\n", render.TitleStyle.Render("Profit ("+string(period)+"):"),
			render.Profit(a.Manager.PeriodProfit(period), pair.Quote))
		fmt.Fprintf(c.env.Out, "%s %s\n", render.TitleStyle.Render("Profit rate:"),
			render.Percent(a.Manager.ProfitRate()))
		return render.TopProfits(c.env.Out, pair, a.Manager.TopProfitTransactions(top))
	})
}

type reportCmd struct {
	env   *Env
	raw   bool
	style string
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "print a full capital report" }
func (*reportCmd) Usage() string {
	return `capman report [-md] [-style dark|light|notty]

  Prints balances, profit per period and the best sales.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.raw, "md", false, "Print raw markdown.")
	f.StringVar(&c.style, "style", "dark", "Terminal rendering style.")
}

func (c *reportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withApp(ctx, func(a *app.App) error {
		data := render.ReportData{
			GeneratedAt:  time.Now(),
			Balances:     balanceView(a),
			PeriodProfit: make(map[domain.Period]decimal.Decimal, len(render.Periods)),
			Top:          a.Manager.TopProfitTransactions(a.Config.Report.TopLimit),
		}
		for _, p := range render.Periods {
			data.PeriodProfit[p] = a.Manager.PeriodProfit(p)
		}

		var (
			out string
			err error
		)
		if c.raw {
			out, err = render.MarkdownReport(data)
		} else {
			out, err = render.TerminalReport(data, c.style)
		}
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(c.env.Out, out)
		return err
	})
}
