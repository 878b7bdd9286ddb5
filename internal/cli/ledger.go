package cli

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"github.com/vadiminshakov/capman/internal/app"
	"github.com/vadiminshakov/capman/internal/domain"
	"github.com/vadiminshakov/capman/internal/render"
	"github.com/vadiminshakov/capman/internal/setup"
)

type initCmd struct {
	env               *Env
	base, quote, rate string
	yes               bool
}

func (*initCmd) Name() string     { return "init" }
func (*initCmd) Synopsis() string { return "set starting balances, discarding all history" }
func (*initCmd) Usage() string {
	return `capman init [-base <n>] [-quote <n>] [-rate <n>] [-y]

  Sets the starting balances and the initial rate. Any recorded transaction is lost.
  Missing values are asked interactively.
`
}

func (c *initCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "Starting base currency balance.")
	f.StringVar(&c.quote, "quote", "", "Starting quote currency balance.")
	f.StringVar(&c.rate, "rate", "", "Initial rate, the cost basis of the starting base balance.")
	f.BoolVar(&c.yes, "y", false, "Do not ask before discarding existing history.")
}

func (c *initCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	base, hasBase, err := decimalFlag("base", c.base, false)
	if err != nil {
		return c.env.usage(f, err.Error())
	}
	quote, hasQuote, err := decimalFlag("quote", c.quote, false)
	if err != nil {
		return c.env.usage(f, err.Error())
	}
	rate, hasRate, err := decimalFlag("rate", c.rate, false)
	if err != nil {
		return c.env.usage(f, err.Error())
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		pair := a.Manager.Pair()

		if !(hasBase && hasQuote && hasRate) {
			if !c.env.Interactive {
				return errors.New("-base, -quote and -rate are required")
			}
			v, err := setup.RunInitWizard(pair)
			if err != nil {
				return err
			}
			base, quote, rate = v.Base, v.Quote, v.InitialRate
		}

		if !c.yes && len(a.Manager.Snapshot().Transactions) > 0 {
			if !c.env.Interactive {
				return errors.New("ledger has history, pass -y to discard it")
			}
			ok, err := setup.Confirm("Discard the existing transaction history?")
			if err != nil {
				return err
			}
			if !ok {
				return setup.ErrCancelled
			}
		}

		if err := a.Manager.Initialize(ctx, base, quote, rate); err != nil {
			return err
		}
		return render.Balances(c.env.Out, balanceView(a))
	})
}

type tradeCmd struct {
	env          *Env
	name         string
	amount, rate string
}

func (c *tradeCmd) Name() string { return c.name }
func (c *tradeCmd) Synopsis() string {
	switch c.name {
	case "buy":
		return "record a purchase of base currency paid in quote currency"
	case "sell":
		return "record a sale of base currency and its realized profit"
	default:
		return "record base currency received from outside"
	}
}
func (c *tradeCmd) Usage() string {
	return fmt.Sprintf(`capman %s [-amount <n>] [-rate <n>]

  %s.
  Decimal commas are accepted ("1,5"). Missing values are asked interactively.
`, c.name, c.Synopsis())
}

func (c *tradeCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "Amount of base currency.")
	f.StringVar(&c.rate, "rate", "", "Rate in quote currency per base unit.")
}

func (c *tradeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind, err := domain.ParseTxKind(c.name)
	if err != nil {
		return c.env.fail(err)
	}
	amount, hasAmount, err := decimalFlag("amount", c.amount, true)
	if err != nil {
		return c.env.usage(f, err.Error())
	}
	rate, hasRate, err := decimalFlag("rate", c.rate, true)
	if err != nil {
		return c.env.usage(f, err.Error())
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		pair := a.Manager.Pair()

		if !(hasAmount && hasRate) {
			if !c.env.Interactive {
				return errors.New("-amount and -rate are required")
			}
			if amount, rate, err = setup.RunTradeWizard(pair, kind); err != nil {
				return err
			}
		}

		var tx domain.Transaction
		switch kind {
		case domain.TxKindBuy:
			tx, err = a.Manager.BuyDollars(ctx, amount, rate)
		case domain.TxKindSell:
			tx, err = a.Manager.SellDollars(ctx, amount, rate)
		case domain.TxKindDeposit:
			tx, err = a.Manager.DepositDollars(ctx, amount, rate)
		}
		if err != nil {
			return err
		}

		if err := render.Transactions(c.env.Out, pair, []domain.Transaction{tx}); err != nil {
			return err
		}
		return render.Balances(c.env.Out, balanceView(a))
	})
}

type deleteCmd struct {
	env *Env
}

func (*deleteCmd) Name() string     { return "delete" }
func (*deleteCmd) Synopsis() string { return "delete a transaction and reverse its effect on balances" }
func (*deleteCmd) Usage() string {
	return `capman delete <id>...

  Deletes transactions by id (see capman list).
`
}
func (*deleteCmd) SetFlags(*flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		return c.env.usage(f, "at least one transaction id is required")
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		for _, id := range f.Args() {
			deleted, err := a.Manager.DeleteTransaction(ctx, id)
			if err != nil {
				return err
			}
			if !deleted {
				return errors.Errorf("transaction %s not found", id)
			}
			fmt.Fprintf(c.env.Out, "deleted %s\n", id)
		}
		return render.Balances(c.env.Out, balanceView(a))
	})
}

type setBalanceCmd struct {
	env         *Env
	base, quote string
}

func (*setBalanceCmd) Name() string     { return "set-balance" }
func (*setBalanceCmd) Synopsis() string { return "overwrite balances without recording a transaction" }
func (*setBalanceCmd) Usage() string {
	return `capman set-balance [-base <n>] [-quote <n>]

  Manual correction. Balances stop matching the transaction history.
  An omitted flag keeps the current value; with no flags a form is shown.
`
}

func (c *setBalanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.base, "base", "", "New base currency balance.")
	f.StringVar(&c.quote, "quote", "", "New quote currency balance.")
}

func (c *setBalanceCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	base, hasBase, err := decimalFlag("base", c.base, false)
	if err != nil {
		return c.env.usage(f, err.Error())
	}
	quote, hasQuote, err := decimalFlag("quote", c.quote, false)
	if err != nil {
		return c.env.usage(f, err.Error())
	}

	return c.env.withApp(ctx, func(a *app.App) error {
		current := a.Manager.Balances()

		switch {
		case hasBase || hasQuote:
			if !hasBase {
				base = current.Base
			}
			if !hasQuote {
				quote = current.Quote
			}
		case c.env.Interactive:
			if base, quote, err = setup.RunOverrideWizard(a.Manager.Pair(), current.Base, current.Quote); err != nil {
				return err
			}
		default:
			return errors.New("-base or -quote is required")
		}

		if err := a.Manager.OverrideBalances(ctx, base, quote); err != nil {
			return err
		}
		return render.Balances(c.env.Out, balanceView(a))
	})
}

type resetCmd struct {
	env *Env
	yes bool
}

func (*resetCmd) Name() string     { return "reset" }
func (*resetCmd) Synopsis() string { return "delete all data" }
func (*resetCmd) Usage() string {
	return `capman reset [-y]

  Removes the stored ledger. The next run starts uninitialized.
`
}

func (c *resetCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.yes, "y", false, "Do not ask for confirmation.")
}

func (c *resetCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	return c.env.withApp(ctx, func(a *app.App) error {
		if !c.yes {
			if !c.env.Interactive {
				return errors.New("pass -y to confirm")
			}
			ok, err := setup.Confirm("Delete all data? This cannot be undone.")
			if err != nil {
				return err
			}
			if !ok {
				return setup.ErrCancelled
			}
		}
		if err := a.Manager.Reset(ctx); err != nil {
			return err
		}
		fmt.Fprintln(c.env.Out, "all data deleted")
		return nil
	})
}
