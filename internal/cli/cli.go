// Package cli implements the capman subcommands.
package cli

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/config"
	"github.com/vadiminshakov/capman/internal/app"
	"github.com/vadiminshakov/capman/internal/render"
	"github.com/vadiminshakov/capman/internal/setup"
	"go.uber.org/zap"
)

// Env shared state of all commands.
type Env struct {
	ConfigPath string
	Out        io.Writer
	Err        io.Writer
	// Interactive allows falling back to terminal forms for missing values.
	Interactive bool
}

// NewEnv returns an Env writing to the process stdout and stderr.
func NewEnv() *Env {
	return &Env{Out: os.Stdout, Err: os.Stderr, Interactive: true}
}

// Register adds all commands to the commander, grouped as in the help output.
func Register(cmdr *subcommands.Commander, env *Env) {
	for _, c := range []subcommands.Command{
		&initCmd{env: env},
		&tradeCmd{env: env, name: "buy"},
		&tradeCmd{env: env, name: "sell"},
		&tradeCmd{env: env, name: "deposit"},
		&deleteCmd{env: env},
		&setBalanceCmd{env: env},
		&resetCmd{env: env},
	} {
		cmdr.Register(c, "ledger")
	}
	for _, c := range []subcommands.Command{
		&balanceCmd{env: env},
		&listCmd{env: env},
		&profitCmd{env: env},
		&reportCmd{env: env},
	} {
		cmdr.Register(c, "reports")
	}
	cmdr.Register(&serveCmd{env: env}, "server")
	cmdr.Register(&configureCmd{env: env}, "")
	cmdr.Register(cmdr.HelpCommand(), "")
	cmdr.Register(cmdr.CommandsCommand(), "")
}

// open loads configuration and the ledger.
func (e *Env) open(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load(e.ConfigPath)
	if err != nil {
		return nil, err
	}
	logger, err := app.NewLogger(cfg.Log.Level)
	if err != nil {
		return nil, err
	}
	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	return a, nil
}

func (e *Env) fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(e.Err, render.LossStyle.Render("Error: "+err.Error()))
	return subcommands.ExitFailure
}

func (e *Env) usage(f *flag.FlagSet, msg string) subcommands.ExitStatus {
	fmt.Fprintln(e.Err, "Error: "+msg)
	f.Usage()
	return subcommands.ExitUsageError
}

// withApp runs fn with an opened App and closes it afterwards.
func (e *Env) withApp(ctx context.Context, fn func(a *app.App) error) subcommands.ExitStatus {
	a, err := e.open(ctx)
	if err != nil {
		return e.fail(err)
	}
	defer func() {
		if err := a.Close(); err != nil {
			a.Logger.Warn("close storage", zap.Error(err))
		}
		_ = a.Logger.Sync()
	}()

	if err := fn(a); err != nil {
		return e.fail(err)
	}
	return subcommands.ExitSuccess
}

// decimalFlag parses a flag value, empty meaning unset.
func decimalFlag(name, value string, positive bool) (decimal.Decimal, bool, error) {
	if value == "" {
		return decimal.Zero, false, nil
	}
	var (
		d   decimal.Decimal
		err error
	)
	if positive {
		d, err = setup.ParsePositive(value)
	} else {
		d, err = setup.ParseDecimal(value)
	}
	if err != nil {
		return decimal.Zero, false, errors.Wrapf(err, "-%s", name)
	}
	return d, true, nil
}
