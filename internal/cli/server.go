package cli

import (
	"context"
	"flag"
	"os/signal"
	"syscall"

	"github.com/google/subcommands"
	"github.com/vadiminshakov/capman/internal/app"
	"github.com/vadiminshakov/capman/internal/setup"
	"github.com/vadiminshakov/capman/internal/web"
)

type serveCmd struct {
	env  *Env
	addr string
}

func (*serveCmd) Name() string     { return "serve" }
func (*serveCmd) Synopsis() string { return "serve the ledger over a JSON API" }
func (*serveCmd) Usage() string {
	return `capman serve [-addr <host:port>]

  Serves the JSON API until interrupted. With http.tls_domain set, certificates
  are obtained automatically and a challenge listener runs on :80.
`
}

func (c *serveCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.addr, "addr", "", "Listen address (overrides http.addr).")
}

func (c *serveCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return c.env.withApp(ctx, func(a *app.App) error {
		httpCfg := a.Config.HTTP
		if c.addr != "" {
			httpCfg.Addr = c.addr
		}

		srv := web.NewServer(a.Manager, a.Logger.Named("web"), web.Options{
			Addr:      httpCfg.Addr,
			RateLimit: httpCfg.RateLimit,
			Burst:     httpCfg.Burst,
			TopLimit:  a.Config.Report.TopLimit,
		})
		if httpCfg.TLSDomain != "" {
			return srv.StartWithAutoTLS(ctx, httpCfg.TLSDomain, httpCfg.CertDir)
		}
		return srv.Start(ctx)
	})
}

type configureCmd struct {
	env  *Env
	path string
}

func (*configureCmd) Name() string     { return "configure" }
func (*configureCmd) Synopsis() string { return "write a configuration file interactively" }
func (*configureCmd) Usage() string {
	return `capman configure [-o <file>]
`
}

func (c *configureCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.path, "o", "capman.yaml", "Output file.")
}

func (c *configureCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if err := setup.RunConfigWizard(c.path); err != nil {
		return c.env.fail(err)
	}
	return subcommands.ExitSuccess
}
