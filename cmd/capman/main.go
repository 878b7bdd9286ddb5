// Command capman tracks capital held in a base currency and a quote currency:
// purchases, sales, deposits, balances, average buy rate and realized profit.
//
// Usage:
//
//	capman [-config capman.yaml] <command> [flags]
//
// Settings come from the YAML file, a .env file and CAPMAN_* environment variables.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
	"github.com/vadiminshakov/capman/internal/cli"
)

func main() {
	env := cli.NewEnv()
	flag.StringVar(&env.ConfigPath, "config", os.Getenv("CAPMAN_CONFIG"), "path to yaml config")

	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	cli.Register(commander, env)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
