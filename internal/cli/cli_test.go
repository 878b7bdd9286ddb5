package cli

import (
	"bytes"
	"context"
	"flag"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	env *Env
	out *bytes.Buffer
	err *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "capman.yaml")
	content := "storage:\n  backend: file\n  path: " + filepath.Join(dir, "data") + "\nlog:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	h := &harness{out: &bytes.Buffer{}, err: &bytes.Buffer{}}
	h.env = &Env{ConfigPath: cfgPath, Out: h.out, Err: h.err}
	return h
}

func (h *harness) run(t *testing.T, args ...string) subcommands.ExitStatus {
	t.Helper()
	h.out.Reset()
	h.err.Reset()

	fs := flag.NewFlagSet("capman", flag.ContinueOnError)
	fs.SetOutput(h.err)
	cmdr := subcommands.NewCommander(fs, "capman")
	cmdr.Output = h.out
	cmdr.Error = h.err
	Register(cmdr, h.env)

	require.NoError(t, fs.Parse(args))
	return cmdr.Execute(context.Background())
}

var idPattern = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[0-9a-f]{4}-[0-9a-f]{12}`)

func TestCLI_LedgerLifecycle(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "balance"))
	assert.Contains(t, h.out.String(), "not initialized")

	require.Equal(t, subcommands.ExitFailure, h.run(t, "buy", "-amount", "1", "-rate", "100"))
	assert.Contains(t, h.err.String(), "not initialized")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "init", "-base", "0", "-quote", "1000", "-rate", "100"))
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "buy", "-amount", "5", "-rate", "100"))
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "sell", "-amount", "2", "-rate", "120,0"))
	sellID := idPattern.FindString(h.out.String())
	require.NotEmpty(t, sellID)
	assert.Contains(t, h.out.String(), "+40.00")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "balance"))
	assert.Contains(t, h.out.String(), "740.00")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "list", "-n", "1"))
	assert.Contains(t, h.out.String(), sellID)

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "profit", "-p", "day"))
	assert.Contains(t, h.out.String(), "8.00%")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "report", "-md"))
	assert.Contains(t, h.out.String(), "# Capital report USDT_DZD")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "delete", sellID))
	assert.Contains(t, h.out.String(), "500.00")
	require.Equal(t, subcommands.ExitFailure, h.run(t, "delete", sellID))

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "set-balance", "-base", "7"))
	assert.Contains(t, h.out.String(), "7.00")

	require.Equal(t, subcommands.ExitFailure, h.run(t, "init", "-base", "0", "-quote", "10", "-rate", "1"))
	assert.Contains(t, h.err.String(), "-y")

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "reset", "-y"))
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "balance"))
	assert.Contains(t, h.out.String(), "not initialized")
}

func TestCLI_UsageErrors(t *testing.T) {
	h := newHarness(t)

	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "buy", "-amount", "0", "-rate", "1"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "profit", "-p", "year"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "delete"))
	assert.Equal(t, subcommands.ExitFailure, h.run(t, "sell", "-amount", "1"))
	assert.Contains(t, h.err.String(), "-amount and -rate are required")
	assert.Equal(t, subcommands.ExitFailure, h.run(t, "reset"))
}

func TestCLI_SignedInput(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, subcommands.ExitSuccess, h.run(t, "init", "-base", "0", "-quote", "-500", "-rate", "0"))
	require.Equal(t, subcommands.ExitSuccess, h.run(t, "set-balance", "-base", "-3"))
	assert.Contains(t, h.out.String(), "-3.00")

	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "sell", "-amount", "-5", "-rate", "100"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "buy", "-amount", "1e3", "-rate", "100"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "deposit", "-amount", "abc7", "-rate", "100"))
	assert.Equal(t, subcommands.ExitUsageError, h.run(t, "init", "-base", "1x", "-quote", "0", "-rate", "1"))
}
