// Package setup runs the interactive terminal forms used to set up and correct the ledger.
package setup

import (
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/config"
	"github.com/vadiminshakov/capman/internal/domain"
	"gopkg.in/yaml.v3"
)

// ErrCancelled user declined the confirmation step.
var ErrCancelled = errors.New("cancelled by user")

var (
	subtle    = lipgloss.AdaptiveColor{Light: "#D9DCCF", Dark: "#383838"}
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}
	warning   = lipgloss.AdaptiveColor{Light: "#C7770B", Dark: "#F2B33D"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)

	warnStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
)

// InitValues starting balances entered in the setup wizard.
type InitValues struct {
	Base        decimal.Decimal
	Quote       decimal.Decimal
	InitialRate decimal.Decimal
}

// PreviewTotal formats amount*rate for display while the user is typing.
func PreviewTotal(pair domain.Pair, amount, rate string) string {
	a, errA := ParseDecimal(amount)
	r, errR := ParseDecimal(rate)
	if errA != nil || errR != nil {
		return fmt.Sprintf("Total: - %s", pair.Quote)
	}
	return fmt.Sprintf("Total: %s %s", a.Mul(r).StringFixed(2), pair.Quote)
}

func header(title string) {
	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("CAPMAN"))
	fmt.Println(stepStyle.Render(title))
}

func positiveValidator(s string) error {
	_, err := ParsePositive(s)
	return err
}

func decimalValidator(s string) error {
	_, err := ParseDecimal(s)
	return err
}

// RunInitWizard asks for the starting balances and the initial rate.
func RunInitWizard(pair domain.Pair) (InitValues, error) {
	var baseStr, quoteStr, rateStr string
	baseStr, quoteStr = "0", "0"

	header("INITIAL CAPITAL")
	fmt.Println(lipgloss.NewStyle().Foreground(subtle).Render("Existing history is discarded.\n"))

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("%s balance", pair.Base)).
				Value(&baseStr).
				Validate(decimalValidator),
			huh.NewInput().
				Title(fmt.Sprintf("%s balance", pair.Quote)).
				Value(&quoteStr).
				Validate(decimalValidator),
			huh.NewInput().
				Title(fmt.Sprintf("Initial rate (%s)", pair.RateUnit())).
				Description("Cost basis of the starting holdings").
				Value(&rateStr).
				Validate(decimalValidator),
			huh.NewNote().
				DescriptionFunc(func() string {
					return "Holdings value: " + PreviewTotal(pair, baseStr, rateStr)
				}, []*string{&baseStr, &rateStr}),
		),
	).Run()
	if err != nil {
		return InitValues{}, err
	}

	var v InitValues
	if v.Base, err = ParseDecimal(baseStr); err != nil {
		return InitValues{}, err
	}
	if v.Quote, err = ParseDecimal(quoteStr); err != nil {
		return InitValues{}, err
	}
	if v.InitialRate, err = ParseDecimal(rateStr); err != nil {
		return InitValues{}, err
	}
	return v, nil
}

// RunTradeWizard asks for amount and rate of a buy, sell or deposit and shows the running total.
func RunTradeWizard(pair domain.Pair, kind domain.TxKind) (amount, rate decimal.Decimal, err error) {
	var amountStr, rateStr string
	confirm := true

	header(fmt.Sprintf("NEW %s", kindTitle(kind)))

	err = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("Amount (%s)", pair.Base)).
				Value(&amountStr).
				Validate(positiveValidator),
			huh.NewInput().
				Title(fmt.Sprintf("Rate (%s)", pair.RateUnit())).
				Value(&rateStr).
				Validate(positiveValidator),
			huh.NewConfirm().
				TitleFunc(func() string {
					return PreviewTotal(pair, amountStr, rateStr)
				}, []*string{&amountStr, &rateStr}).
				Affirmative("Record").
				Negative("Cancel").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !confirm {
		return decimal.Zero, decimal.Zero, ErrCancelled
	}

	if amount, err = ParsePositive(amountStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if rate, err = ParsePositive(rateStr); err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return amount, rate, nil
}

// RunOverrideWizard asks for corrected balances, prefilled with the current ones.
func RunOverrideWizard(pair domain.Pair, base, quote decimal.Decimal) (decimal.Decimal, decimal.Decimal, error) {
	baseStr, quoteStr := base.String(), quote.String()
	var confirm bool

	header("EDIT BALANCES")
	fmt.Println(warnStyle.Render("Balances will no longer match the transaction history.\n"))

	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("%s balance", pair.Base)).
				Value(&baseStr).
				Validate(decimalValidator),
			huh.NewInput().
				Title(fmt.Sprintf("%s balance", pair.Quote)).
				Value(&quoteStr).
				Validate(decimalValidator),
			huh.NewConfirm().
				Title("Overwrite balances?").
				Affirmative("Yes").
				Negative("No").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	if !confirm {
		return decimal.Zero, decimal.Zero, ErrCancelled
	}

	newBase, err := ParseDecimal(baseStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	newQuote, err := ParseDecimal(quoteStr)
	if err != nil {
		return decimal.Zero, decimal.Zero, err
	}
	return newBase, newQuote, nil
}

// Confirm asks a yes/no question.
func Confirm(title string) (bool, error) {
	var ok bool
	err := huh.NewConfirm().
		Title(title).
		Affirmative("Yes").
		Negative("No").
		Value(&ok).
		Run()
	return ok, err
}

// RunConfigWizard collects settings and writes them as YAML to path.
func RunConfigWizard(path string) error {
	cfg := config.Default()
	cfg.Storage.Path = ""
	var confirm bool

	header("CONFIGURATION")
	err := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Base currency").
				Value(&cfg.Currencies.Base),
			huh.NewInput().
				Title("Quote currency").
				Value(&cfg.Currencies.Quote),
			huh.NewSelect[string]().
				Title("Storage backend").
				Options(
					huh.NewOption("JSON file", config.BackendFile),
					huh.NewOption("Write-ahead log", config.BackendWAL),
					huh.NewOption("SQLite", config.BackendSQLite),
				).
				Value(&cfg.Storage.Backend),
			huh.NewInput().
				Title("Storage path").
				Description("Leave empty for the backend default").
				Value(&cfg.Storage.Path),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("HTTP address").
				Value(&cfg.HTTP.Addr),
			huh.NewInput().
				Title("TLS domain").
				Description("Optional, enables automatic HTTPS").
				Value(&cfg.HTTP.TLSDomain),
			huh.NewConfirm().
				Title("Save configuration?").
				Affirmative("Save").
				Negative("Exit").
				Value(&confirm),
		),
	).Run()
	if err != nil {
		return err
	}
	if !confirm {
		return ErrCancelled
	}

	return WriteConfig(path, cfg)
}

// WriteConfig validates cfg and writes it as YAML.
func WriteConfig(path string, cfg *config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "generate yaml")
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "save config file")
	}

	fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("\n✓ Configuration saved to %s", path)))
	return nil
}

func kindTitle(kind domain.TxKind) string {
	switch kind {
	case domain.TxKindBuy:
		return "PURCHASE"
	case domain.TxKindSell:
		return "SALE"
	case domain.TxKindDeposit:
		return "DEPOSIT"
	}
	return string(kind)
}
