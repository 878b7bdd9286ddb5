package render

import (
	"bytes"
	"text/template"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/vadiminshakov/capman/internal/domain"
)

// ReportData inputs of the profit report.
type ReportData struct {
	GeneratedAt time.Time
	Balances    BalanceView
	// PeriodProfit realized profit per period, in Periods order.
	PeriodProfit map[domain.Period]decimal.Decimal
	Top          []domain.Transaction
}

// Periods order of the period rows in the report.
var Periods = []domain.Period{domain.PeriodDay, domain.PeriodWeek, domain.PeriodMonth, domain.PeriodAll}

const reportTemplate = `# Capital report {{ .Balances.Pair.String }}

_Generated {{ .GeneratedAt.Format "2006-01-02 15:04" }}_

## Balances

| | |
|---|---|
| {{ .Balances.Pair.Base }} | {{ money .Balances.Base .Balances.Pair.Base }} |
| {{ .Balances.Pair.Quote }} | {{ money .Balances.Quote .Balances.Pair.Quote }} |
| Average buy rate | {{ rate .Balances.AvgBuyRate }} {{ .Balances.Pair.RateUnit }} |
| Profit rate | {{ percent .Balances.ProfitRate }} |

## Realized profit

| Period | Profit |
|---|---|
{{- range $p := .Periods }}
| {{ $p }} | {{ signed (index $.PeriodProfit $p) $.Balances.Pair.Quote }} |
{{- end }}

## Top sales
{{ if .Top }}
| # | Date | Amount | Rate | Profit |
|---|---|---|---|---|
{{- range $i, $tx := .Top }}
| {{ inc $i }} | {{ $tx.Date.Format "2006-01-02" }} | {{ money $tx.Amount $.Balances.Pair.Base }} | {{ rate $tx.Rate }} | {{ signed $tx.Profit $.Balances.Pair.Quote }} |
{{- end }}
{{ else }}
No sales yet.
{{ end }}`

var reportTmpl = template.Must(template.New("report").Funcs(template.FuncMap{
	"money":   Money,
	"signed":  SignedMoney,
	"rate":    Rate,
	"percent": Percent,
	"inc":     func(i int) int { return i + 1 },
}).Parse(reportTemplate))

// MarkdownReport renders the report as markdown.
func MarkdownReport(data ReportData) (string, error) {
	var buf bytes.Buffer
	err := reportTmpl.Execute(&buf, struct {
		ReportData
		Periods []domain.Period
	}{ReportData: data, Periods: Periods})
	if err != nil {
		return "", errors.Wrap(err, "execute report template")
	}
	return buf.String(), nil
}

// TerminalReport renders the markdown report for a terminal with the given glamour style.
func TerminalReport(data ReportData, style string) (string, error) {
	md, err := MarkdownReport(data)
	if err != nil {
		return "", err
	}
	if style == "" {
		style = "dark"
	}
	out, err := glamour.Render(md, style)
	if err != nil {
		return "", errors.Wrap(err, "render markdown")
	}
	return out, nil
}
