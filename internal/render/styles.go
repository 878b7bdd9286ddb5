package render

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
)

var (
	profitColor = lipgloss.AdaptiveColor{Light: "#1E8E3E", Dark: "#73F59F"}
	lossColor   = lipgloss.AdaptiveColor{Light: "#C5221F", Dark: "#FF6B6B"}
	mutedColor  = lipgloss.AdaptiveColor{Light: "#8A8A8A", Dark: "#6C6C6C"}
	accentColor = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}

	TitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(accentColor)
	MutedStyle  = lipgloss.NewStyle().Foreground(mutedColor)
	ProfitStyle = lipgloss.NewStyle().Foreground(profitColor)
	LossStyle   = lipgloss.NewStyle().Foreground(lossColor)

	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 2)
)

// Profit colors a signed amount green for profit (including zero) and red for loss.
func Profit(amount decimal.Decimal, code string) string {
	if amount.IsNegative() {
		return LossStyle.Render(SignedMoney(amount, code))
	}
	return ProfitStyle.Render(SignedMoney(amount, code))
}
