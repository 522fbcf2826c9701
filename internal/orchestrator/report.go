package orchestrator

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"dealdesk/consts"
	"dealdesk/models"
)

var (
	decimalMillion  = decimal.NewFromInt(1_000_000)
	decimalThousand = decimal.NewFromInt(1_000)
)

var (
	memoBorder = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#3B82F6")).
			Padding(0, 2).
			Width(72)

	memoTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#7C3AED"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9CA3AF"))

	investStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#10B981"))
	passStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#EF4444"))
	rddStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F59E0B"))
)

func decisionStyle(decision string) lipgloss.Style {
	switch decision {
	case consts.DecisionInvest:
		return investStyle
	case consts.DecisionPass:
		return passStyle
	default:
		return rddStyle
	}
}

// PrintMemo renders the final review memo for one deal to stdout.
func PrintMemo(deal *models.Deal, state *models.ReviewState) {
	scout := state.ScoutReport
	contrarian := state.ContrarianReport
	verdict := state.Verdict

	var b strings.Builder
	b.WriteString(memoTitle.Render(fmt.Sprintf("FINAL MEMO — %s (%s)", shortID(deal.ID), deal.Sector)))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "%s  $%sM revenue | %.1f%% EBITDA margin | FCF $%sk\n",
		dimStyle.Render("Deal:  "),
		deal.Revenue.Div(decimalMillion).StringFixed(2),
		deal.EBITDAMargin*100,
		deal.FreeCashFlow.Div(decimalThousand).StringFixed(0))
	fmt.Fprintf(&b, "%s  bullish=%.3f | bearish=%.3f | score=%.3f\n",
		dimStyle.Render("Scores:"),
		scout.BullishConfidence,
		contrarian.BearishConfidence,
		verdict.RiskAdjustedScore)
	fmt.Fprintf(&b, "%s  %s  (confidence=%.2f, cycles=%d)\n",
		dimStyle.Render("Result:"),
		decisionStyle(verdict.FinalDecision).Render(verdict.FinalDecision),
		verdict.DecisionConfidence,
		state.ReviewCycle)
	fmt.Fprintf(&b, "%s  %s\n", dimStyle.Render("Source:"), verdict.DecisionSource)
	fmt.Fprintf(&b, "%s  %s", dimStyle.Render("Memo:  "), truncate(verdict.Reasoning, 180))

	fmt.Println(memoBorder.Render(b.String()))
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
