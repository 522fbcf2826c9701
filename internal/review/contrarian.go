package review

import (
	"context"
	"fmt"
	"strings"

	"dealdesk/consts"
	"dealdesk/internal/llm"
	"dealdesk/models"
)

// contrarianOutput is the structured form the risk auditor must return.
type contrarianOutput struct {
	RedFlags          []string `json:"red_flags"`
	RiskSummary       string   `json:"risk_summary"`
	BearishConfidence float64  `json:"bearish_confidence"`
}

const contrarianFormat = `Respond with a single JSON object, no other text:
{
  "red_flags": ["at least 1 material red flag, each citing specific numbers"],
  "risk_summary": "overall risk summary in 2-3 sentences",
  "bearish_confidence": 0.0
}`

func contrarianQuality(p contrarianOutput) string {
	if len(p.RedFlags) < 1 {
		return "need at least 1 red_flag"
	}
	if p.BearishConfidence < 0 || p.BearishConfidence > 1 {
		return "bearish_confidence out of range"
	}
	return ""
}

// hardFlags pre-computes threshold breaches so the reviewer has numeric
// anchors instead of inventing its own.
func (m *Machine) hardFlags(deal *models.Deal) []string {
	ndMult := deal.NetDebtMultiple()
	if deal.EBITDAValue() <= 0 {
		ndMult = 99
	}
	fcf := deal.FreeCashFlow.InexactFloat64()

	var flags []string
	if ndMult > m.cfg.Risk.LeverageThreshold {
		flags = append(flags, fmt.Sprintf("Net Debt/EBITDA = %.1fx  (threshold: %.0fx)", ndMult, m.cfg.Risk.LeverageThreshold))
	}
	if fcf < 0 {
		flags = append(flags, fmt.Sprintf("Negative FCF = $%.0fk  (cash burn)", fcf/1e3))
	}
	if deal.CustomerConcentration > 0.40 {
		flags = append(flags, fmt.Sprintf("Customer concentration = %.0f%%  (threshold: 40%%)", deal.CustomerConcentration*100))
	}
	if len(flags) == 0 {
		flags = append(flags, "No hard threshold breaches — adjust bearish_confidence down accordingly")
	}
	return flags
}

// runContrarian stress-tests the current ScoutReport and replaces the
// current ContrarianReport.
func (m *Machine) runContrarian(ctx context.Context, state *models.ReviewState) error {
	deal := state.Deal
	scout := state.ScoutReport
	bullish := scout.BullishConfidence

	m.log.Info("contrarian started", "deal", shortID(deal.ID), "challenging_bullish", bullish)

	var b strings.Builder
	b.WriteString("You are the Risk Auditor. Stress-test this deal honestly — be fair, not just negative.\n")
	b.WriteString(factSheet(deal))
	fmt.Fprintf(&b, `

Scout's case (bullish=%.3f):
  %s
  Strengths: %s

Hard flag check:
`, bullish, scout.Analysis, strings.Join(scout.KeyStrengths, " | "))
	for _, f := range m.hardFlags(deal) {
		fmt.Fprintf(&b, "  %s\n", f)
	}

	b.WriteString(`
CALIBRATION — bearish_confidence must match the evidence:
  No hard flags + bullish >= 0.70  ->  bearish should be 0.15-0.35
  1 hard flag                      ->  bearish should be 0.35-0.55
  2+ hard flags                    ->  bearish should be 0.55-0.80
  Fundamental business failure     ->  bearish 0.80-1.00

Rules:
  - Only flag risks backed by actual numbers
  - Each red_flag must cite a specific number
  - If data is genuinely strong, say so in risk_summary

`)
	b.WriteString(contrarianFormat)

	parsed, err := llm.Execute(ctx, m.gw, b.String(), contrarianQuality, m.cfg.Risk.MaxRetries, consts.LabelContrarian)
	if err != nil {
		return err
	}

	state.ContrarianReport = &models.ContrarianReport{
		RedFlags:          parsed.RedFlags,
		RiskSummary:       parsed.RiskSummary,
		BearishConfidence: parsed.BearishConfidence,
	}

	m.log.Info("contrarian done", "deal", shortID(deal.ID), "bearish", parsed.BearishConfidence)
	return nil
}
