package review

import (
	"context"
	"fmt"
	"strings"

	"dealdesk/consts"
	"dealdesk/internal/llm"
	"dealdesk/models"
)

// scoutOutput is the structured form the Scout reviewer must return.
type scoutOutput struct {
	Analysis          string   `json:"analysis"`
	KeyStrengths      []string `json:"key_strengths"`
	Concerns          []string `json:"concerns"`
	BullishConfidence float64  `json:"bullish_confidence"`
}

const scoutFormat = `Respond with a single JSON object, no other text:
{
  "analysis": "3-5 honest sentences about this deal's overall quality",
  "key_strengths": ["exactly 3 bullish signals, each citing a specific number"],
  "concerns": ["exactly 3 concerns, each citing a specific number"],
  "bullish_confidence": 0.0
}`

func scoutQuality(p scoutOutput) string {
	if len(p.KeyStrengths) != 3 {
		return "need exactly 3 key_strengths"
	}
	if len(p.Concerns) != 3 {
		return "need exactly 3 concerns"
	}
	if p.BullishConfidence < 0 || p.BullishConfidence > 1 {
		return "bullish_confidence out of range"
	}
	return ""
}

// runScout recomputes the quant metrics, asks the Scout reviewer for its
// qualitative case, and replaces the current ScoutReport. The review cycle
// increments exactly here, once per Scout execution.
func (m *Machine) runScout(ctx context.Context, state *models.ReviewState) error {
	deal := state.Deal
	cycle := state.ReviewCycle

	metrics := m.quant.Score(deal)
	m.log.Info("scout started",
		"deal", shortID(deal.ID), "cycle", cycle+1,
		"growth", metrics.GrowthScore, "margin", metrics.MarginScore,
		"cashflow", metrics.CashflowScore, "efficiency", metrics.EfficiencyScore)

	var b strings.Builder
	b.WriteString("You are an M&A Scout. Be honest — not every deal is good.\n")
	b.WriteString(factSheet(deal))
	fmt.Fprintf(&b, `

Quantitative Scores (0=worst, 1=best):
  Growth Score:      %.3f
  Margin Score:      %.3f
  Cash Flow Score:   %.3f
  Efficiency Score:  %.3f

Score guide: 0.0-0.3 = weak | 0.3-0.6 = mixed | 0.6-0.8 = solid | 0.8-1.0 = strong
`, metrics.GrowthScore, metrics.MarginScore, metrics.CashflowScore, metrics.EfficiencyScore)

	if cycle >= 1 {
		b.WriteString("\nREPEAT CYCLE NOTE: the risk auditor flagged concerns last cycle. Provide deeper supporting data.\n")
	}

	b.WriteString(`
Provide:
- analysis: 3-5 honest sentences about this deal's overall quality
- key_strengths: exactly 3, each citing a specific number
- concerns: exactly 3, each citing a specific number
- bullish_confidence: probability (0-1) of strong returns — must align with scores above

`)
	b.WriteString(scoutFormat)

	parsed, err := llm.Execute(ctx, m.gw, b.String(), scoutQuality, m.cfg.Risk.MaxRetries, consts.LabelScout)
	if err != nil {
		return err
	}

	state.ScoutReport = &models.ScoutReport{
		Metrics:           metrics,
		Analysis:          parsed.Analysis,
		KeyStrengths:      parsed.KeyStrengths,
		Concerns:          parsed.Concerns,
		BullishConfidence: parsed.BullishConfidence,
	}
	state.ReviewCycle = cycle + 1

	m.log.Info("scout done", "deal", shortID(deal.ID), "bullish", parsed.BullishConfidence)
	return nil
}
