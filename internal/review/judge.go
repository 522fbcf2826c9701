package review

import (
	"context"
	"fmt"
	"math"
	"strings"

	"dealdesk/consts"
	"dealdesk/internal/llm"
	"dealdesk/models"
)

// judgeOutput is the structured form the committee chair must return. The
// reviewer's own conflict self-assessment is parsed but never drives control
// flow; the machine computes conflict deterministically.
type judgeOutput struct {
	Conflict           bool    `json:"conflict"`
	ConflictType       string  `json:"conflict_type"`
	FinalDecision      string  `json:"final_decision"`
	DecisionConfidence float64 `json:"decision_confidence"`
	Reasoning          string  `json:"reasoning"`
}

const judgeFormat = `Respond with a single JSON object, no other text:
{
  "conflict": false,
  "conflict_type": null,
  "final_decision": "exactly one of: INVEST, PASS, REQUIRES_DUE_DILIGENCE",
  "decision_confidence": 0.0,
  "reasoning": "3-5 sentence reasoning citing specific numbers from both reports"
}`

const minReasoningLen = 60

func judgeQuality(p judgeOutput) string {
	if !consts.ValidDecision(p.FinalDecision) {
		return fmt.Sprintf("invalid final_decision: %s", p.FinalDecision)
	}
	if p.DecisionConfidence < 0 || p.DecisionConfidence > 1 {
		return "decision_confidence out of range"
	}
	if len(p.Reasoning) < minReasoningLen {
		return "reasoning too short — must cite specific numbers"
	}
	return ""
}

// runJudge synthesises both reports, computes the deterministic verdict, and
// records conflict state. At the final cycle a conflicting reviewer decision
// is overridden by the conflict resolver: the math wins.
func (m *Machine) runJudge(ctx context.Context, state *models.ReviewState) error {
	deal := state.Deal
	scout := state.ScoutReport
	contrarian := state.ContrarianReport
	cycle := state.ReviewCycle

	bullish := scout.BullishConfidence
	bearish := contrarian.BearishConfidence

	// Deterministic math, never overridden by the reviewer alone.
	score := m.engine.ComputeScore(bullish, bearish, deal)
	systemVerdict := m.engine.Verdict(score)

	m.log.Info("judge started", "deal", shortID(deal.ID), "score", score, "system_verdict", systemVerdict)

	var b strings.Builder
	b.WriteString("You are the Investment Committee Chair. Make a decisive call.\n")
	b.WriteString(factSheet(deal))
	fmt.Fprintf(&b, `

=== SCOUT (bullish=%.3f) ===
%s
Strengths: %s
Concerns:  %s

=== CONTRARIAN (bearish=%.3f) ===
%s
Flags: %s

=== QUANT SYNTHESIS ===
  Risk-Adjusted Score: %.3f
  System verdict:      %s
  Confidence gap:      %.3f

Decision rules:
  INVEST                 -> score > %.2f  (strong deal, risks manageable)
  PASS                   -> score < %.2f (risks dominate, do not proceed)
  REQUIRES_DUE_DILIGENCE -> score in between (mixed signals, need more info)

Provide reasoning that cites specific numbers from both reports (3-5 sentences).
Your final_decision should match the system verdict unless you have a strong qualitative reason.
`,
		bullish, scout.Analysis,
		strings.Join(scout.KeyStrengths, " | "),
		strings.Join(scout.Concerns, " | "),
		bearish, contrarian.RiskSummary,
		strings.Join(contrarian.RedFlags, " | "),
		score, systemVerdict, math.Abs(bullish-bearish),
		m.cfg.Risk.InvestThreshold, m.cfg.Risk.PassThreshold,
	)

	if cycle >= m.cfg.Risk.MaxCycles {
		b.WriteString("\nFINAL CYCLE — provide your definitive call. No further review loops.\n")
	}

	b.WriteString("\n")
	b.WriteString(judgeFormat)

	parsed, err := llm.Execute(ctx, m.gw, b.String(), judgeQuality, m.cfg.Risk.MaxRetries, consts.LabelJudge)
	if err != nil {
		return err
	}

	// Conflict = the reviewer disagrees with the deterministic math.
	conflict := parsed.FinalDecision != systemVerdict
	conflictType := ""
	if conflict {
		conflictType = m.engine.Classify(bullish, bearish, score)
	}

	finalDecision := parsed.FinalDecision
	var source string
	switch {
	case cycle >= m.cfg.Risk.MaxCycles && conflict:
		finalDecision = m.engine.Resolve(conflictType, score)
		source = consts.SourceForcedPrefix + conflictType
		m.log.Warn("max cycles reached, overriding reviewer decision",
			"deal", shortID(deal.ID),
			"reviewer_decision", parsed.FinalDecision,
			"forced_decision", finalDecision,
			"conflict_type", conflictType)
	case conflict:
		source = consts.SourceConflictPending
	default:
		source = consts.SourceAgreesWithMath
	}

	state.Verdict = &models.JudgeVerdict{
		FinalDecision:      finalDecision,
		LLMDecision:        parsed.FinalDecision,
		SystemDecision:     systemVerdict,
		DecisionSource:     source,
		DecisionConfidence: parsed.DecisionConfidence,
		Reasoning:          parsed.Reasoning,
		RiskAdjustedScore:  score,
		Conflict:           conflict,
		ConflictType:       conflictType,
	}

	m.log.Info("judge done",
		"deal", shortID(deal.ID),
		"decision", finalDecision,
		"confidence", parsed.DecisionConfidence,
		"conflict", conflict,
		"source", source)
	return nil
}
