// Package review runs one deal through the Scout → Contrarian → Judge
// pipeline, looping back to Scout while the reviewer's verdict conflicts
// with the deterministic math and the cycle budget allows.
//
// The control flow is a plain state-transition loop, not a graph framework:
// the cyclic graph of the pipeline collapses to a bounded for-loop with one
// conditional edge after Judge.
package review

import (
	"context"
	"log/slog"

	"dealdesk/config"
	"dealdesk/internal/engine"
	"dealdesk/internal/llm"
	"dealdesk/internal/logging"
	"dealdesk/internal/quant"
	"dealdesk/models"
)

// Machine owns one deal's ReviewState for the duration of its review. A
// review is fully sequential: stages never run concurrently for the same
// deal, and the only suspension points are the gateway calls inside the
// validated-retry executor.
type Machine struct {
	cfg    *config.Config
	engine *engine.Engine
	quant  quant.Provider
	gw     llm.Gateway
	log    *slog.Logger
}

func NewMachine(cfg *config.Config, gw llm.Gateway, provider quant.Provider) *Machine {
	return &Machine{
		cfg:    cfg,
		engine: engine.New(cfg.Risk),
		quant:  provider,
		gw:     gw,
		log:    logging.New("review"),
	}
}

// Run executes the full review for one deal and returns the final state.
// Stage failure (exhausted retries) aborts the review; the error is fatal
// for this deal and propagates to the lifecycle driver. The returned state
// always reflects the last completed cycle's Judge output.
func (m *Machine) Run(ctx context.Context, deal *models.Deal) (*models.ReviewState, error) {
	state := models.NewReviewState(deal)

	for {
		if err := m.runScout(ctx, state); err != nil {
			return nil, err
		}
		if err := m.runContrarian(ctx, state); err != nil {
			return nil, err
		}
		if err := m.runJudge(ctx, state); err != nil {
			return nil, err
		}

		if !m.shouldRerun(state) {
			break
		}
		m.log.Info("conflict pending, looping back to scout",
			"deal", shortID(deal.ID),
			"cycle", state.ReviewCycle,
			"max_cycles", m.cfg.Risk.MaxCycles)
	}

	return state, nil
}

// shouldRerun is the single conditional edge: loop back to Scout if and only
// if the Judge left a conflict pending and the cycle budget allows another
// pass. At the cycle ceiling the Judge has already forced a resolution, so
// its output is authoritative regardless of disagreement.
func (m *Machine) shouldRerun(state *models.ReviewState) bool {
	return state.Verdict.Conflict && state.ReviewCycle < m.cfg.Risk.MaxCycles
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
