// Package orchestrator drives the deal lifecycle: claim one pending deal,
// run the review state machine to completion, persist the result or mark
// the deal failed, and move on. A bad deal never crashes the worker.
package orchestrator

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"dealdesk/config"
	"dealdesk/internal/logging"
	"dealdesk/internal/review"
	"dealdesk/internal/store"
	"dealdesk/models"
)

type Orchestrator struct {
	cfg     *config.Config
	queue   store.DealQueue
	machine *review.Machine
	log     *slog.Logger
}

func New(cfg *config.Config, queue store.DealQueue, machine *review.Machine) *Orchestrator {
	return &Orchestrator{
		cfg:     cfg,
		queue:   queue,
		machine: machine,
		log:     logging.New("orchestrator"),
	}
}

// Run polls the queue until ctx is cancelled. Cancellation is honoured
// between deals; a review already in flight runs to completion or fatal
// error.
func (o *Orchestrator) Run(ctx context.Context) error {
	o.log.Info("orchestrator started, monitoring deal queue",
		"poll_interval", o.cfg.PollInterval)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		deal, err := o.queue.ClaimNext(ctx)
		if errors.Is(err, store.ErrNoDeal) {
			o.sleep(ctx, o.cfg.PollInterval)
			continue
		}
		if err != nil {
			o.log.Error("claim failed", "error", err)
			o.sleep(ctx, o.cfg.PollInterval)
			continue
		}

		o.Process(ctx, deal)
	}
}

// Process runs one claimed deal through the full review and persists the
// outcome. Any error marks the deal failed; the failure is observable via
// the persisted status, not via a crash.
func (o *Orchestrator) Process(ctx context.Context, deal *models.Deal) {
	o.log.Info("deal claimed",
		"deal", shortID(deal.ID),
		"sector", deal.Sector,
		"revenue", deal.Revenue.StringFixed(0))

	started := time.Now()
	state, err := o.machine.Run(ctx, deal)
	if err != nil {
		o.log.Error("review failed", "deal", shortID(deal.ID), "error", err)
		o.fail(ctx, deal.ID)
		return
	}

	if err := o.queue.PersistResult(ctx, deal.ID, state); err != nil {
		o.log.Error("persist failed", "deal", shortID(deal.ID), "error", err)
		o.fail(ctx, deal.ID)
		return
	}

	o.log.Info("deal finalized",
		"deal", shortID(deal.ID),
		"decision", state.Verdict.FinalDecision,
		"score", state.Verdict.RiskAdjustedScore,
		"cycles", state.ReviewCycle,
		"elapsed", time.Since(started).Round(100*time.Millisecond))

	PrintMemo(deal, state)
}

func (o *Orchestrator) fail(ctx context.Context, dealID string) {
	if err := o.queue.MarkFailed(ctx, dealID); err != nil {
		o.log.Error("mark failed errored", "deal", shortID(dealID), "error", err)
	}
}

func (o *Orchestrator) sleep(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
