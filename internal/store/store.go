// Package store implements the persistent deal queue. Claim-once semantics
// come from row-level locking (FOR UPDATE SKIP LOCKED): each pending deal is
// handed to exactly one worker even when several poll concurrently.
package store

import (
	"context"
	"errors"

	"dealdesk/models"
)

// ErrNoDeal is returned by ClaimNext when the queue has no pending deals.
var ErrNoDeal = errors.New("no pending deal")

// DealQueue is the contract the review worker needs from persistence.
type DealQueue interface {
	// ClaimNext locks and returns the oldest pending deal, marking it
	// PROCESSING. Returns ErrNoDeal when the queue is empty.
	ClaimNext(ctx context.Context) (*models.Deal, error)

	// PersistResult writes the final cycle's reports and memo and finalizes
	// the deal row, all in one transaction.
	PersistResult(ctx context.Context, dealID string, state *models.ReviewState) error

	// MarkFailed excludes a deal from further automatic processing.
	MarkFailed(ctx context.Context, dealID string) error

	// InsertDeal enqueues a new pending deal and returns its ID.
	InsertDeal(ctx context.Context, deal *models.Deal) (string, error)

	Close() error
}
