package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"

	"dealdesk/consts"
	"dealdesk/models"
)

// SQLQueue implements DealQueue on MySQL.
type SQLQueue struct {
	db *sql.DB
}

// Open connects to MySQL and verifies the connection, retrying the ping with
// exponential backoff so workers survive a database that is still coming up.
func Open(dsn string) (*SQLQueue, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("open mysql: %w", err)
	}
	db.SetMaxOpenConns(8)
	db.SetConnMaxLifetime(5 * time.Minute)

	policy := backoff.NewExponentialBackOff()
	policy.MaxElapsedTime = 30 * time.Second
	if err := backoff.Retry(db.Ping, policy); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping mysql: %w", err)
	}

	return &SQLQueue{db: db}, nil
}

func (q *SQLQueue) Close() error { return q.db.Close() }

// InitSchema creates the tables if they do not exist.
func (q *SQLQueue) InitSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := q.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

const claimQuery = `
	SELECT id, sector, revenue, revenue_growth, revenue_cagr_3y,
	       gross_margin, ebitda, ebitda_margin, net_debt, debt_equity,
	       free_cash_flow, employee_count, founding_year,
	       customer_concentration, market_growth, created_at
	FROM deals
	WHERE status = ?
	ORDER BY created_at
	LIMIT 1
	FOR UPDATE SKIP LOCKED`

// ClaimNext locks the oldest NEW deal and flips it to PROCESSING in one
// transaction. SKIP LOCKED keeps concurrent workers from blocking on each
// other's claims.
func (q *SQLQueue) ClaimNext(ctx context.Context) (*models.Deal, error) {
	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin claim tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, claimQuery, consts.StatusNew)
	deal, err := scanDeal(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoDeal
	}
	if err != nil {
		return nil, fmt.Errorf("scan claimed deal: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE deals SET status = ? WHERE id = ?`,
		consts.StatusProcessing, deal.ID,
	); err != nil {
		return nil, fmt.Errorf("mark deal processing: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit claim: %w", err)
	}
	return deal, nil
}

func scanDeal(row *sql.Row) (*models.Deal, error) {
	var d models.Deal
	err := row.Scan(
		&d.ID, &d.Sector, &d.Revenue, &d.RevenueGrowth, &d.RevenueCAGR3Y,
		&d.GrossMargin, &d.EBITDA, &d.EBITDAMargin, &d.NetDebt, &d.DebtEquity,
		&d.FreeCashFlow, &d.EmployeeCount, &d.FoundingYear,
		&d.CustomerConcentration, &d.MarketGrowth, &d.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// InsertDeal enqueues a pending deal. A missing ID gets a fresh UUID.
func (q *SQLQueue) InsertDeal(ctx context.Context, deal *models.Deal) (string, error) {
	id := deal.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err := q.db.ExecContext(ctx, `
		INSERT INTO deals (
			id, sector, revenue, revenue_growth, revenue_cagr_3y,
			gross_margin, ebitda, ebitda_margin, net_debt, debt_equity,
			free_cash_flow, employee_count, founding_year,
			customer_concentration, market_growth, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, deal.Sector, deal.Revenue, deal.RevenueGrowth, deal.RevenueCAGR3Y,
		deal.GrossMargin, deal.EBITDA, deal.EBITDAMargin, deal.NetDebt, deal.DebtEquity,
		deal.FreeCashFlow, deal.EmployeeCount, deal.FoundingYear,
		deal.CustomerConcentration, deal.MarketGrowth, consts.StatusNew,
	)
	if err != nil {
		return "", fmt.Errorf("insert deal: %w", err)
	}
	return id, nil
}

// PersistResult writes the last completed cycle's reports and memo and
// finalizes the deal row. Earlier cycles' reports were discarded by the
// state machine; only the final cycle is archived.
func (q *SQLQueue) PersistResult(ctx context.Context, dealID string, state *models.ReviewState) error {
	scout := state.ScoutReport
	contrarian := state.ContrarianReport
	verdict := state.Verdict
	if scout == nil || contrarian == nil || verdict == nil {
		return fmt.Errorf("persist deal %s: incomplete review state", dealID)
	}

	strengths, err := json.Marshal(scout.KeyStrengths)
	if err != nil {
		return fmt.Errorf("marshal strengths: %w", err)
	}
	concerns, err := json.Marshal(scout.Concerns)
	if err != nil {
		return fmt.Errorf("marshal concerns: %w", err)
	}
	redFlags, err := json.Marshal(contrarian.RedFlags)
	if err != nil {
		return fmt.Errorf("marshal red flags: %w", err)
	}

	tx, err := q.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin persist tx: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO scout_reports (
			id, deal_id, growth_score, margin_score, cashflow_score,
			efficiency_score, bullish_confidence, analysis, key_strengths, concerns
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), dealID,
		scout.Metrics.GrowthScore, scout.Metrics.MarginScore,
		scout.Metrics.CashflowScore, scout.Metrics.EfficiencyScore,
		scout.BullishConfidence, scout.Analysis, strengths, concerns,
	); err != nil {
		return fmt.Errorf("insert scout report: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO contrarian_reports (
			id, deal_id, red_flags, risk_summary, bearish_confidence
		) VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), dealID,
		redFlags, contrarian.RiskSummary, contrarian.BearishConfidence,
	); err != nil {
		return fmt.Errorf("insert contrarian report: %w", err)
	}

	var conflictType sql.NullString
	if verdict.ConflictType != "" {
		conflictType = sql.NullString{String: verdict.ConflictType, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO memos (
			id, deal_id, final_decision, llm_decision, system_decision,
			decision_source, decision_confidence, risk_adjusted_score,
			conflict_flag, conflict_type, summary, review_cycles
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(), dealID,
		verdict.FinalDecision, verdict.LLMDecision, verdict.SystemDecision,
		verdict.DecisionSource, verdict.DecisionConfidence, verdict.RiskAdjustedScore,
		verdict.Conflict, conflictType, verdict.Reasoning, state.ReviewCycle,
	); err != nil {
		return fmt.Errorf("insert memo: %w", err)
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE deals SET status = ?, review_cycle = ? WHERE id = ?`,
		consts.StatusFinalized, state.ReviewCycle, dealID,
	); err != nil {
		return fmt.Errorf("finalize deal: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit persist: %w", err)
	}
	return nil
}

// MarkFailed flags a deal so it is excluded from further processing.
func (q *SQLQueue) MarkFailed(ctx context.Context, dealID string) error {
	if _, err := q.db.ExecContext(ctx,
		`UPDATE deals SET status = ? WHERE id = ?`,
		consts.StatusFailed, dealID,
	); err != nil {
		return fmt.Errorf("mark deal failed: %w", err)
	}
	return nil
}
