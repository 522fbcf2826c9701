package store

// Schema statements, executed in order by InitSchema. MySQL 8 syntax; the
// SKIP LOCKED claim in ClaimNext needs 8.0+.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS deals (
		id                     CHAR(36) PRIMARY KEY,
		sector                 VARCHAR(64) NOT NULL,
		revenue                DECIMAL(18,2) NOT NULL,
		revenue_growth         DOUBLE NOT NULL DEFAULT 0,
		revenue_cagr_3y        DOUBLE NOT NULL DEFAULT 0,
		gross_margin           DOUBLE NOT NULL DEFAULT 0,
		ebitda                 DECIMAL(18,2) NOT NULL,
		ebitda_margin          DOUBLE NOT NULL DEFAULT 0,
		net_debt               DECIMAL(18,2) NOT NULL DEFAULT 0,
		debt_equity            DOUBLE NOT NULL,
		free_cash_flow         DECIMAL(18,2) NOT NULL DEFAULT 0,
		employee_count         INT NOT NULL DEFAULT 0,
		founding_year          INT NOT NULL DEFAULT 2000,
		customer_concentration DOUBLE NOT NULL DEFAULT 0,
		market_growth          DOUBLE NOT NULL DEFAULT 0,
		status                 ENUM('NEW','PROCESSING','FINALIZED','FAILED') NOT NULL DEFAULT 'NEW',
		review_cycle           INT NOT NULL DEFAULT 0,
		created_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at             TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		KEY idx_deals_status_created (status, created_at)
	)`,

	`CREATE TABLE IF NOT EXISTS scout_reports (
		id                 CHAR(36) PRIMARY KEY,
		deal_id            CHAR(36) NOT NULL,
		growth_score       DOUBLE NOT NULL,
		margin_score       DOUBLE NOT NULL,
		cashflow_score     DOUBLE NOT NULL DEFAULT 0,
		efficiency_score   DOUBLE NOT NULL DEFAULT 0,
		bullish_confidence DOUBLE NOT NULL,
		analysis           TEXT,
		key_strengths      JSON,
		concerns           JSON,
		created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_scout_deal FOREIGN KEY (deal_id) REFERENCES deals(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS contrarian_reports (
		id                 CHAR(36) PRIMARY KEY,
		deal_id            CHAR(36) NOT NULL,
		red_flags          JSON NOT NULL,
		risk_summary       TEXT,
		bearish_confidence DOUBLE NOT NULL,
		created_at         TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_contrarian_deal FOREIGN KEY (deal_id) REFERENCES deals(id) ON DELETE CASCADE
	)`,

	`CREATE TABLE IF NOT EXISTS memos (
		id                  CHAR(36) PRIMARY KEY,
		deal_id             CHAR(36) NOT NULL,
		final_decision      VARCHAR(32) NOT NULL,
		llm_decision        VARCHAR(32) NOT NULL,
		system_decision     VARCHAR(32) NOT NULL,
		decision_source     VARCHAR(64) NOT NULL,
		decision_confidence DOUBLE NOT NULL,
		risk_adjusted_score DOUBLE NOT NULL,
		conflict_flag       BOOLEAN NOT NULL,
		conflict_type       VARCHAR(32),
		summary             TEXT NOT NULL,
		review_cycles       INT NOT NULL DEFAULT 1,
		created_at          TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CONSTRAINT fk_memo_deal FOREIGN KEY (deal_id) REFERENCES deals(id) ON DELETE CASCADE
	)`,
}
