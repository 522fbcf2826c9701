// Package producer generates plausible synthetic deals and feeds the queue.
package producer

import (
	"context"
	"log/slog"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"dealdesk/internal/logging"
	"dealdesk/internal/store"
	"dealdesk/models"
)

// profile holds rough per-sector benchmarks so generated deals look
// financially coherent.
type profile struct {
	grossMarginLo, grossMarginHi float64
	revPerEmpLo, revPerEmpHi     float64
}

var sectorProfiles = map[string]profile{
	"Technology":    {0.55, 0.85, 200_000, 600_000},
	"Healthcare":    {0.40, 0.70, 150_000, 350_000},
	"Energy":        {0.20, 0.50, 300_000, 800_000},
	"FinTech":       {0.50, 0.80, 250_000, 500_000},
	"RealEstate":    {0.30, 0.60, 400_000, 1_200_000},
	"Manufacturing": {0.15, 0.40, 100_000, 250_000},
	"Consumer":      {0.25, 0.55, 100_000, 200_000},
	"Biotech":       {0.60, 0.90, 200_000, 500_000},
}

var sectors = []string{
	"Technology", "Healthcare", "Energy", "FinTech",
	"RealEstate", "Manufacturing", "Consumer", "Biotech",
}

// Producer inserts one generated deal per interval until its context ends.
type Producer struct {
	queue store.DealQueue
	rng   *rand.Rand
	log   *slog.Logger
}

func New(queue store.DealQueue) *Producer {
	return &Producer{
		queue: queue,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   logging.New("producer"),
	}
}

// Generate builds one synthetic deal within its sector's benchmark bands.
func (p *Producer) Generate() *models.Deal {
	sector := sectors[p.rng.Intn(len(sectors))]
	prof := sectorProfiles[sector]

	revenue := p.uniform(1_000_000, 80_000_000)
	revenueGrowth := p.uniform(-0.15, 0.50)
	revenueCAGR := clamp(revenueGrowth*p.uniform(0.6, 1.2), -0.20, 0.60)

	grossMargin := p.uniform(prof.grossMarginLo, prof.grossMarginHi)
	ebitdaMargin := grossMargin * p.uniform(0.25, 0.65) // EBITDA < gross always
	ebitda := revenue * ebitdaMargin

	revPerEmp := p.uniform(prof.revPerEmpLo, prof.revPerEmpHi)
	employees := int(revenue / revPerEmp)
	if employees < 5 {
		employees = 5
	}

	return &models.Deal{
		ID:                    uuid.NewString(),
		Sector:                sector,
		Revenue:               money(revenue),
		EBITDA:                money(ebitda),
		NetDebt:               money(revenue * p.uniform(0.0, 2.5)),
		FreeCashFlow:          money(p.uniform(-2_000_000, 5_000_000)),
		RevenueGrowth:         revenueGrowth,
		RevenueCAGR3Y:         revenueCAGR,
		GrossMargin:           grossMargin,
		EBITDAMargin:          ebitdaMargin,
		DebtEquity:            p.uniform(0.1, 5.0),
		CustomerConcentration: p.uniform(0.05, 0.70),
		MarketGrowth:          p.uniform(0.02, 0.30),
		EmployeeCount:         employees,
		FoundingYear:          1985 + p.rng.Intn(38),
	}
}

// Run inserts a new deal every interval until ctx is cancelled.
func (p *Producer) Run(ctx context.Context, interval time.Duration) error {
	p.log.Info("producer started", "interval", interval)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		deal := p.Generate()
		id, err := p.queue.InsertDeal(ctx, deal)
		if err != nil {
			p.log.Error("insert deal failed", "error", err)
		} else {
			p.log.Info("deal enqueued",
				"deal", id[:8],
				"sector", deal.Sector,
				"revenue_m", deal.Revenue.Div(decimal.NewFromInt(1_000_000)).Round(1),
				"ebitda_margin", deal.EBITDAMargin,
				"employees", deal.EmployeeCount)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (p *Producer) uniform(lo, hi float64) float64 {
	return lo + p.rng.Float64()*(hi-lo)
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
