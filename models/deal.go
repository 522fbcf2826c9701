package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Deal is one acquisition candidate. It is immutable for the duration of a
// review: every stage reads the same snapshot that was claimed from the queue.
type Deal struct {
	ID     string `json:"id"`
	Sector string `json:"sector"`

	Revenue      decimal.Decimal `json:"revenue"`
	EBITDA       decimal.Decimal `json:"ebitda"`
	NetDebt      decimal.Decimal `json:"net_debt"`
	FreeCashFlow decimal.Decimal `json:"free_cash_flow"`

	RevenueGrowth         float64 `json:"revenue_growth"`
	RevenueCAGR3Y         float64 `json:"revenue_cagr_3y"`
	GrossMargin           float64 `json:"gross_margin"`
	EBITDAMargin          float64 `json:"ebitda_margin"`
	DebtEquity            float64 `json:"debt_equity"`
	CustomerConcentration float64 `json:"customer_concentration"`
	MarketGrowth          float64 `json:"market_growth"`

	EmployeeCount int `json:"employee_count"`
	FoundingYear  int `json:"founding_year"`

	CreatedAt time.Time `json:"created_at"`
}

// EBITDAValue returns the stated EBITDA, deriving it from revenue and EBITDA
// margin when the stated value is zero. Derived, never stored back.
func (d *Deal) EBITDAValue() float64 {
	if !d.EBITDA.IsZero() {
		return d.EBITDA.InexactFloat64()
	}
	return d.Revenue.InexactFloat64() * d.EBITDAMargin
}

// NetDebtMultiple returns net debt over EBITDA, or 0 when EBITDA is not
// positive.
func (d *Deal) NetDebtMultiple() float64 {
	ebitda := d.EBITDAValue()
	if ebitda <= 0 {
		return 0
	}
	return d.NetDebt.InexactFloat64() / ebitda
}

// AgeYears returns the company age relative to year.
func (d *Deal) AgeYears(year int) int {
	return year - d.FoundingYear
}

// Employees returns the employee count, never less than 1 so per-employee
// ratios stay defined.
func (d *Deal) Employees() int {
	if d.EmployeeCount < 1 {
		return 1
	}
	return d.EmployeeCount
}
