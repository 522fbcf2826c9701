package review

import (
	"fmt"
	"time"

	"dealdesk/models"
)

// factSheet renders the deal financials block shared by every stage prompt.
func factSheet(deal *models.Deal) string {
	revenue := deal.Revenue.InexactFloat64()
	ebitda := deal.EBITDAValue()
	netDebt := deal.NetDebt.InexactFloat64()
	fcf := deal.FreeCashFlow.InexactFloat64()
	emp := deal.Employees()
	age := deal.AgeYears(time.Now().Year())

	ndEbitda := "N/A"
	if ebitda > 0 {
		ndEbitda = fmt.Sprintf("%.2fx", netDebt/ebitda)
	}
	revPerEmp := revenue / float64(emp) / 1000

	return fmt.Sprintf(`
  ┌─ DEAL FACT SHEET ──────────────────────────────────────┐
  │ Sector:               %s (%d yrs old)
  │ Revenue:              $%.2fM
  │ Revenue Growth (1Y):  %+.1f%%
  │ Revenue CAGR (3Y):    %+.1f%%
  │ Gross Margin:         %.1f%%
  │ EBITDA:               $%.2fM  (%.1f%% margin)
  │ Net Debt:             $%.2fM  → %s EBITDA
  │ Debt/Equity:          %.2f
  │ Free Cash Flow:       $%+.0fk
  │ Employees:            %d  ($%.0fk revenue/employee)
  │ Customer Concentration: %.1f%%
  │ Market Growth:        %.1f%% CAGR
  └────────────────────────────────────────────────────────┘`,
		deal.Sector, age,
		revenue/1e6,
		deal.RevenueGrowth*100,
		deal.RevenueCAGR3Y*100,
		deal.GrossMargin*100,
		ebitda/1e6, deal.EBITDAMargin*100,
		netDebt/1e6, ndEbitda,
		deal.DebtEquity,
		fcf/1e3,
		emp, revPerEmp,
		deal.CustomerConcentration*100,
		deal.MarketGrowth*100,
	)
}
