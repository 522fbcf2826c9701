package producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateProducesCoherentDeals(t *testing.T) {
	p := New(nil)

	for i := 0; i < 200; i++ {
		deal := p.Generate()

		require.NotEmpty(t, deal.ID)
		_, known := sectorProfiles[deal.Sector]
		assert.True(t, known, "unknown sector %q", deal.Sector)

		rev := deal.Revenue.InexactFloat64()
		assert.GreaterOrEqual(t, rev, 1_000_000.0)
		assert.LessOrEqual(t, rev, 80_000_000.0)

		// EBITDA conversion never exceeds gross margin
		assert.Less(t, deal.EBITDAMargin, deal.GrossMargin)
		assert.GreaterOrEqual(t, deal.EmployeeCount, 5)

		assert.GreaterOrEqual(t, deal.FoundingYear, 1985)
		assert.LessOrEqual(t, deal.FoundingYear, 2022)

		// money fields are rounded to cents
		assert.True(t, deal.Revenue.Equal(deal.Revenue.Round(2)))
		assert.True(t, deal.NetDebt.Equal(deal.NetDebt.Round(2)))
	}
}

func TestGenerateDealsAreScoreable(t *testing.T) {
	p := New(nil)

	for i := 0; i < 50; i++ {
		deal := p.Generate()
		assert.Positive(t, deal.EBITDAValue())
		assert.GreaterOrEqual(t, deal.NetDebtMultiple(), 0.0)
	}
}
