package service

import (
	"testing"

	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateYears(t *testing.T) {
	a := baseAssumptions()
	months, err := RunProjection(a, 24)
	require.NoError(t, err)

	result, err := AggregateYears(months, a.BucketReturns)
	require.NoError(t, err)
	require.Len(t, result.Years, 2)

	first := result.Years[0]
	assert.Equal(t, 2026, first.Year)
	assert.True(t, first.GrossIncome.Equal(dec("60000")))
	assert.True(t, first.NetIncome.Equal(dec("48000")))
	assert.True(t, first.Expenses.Equal(dec("36000")))
	assert.True(t, first.Savings.Equal(dec("12000")))

	// Pension compounds, Fun does not.
	assert.True(t, first.AmountInvested.Equal(dec("6000")))
	assert.True(t, first.AmountSpentRecreation.Equal(dec("6000")))

	require.Len(t, first.Funds, 2)
	for _, fy := range first.Funds {
		switch fy.Fund {
		case "Pension":
			assert.Equal(t, domain.FundClassInvestment, fy.Class)
			assert.True(t, fy.OpeningBalance.IsZero())
			assert.True(t, fy.Contributions.Equal(dec("6000")))
			assert.True(t, fy.Revenue.Equal(fy.ClosingBalance.Sub(dec("6000"))))
			assert.True(t, fy.Revenue.IsPositive())
			// Zero opening balance cannot produce a percentage.
			assert.True(t, fy.PctRevenue.IsZero())
		case "Fun":
			assert.Equal(t, domain.FundClassRecreation, fy.Class)
			assert.True(t, fy.ClosingBalance.Equal(dec("6000")))
			assert.True(t, fy.Revenue.IsZero())
		}
	}

	// Second year opens on first year's closing.
	second := result.Years[1]
	for _, fy := range second.Funds {
		for _, prev := range first.Funds {
			if prev.Fund == fy.Fund {
				assert.True(t, fy.OpeningBalance.Equal(prev.ClosingBalance))
				if !fy.OpeningBalance.IsZero() {
					expected := fy.Revenue.Div(fy.OpeningBalance).Mul(decimal.NewFromInt(100))
					assert.True(t, fy.PctRevenue.Equal(expected))
				}
			}
		}
	}

	total := decimal.Zero
	for _, fy := range second.Funds {
		total = total.Add(fy.ClosingBalance)
	}
	assert.True(t, result.TotalWealthFinal.Equal(total))
}

func TestAggregateYears_Empty(t *testing.T) {
	result, err := AggregateYears(nil, nil)
	require.NoError(t, err)
	assert.Empty(t, result.Years)
	assert.True(t, result.TotalWealthFinal.IsZero())
}
