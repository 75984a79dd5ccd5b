package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baseAssumptions() domain.ProjectionAssumptions {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return domain.ProjectionAssumptions{
		BaseCurrency:         "USD",
		StartDate:            &start,
		MonthlySalary:        dec("5000"),
		TaxRate:              dec("0.2"),
		MonthlyExpenses:      dec("3000"),
		ExpenseInflationRate: dec("0.1"),
		AllocationWeights: map[string]decimal.Decimal{
			"Pension": dec("0.5"),
			"Fun":     dec("0.5"),
		},
		BucketReturns: map[string]decimal.Decimal{
			"Pension": dec("0.06"),
			"Fun":     dec("0"),
		},
	}
}

func TestRunProjection_FirstMonth(t *testing.T) {
	months, err := RunProjection(baseAssumptions(), 1)
	require.NoError(t, err)
	require.Len(t, months, 1)

	m := months[0]
	assert.Equal(t, "2026-01", m.Period)
	assert.True(t, m.GrossIncome.Equal(dec("5000")))
	assert.True(t, m.Taxes.Equal(dec("1000")))
	assert.True(t, m.NetIncome.Equal(dec("4000")))
	assert.True(t, m.Expenses.Equal(dec("3000")))
	assert.True(t, m.Savings.Equal(dec("1000")))
	assert.True(t, m.SavingsRate.Equal(dec("0.25")))
	assert.True(t, m.BucketAllocations["Pension"].Equal(dec("500")))
	assert.True(t, m.BucketBalances["Pension"].Equal(dec("500")))
}

func TestRunProjection_BucketsCarryForward(t *testing.T) {
	months, err := RunProjection(baseAssumptions(), 2)
	require.NoError(t, err)

	// Month two opens on month one's closing: 500 + 500*0.06/12 + 500.
	second := months[1].BucketBalances["Pension"]
	assert.True(t, second.Equal(dec("1002.5")), "got %s", second)

	// Zero-return bucket accrues contributions only.
	assert.True(t, months[1].BucketBalances["Fun"].Equal(dec("1000")))
}

func TestRunProjection_Deterministic(t *testing.T) {
	a := baseAssumptions()
	a.OneTimeCosts = []domain.OneTimeCost{{Name: "Car", Amount: dec("8000"), MonthIndex: 7}}

	first, err := RunProjection(a, 36)
	require.NoError(t, err)
	second, err := RunProjection(a, 36)
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].Period, second[i].Period)
		assert.True(t, first[i].Savings.Equal(second[i].Savings))
		for fund, balance := range first[i].BucketBalances {
			assert.True(t, balance.Equal(second[i].BucketBalances[fund]),
				"month %d fund %s: %s != %s", i, fund, balance, second[i].BucketBalances[fund])
		}
	}
}

func TestRunProjection_BonusMonth(t *testing.T) {
	a := baseAssumptions()
	a.AnnualBonus = dec("12000")
	a.BonusMonth = 3

	months, err := RunProjection(a, 14)
	require.NoError(t, err)

	for i, m := range months {
		if m.Period == "2026-03" || m.Period == "2027-03" {
			assert.True(t, m.GrossIncome.Equal(dec("17000")), "month %d", i)
		} else {
			assert.True(t, m.GrossIncome.Equal(dec("5000")), "month %d", i)
		}
	}
}

func TestRunProjection_SteppedInflation(t *testing.T) {
	months, err := RunProjection(baseAssumptions(), 25)
	require.NoError(t, err)

	// Flat within a projection year, stepped at each anniversary.
	assert.True(t, months[0].Expenses.Equal(dec("3000")))
	assert.True(t, months[11].Expenses.Equal(dec("3000")))
	assert.True(t, months[12].Expenses.Equal(dec("3300")))
	assert.True(t, months[23].Expenses.Equal(dec("3300")))
	assert.True(t, months[24].Expenses.Equal(dec("3630")))
}

func TestRunProjection_CategoryInflationOverride(t *testing.T) {
	a := baseAssumptions()
	zero := dec("0")
	a.CategoryBudgets = []domain.CategoryBudget{
		{Name: "Rent", MonthlyAmount: dec("2000")},
		{Name: "Groceries", MonthlyAmount: dec("1000"), InflationRate: &zero},
	}

	months, err := RunProjection(a, 13)
	require.NoError(t, err)

	m := months[12]
	assert.True(t, m.ExpenseBreakdown["Rent"].Equal(dec("2200")))
	assert.True(t, m.ExpenseBreakdown["Groceries"].Equal(dec("1000")))
	assert.True(t, m.Expenses.Equal(dec("3200")))
}

func TestRunProjection_NegativeSavingsPropagate(t *testing.T) {
	a := baseAssumptions()
	a.OneTimeCosts = []domain.OneTimeCost{{Name: "Wedding", Amount: dec("20000"), MonthIndex: 0}}

	months, err := RunProjection(a, 1)
	require.NoError(t, err)

	m := months[0]
	assert.True(t, m.Savings.Equal(dec("-19000")))
	assert.True(t, m.BucketBalances["Pension"].Equal(dec("-9500")))
}

func TestNewProjectionRun_InvalidWeights(t *testing.T) {
	a := baseAssumptions()
	a.AllocationWeights = map[string]decimal.Decimal{
		"Pension": dec("0.5"),
		"Fun":     dec("0.3"),
	}
	_, err := NewProjectionRun(a)
	assert.ErrorIs(t, err, domain.ErrInvalidAllocation)

	a.AllocationWeights = map[string]decimal.Decimal{"Pension": dec("-0.2"), "Fun": dec("1.2")}
	_, err = NewProjectionRun(a)
	assert.ErrorIs(t, err, domain.ErrInvalidAllocation)
}

func TestMonthlyProjection_JSONRoundTrip(t *testing.T) {
	months, err := RunProjection(baseAssumptions(), 3)
	require.NoError(t, err)

	data, err := json.Marshal(months[2])
	require.NoError(t, err)

	var decoded domain.MonthlyProjection
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, months[2].Period, decoded.Period)
	assert.True(t, months[2].Savings.Equal(decoded.Savings))
	assert.True(t, months[2].SavingsRate.Equal(decoded.SavingsRate))
	for fund, balance := range months[2].BucketBalances {
		assert.True(t, balance.Equal(decoded.BucketBalances[fund]))
	}
}
