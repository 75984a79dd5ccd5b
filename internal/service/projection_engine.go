package service

import (
	"sort"
	"time"

	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/util"
	"github.com/shopspring/decimal"
)

// allocationWeightTolerance bounds how far allocation weights may drift from
// summing to exactly 1.
var allocationWeightTolerance = decimal.New(1, -3)

var twelve = decimal.NewFromInt(12)

// ProjectionRun is a deterministic month-by-month simulation. Each month
// depends only on the previous month's closing bucket balances, so a run can
// be consumed incrementally and restarted from any emitted month.
type ProjectionRun struct {
	assumptions domain.ProjectionAssumptions
	start       time.Time
	funds       []string
	month       int
	balances    map[string]decimal.Decimal
}

// NewProjectionRun validates the assumptions and prepares a run starting at
// month zero with empty buckets.
func NewProjectionRun(assumptions domain.ProjectionAssumptions) (*ProjectionRun, error) {
	if err := validateWeights(assumptions.AllocationWeights); err != nil {
		return nil, err
	}

	start := time.Now().UTC()
	if assumptions.StartDate != nil {
		start = *assumptions.StartDate
	}
	start = time.Date(start.Year(), start.Month(), 1, 0, 0, 0, 0, time.UTC)

	funds := make([]string, 0, len(assumptions.AllocationWeights))
	for name := range assumptions.AllocationWeights {
		funds = append(funds, name)
	}
	sort.Strings(funds)

	balances := make(map[string]decimal.Decimal, len(funds))
	for _, name := range funds {
		balances[name] = decimal.Zero
	}

	return &ProjectionRun{
		assumptions: assumptions,
		start:       start,
		funds:       funds,
		balances:    balances,
	}, nil
}

func validateWeights(weights map[string]decimal.Decimal) error {
	sum := decimal.Zero
	for _, w := range weights {
		if w.IsNegative() || w.GreaterThan(decimal.NewFromInt(1)) {
			return domain.ErrInvalidAllocation
		}
		sum = sum.Add(w)
	}
	if len(weights) > 0 && sum.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(allocationWeightTolerance) {
		return domain.ErrInvalidAllocation
	}
	return nil
}

// compound returns (1+rate)^years using exact decimal multiplication.
func compound(rate decimal.Decimal, years int) decimal.Decimal {
	factor := decimal.NewFromInt(1)
	base := decimal.NewFromInt(1).Add(rate)
	for i := 0; i < years; i++ {
		factor = factor.Mul(base)
	}
	return factor
}

// Next produces the projection for the next month and rolls the bucket
// balances forward.
func (r *ProjectionRun) Next() *domain.MonthlyProjection {
	m := r.month
	date := r.start.AddDate(0, m, 0)

	// Income
	gross := r.assumptions.MonthlySalary.Add(r.assumptions.OtherIncome)
	if r.assumptions.BonusMonth > 0 && int(date.Month()) == r.assumptions.BonusMonth {
		gross = gross.Add(r.assumptions.AnnualBonus)
	}
	taxes := gross.Mul(r.assumptions.TaxRate)
	net := gross.Sub(taxes)

	// Expenses inflate once per elapsed whole year, intentionally stepped
	// rather than compounded monthly.
	elapsedYears := m / 12
	var expenses decimal.Decimal
	var breakdown map[string]decimal.Decimal
	if len(r.assumptions.CategoryBudgets) > 0 {
		breakdown = make(map[string]decimal.Decimal, len(r.assumptions.CategoryBudgets))
		for _, cb := range r.assumptions.CategoryBudgets {
			rate := r.assumptions.ExpenseInflationRate
			if cb.InflationRate != nil {
				rate = *cb.InflationRate
			}
			amount := cb.MonthlyAmount.Mul(compound(rate, elapsedYears))
			breakdown[cb.Name] = amount
			expenses = expenses.Add(amount)
		}
	} else {
		expenses = r.assumptions.MonthlyExpenses.Mul(compound(r.assumptions.ExpenseInflationRate, elapsedYears))
	}

	oneTime := decimal.Zero
	for _, cost := range r.assumptions.OneTimeCosts {
		if cost.MonthIndex == m {
			oneTime = oneTime.Add(cost.Amount)
		}
	}

	// Negative savings is a modeled outcome, not an error; it propagates as
	// a negative contribution.
	savings := net.Sub(expenses).Sub(oneTime)

	savingsRate := decimal.Zero
	if net.IsPositive() {
		savingsRate = savings.Div(net)
	}

	allocations := make(map[string]decimal.Decimal, len(r.funds))
	closings := make(map[string]decimal.Decimal, len(r.funds))
	for _, fund := range r.funds {
		opening := r.balances[fund]
		growth := opening.Mul(r.assumptions.BucketReturns[fund].Div(twelve))
		contribution := savings.Mul(r.assumptions.AllocationWeights[fund])
		closing := opening.Add(growth).Add(contribution)

		allocations[fund] = contribution
		closings[fund] = closing
		r.balances[fund] = closing
	}

	r.month++

	return &domain.MonthlyProjection{
		Period:            util.FormatPeriod(date.Year(), int(date.Month())),
		GrossIncome:       gross,
		Taxes:             taxes,
		NetIncome:         net,
		Expenses:          expenses,
		ExpenseBreakdown:  breakdown,
		OneTimeCosts:      oneTime,
		Savings:           savings,
		SavingsRate:       savingsRate,
		BucketAllocations: allocations,
		BucketBalances:    closings,
	}
}

// RunProjection simulates the given number of months in one call.
func RunProjection(assumptions domain.ProjectionAssumptions, months int) ([]*domain.MonthlyProjection, error) {
	run, err := NewProjectionRun(assumptions)
	if err != nil {
		return nil, err
	}

	result := make([]*domain.MonthlyProjection, 0, months)
	for i := 0; i < months; i++ {
		result = append(result, run.Next())
	}
	return result, nil
}
