package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestScenario_BudgetBenchmark(t *testing.T) {
	flat := &Scenario{Assumptions: ProjectionAssumptions{MonthlyExpenses: decimal.NewFromInt(1500)}}
	assert.True(t, flat.BudgetBenchmark().Equal(decimal.NewFromInt(1500)))

	// Category budgets take precedence over the flat number.
	budgeted := &Scenario{Assumptions: ProjectionAssumptions{
		MonthlyExpenses: decimal.NewFromInt(1500),
		CategoryBudgets: []CategoryBudget{
			{Name: "Rent", MonthlyAmount: decimal.NewFromInt(900)},
			{Name: "Groceries", MonthlyAmount: decimal.NewFromInt(400)},
		},
	}}
	assert.True(t, budgeted.BudgetBenchmark().Equal(decimal.NewFromInt(1300)))
}
