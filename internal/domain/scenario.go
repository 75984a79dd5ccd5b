package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryBudget is a monthly budget line for one expense category, with an
// optional per-category inflation override.
type CategoryBudget struct {
	Name          string           `json:"name"`
	MonthlyAmount decimal.Decimal  `json:"monthlyAmount"`
	InflationRate *decimal.Decimal `json:"inflationRate,omitempty"`
}

// OneTimeCost is a single cost landing on one projected month (0-based).
type OneTimeCost struct {
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	MonthIndex int             `json:"monthIndex"`
}

// ProjectionAssumptions is the full input model for a projection run.
type ProjectionAssumptions struct {
	BaseCurrency string     `json:"baseCurrency"`
	StartDate    *time.Time `json:"startDate,omitempty"`

	// Income
	MonthlySalary decimal.Decimal `json:"monthlySalary"`
	AnnualBonus   decimal.Decimal `json:"annualBonus"`
	BonusMonth    int             `json:"bonusMonth"` // calendar month 1-12, 0 = no bonus
	OtherIncome   decimal.Decimal `json:"otherIncome"`
	TaxRate       decimal.Decimal `json:"taxRate"`

	// Expenses: category budgets when present, else flat monthly expenses.
	// Both inflate by (1+rate)^floor(m/12).
	CategoryBudgets      []CategoryBudget `json:"categoryBudgets,omitempty"`
	MonthlyExpenses      decimal.Decimal  `json:"monthlyExpenses"`
	ExpenseInflationRate decimal.Decimal  `json:"expenseInflationRate"`

	OneTimeCosts []OneTimeCost `json:"oneTimeCosts,omitempty"`

	// Savings distribution: fund name -> fraction (must sum to 1) and fund
	// name -> annualized return.
	AllocationWeights map[string]decimal.Decimal `json:"allocationWeights"`
	BucketReturns     map[string]decimal.Decimal `json:"bucketReturns"`

	MinimumCashBufferMonths int `json:"minimumCashBufferMonths"`
}

// Scenario is a saved set of projection assumptions. The active scenario
// also supplies the monthly budget benchmark used as the allocated fixed
// cost in the income allocation table.
type Scenario struct {
	ID          uuid.UUID             `json:"id"`
	WorkspaceID uuid.UUID             `json:"workspaceId"`
	Name        string                `json:"name"`
	Description *string               `json:"description,omitempty"`
	Assumptions ProjectionAssumptions `json:"assumptions"`
	IsActive    bool                  `json:"isActive"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// BudgetBenchmark is the scenario's modeled monthly expense total at month
// zero, before inflation.
func (s *Scenario) BudgetBenchmark() decimal.Decimal {
	if len(s.Assumptions.CategoryBudgets) == 0 {
		return s.Assumptions.MonthlyExpenses
	}
	total := decimal.Zero
	for _, cb := range s.Assumptions.CategoryBudgets {
		total = total.Add(cb.MonthlyAmount)
	}
	return total
}

type ScenarioRepository interface {
	Create(scenario *Scenario) (*Scenario, error)
	GetByID(workspaceID, id uuid.UUID) (*Scenario, error)
	GetAllByWorkspace(workspaceID uuid.UUID) ([]*Scenario, error)
	GetActive(workspaceID uuid.UUID) (*Scenario, error)
	Update(scenario *Scenario) (*Scenario, error)
	// SetActive marks one scenario active and deactivates the rest.
	SetActive(workspaceID, id uuid.UUID) error
	Delete(workspaceID, id uuid.UUID) error
}
