package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AllocationWarning is a non-blocking computational warning attached to a
// result payload.
type AllocationWarning string

const (
	// WarningAllocationSumInvalid flags an unlocked month whose non-WC fund
	// percentages do not sum to 100.
	WarningAllocationSumInvalid AllocationWarning = "allocation_sum_invalid"
	// WarningUnallocatedRemainder flags working-capital inflow not claimed
	// by any fund.
	WarningUnallocatedRemainder AllocationWarning = "unallocated_remainder"
)

// FundAllocationDetail is one fund's resolved allocation within a month.
type FundAllocationDetail struct {
	FundID               uuid.UUID       `json:"fundId"`
	FundName             string          `json:"fundName"`
	AllocationPercentage decimal.Decimal `json:"allocationPercentage"`
	AllocatedAmount      decimal.Decimal `json:"allocatedAmount"`
	SelfFundingAmount    decimal.Decimal `json:"selfFundingAmount"`
	IsOverridden         bool            `json:"isOverridden"`
	IsAuto               bool            `json:"isAuto"`
}

// IncomeAllocationRow is one month of the income allocation table.
type IncomeAllocationRow struct {
	Year                  int                    `json:"year"`
	Month                 int                    `json:"month"`
	NetIncome             decimal.Decimal        `json:"netIncome"`
	AllocatedFixedCost    decimal.Decimal        `json:"allocatedFixedCost"`
	ActualFixedCost       decimal.Decimal        `json:"actualFixedCost"`
	FixedCostOptimization decimal.Decimal        `json:"fixedCostOptimization"`
	SavingsRemainder      decimal.Decimal        `json:"savingsRemainder"`
	FundAllocations       []FundAllocationDetail `json:"fundAllocations"`
	IsLocked              bool                   `json:"isLocked"`
	Warnings              []AllocationWarning    `json:"warnings,omitempty"`
}

// FundMeta describes a fund column in the allocation table.
type FundMeta struct {
	FundID   uuid.UUID `json:"fundId"`
	FundName string    `json:"fundName"`
	Emoji    string    `json:"emoji"`
}

// IncomeAllocationResult is the multi-month allocation table.
type IncomeAllocationResult struct {
	Rows             []IncomeAllocationRow `json:"rows"`
	FundsMeta        []FundMeta            `json:"fundsMeta"`
	ActiveScenarioID *uuid.UUID            `json:"activeScenarioId,omitempty"`
	BudgetBenchmark  decimal.Decimal       `json:"budgetBenchmark"`
}
