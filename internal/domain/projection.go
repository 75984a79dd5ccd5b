package domain

import "github.com/shopspring/decimal"

// MonthlyProjection is one simulated month. It is produced by the projection
// engine and never mutated afterwards.
type MonthlyProjection struct {
	Period           string                     `json:"period"` // "2026-01"
	GrossIncome      decimal.Decimal            `json:"grossIncome"`
	Taxes            decimal.Decimal            `json:"taxes"`
	NetIncome        decimal.Decimal            `json:"netIncome"`
	Expenses         decimal.Decimal            `json:"expenses"`
	ExpenseBreakdown map[string]decimal.Decimal `json:"expenseBreakdown,omitempty"`
	OneTimeCosts     decimal.Decimal            `json:"oneTimeCosts"`
	Savings          decimal.Decimal            `json:"savings"`
	SavingsRate      decimal.Decimal            `json:"savingsRate"`
	// Contribution added to each fund this month, and the closing balance
	// per fund after growth and contribution.
	BucketAllocations map[string]decimal.Decimal `json:"bucketAllocations"`
	BucketBalances    map[string]decimal.Decimal `json:"bucketBalances"`
}

// FundClass splits funds between wealth-building and consumption buckets in
// the yearly rollup.
type FundClass string

const (
	FundClassInvestment FundClass = "investment"
	FundClassRecreation FundClass = "recreation"
)

// FundYear is one fund's wealth curve over a calendar year.
type FundYear struct {
	Fund           string          `json:"fund"`
	Class          FundClass       `json:"class"`
	Year           int             `json:"year"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	Contributions  decimal.Decimal `json:"contributions"`
	ClosingBalance decimal.Decimal `json:"closingBalance"`
	Revenue        decimal.Decimal `json:"revenue"`
	PctRevenue     decimal.Decimal `json:"pctRevenue"`
}

// YearlySummary rolls projected months into one calendar year.
type YearlySummary struct {
	Year                  int             `json:"year"`
	GrossIncome           decimal.Decimal `json:"grossIncome"`
	NetIncome             decimal.Decimal `json:"netIncome"`
	Expenses              decimal.Decimal `json:"expenses"`
	OneTimeCosts          decimal.Decimal `json:"oneTimeCosts"`
	Savings               decimal.Decimal `json:"savings"`
	AmountInvested        decimal.Decimal `json:"amountInvested"`
	AmountSpentRecreation decimal.Decimal `json:"amountSpentRecreation"`
	Funds                 []FundYear      `json:"funds"`
}

// YearlyProjectionResult is the full multi-year rollup.
type YearlyProjectionResult struct {
	Years            []YearlySummary `json:"years"`
	TotalWealthFinal decimal.Decimal `json:"totalWealthFinal"`
}
