package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/util"
	"github.com/shopspring/decimal"
)

// percentSumTolerance bounds how far the non-WC fund percentages of an
// unlocked month may drift from 100 before the row is flagged.
var percentSumTolerance = decimal.New(1, -1) // 0.1

// AllocationService reconciles the active budget model against booked
// transactions month by month, resolving per-fund allocations and the
// working-capital optimization.
type AllocationService struct {
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	categoryRepo    domain.CategoryRepository
	fundRepo        domain.FundRepository
	overrideRepo    domain.AllocationOverrideRepository
	scenarioRepo    domain.ScenarioRepository
	now             func() time.Time
}

// NewAllocationService creates a new AllocationService
func NewAllocationService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	categoryRepo domain.CategoryRepository,
	fundRepo domain.FundRepository,
	overrideRepo domain.AllocationOverrideRepository,
	scenarioRepo domain.ScenarioRepository,
) *AllocationService {
	return &AllocationService{
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		categoryRepo:    categoryRepo,
		fundRepo:        fundRepo,
		overrideRepo:    overrideRepo,
		scenarioRepo:    scenarioRepo,
		now:             time.Now,
	}
}

type overrideKey struct {
	fundID uuid.UUID
	year   int
	month  int
}

// allocationContext carries everything one table build needs, precomputed
// from a single pass over the workspace data.
type allocationContext struct {
	funds          []*domain.Fund
	wcFund         *domain.Fund
	overrides      map[overrideKey]*domain.AllocationOverride
	benchmark      decimal.Decimal
	minimumWC      decimal.Decimal
	scenarioID     *uuid.UUID
	accounts       map[uuid.UUID]*domain.Account
	transactions   []*domain.Transaction
	incomeByPeriod map[string]decimal.Decimal
	fixedByPeriod  map[string]decimal.Decimal
}

func (s *AllocationService) buildContext(workspaceID uuid.UUID) (*allocationContext, error) {
	funds, err := s.fundRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}

	overrides, err := s.overrideRepo.GetByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	overrideMap := make(map[overrideKey]*domain.AllocationOverride, len(overrides))
	for _, o := range overrides {
		overrideMap[overrideKey{o.FundID, o.Year, o.Month}] = o
	}

	benchmark := decimal.Zero
	minimumWC := decimal.Zero
	var scenarioID *uuid.UUID
	scenario, err := s.scenarioRepo.GetActive(workspaceID)
	if err != nil && !errors.Is(err, domain.ErrScenarioNotFound) {
		return nil, err
	}
	if scenario != nil {
		benchmark = scenario.BudgetBenchmark()
		minimumWC = benchmark.Mul(decimal.NewFromInt(int64(scenario.Assumptions.MinimumCashBufferMonths)))
		scenarioID = &scenario.ID
	}

	categories, err := s.categoryRepo.GetAllByWorkspace(workspaceID)
	if err != nil {
		return nil, err
	}
	categoryType := make(map[uuid.UUID]domain.CategoryType, len(categories))
	fixedCost := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		categoryType[c.ID] = c.Type
		fixedCost[c.ID] = c.IsFixedCost
	}

	accounts, err := s.accountRepo.GetAllByWorkspace(workspaceID, true)
	if err != nil {
		return nil, err
	}
	accountMap := make(map[uuid.UUID]*domain.Account, len(accounts))
	for _, a := range accounts {
		accountMap[a.ID] = a
	}

	transactions, err := s.transactionRepo.GetByWorkspace(workspaceID, nil)
	if err != nil {
		return nil, err
	}

	income := make(map[string]decimal.Decimal)
	fixed := make(map[string]decimal.Decimal)
	for _, tx := range transactions {
		if tx.CategoryID == nil {
			continue
		}
		period := util.FormatPeriod(tx.Timestamp.Year(), int(tx.Timestamp.Month()))
		switch categoryType[*tx.CategoryID] {
		case domain.CategoryTypeIncome:
			for _, p := range tx.Postings {
				if base := p.BaseAmount(); base.IsPositive() {
					income[period] = income[period].Add(base)
				}
			}
		case domain.CategoryTypeExpense:
			if !fixedCost[*tx.CategoryID] {
				continue
			}
			for _, p := range tx.Postings {
				if base := p.BaseAmount(); base.IsNegative() {
					fixed[period] = fixed[period].Add(base.Abs())
				}
			}
		}
	}

	ctx := &allocationContext{
		funds:          funds,
		overrides:      overrideMap,
		benchmark:      benchmark,
		minimumWC:      minimumWC,
		scenarioID:     scenarioID,
		accounts:       accountMap,
		transactions:   transactions,
		incomeByPeriod: income,
		fixedByPeriod:  fixed,
	}
	for _, f := range funds {
		if f.IsWorkingCapital() {
			ctx.wcFund = f
			break
		}
	}
	return ctx, nil
}

// wcClosingBefore returns the base-currency cost-basis balance of the
// working-capital fund's linked accounts just before the given month opens.
func (ctx *allocationContext) wcClosingBefore(year, month int) decimal.Decimal {
	if ctx.wcFund == nil {
		return decimal.Zero
	}
	start, _ := util.MonthRange(year, month)
	asOf := start.Add(-time.Nanosecond)

	total := decimal.Zero
	for _, la := range ctx.wcFund.LinkedAccounts {
		account, ok := ctx.accounts[la.AccountID]
		if !ok {
			continue
		}
		total = total.Add(CostBasisAsOf(account, ctx.transactions, asOf))
	}
	return total
}

// WorkingCapitalTarget computes the suggested working-capital allocation for
// a month: cover the actual fixed cost plus whatever tops the projected
// balance back up to the configured minimum.
func WorkingCapitalTarget(prevClosing, netIncome, actualFixedCost, minimumBalance decimal.Decimal) decimal.Decimal {
	projected := prevClosing.Add(netIncome).Sub(actualFixedCost)
	shortfall := minimumBalance.Sub(projected)
	if shortfall.IsNegative() {
		shortfall = decimal.Zero
	}
	target := actualFixedCost.Add(shortfall)
	if target.IsNegative() {
		target = decimal.Zero
	}
	return target.Round(2)
}

func (s *AllocationService) buildRow(ctx *allocationContext, year, month int) domain.IncomeAllocationRow {
	period := util.FormatPeriod(year, month)
	prevYear, prevMonth := util.PreviousMonth(year, month)

	// Allocations distribute the previous month's booked income.
	netIncome := ctx.incomeByPeriod[util.FormatPeriod(prevYear, prevMonth)]
	actualFixed := ctx.fixedByPeriod[period]
	allocatedFixed := ctx.benchmark

	wcPrev := ctx.wcClosingBefore(year, month)
	wcTarget := WorkingCapitalTarget(wcPrev, netIncome, actualFixed, ctx.minimumWC)

	savingsRemainder := netIncome.Sub(allocatedFixed)
	isLocked := util.IsHistoricalMonth(year, month, s.now())

	row := domain.IncomeAllocationRow{
		Year:               year,
		Month:              month,
		NetIncome:          netIncome,
		AllocatedFixedCost: allocatedFixed,
		ActualFixedCost:    actualFixed,
		SavingsRemainder:   savingsRemainder,
		IsLocked:           isLocked,
	}

	// Remaining savings available to non-WC funds. Override amounts act as
	// per-fund caps against this budget; nothing is rebalanced when a cap
	// bites.
	remaining := savingsRemainder
	capped := savingsRemainder.Sign() >= 0

	pctSum := decimal.Zero
	for _, fund := range ctx.funds {
		key := overrideKey{fund.ID, year, month}
		override := ctx.overrides[key]

		if fund.IsWorkingCapital() {
			wcAllocated := wcTarget
			overridden := false
			if override != nil && override.Kind == domain.OverrideKindAmount {
				wcAllocated = override.Value
				overridden = true
			}
			row.FixedCostOptimization = wcAllocated.Sub(actualFixed)

			wcPct := decimal.Zero
			if netIncome.IsPositive() {
				wcPct = wcAllocated.Div(netIncome).Mul(oneHundred)
			}
			row.FundAllocations = append(row.FundAllocations, domain.FundAllocationDetail{
				FundID:               fund.ID,
				FundName:             fund.Name,
				AllocationPercentage: wcPct,
				AllocatedAmount:      wcAllocated,
				IsOverridden:         overridden,
				IsAuto:               true,
			})
			continue
		}

		var pct, amount decimal.Decimal
		overridden := override != nil
		switch {
		case override != nil && override.Kind == domain.OverrideKindAmount:
			amount = override.Value
			if savingsRemainder.IsPositive() {
				pct = amount.Div(savingsRemainder).Mul(oneHundred)
			}
		case override != nil && override.Kind == domain.OverrideKindPercentage:
			pct = override.Value
			amount = savingsRemainder.Mul(pct).Div(oneHundred)
		default:
			pct = fund.AllocationPercentage
			amount = savingsRemainder.Mul(pct).Div(oneHundred)
		}

		if capped {
			if amount.GreaterThan(remaining) {
				amount = remaining
			}
			remaining = remaining.Sub(amount)
		}
		amount = amount.Round(2)

		selfFunding := decimal.Zero
		if fund.IsSelfFunding {
			selfFunding = amount.Mul(fund.SelfFundingPercentage).Div(oneHundred).Round(2)
		}

		pctSum = pctSum.Add(pct)
		row.FundAllocations = append(row.FundAllocations, domain.FundAllocationDetail{
			FundID:               fund.ID,
			FundName:             fund.Name,
			AllocationPercentage: pct,
			AllocatedAmount:      amount,
			SelfFundingAmount:    selfFunding,
			IsOverridden:         overridden,
		})
	}

	if ctx.wcFund == nil {
		row.FixedCostOptimization = decimal.Zero.Sub(actualFixed)
	}

	if !isLocked && pctSum.Sub(oneHundred).Abs().GreaterThan(percentSumTolerance) {
		row.Warnings = append(row.Warnings, domain.WarningAllocationSumInvalid)
	}

	return row
}

// BuildTable builds the income allocation table covering the given number of
// trailing calendar years up to the current month.
func (s *AllocationService) BuildTable(workspaceID uuid.UUID, years int) (*domain.IncomeAllocationResult, error) {
	if years < 1 {
		years = 1
	}

	ctx, err := s.buildContext(workspaceID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	currentYear := now.Year()
	currentMonth := int(now.Month())
	startYear := currentYear - years + 1

	result := &domain.IncomeAllocationResult{
		ActiveScenarioID: ctx.scenarioID,
		BudgetBenchmark:  ctx.benchmark,
	}
	for _, f := range ctx.funds {
		emoji := ""
		if f.Emoji != nil {
			emoji = *f.Emoji
		}
		result.FundsMeta = append(result.FundsMeta, domain.FundMeta{
			FundID:   f.ID,
			FundName: f.Name,
			Emoji:    emoji,
		})
	}

	for year := startYear; year <= currentYear; year++ {
		endMonth := 12
		if year == currentYear {
			endMonth = currentMonth
		}
		for month := 1; month <= endMonth; month++ {
			result.Rows = append(result.Rows, s.buildRow(ctx, year, month))
		}
	}

	return result, nil
}

// BuildYear builds allocation rows for a single calendar year. Future months
// of the current year are not built; past years cover January to December.
func (s *AllocationService) BuildYear(workspaceID uuid.UUID, year int) ([]domain.IncomeAllocationRow, []*domain.Fund, error) {
	ctx, err := s.buildContext(workspaceID)
	if err != nil {
		return nil, nil, err
	}

	now := s.now()
	endMonth := 12
	if year == now.Year() {
		endMonth = int(now.Month())
	}
	if year > now.Year() {
		return nil, ctx.funds, nil
	}

	rows := make([]domain.IncomeAllocationRow, 0, endMonth)
	for month := 1; month <= endMonth; month++ {
		rows = append(rows, s.buildRow(ctx, year, month))
	}
	return rows, ctx.funds, nil
}

// UpsertOverride creates or replaces the allocation override for a fund and
// month. The lock is re-checked here, at the point of write, so a stale read
// cannot slip a mutation into settled history.
func (s *AllocationService) UpsertOverride(workspaceID, fundID uuid.UUID, year, month int, kind domain.OverrideKind, value decimal.Decimal) (*domain.AllocationOverride, error) {
	if month < 1 || month > 12 {
		return nil, domain.ErrInvalidInput
	}
	if util.IsHistoricalMonth(year, month, s.now()) {
		return nil, domain.ErrMonthLocked
	}

	if _, err := s.fundRepo.GetByID(workspaceID, fundID); err != nil {
		return nil, err
	}

	var override *domain.AllocationOverride
	var err error
	switch kind {
	case domain.OverrideKindPercentage:
		override, err = domain.NewPercentageOverride(workspaceID, fundID, year, month, value)
	case domain.OverrideKindAmount:
		override, err = domain.NewAmountOverride(workspaceID, fundID, year, month, value)
	default:
		return nil, domain.ErrInvalidInput
	}
	if err != nil {
		return nil, err
	}

	return s.overrideRepo.Upsert(override)
}

// DeleteOverride removes an override, reverting that cell to its
// model-computed value. Locked months reject the mutation.
func (s *AllocationService) DeleteOverride(workspaceID, fundID uuid.UUID, year, month int) error {
	if util.IsHistoricalMonth(year, month, s.now()) {
		return domain.ErrMonthLocked
	}
	if _, err := s.fundRepo.GetByID(workspaceID, fundID); err != nil {
		return err
	}
	return s.overrideRepo.Delete(workspaceID, fundID, year, month)
}
