package service

import (
	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/util"
	"github.com/shopspring/decimal"
)

// FundTrackerService compares modeled fund funding against booked postings
// and emits transfer suggestions for underfunded months.
type FundTrackerService struct {
	accountRepo       domain.AccountRepository
	transactionRepo   domain.TransactionRepository
	fundRepo          domain.FundRepository
	allocationService *AllocationService
}

// NewFundTrackerService creates a new FundTrackerService
func NewFundTrackerService(
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	fundRepo domain.FundRepository,
	allocationService *AllocationService,
) *FundTrackerService {
	return &FundTrackerService{
		accountRepo:       accountRepo,
		transactionRepo:   transactionRepo,
		fundRepo:          fundRepo,
		allocationService: allocationService,
	}
}

// SelfFundingCredits is the slice of an expected contribution the fund
// generates internally; it never needs an external transfer. A fund that is
// 100% self-funding therefore never produces a suggestion.
func SelfFundingCredits(fund *domain.Fund, expected decimal.Decimal) decimal.Decimal {
	if !fund.IsSelfFunding {
		return decimal.Zero
	}
	return expected.Mul(fund.SelfFundingPercentage).Div(oneHundred)
}

// FundingShortfall nets actual and self-funding credits out of the expected
// contribution, floored at zero.
func FundingShortfall(expected, actualCredits, selfFundingCredits decimal.Decimal) decimal.Decimal {
	shortfall := expected.Sub(actualCredits).Sub(selfFundingCredits)
	if shortfall.IsNegative() {
		return decimal.Zero
	}
	return shortfall
}

// monthFlows sums posting base amounts on the fund's linked accounts during
// one calendar month, split into credits and debits.
func monthFlows(fund *domain.Fund, transactions []*domain.Transaction, year, month int) (credits, debits decimal.Decimal) {
	linked := make(map[uuid.UUID]bool, len(fund.LinkedAccounts))
	for _, la := range fund.LinkedAccounts {
		linked[la.AccountID] = true
	}

	start, end := util.MonthRange(year, month)
	for _, tx := range transactions {
		if tx.Timestamp.Before(start) || tx.Timestamp.After(end) {
			continue
		}
		for _, p := range tx.Postings {
			if !linked[p.AccountID] {
				continue
			}
			base := p.BaseAmount()
			if base.IsPositive() {
				credits = credits.Add(base)
			} else {
				debits = debits.Add(base.Abs())
			}
		}
	}
	return credits, debits
}

// sourceAccount picks the account a suggested transfer should draw from: the
// fund's configured source fund when set, otherwise Working Capital.
func (s *FundTrackerService) sourceAccount(fund *domain.Fund, funds []*domain.Fund, accounts map[uuid.UUID]*domain.Account) (*domain.Account, *uuid.UUID) {
	var source *domain.Fund
	if fund.SourceFundID != nil {
		for _, f := range funds {
			if f.ID == *fund.SourceFundID {
				source = f
				break
			}
		}
	}
	if source == nil {
		for _, f := range funds {
			if f.IsWorkingCapital() {
				source = f
				break
			}
		}
	}
	if source == nil || len(source.LinkedAccounts) == 0 {
		return nil, nil
	}
	account, ok := accounts[source.LinkedAccounts[0].AccountID]
	if !ok {
		return nil, nil
	}
	return account, &source.ID
}

// Reconcile builds the fund tracker for one calendar year: per-fund monthly
// ledgers, transfer suggestions for every underfunded month, and the period
// summary including the unallocated working-capital remainder.
func (s *FundTrackerService) Reconcile(workspaceID uuid.UUID, year int) (*domain.FundTrackerResult, error) {
	rows, funds, err := s.allocationService.BuildYear(workspaceID, year)
	if err != nil {
		return nil, err
	}

	accountList, err := s.accountRepo.GetAllByWorkspace(workspaceID, true)
	if err != nil {
		return nil, err
	}
	accounts := make(map[uuid.UUID]*domain.Account, len(accountList))
	for _, a := range accountList {
		accounts[a.ID] = a
	}

	transactions, err := s.transactionRepo.GetByWorkspace(workspaceID, nil)
	if err != nil {
		return nil, err
	}

	// Resolved allocation per fund per month, straight from the table rows.
	expected := make(map[overrideKey]decimal.Decimal, len(rows)*len(funds))
	for _, row := range rows {
		for _, fa := range row.FundAllocations {
			expected[overrideKey{fa.FundID, row.Year, row.Month}] = fa.AllocatedAmount
		}
	}

	result := &domain.FundTrackerResult{}
	var wcFund *domain.Fund
	for _, f := range funds {
		if f.IsWorkingCapital() {
			wcFund = f
			break
		}
	}

	claimed := decimal.Zero
	for _, fund := range funds {
		ledger := domain.FundLedger{FundID: fund.ID, FundName: fund.Name}

		for _, row := range rows {
			exp := expected[overrideKey{fund.ID, row.Year, row.Month}]
			credits, debits := monthFlows(fund, transactions, row.Year, row.Month)
			selfFunding := SelfFundingCredits(fund, exp)
			shortfall := FundingShortfall(exp, credits, selfFunding).Round(2)

			ledger.Months = append(ledger.Months, domain.FundMonthRow{
				Year:                 row.Year,
				Month:                row.Month,
				ExpectedContribution: exp,
				ActualCredits:        credits,
				ActualDebits:         debits,
				SelfFundingCredits:   selfFunding,
				Shortfall:            shortfall,
			})
			ledger.TotalExpected = ledger.TotalExpected.Add(exp)
			ledger.TotalActualCredits = ledger.TotalActualCredits.Add(credits)
			ledger.TotalShortfall = ledger.TotalShortfall.Add(shortfall)

			if !fund.IsWorkingCapital() {
				claimed = claimed.Add(exp)
				if shortfall.GreaterThan(balanceEpsilon) {
					result.TransferSuggestions = append(result.TransferSuggestions,
						s.suggestTransfers(fund, funds, accounts, shortfall, row.Year, row.Month)...)
				}
			}
		}

		result.FundLedgers = append(result.FundLedgers, ledger)
		result.Summary.TotalExpected = result.Summary.TotalExpected.Add(ledger.TotalExpected)
		result.Summary.TotalActual = result.Summary.TotalActual.Add(ledger.TotalActualCredits)
	}
	result.Summary.TotalDifference = result.Summary.TotalExpected.Sub(result.Summary.TotalActual)

	if wcFund != nil {
		wcInflow := decimal.Zero
		for _, row := range rows {
			credits, _ := monthFlows(wcFund, transactions, row.Year, row.Month)
			wcInflow = wcInflow.Add(credits)
		}
		remainder := wcInflow.Sub(claimed)
		if remainder.IsPositive() {
			result.Summary.UnallocatedRemainder = remainder
			result.Summary.Warnings = append(result.Summary.Warnings, domain.WarningUnallocatedRemainder)
		}
	}

	return result, nil
}

// suggestTransfers splits one month's shortfall across the fund's linked
// accounts by their configured shares.
func (s *FundTrackerService) suggestTransfers(fund *domain.Fund, funds []*domain.Fund, accounts map[uuid.UUID]*domain.Account, shortfall decimal.Decimal, year, month int) []domain.TransferSuggestion {
	from, sourceFundID := s.sourceAccount(fund, funds, accounts)
	if from == nil {
		return nil
	}

	var suggestions []domain.TransferSuggestion
	for _, la := range fund.LinkedAccounts {
		to, ok := accounts[la.AccountID]
		if !ok {
			continue
		}

		amount := shortfall
		if len(fund.LinkedAccounts) > 1 {
			amount = shortfall.Mul(la.AllocationPercentage).Div(oneHundred).Round(2)
		}
		if !amount.IsPositive() {
			continue
		}

		suggestion := domain.TransferSuggestion{
			FromAccountID:   from.ID,
			FromAccountName: from.Name,
			FromCurrency:    from.Currency,
			ToAccountID:     to.ID,
			ToAccountName:   to.Name,
			ToCurrency:      to.Currency,
			Amount:          amount,
			IsCrossCurrency: from.Currency != to.Currency,
			SourceFundID:    sourceFundID,
			DestFundID:      &fund.ID,
			Note:            util.FormatPeriod(year, month),
		}
		if from.ID == to.ID {
			// Same account holds both funds; only the allocation moves.
			suggestion.Note = "allocation only"
		}
		suggestions = append(suggestions, suggestion)
	}
	return suggestions
}
