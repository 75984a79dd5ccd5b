package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// balanceEpsilon is the tolerance for the double-entry balance invariant,
// in base-currency units.
var balanceEpsilon = decimal.New(1, -6)

// ValidateTransaction checks the double-entry invariants: exactly two
// postings whose base-currency amounts sum to zero. Violations are returned
// before anything is persisted.
func ValidateTransaction(tx *domain.Transaction) error {
	if len(tx.Postings) != 2 {
		return domain.ErrWrongPostingCount
	}

	sum := decimal.Zero
	for _, p := range tx.Postings {
		sum = sum.Add(p.BaseAmount())
	}
	if sum.Abs().GreaterThan(balanceEpsilon) {
		return domain.ErrUnbalanced
	}
	return nil
}

// NativeBalanceAsOf computes an account's balance in its own currency at a
// point in time: starting balance plus all postings booked up to and
// including the instant.
func NativeBalanceAsOf(account *domain.Account, transactions []*domain.Transaction, asOf time.Time) decimal.Decimal {
	balance := account.StartingBalance
	for _, tx := range transactions {
		if tx.Timestamp.After(asOf) {
			continue
		}
		for _, p := range tx.Postings {
			if p.AccountID == account.ID {
				balance = balance.Add(p.Amount)
			}
		}
	}
	return balance
}

// CostBasisAsOf computes an account's base-currency balance at a point in
// time with every posting converted at its booked fx rate. Rates are frozen
// at booking time; history is never re-priced.
func CostBasisAsOf(account *domain.Account, transactions []*domain.Transaction, asOf time.Time) decimal.Decimal {
	basis := account.StartingBalance.Mul(account.StartingFxRate)
	for _, tx := range transactions {
		if tx.Timestamp.After(asOf) {
			continue
		}
		for _, p := range tx.Postings {
			if p.AccountID == account.ID {
				basis = basis.Add(p.BaseAmount())
			}
		}
	}
	return basis
}

// LedgerService computes balances and net worth over the booked ledger. All
// reads are pure over the retrieved transaction snapshot.
type LedgerService struct {
	workspaceRepo   domain.WorkspaceRepository
	accountRepo     domain.AccountRepository
	transactionRepo domain.TransactionRepository
	rates           domain.RateProvider
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(
	workspaceRepo domain.WorkspaceRepository,
	accountRepo domain.AccountRepository,
	transactionRepo domain.TransactionRepository,
	rates domain.RateProvider,
) *LedgerService {
	return &LedgerService{
		workspaceRepo:   workspaceRepo,
		accountRepo:     accountRepo,
		transactionRepo: transactionRepo,
		rates:           rates,
	}
}

// BalanceAsOf returns an account's base-currency cost-basis balance at the
// given instant.
func (s *LedgerService) BalanceAsOf(workspaceID, accountID uuid.UUID, asOf time.Time) (decimal.Decimal, error) {
	account, err := s.accountRepo.GetByID(workspaceID, accountID)
	if err != nil {
		return decimal.Zero, err
	}

	transactions, err := s.transactionRepo.GetByWorkspace(workspaceID, &domain.TransactionFilters{AccountID: &accountID})
	if err != nil {
		return decimal.Zero, err
	}

	return CostBasisAsOf(account, transactions, asOf), nil
}

// NetWorth values every account at current rates while reporting the booked
// cost basis and the unrealized fx gain between the two.
func (s *LedgerService) NetWorth(workspaceID uuid.UUID, asOf time.Time) (*domain.NetWorthResult, error) {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}

	accounts, err := s.accountRepo.GetAllByWorkspace(workspaceID, false)
	if err != nil {
		return nil, err
	}

	transactions, err := s.transactionRepo.GetByWorkspace(workspaceID, nil)
	if err != nil {
		return nil, err
	}

	result := &domain.NetWorthResult{
		BaseCurrency: workspace.BaseCurrency,
		Accounts:     make([]domain.AccountNetWorthRow, 0, len(accounts)),
	}

	for _, account := range accounts {
		native := NativeBalanceAsOf(account, transactions, asOf)
		costBasis := CostBasisAsOf(account, transactions, asOf)

		currentRate := decimal.NewFromInt(1)
		if account.Currency != workspace.BaseCurrency {
			rate, err := s.rates.GetRate(workspace.BaseCurrency, account.Currency)
			if err != nil {
				return nil, err
			}
			currentRate = rate.Rate
		}

		marketValue := native.Mul(currentRate)
		row := domain.AccountNetWorthRow{
			AccountID:        account.ID,
			AccountName:      account.Name,
			Currency:         account.Currency,
			AccountType:      account.AccountType,
			NativeBalance:    native,
			CurrentFxRate:    currentRate,
			MarketValueBase:  marketValue,
			CostBasisBase:    costBasis,
			UnrealizedFxGain: marketValue.Sub(costBasis),
		}

		result.Accounts = append(result.Accounts, row)
		result.Total = result.Total.Add(marketValue)
		result.TotalUnrealizedFxGain = result.TotalUnrealizedFxGain.Add(row.UnrealizedFxGain)
	}

	return result, nil
}
