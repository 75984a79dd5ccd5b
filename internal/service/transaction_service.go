package service

import (
	"time"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// TransactionService validates and books transactions. Both postings of a
// transaction are persisted in one repository call so a transaction is never
// half-written.
type TransactionService struct {
	workspaceRepo   domain.WorkspaceRepository
	transactionRepo domain.TransactionRepository
	accountRepo     domain.AccountRepository
}

// NewTransactionService creates a new TransactionService
func NewTransactionService(
	workspaceRepo domain.WorkspaceRepository,
	transactionRepo domain.TransactionRepository,
	accountRepo domain.AccountRepository,
) *TransactionService {
	return &TransactionService{
		workspaceRepo:   workspaceRepo,
		transactionRepo: transactionRepo,
		accountRepo:     accountRepo,
	}
}

// Create validates the double-entry invariants and books the transaction.
// Violations are rejected before anything is persisted.
func (s *TransactionService) Create(tx *domain.Transaction) (*domain.Transaction, error) {
	if err := ValidateTransaction(tx); err != nil {
		return nil, err
	}

	for _, p := range tx.Postings {
		account, err := s.accountRepo.GetByID(tx.WorkspaceID, p.AccountID)
		if err != nil {
			return nil, err
		}
		if account.Currency != p.Currency {
			return nil, domain.ErrInvalidInput
		}
	}

	if tx.Status == "" {
		tx.Status = domain.TransactionStatusUnreconciled
	}
	if tx.Timestamp.IsZero() {
		tx.Timestamp = time.Now().UTC()
	}

	return s.transactionRepo.Create(tx)
}

// ExecuteTransferParams carries the caller-supplied pricing for executing a
// transfer suggestion. Rates are to the workspace base currency; the fee, if
// any, is in base currency and is absorbed into the destination posting's
// effective rate.
type ExecuteTransferParams struct {
	FromFxRate *decimal.Decimal
	ToFxRate   *decimal.Decimal
	Fee        *decimal.Decimal
	Timestamp  time.Time
	Memo       string
}

// ExecuteSuggestion books the transfer a suggestion describes. Cross-currency
// legs require their fx rate to be supplied; the engine never invents one.
func (s *TransactionService) ExecuteSuggestion(workspaceID uuid.UUID, suggestion domain.TransferSuggestion, params ExecuteTransferParams) (*domain.Transaction, error) {
	workspace, err := s.workspaceRepo.GetByID(workspaceID)
	if err != nil {
		return nil, err
	}

	from, err := s.accountRepo.GetByID(workspaceID, suggestion.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountRepo.GetByID(workspaceID, suggestion.ToAccountID)
	if err != nil {
		return nil, err
	}

	fromRate, err := resolveRate(from, workspace.BaseCurrency, params.FromFxRate)
	if err != nil {
		return nil, err
	}
	toRate, err := resolveRate(to, workspace.BaseCurrency, params.ToFxRate)
	if err != nil {
		return nil, err
	}

	baseAmount := suggestion.Amount
	if !baseAmount.IsPositive() {
		return nil, domain.ErrInvalidInput
	}

	arrival := baseAmount
	if params.Fee != nil {
		arrival = arrival.Sub(*params.Fee)
		if !arrival.IsPositive() {
			return nil, domain.ErrInvalidInput
		}
	}

	fromNative := baseAmount.Div(fromRate)
	toNative := arrival.Div(toRate)
	// The destination posting's booked rate absorbs the fee so both legs
	// cancel exactly in base currency.
	effectiveToRate := baseAmount.Div(toNative)

	ts := params.Timestamp
	if ts.IsZero() {
		ts = time.Now().UTC()
	}

	memo := params.Memo
	if memo == "" {
		memo = suggestion.Note
	}

	tx := &domain.Transaction{
		WorkspaceID:  workspaceID,
		Timestamp:    ts,
		Payee:        "Fund transfer",
		Memo:         memo,
		Status:       domain.TransactionStatusUnreconciled,
		Kind:         domain.TransactionKindTransfer,
		SourceFundID: suggestion.SourceFundID,
		DestFundID:   suggestion.DestFundID,
		Postings: []*domain.Posting{
			{AccountID: from.ID, Amount: fromNative.Neg(), Currency: from.Currency, FxRate: fromRate},
			{AccountID: to.ID, Amount: toNative, Currency: to.Currency, FxRate: effectiveToRate},
		},
	}

	if err := ValidateTransaction(tx); err != nil {
		return nil, err
	}

	return s.transactionRepo.Create(tx)
}

// resolveRate returns the rate to base for one leg: 1 for base-currency
// accounts, otherwise the caller-supplied rate.
func resolveRate(account *domain.Account, baseCurrency string, supplied *decimal.Decimal) (decimal.Decimal, error) {
	if account.Currency == baseCurrency {
		return decimal.NewFromInt(1), nil
	}
	if supplied == nil || !supplied.IsPositive() {
		return decimal.Zero, domain.ErrMissingRate
	}
	return *supplied, nil
}
