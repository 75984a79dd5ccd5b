package service

import (
	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// AccountService handles account lifecycle
type AccountService struct {
	accountRepo domain.AccountRepository
}

// NewAccountService creates a new AccountService
func NewAccountService(accountRepo domain.AccountRepository) *AccountService {
	return &AccountService{accountRepo: accountRepo}
}

// Create validates and persists an account
func (s *AccountService) Create(account *domain.Account) (*domain.Account, error) {
	if account.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if len(account.Name) > domain.MaxAccountNameLength {
		return nil, domain.ErrNameTooLong
	}
	if account.AccountType != domain.AccountTypeAsset && account.AccountType != domain.AccountTypeLiability {
		return nil, domain.ErrInvalidInput
	}
	if len(account.Currency) != 3 {
		return nil, domain.ErrInvalidInput
	}
	if account.StartingFxRate.IsZero() {
		account.StartingFxRate = decimal.NewFromInt(1)
	}
	account.IsActive = true
	return s.accountRepo.Create(account)
}

// Get retrieves an account by ID
func (s *AccountService) Get(workspaceID, id uuid.UUID) (*domain.Account, error) {
	return s.accountRepo.GetByID(workspaceID, id)
}

// List retrieves workspace accounts
func (s *AccountService) List(workspaceID uuid.UUID, includeInactive bool) ([]*domain.Account, error) {
	return s.accountRepo.GetAllByWorkspace(workspaceID, includeInactive)
}

// Rename updates an account's name. Type and currency are immutable once
// postings exist.
func (s *AccountService) Rename(workspaceID, id uuid.UUID, name string) (*domain.Account, error) {
	if name == "" {
		return nil, domain.ErrNameRequired
	}
	account, err := s.accountRepo.GetByID(workspaceID, id)
	if err != nil {
		return nil, err
	}
	account.Name = name
	return s.accountRepo.Update(account)
}

// Deactivate retires an account, keeping its postings
func (s *AccountService) Deactivate(workspaceID, id uuid.UUID) error {
	if _, err := s.accountRepo.GetByID(workspaceID, id); err != nil {
		return err
	}
	return s.accountRepo.Deactivate(workspaceID, id)
}
