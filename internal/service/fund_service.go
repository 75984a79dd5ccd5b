package service

import (
	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// FundService handles fund lifecycle and linked-account management
type FundService struct {
	fundRepo    domain.FundRepository
	accountRepo domain.AccountRepository
}

// NewFundService creates a new FundService
func NewFundService(fundRepo domain.FundRepository, accountRepo domain.AccountRepository) *FundService {
	return &FundService{
		fundRepo:    fundRepo,
		accountRepo: accountRepo,
	}
}

func (s *FundService) validate(fund *domain.Fund) error {
	if fund.Name == "" {
		return domain.ErrNameRequired
	}
	if len(fund.Name) > domain.MaxFundNameLength {
		return domain.ErrNameTooLong
	}
	if fund.AllocationPercentage.IsNegative() {
		return domain.ErrInvalidAllocation
	}
	if fund.IsSelfFunding {
		if fund.SelfFundingPercentage.IsNegative() || fund.SelfFundingPercentage.GreaterThan(oneHundred) {
			return domain.ErrInvalidAllocation
		}
	}
	if err := fund.ValidateLinkedAccounts(); err != nil {
		return err
	}
	for _, la := range fund.LinkedAccounts {
		if _, err := s.accountRepo.GetByID(fund.WorkspaceID, la.AccountID); err != nil {
			return err
		}
	}
	return nil
}

// Create validates and persists a fund
func (s *FundService) Create(fund *domain.Fund) (*domain.Fund, error) {
	if err := s.validate(fund); err != nil {
		return nil, err
	}
	fund.IsActive = true
	return s.fundRepo.Create(fund)
}

// Update validates and persists fund changes
func (s *FundService) Update(fund *domain.Fund) (*domain.Fund, error) {
	if _, err := s.fundRepo.GetByID(fund.WorkspaceID, fund.ID); err != nil {
		return nil, err
	}
	if err := s.validate(fund); err != nil {
		return nil, err
	}
	return s.fundRepo.Update(fund)
}

// Get retrieves a fund by ID
func (s *FundService) Get(workspaceID, id uuid.UUID) (*domain.Fund, error) {
	return s.fundRepo.GetByID(workspaceID, id)
}

// List retrieves all active funds for a workspace
func (s *FundService) List(workspaceID uuid.UUID) ([]*domain.Fund, error) {
	return s.fundRepo.GetAllByWorkspace(workspaceID)
}

// Deactivate retires a fund without touching its history
func (s *FundService) Deactivate(workspaceID, id uuid.UUID) error {
	if _, err := s.fundRepo.GetByID(workspaceID, id); err != nil {
		return err
	}
	return s.fundRepo.Deactivate(workspaceID, id)
}
