package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WorkingCapitalFundName identifies the cash buffer fund that fixed costs
// settle against.
const WorkingCapitalFundName = "Working Capital"

// LinkedAccount is a weak cross-reference from a fund to an account. The
// allocation percentage is the share of the fund held in that account; for a
// multi-account fund the shares must sum to 100.
type LinkedAccount struct {
	AccountID            uuid.UUID       `json:"accountId"`
	AllocationPercentage decimal.Decimal `json:"allocationPercentage"`
}

type Fund struct {
	ID                    uuid.UUID       `json:"id"`
	WorkspaceID           uuid.UUID       `json:"workspaceId"`
	Name                  string          `json:"name"`
	Emoji                 *string         `json:"emoji,omitempty"`
	Description           *string         `json:"description,omitempty"`
	AllocationPercentage  decimal.Decimal `json:"allocationPercentage"`
	IsSelfFunding         bool            `json:"isSelfFunding"`
	SelfFundingPercentage decimal.Decimal `json:"selfFundingPercentage"`
	SourceFundID          *uuid.UUID      `json:"sourceFundId,omitempty"`
	IsActive              bool            `json:"isActive"`
	LinkedAccounts        []LinkedAccount `json:"linkedAccounts"`
	CreatedAt             time.Time       `json:"createdAt"`
	UpdatedAt             time.Time       `json:"updatedAt"`
}

// IsWorkingCapital reports whether this is the workspace's cash buffer fund.
func (f *Fund) IsWorkingCapital() bool {
	return f.Name == WorkingCapitalFundName
}

// linkedAccountSumTolerance is the tolerance applied when checking that a
// multi-account fund's shares sum to 100.
var linkedAccountSumTolerance = decimal.New(1, -1) // 0.1

// ValidateLinkedAccounts checks the multi-account percentage-split invariant.
func (f *Fund) ValidateLinkedAccounts() error {
	if len(f.LinkedAccounts) <= 1 {
		return nil
	}
	sum := decimal.Zero
	for _, la := range f.LinkedAccounts {
		sum = sum.Add(la.AllocationPercentage)
	}
	if sum.Sub(decimal.NewFromInt(100)).Abs().GreaterThan(linkedAccountSumTolerance) {
		return ErrInvalidAllocation
	}
	return nil
}

type FundRepository interface {
	Create(fund *Fund) (*Fund, error)
	GetByID(workspaceID, id uuid.UUID) (*Fund, error)
	// GetAllByWorkspace returns active funds ordered by creation time.
	GetAllByWorkspace(workspaceID uuid.UUID) ([]*Fund, error)
	Update(fund *Fund) (*Fund, error)
	Deactivate(workspaceID, id uuid.UUID) error
}
