package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OverrideKind tags which payload an AllocationOverride carries. An override
// holds either a percentage or a fixed amount, never both.
type OverrideKind string

const (
	OverrideKindPercentage OverrideKind = "percentage"
	OverrideKindAmount     OverrideKind = "amount"
)

// AllocationOverride pins a fund's allocation for a single month, keyed
// uniquely by (fund, year, month) within a workspace.
type AllocationOverride struct {
	ID          uuid.UUID       `json:"id"`
	WorkspaceID uuid.UUID       `json:"workspaceId"`
	FundID      uuid.UUID       `json:"fundId"`
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Kind        OverrideKind    `json:"kind"`
	Value       decimal.Decimal `json:"value"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   time.Time       `json:"updatedAt"`
}

// NewPercentageOverride builds a percentage override, rejecting values
// outside [0, 100].
func NewPercentageOverride(workspaceID, fundID uuid.UUID, year, month int, pct decimal.Decimal) (*AllocationOverride, error) {
	if pct.IsNegative() || pct.GreaterThan(decimal.NewFromInt(100)) {
		return nil, ErrInvalidAllocation
	}
	return &AllocationOverride{
		WorkspaceID: workspaceID,
		FundID:      fundID,
		Year:        year,
		Month:       month,
		Kind:        OverrideKindPercentage,
		Value:       pct,
	}, nil
}

// NewAmountOverride builds a fixed-amount override.
func NewAmountOverride(workspaceID, fundID uuid.UUID, year, month int, amount decimal.Decimal) (*AllocationOverride, error) {
	if amount.IsNegative() {
		return nil, ErrInvalidAllocation
	}
	return &AllocationOverride{
		WorkspaceID: workspaceID,
		FundID:      fundID,
		Year:        year,
		Month:       month,
		Kind:        OverrideKindAmount,
		Value:       amount,
	}, nil
}

type AllocationOverrideRepository interface {
	// Upsert atomically creates or replaces the override for its
	// (fund, year, month) key.
	Upsert(override *AllocationOverride) (*AllocationOverride, error)
	GetByFundAndPeriod(workspaceID, fundID uuid.UUID, year, month int) (*AllocationOverride, error)
	GetByWorkspace(workspaceID uuid.UUID) ([]*AllocationOverride, error)
	Delete(workspaceID, fundID uuid.UUID, year, month int) error
}
