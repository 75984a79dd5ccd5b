package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type AccountType string

const (
	AccountTypeAsset     AccountType = "asset"
	AccountTypeLiability AccountType = "liability"
)

type Account struct {
	ID              uuid.UUID       `json:"id"`
	WorkspaceID     uuid.UUID       `json:"workspaceId"`
	Name            string          `json:"name"`
	AccountType     AccountType     `json:"accountType"`
	Currency        string          `json:"currency"`
	Institution     *string         `json:"institution,omitempty"`
	StartingBalance decimal.Decimal `json:"startingBalance"`
	// StartingFxRate is the rate to the workspace base currency at account
	// creation. Like posting rates it is frozen and forms the cost basis of
	// the starting balance.
	StartingFxRate decimal.Decimal `json:"startingFxRate"`
	IsActive        bool            `json:"isActive"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

type AccountRepository interface {
	Create(account *Account) (*Account, error)
	GetByID(workspaceID, id uuid.UUID) (*Account, error)
	GetAllByWorkspace(workspaceID uuid.UUID, includeInactive bool) ([]*Account, error)
	Update(account *Account) (*Account, error)
	Deactivate(workspaceID, id uuid.UUID) error
	HasPostings(workspaceID, id uuid.UUID) (bool, error)
}
