package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type TransactionKind string

const (
	TransactionKindIncome   TransactionKind = "income"
	TransactionKindExpense  TransactionKind = "expense"
	TransactionKindTransfer TransactionKind = "transfer"
)

type TransactionStatus string

const (
	TransactionStatusPending      TransactionStatus = "pending"
	TransactionStatusUnreconciled TransactionStatus = "unreconciled"
	TransactionStatusReconciled   TransactionStatus = "reconciled"
)

// Posting is one signed, currency-tagged leg of a double-entry transaction.
// FxRate is the rate to the workspace base currency frozen at booking time;
// it is never re-priced retroactively.
type Posting struct {
	ID            uuid.UUID       `json:"id"`
	TransactionID uuid.UUID       `json:"transactionId"`
	AccountID     uuid.UUID       `json:"accountId"`
	Amount        decimal.Decimal `json:"amount"`
	Currency      string          `json:"currency"`
	FxRate        decimal.Decimal `json:"fxRate"`
}

// BaseAmount returns the posting amount converted at the booked fx rate.
func (p *Posting) BaseAmount() decimal.Decimal {
	return p.Amount.Mul(p.FxRate)
}

type Transaction struct {
	ID           uuid.UUID         `json:"id"`
	WorkspaceID  uuid.UUID         `json:"workspaceId"`
	Timestamp    time.Time         `json:"timestamp"`
	Payee        string            `json:"payee"`
	Memo         string            `json:"memo"`
	Status       TransactionStatus `json:"status"`
	Kind         TransactionKind   `json:"kind"`
	CategoryID   *uuid.UUID        `json:"categoryId,omitempty"`
	FundID       *uuid.UUID        `json:"fundId,omitempty"`
	SourceFundID *uuid.UUID        `json:"sourceFundId,omitempty"`
	DestFundID   *uuid.UUID        `json:"destFundId,omitempty"`
	Postings     []*Posting        `json:"postings"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type TransactionFilters struct {
	AccountID *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
	Kind      *TransactionKind
}

type TransactionRepository interface {
	// Create persists the transaction together with both postings atomically.
	Create(transaction *Transaction) (*Transaction, error)
	GetByID(workspaceID, id uuid.UUID) (*Transaction, error)
	// GetByWorkspace returns transactions ordered by timestamp ascending.
	GetByWorkspace(workspaceID uuid.UUID, filters *TransactionFilters) ([]*Transaction, error)
	Delete(workspaceID, id uuid.UUID) error
}
