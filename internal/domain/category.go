package domain

import (
	"time"

	"github.com/google/uuid"
)

type CategoryType string

const (
	CategoryTypeIncome  CategoryType = "income"
	CategoryTypeExpense CategoryType = "expense"
)

type Category struct {
	ID          uuid.UUID    `json:"id"`
	WorkspaceID uuid.UUID    `json:"workspaceId"`
	Name        string       `json:"name"`
	Type        CategoryType `json:"type"`
	// Fixed-cost categories settle against Working Capital and feed the
	// monthly optimization row.
	IsFixedCost bool       `json:"isFixedCost"`
	ParentID    *uuid.UUID `json:"parentId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
}

type CategoryRepository interface {
	Create(category *Category) (*Category, error)
	GetByID(workspaceID, id uuid.UUID) (*Category, error)
	GetAllByWorkspace(workspaceID uuid.UUID) ([]*Category, error)
	Update(category *Category) (*Category, error)
	Delete(workspaceID, id uuid.UUID) error
}
