package domain

import (
	"time"

	"github.com/google/uuid"
)

// Workspace represents a user's ledger plus its settings
type Workspace struct {
	ID           uuid.UUID `json:"id"`
	OwnerUserID  uuid.UUID `json:"ownerUserId"`
	Name         string    `json:"name"`
	BaseCurrency string    `json:"baseCurrency"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// WorkspaceRepository defines the interface for workspace persistence operations
type WorkspaceRepository interface {
	GetByID(id uuid.UUID) (*Workspace, error)
	GetByAuth0ID(auth0ID string) (*Workspace, error)
	Create(workspace *Workspace) (*Workspace, error)
	Update(workspace *Workspace) (*Workspace, error)
}
