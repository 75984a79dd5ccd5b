package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// WorkspaceRepository implements domain.WorkspaceRepository using PostgreSQL
type WorkspaceRepository struct {
	pool *pgxpool.Pool
}

// NewWorkspaceRepository creates a new WorkspaceRepository
func NewWorkspaceRepository(pool *pgxpool.Pool) *WorkspaceRepository {
	return &WorkspaceRepository{pool: pool}
}

const workspaceColumns = `id, owner_user_id, name, base_currency, created_at, updated_at`

func scanWorkspace(row pgx.Row) (*domain.Workspace, error) {
	var w domain.Workspace
	err := row.Scan(&w.ID, &w.OwnerUserID, &w.Name, &w.BaseCurrency, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrWorkspaceNotFound
		}
		return nil, err
	}
	return &w, nil
}

// GetByID retrieves a workspace by ID
func (r *WorkspaceRepository) GetByID(id uuid.UUID) (*domain.Workspace, error) {
	query := `SELECT ` + workspaceColumns + ` FROM workspaces WHERE id = $1`
	return scanWorkspace(r.pool.QueryRow(context.Background(), query, id))
}

// GetByAuth0ID retrieves the workspace owned by the user with the given
// Auth0 ID
func (r *WorkspaceRepository) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	query := `
		SELECT w.id, w.owner_user_id, w.name, w.base_currency, w.created_at, w.updated_at
		FROM workspaces w
		JOIN users u ON u.id = w.owner_user_id
		WHERE u.auth0_id = $1`
	return scanWorkspace(r.pool.QueryRow(context.Background(), query, auth0ID))
}

// Create creates a new workspace
func (r *WorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	query := `
		INSERT INTO workspaces (owner_user_id, name, base_currency)
		VALUES ($1, $2, $3)
		RETURNING ` + workspaceColumns
	return scanWorkspace(r.pool.QueryRow(context.Background(), query,
		workspace.OwnerUserID, workspace.Name, workspace.BaseCurrency))
}

// Update updates a workspace's name and base currency
func (r *WorkspaceRepository) Update(workspace *domain.Workspace) (*domain.Workspace, error) {
	query := `
		UPDATE workspaces
		SET name = $2, base_currency = $3, updated_at = now()
		WHERE id = $1
		RETURNING ` + workspaceColumns
	return scanWorkspace(r.pool.QueryRow(context.Background(), query,
		workspace.ID, workspace.Name, workspace.BaseCurrency))
}
