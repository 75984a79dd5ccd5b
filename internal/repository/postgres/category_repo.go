package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

const categoryColumns = `id, workspace_id, name, type, is_fixed_cost, parent_id, created_at`

func scanCategory(row pgx.Row) (*domain.Category, error) {
	var c domain.Category
	err := row.Scan(&c.ID, &c.WorkspaceID, &c.Name, &c.Type, &c.IsFixedCost, &c.ParentID, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create creates a new category
func (r *CategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categories (workspace_id, name, type, is_fixed_cost, parent_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + categoryColumns
	return scanCategory(r.pool.QueryRow(context.Background(), query,
		category.WorkspaceID, category.Name, category.Type, category.IsFixedCost, category.ParentID))
}

// GetByID retrieves a category by ID
func (r *CategoryRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE id = $1 AND workspace_id = $2`
	return scanCategory(r.pool.QueryRow(context.Background(), query, id, workspaceID))
}

// GetAllByWorkspace retrieves all categories for a workspace
func (r *CategoryRepository) GetAllByWorkspace(workspaceID uuid.UUID) ([]*domain.Category, error) {
	query := `SELECT ` + categoryColumns + ` FROM categories WHERE workspace_id = $1 ORDER BY name`
	rows, err := r.pool.Query(context.Background(), query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		category, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

// Update updates a category
func (r *CategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	query := `
		UPDATE categories
		SET name = $3, type = $4, is_fixed_cost = $5, parent_id = $6
		WHERE id = $1 AND workspace_id = $2
		RETURNING ` + categoryColumns
	return scanCategory(r.pool.QueryRow(context.Background(), query,
		category.ID, category.WorkspaceID, category.Name, category.Type, category.IsFixedCost, category.ParentID))
}

// Delete removes a category
func (r *CategoryRepository) Delete(workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM categories WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrCategoryNotFound
	}
	return nil
}
