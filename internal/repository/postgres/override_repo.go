package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// AllocationOverrideRepository implements domain.AllocationOverrideRepository
// using PostgreSQL. The (workspace, fund, year, month) key is unique, so
// writes go through an ON CONFLICT upsert and repeated saves are idempotent.
type AllocationOverrideRepository struct {
	pool *pgxpool.Pool
}

// NewAllocationOverrideRepository creates a new AllocationOverrideRepository
func NewAllocationOverrideRepository(pool *pgxpool.Pool) *AllocationOverrideRepository {
	return &AllocationOverrideRepository{pool: pool}
}

const overrideColumns = `id, workspace_id, fund_id, year, month, kind, value, created_at, updated_at`

func scanOverride(row pgx.Row) (*domain.AllocationOverride, error) {
	var o domain.AllocationOverride
	err := row.Scan(&o.ID, &o.WorkspaceID, &o.FundID, &o.Year, &o.Month, &o.Kind,
		&o.Value, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOverrideNotFound
		}
		return nil, err
	}
	return &o, nil
}

// Upsert atomically creates or replaces the override for its key
func (r *AllocationOverrideRepository) Upsert(override *domain.AllocationOverride) (*domain.AllocationOverride, error) {
	query := `
		INSERT INTO fund_allocation_overrides (workspace_id, fund_id, year, month, kind, value)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (workspace_id, fund_id, year, month)
		DO UPDATE SET kind = EXCLUDED.kind, value = EXCLUDED.value, updated_at = now()
		RETURNING ` + overrideColumns
	return scanOverride(r.pool.QueryRow(context.Background(), query,
		override.WorkspaceID, override.FundID, override.Year, override.Month,
		override.Kind, override.Value))
}

// GetByFundAndPeriod retrieves the override for one fund and month
func (r *AllocationOverrideRepository) GetByFundAndPeriod(workspaceID, fundID uuid.UUID, year, month int) (*domain.AllocationOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM fund_allocation_overrides
		WHERE workspace_id = $1 AND fund_id = $2 AND year = $3 AND month = $4`
	return scanOverride(r.pool.QueryRow(context.Background(), query, workspaceID, fundID, year, month))
}

// GetByWorkspace retrieves all overrides for a workspace
func (r *AllocationOverrideRepository) GetByWorkspace(workspaceID uuid.UUID) ([]*domain.AllocationOverride, error) {
	query := `SELECT ` + overrideColumns + ` FROM fund_allocation_overrides
		WHERE workspace_id = $1 ORDER BY year, month`
	rows, err := r.pool.Query(context.Background(), query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var overrides []*domain.AllocationOverride
	for rows.Next() {
		override, err := scanOverride(rows)
		if err != nil {
			return nil, err
		}
		overrides = append(overrides, override)
	}
	return overrides, rows.Err()
}

// Delete removes an override
func (r *AllocationOverrideRepository) Delete(workspaceID, fundID uuid.UUID, year, month int) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM fund_allocation_overrides
		 WHERE workspace_id = $1 AND fund_id = $2 AND year = $3 AND month = $4`,
		workspaceID, fundID, year, month)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOverrideNotFound
	}
	return nil
}
