package postgres

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// ScenarioRepository implements domain.ScenarioRepository using PostgreSQL.
// Assumptions are stored as JSONB; the decimal fields round-trip as JSON
// numbers without precision loss.
type ScenarioRepository struct {
	pool *pgxpool.Pool
}

// NewScenarioRepository creates a new ScenarioRepository
func NewScenarioRepository(pool *pgxpool.Pool) *ScenarioRepository {
	return &ScenarioRepository{pool: pool}
}

const scenarioColumns = `id, workspace_id, name, description, assumptions, is_active, created_at, updated_at`

func scanScenario(row pgx.Row) (*domain.Scenario, error) {
	var s domain.Scenario
	var assumptions []byte
	err := row.Scan(&s.ID, &s.WorkspaceID, &s.Name, &s.Description, &assumptions,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrScenarioNotFound
		}
		return nil, err
	}
	if err := json.Unmarshal(assumptions, &s.Assumptions); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create creates a new scenario
func (r *ScenarioRepository) Create(scenario *domain.Scenario) (*domain.Scenario, error) {
	assumptions, err := json.Marshal(scenario.Assumptions)
	if err != nil {
		return nil, err
	}
	query := `
		INSERT INTO scenarios (workspace_id, name, description, assumptions, is_active)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING ` + scenarioColumns
	return scanScenario(r.pool.QueryRow(context.Background(), query,
		scenario.WorkspaceID, scenario.Name, scenario.Description, assumptions, scenario.IsActive))
}

// GetByID retrieves a scenario by ID
func (r *ScenarioRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE id = $1 AND workspace_id = $2`
	return scanScenario(r.pool.QueryRow(context.Background(), query, id, workspaceID))
}

// GetAllByWorkspace retrieves all scenarios for a workspace
func (r *ScenarioRepository) GetAllByWorkspace(workspaceID uuid.UUID) ([]*domain.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE workspace_id = $1 ORDER BY created_at`
	rows, err := r.pool.Query(context.Background(), query, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var scenarios []*domain.Scenario
	for rows.Next() {
		scenario, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, scenario)
	}
	return scenarios, rows.Err()
}

// GetActive retrieves the workspace's active scenario
func (r *ScenarioRepository) GetActive(workspaceID uuid.UUID) (*domain.Scenario, error) {
	query := `SELECT ` + scenarioColumns + ` FROM scenarios WHERE workspace_id = $1 AND is_active`
	return scanScenario(r.pool.QueryRow(context.Background(), query, workspaceID))
}

// Update updates a scenario
func (r *ScenarioRepository) Update(scenario *domain.Scenario) (*domain.Scenario, error) {
	assumptions, err := json.Marshal(scenario.Assumptions)
	if err != nil {
		return nil, err
	}
	query := `
		UPDATE scenarios
		SET name = $3, description = $4, assumptions = $5, updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING ` + scenarioColumns
	return scanScenario(r.pool.QueryRow(context.Background(), query,
		scenario.ID, scenario.WorkspaceID, scenario.Name, scenario.Description, assumptions))
}

// SetActive marks one scenario active and deactivates the rest
func (r *ScenarioRepository) SetActive(workspaceID, id uuid.UUID) error {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`UPDATE scenarios SET is_active = false, updated_at = now()
		 WHERE workspace_id = $1 AND is_active`, workspaceID); err != nil {
		return err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE scenarios SET is_active = true, updated_at = now()
		 WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScenarioNotFound
	}
	return tx.Commit(ctx)
}

// Delete removes a scenario
func (r *ScenarioRepository) Delete(workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM scenarios WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrScenarioNotFound
	}
	return nil
}
