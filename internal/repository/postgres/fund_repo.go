package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// FundRepository implements domain.FundRepository using PostgreSQL. Linked
// accounts live in the fund_accounts table and are replaced wholesale on
// every write.
type FundRepository struct {
	pool *pgxpool.Pool
}

// NewFundRepository creates a new FundRepository
func NewFundRepository(pool *pgxpool.Pool) *FundRepository {
	return &FundRepository{pool: pool}
}

const fundColumns = `id, workspace_id, name, emoji, description, allocation_percentage,
	is_self_funding, self_funding_percentage, source_fund_id, is_active, created_at, updated_at`

func scanFund(row pgx.Row) (*domain.Fund, error) {
	var f domain.Fund
	err := row.Scan(&f.ID, &f.WorkspaceID, &f.Name, &f.Emoji, &f.Description,
		&f.AllocationPercentage, &f.IsSelfFunding, &f.SelfFundingPercentage,
		&f.SourceFundID, &f.IsActive, &f.CreatedAt, &f.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrFundNotFound
		}
		return nil, err
	}
	return &f, nil
}

func replaceLinkedAccounts(ctx context.Context, tx pgx.Tx, fund *domain.Fund) error {
	if _, err := tx.Exec(ctx, `DELETE FROM fund_accounts WHERE fund_id = $1`, fund.ID); err != nil {
		return err
	}
	for _, la := range fund.LinkedAccounts {
		_, err := tx.Exec(ctx, `
			INSERT INTO fund_accounts (fund_id, account_id, allocation_percentage)
			VALUES ($1, $2, $3)`, fund.ID, la.AccountID, la.AllocationPercentage)
		if err != nil {
			return err
		}
	}
	return nil
}

// Create creates a new fund with its linked accounts
func (r *FundRepository) Create(fund *domain.Fund) (*domain.Fund, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := scanFund(tx.QueryRow(ctx, `
		INSERT INTO funds (workspace_id, name, emoji, description, allocation_percentage,
			is_self_funding, self_funding_percentage, source_fund_id, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+fundColumns,
		fund.WorkspaceID, fund.Name, fund.Emoji, fund.Description,
		fund.AllocationPercentage, fund.IsSelfFunding, fund.SelfFundingPercentage,
		fund.SourceFundID, fund.IsActive))
	if err != nil {
		return nil, err
	}

	created.LinkedAccounts = fund.LinkedAccounts
	if err := replaceLinkedAccounts(ctx, tx, created); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a fund with its linked accounts
func (r *FundRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Fund, error) {
	ctx := context.Background()
	fund, err := scanFund(r.pool.QueryRow(ctx,
		`SELECT `+fundColumns+` FROM funds WHERE id = $1 AND workspace_id = $2`, id, workspaceID))
	if err != nil {
		return nil, err
	}
	if err := r.attachLinkedAccounts(ctx, []*domain.Fund{fund}); err != nil {
		return nil, err
	}
	return fund, nil
}

// GetAllByWorkspace retrieves active funds in creation order
func (r *FundRepository) GetAllByWorkspace(workspaceID uuid.UUID) ([]*domain.Fund, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx,
		`SELECT `+fundColumns+` FROM funds WHERE workspace_id = $1 AND is_active ORDER BY created_at`,
		workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var funds []*domain.Fund
	for rows.Next() {
		fund, err := scanFund(rows)
		if err != nil {
			return nil, err
		}
		funds = append(funds, fund)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachLinkedAccounts(ctx, funds); err != nil {
		return nil, err
	}
	return funds, nil
}

func (r *FundRepository) attachLinkedAccounts(ctx context.Context, funds []*domain.Fund) error {
	if len(funds) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(funds))
	byID := make(map[uuid.UUID]*domain.Fund, len(funds))
	for i, f := range funds {
		ids[i] = f.ID
		byID[f.ID] = f
	}

	rows, err := r.pool.Query(ctx, `
		SELECT fund_id, account_id, allocation_percentage
		FROM fund_accounts WHERE fund_id = ANY($1)`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var fundID uuid.UUID
		var la domain.LinkedAccount
		if err := rows.Scan(&fundID, &la.AccountID, &la.AllocationPercentage); err != nil {
			return err
		}
		if f, ok := byID[fundID]; ok {
			f.LinkedAccounts = append(f.LinkedAccounts, la)
		}
	}
	return rows.Err()
}

// Update updates a fund and replaces its linked accounts
func (r *FundRepository) Update(fund *domain.Fund) (*domain.Fund, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	updated, err := scanFund(tx.QueryRow(ctx, `
		UPDATE funds
		SET name = $3, emoji = $4, description = $5, allocation_percentage = $6,
			is_self_funding = $7, self_funding_percentage = $8, source_fund_id = $9,
			updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING `+fundColumns,
		fund.ID, fund.WorkspaceID, fund.Name, fund.Emoji, fund.Description,
		fund.AllocationPercentage, fund.IsSelfFunding, fund.SelfFundingPercentage,
		fund.SourceFundID))
	if err != nil {
		return nil, err
	}

	updated.LinkedAccounts = fund.LinkedAccounts
	if err := replaceLinkedAccounts(ctx, tx, updated); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return updated, nil
}

// Deactivate marks a fund inactive without touching its history
func (r *FundRepository) Deactivate(workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE funds SET is_active = false, updated_at = now()
		 WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrFundNotFound
	}
	return nil
}
