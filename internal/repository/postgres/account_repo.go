package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// AccountRepository implements domain.AccountRepository using PostgreSQL
type AccountRepository struct {
	pool *pgxpool.Pool
}

// NewAccountRepository creates a new AccountRepository
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

const accountColumns = `id, workspace_id, name, account_type, currency, institution,
	starting_balance, starting_fx_rate, is_active, created_at, updated_at`

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.WorkspaceID, &a.Name, &a.AccountType, &a.Currency,
		&a.Institution, &a.StartingBalance, &a.StartingFxRate, &a.IsActive,
		&a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}
	return &a, nil
}

// Create creates a new account
func (r *AccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (workspace_id, name, account_type, currency, institution,
			starting_balance, starting_fx_rate, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING ` + accountColumns
	return scanAccount(r.pool.QueryRow(context.Background(), query,
		account.WorkspaceID, account.Name, account.AccountType, account.Currency,
		account.Institution, account.StartingBalance, account.StartingFxRate, account.IsActive))
}

// GetByID retrieves an account by its ID within a workspace
func (r *AccountRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1 AND workspace_id = $2`
	return scanAccount(r.pool.QueryRow(context.Background(), query, id, workspaceID))
}

// GetAllByWorkspace retrieves a workspace's accounts in creation order
func (r *AccountRepository) GetAllByWorkspace(workspaceID uuid.UUID, includeInactive bool) ([]*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts
		WHERE workspace_id = $1 AND ($2 OR is_active)
		ORDER BY created_at`
	rows, err := r.pool.Query(context.Background(), query, workspaceID, includeInactive)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accounts []*domain.Account
	for rows.Next() {
		account, err := scanAccount(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, account)
	}
	return accounts, rows.Err()
}

// Update updates an account's mutable fields
func (r *AccountRepository) Update(account *domain.Account) (*domain.Account, error) {
	query := `
		UPDATE accounts
		SET name = $3, institution = $4, updated_at = now()
		WHERE id = $1 AND workspace_id = $2
		RETURNING ` + accountColumns
	return scanAccount(r.pool.QueryRow(context.Background(), query,
		account.ID, account.WorkspaceID, account.Name, account.Institution))
}

// Deactivate marks an account inactive, keeping its postings
func (r *AccountRepository) Deactivate(workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE accounts SET is_active = false, updated_at = now()
		 WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// HasPostings reports whether any posting references the account
func (r *AccountRepository) HasPostings(workspaceID, id uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(context.Background(),
		`SELECT EXISTS (
			SELECT 1 FROM postings p
			JOIN transactions t ON t.id = p.transaction_id
			WHERE p.account_id = $1 AND t.workspace_id = $2
		)`, id, workspaceID).Scan(&exists)
	return exists, err
}
