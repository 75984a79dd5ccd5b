package postgres

import (
	"context"
	"errors"
	"strconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// TransactionRepository implements domain.TransactionRepository using
// PostgreSQL. A transaction and its two postings are written in one database
// transaction so the ledger can never hold a half-booked entry.
type TransactionRepository struct {
	pool *pgxpool.Pool
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(pool *pgxpool.Pool) *TransactionRepository {
	return &TransactionRepository{pool: pool}
}

const transactionColumns = `id, workspace_id, timestamp, payee, memo, status, kind,
	category_id, fund_id, source_fund_id, dest_fund_id, created_at, updated_at`

func scanTransaction(row pgx.Row) (*domain.Transaction, error) {
	var t domain.Transaction
	err := row.Scan(&t.ID, &t.WorkspaceID, &t.Timestamp, &t.Payee, &t.Memo, &t.Status,
		&t.Kind, &t.CategoryID, &t.FundID, &t.SourceFundID, &t.DestFundID,
		&t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTransactionNotFound
		}
		return nil, err
	}
	return &t, nil
}

// Create persists the transaction together with both postings atomically
func (r *TransactionRepository) Create(transaction *domain.Transaction) (*domain.Transaction, error) {
	ctx := context.Background()
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	created, err := scanTransaction(tx.QueryRow(ctx, `
		INSERT INTO transactions (workspace_id, timestamp, payee, memo, status, kind,
			category_id, fund_id, source_fund_id, dest_fund_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING `+transactionColumns,
		transaction.WorkspaceID, transaction.Timestamp, transaction.Payee,
		transaction.Memo, transaction.Status, transaction.Kind,
		transaction.CategoryID, transaction.FundID,
		transaction.SourceFundID, transaction.DestFundID))
	if err != nil {
		return nil, err
	}

	for _, p := range transaction.Postings {
		var posting domain.Posting
		err := tx.QueryRow(ctx, `
			INSERT INTO postings (transaction_id, account_id, amount, currency, fx_rate)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, transaction_id, account_id, amount, currency, fx_rate`,
			created.ID, p.AccountID, p.Amount, p.Currency, p.FxRate).
			Scan(&posting.ID, &posting.TransactionID, &posting.AccountID,
				&posting.Amount, &posting.Currency, &posting.FxRate)
		if err != nil {
			return nil, err
		}
		created.Postings = append(created.Postings, &posting)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

// GetByID retrieves a transaction with its postings
func (r *TransactionRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Transaction, error) {
	ctx := context.Background()
	transaction, err := scanTransaction(r.pool.QueryRow(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = $1 AND workspace_id = $2`,
		id, workspaceID))
	if err != nil {
		return nil, err
	}
	if err := r.attachPostings(ctx, []*domain.Transaction{transaction}); err != nil {
		return nil, err
	}
	return transaction, nil
}

// GetByWorkspace retrieves filtered transactions ordered by timestamp ascending
func (r *TransactionRepository) GetByWorkspace(workspaceID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	ctx := context.Background()

	query := `SELECT ` + transactionColumns + ` FROM transactions t WHERE t.workspace_id = $1`
	args := []any{workspaceID}
	if filters != nil {
		if filters.Kind != nil {
			args = append(args, *filters.Kind)
			query += ` AND t.kind = $` + strconv.Itoa(len(args))
		}
		if filters.StartDate != nil {
			args = append(args, *filters.StartDate)
			query += ` AND t.timestamp >= $` + strconv.Itoa(len(args))
		}
		if filters.EndDate != nil {
			args = append(args, *filters.EndDate)
			query += ` AND t.timestamp < $` + strconv.Itoa(len(args))
		}
		if filters.AccountID != nil {
			args = append(args, *filters.AccountID)
			query += ` AND EXISTS (SELECT 1 FROM postings p WHERE p.transaction_id = t.id AND p.account_id = $` + strconv.Itoa(len(args)) + `)`
		}
	}
	query += ` ORDER BY t.timestamp, t.created_at`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var transactions []*domain.Transaction
	for rows.Next() {
		transaction, err := scanTransaction(rows)
		if err != nil {
			return nil, err
		}
		transactions = append(transactions, transaction)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.attachPostings(ctx, transactions); err != nil {
		return nil, err
	}
	return transactions, nil
}

// attachPostings loads the postings for a batch of transactions in one query
func (r *TransactionRepository) attachPostings(ctx context.Context, transactions []*domain.Transaction) error {
	if len(transactions) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(transactions))
	byID := make(map[uuid.UUID]*domain.Transaction, len(transactions))
	for i, t := range transactions {
		ids[i] = t.ID
		byID[t.ID] = t
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, transaction_id, account_id, amount, currency, fx_rate
		FROM postings WHERE transaction_id = ANY($1)
		ORDER BY id`, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.Posting
		if err := rows.Scan(&p.ID, &p.TransactionID, &p.AccountID, &p.Amount, &p.Currency, &p.FxRate); err != nil {
			return err
		}
		if t, ok := byID[p.TransactionID]; ok {
			t.Postings = append(t.Postings, &p)
		}
	}
	return rows.Err()
}

// Delete removes a transaction; its postings cascade
func (r *TransactionRepository) Delete(workspaceID, id uuid.UUID) error {
	tag, err := r.pool.Exec(context.Background(),
		`DELETE FROM transactions WHERE id = $1 AND workspace_id = $2`, id, workspaceID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrTransactionNotFound
	}
	return nil
}
