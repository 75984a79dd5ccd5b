package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transactionFixture struct {
	svc        *TransactionService
	txRepo     *testutil.MockTransactionRepository
	workspace  *domain.Workspace
	checking   *domain.Account
	savingsEUR *domain.Account
}

func newTransactionFixture(t *testing.T) *transactionFixture {
	t.Helper()

	workspaceRepo := testutil.NewMockWorkspaceRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	accountRepo := testutil.NewMockAccountRepository()

	workspace := &domain.Workspace{ID: uuid.New(), BaseCurrency: "USD"}
	workspaceRepo.AddWorkspace(workspace)

	checking := &domain.Account{
		ID: uuid.New(), WorkspaceID: workspace.ID, Name: "Checking",
		AccountType: domain.AccountTypeAsset, Currency: "USD",
		StartingFxRate: dec("1"), IsActive: true,
	}
	savingsEUR := &domain.Account{
		ID: uuid.New(), WorkspaceID: workspace.ID, Name: "EUR Savings",
		AccountType: domain.AccountTypeAsset, Currency: "EUR",
		StartingFxRate: dec("1.1"), IsActive: true,
	}
	accountRepo.AddAccount(checking)
	accountRepo.AddAccount(savingsEUR)

	return &transactionFixture{
		svc:        NewTransactionService(workspaceRepo, transactionRepo, accountRepo),
		txRepo:     transactionRepo,
		workspace:  workspace,
		checking:   checking,
		savingsEUR: savingsEUR,
	}
}

func TestTransactionService_Create(t *testing.T) {
	f := newTransactionFixture(t)

	created, err := f.svc.Create(&domain.Transaction{
		WorkspaceID: f.workspace.ID,
		Timestamp:   time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC),
		Payee:       "Employer",
		Kind:        domain.TransactionKindIncome,
		Postings: []*domain.Posting{
			{AccountID: f.checking.ID, Amount: dec("2000"), Currency: "USD", FxRate: dec("1")},
			{AccountID: f.savingsEUR.ID, Amount: dec("-1600"), Currency: "EUR", FxRate: dec("1.25")},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, domain.TransactionStatusUnreconciled, created.Status)
	assert.Len(t, f.txRepo.Transactions, 1)
}

func TestTransactionService_Create_Rejections(t *testing.T) {
	f := newTransactionFixture(t)

	// Unbalanced postings never reach the repository.
	_, err := f.svc.Create(&domain.Transaction{
		WorkspaceID: f.workspace.ID,
		Postings: []*domain.Posting{
			{AccountID: f.checking.ID, Amount: dec("100"), Currency: "USD", FxRate: dec("1")},
			{AccountID: f.savingsEUR.ID, Amount: dec("-50"), Currency: "EUR", FxRate: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrUnbalanced)
	assert.Empty(t, f.txRepo.Transactions)

	_, err = f.svc.Create(&domain.Transaction{
		WorkspaceID: f.workspace.ID,
		Postings: []*domain.Posting{
			{AccountID: f.checking.ID, Amount: dec("100"), Currency: "USD", FxRate: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrWrongPostingCount)

	// Posting currency must match the account's currency.
	_, err = f.svc.Create(&domain.Transaction{
		WorkspaceID: f.workspace.ID,
		Postings: []*domain.Posting{
			{AccountID: f.checking.ID, Amount: dec("100"), Currency: "USD", FxRate: dec("1")},
			{AccountID: f.savingsEUR.ID, Amount: dec("-100"), Currency: "USD", FxRate: dec("1")},
		},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestTransactionService_ExecuteSuggestion_SameCurrency(t *testing.T) {
	f := newTransactionFixture(t)

	second := &domain.Account{
		ID: uuid.New(), WorkspaceID: f.workspace.ID, Name: "Buffer",
		AccountType: domain.AccountTypeAsset, Currency: "USD",
		StartingFxRate: dec("1"), IsActive: true,
	}
	f.svc.accountRepo.(*testutil.MockAccountRepository).AddAccount(second)

	tx, err := f.svc.ExecuteSuggestion(f.workspace.ID, domain.TransferSuggestion{
		FromAccountID: f.checking.ID,
		ToAccountID:   second.ID,
		Amount:        dec("300"),
		Note:          "2025-06",
	}, ExecuteTransferParams{})
	require.NoError(t, err)

	assert.Equal(t, domain.TransactionKindTransfer, tx.Kind)
	require.Len(t, tx.Postings, 2)
	assert.True(t, tx.Postings[0].Amount.Equal(dec("-300")))
	assert.True(t, tx.Postings[1].Amount.Equal(dec("300")))
	assert.NoError(t, ValidateTransaction(tx))
	assert.Equal(t, "2025-06", tx.Memo)
}

func TestTransactionService_ExecuteSuggestion_MissingRate(t *testing.T) {
	f := newTransactionFixture(t)

	_, err := f.svc.ExecuteSuggestion(f.workspace.ID, domain.TransferSuggestion{
		FromAccountID: f.checking.ID,
		ToAccountID:   f.savingsEUR.ID,
		Amount:        dec("300"),
	}, ExecuteTransferParams{})
	assert.ErrorIs(t, err, domain.ErrMissingRate)
	assert.Empty(t, f.txRepo.Transactions)
}

func TestTransactionService_ExecuteSuggestion_CrossCurrencyWithFee(t *testing.T) {
	f := newTransactionFixture(t)

	toRate := dec("1.25")
	fee := dec("50")
	tx, err := f.svc.ExecuteSuggestion(f.workspace.ID, domain.TransferSuggestion{
		FromAccountID: f.checking.ID,
		ToAccountID:   f.savingsEUR.ID,
		Amount:        dec("1000"),
	}, ExecuteTransferParams{ToFxRate: &toRate, Fee: &fee})
	require.NoError(t, err)

	require.Len(t, tx.Postings, 2)
	from, to := tx.Postings[0], tx.Postings[1]
	assert.True(t, from.Amount.Equal(dec("-1000")))
	// 950 arrives after the fee, at 1.25 that is 760 EUR.
	assert.True(t, to.Amount.Equal(dec("760")), "got %s", to.Amount)
	assert.Equal(t, "EUR", to.Currency)
	// The booked rate absorbs the fee so the legs still cancel.
	assert.NoError(t, ValidateTransaction(tx))
	assert.True(t, to.BaseAmount().Sub(dec("1000")).Abs().LessThanOrEqual(decimal.New(1, -6)))
}

func TestTransactionService_ExecuteSuggestion_FeeSwallowsTransfer(t *testing.T) {
	f := newTransactionFixture(t)

	fee := dec("300")
	_, err := f.svc.ExecuteSuggestion(f.workspace.ID, domain.TransferSuggestion{
		FromAccountID: f.checking.ID,
		ToAccountID:   f.checking.ID,
		Amount:        dec("300"),
	}, ExecuteTransferParams{Fee: &fee})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
