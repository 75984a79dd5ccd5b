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

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestValidateTransaction(t *testing.T) {
	accountA := uuid.New()
	accountB := uuid.New()

	tests := []struct {
		name     string
		postings []*domain.Posting
		wantErr  error
	}{
		{
			name: "balanced same currency",
			postings: []*domain.Posting{
				{AccountID: accountA, Amount: dec("-100"), Currency: "USD", FxRate: dec("1")},
				{AccountID: accountB, Amount: dec("100"), Currency: "USD", FxRate: dec("1")},
			},
		},
		{
			name: "balanced cross currency",
			postings: []*domain.Posting{
				{AccountID: accountA, Amount: dec("-1000"), Currency: "USD", FxRate: dec("1")},
				{AccountID: accountB, Amount: dec("800"), Currency: "EUR", FxRate: dec("1.25")},
			},
		},
		{
			name: "unbalanced",
			postings: []*domain.Posting{
				{AccountID: accountA, Amount: dec("-100"), Currency: "USD", FxRate: dec("1")},
				{AccountID: accountB, Amount: dec("99"), Currency: "USD", FxRate: dec("1")},
			},
			wantErr: domain.ErrUnbalanced,
		},
		{
			name: "drift beyond epsilon",
			postings: []*domain.Posting{
				{AccountID: accountA, Amount: dec("-100"), Currency: "USD", FxRate: dec("1")},
				{AccountID: accountB, Amount: dec("100.00001"), Currency: "USD", FxRate: dec("1")},
			},
			wantErr: domain.ErrUnbalanced,
		},
		{
			name: "single posting",
			postings: []*domain.Posting{
				{AccountID: accountA, Amount: dec("-100"), Currency: "USD", FxRate: dec("1")},
			},
			wantErr: domain.ErrWrongPostingCount,
		},
		{
			name: "three postings",
			postings: []*domain.Posting{
				{AccountID: accountA, Amount: dec("-100"), Currency: "USD", FxRate: dec("1")},
				{AccountID: accountB, Amount: dec("50"), Currency: "USD", FxRate: dec("1")},
				{AccountID: accountB, Amount: dec("50"), Currency: "USD", FxRate: dec("1")},
			},
			wantErr: domain.ErrWrongPostingCount,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTransaction(&domain.Transaction{Postings: tt.postings})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCostBasisAsOf_FrozenRates(t *testing.T) {
	account := &domain.Account{
		ID:              uuid.New(),
		StartingBalance: dec("1000"),
		StartingFxRate:  dec("1.10"),
	}

	// Booked at 1.25; any later market rate must not change the basis.
	txs := []*domain.Transaction{
		{
			Timestamp: time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
			Postings: []*domain.Posting{
				{AccountID: account.ID, Amount: dec("200"), Currency: "EUR", FxRate: dec("1.25")},
				{AccountID: uuid.New(), Amount: dec("-250"), Currency: "USD", FxRate: dec("1")},
			},
		},
	}

	basis := CostBasisAsOf(account, txs, time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC))
	assert.True(t, basis.Equal(dec("1350")), "got %s", basis)

	// Before the posting only the starting balance counts.
	basis = CostBasisAsOf(account, txs, time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC))
	assert.True(t, basis.Equal(dec("1100")), "got %s", basis)
}

func TestLedgerService_NetWorth(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	rates := testutil.NewMockRateProvider()

	workspace := &domain.Workspace{ID: uuid.New(), BaseCurrency: "USD"}
	workspaceRepo.AddWorkspace(workspace)

	eur := &domain.Account{
		ID:              uuid.New(),
		WorkspaceID:     workspace.ID,
		Name:            "EUR Savings",
		AccountType:     domain.AccountTypeAsset,
		Currency:        "EUR",
		StartingBalance: dec("1000"),
		StartingFxRate:  dec("1.10"),
		IsActive:        true,
	}
	accountRepo.AddAccount(eur)
	rates.AddRate("USD", "EUR", dec("1.20"))

	svc := NewLedgerService(workspaceRepo, accountRepo, transactionRepo, rates)

	result, err := svc.NetWorth(workspace.ID, time.Now())
	require.NoError(t, err)
	require.Len(t, result.Accounts, 1)

	row := result.Accounts[0]
	assert.True(t, row.NativeBalance.Equal(dec("1000")))
	assert.True(t, row.MarketValueBase.Equal(dec("1200")))
	assert.True(t, row.CostBasisBase.Equal(dec("1100")))
	assert.True(t, row.UnrealizedFxGain.Equal(dec("100")))
	assert.True(t, result.Total.Equal(dec("1200")))
	assert.True(t, result.TotalUnrealizedFxGain.Equal(dec("100")))
}

func TestLedgerService_NetWorth_MissingRate(t *testing.T) {
	workspaceRepo := testutil.NewMockWorkspaceRepository()
	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	rates := testutil.NewMockRateProvider()

	workspace := &domain.Workspace{ID: uuid.New(), BaseCurrency: "USD"}
	workspaceRepo.AddWorkspace(workspace)
	accountRepo.AddAccount(&domain.Account{
		ID:             uuid.New(),
		WorkspaceID:    workspace.ID,
		Currency:       "CHF",
		StartingFxRate: dec("1"),
		IsActive:       true,
	})

	svc := NewLedgerService(workspaceRepo, accountRepo, transactionRepo, rates)
	_, err := svc.NetWorth(workspace.ID, time.Now())
	assert.ErrorIs(t, err, domain.ErrMissingRate)
}
