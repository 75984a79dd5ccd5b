package service

import (
	"testing"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccountService_Create(t *testing.T) {
	workspaceID := uuid.New()

	tests := []struct {
		name    string
		account domain.Account
		wantErr error
	}{
		{
			name: "valid asset account",
			account: domain.Account{
				WorkspaceID: workspaceID,
				Name:        "Checking",
				AccountType: domain.AccountTypeAsset,
				Currency:    "USD",
			},
		},
		{
			name: "valid liability account",
			account: domain.Account{
				WorkspaceID: workspaceID,
				Name:        "Credit Card",
				AccountType: domain.AccountTypeLiability,
				Currency:    "EUR",
			},
		},
		{
			name: "missing name",
			account: domain.Account{
				WorkspaceID: workspaceID,
				AccountType: domain.AccountTypeAsset,
				Currency:    "USD",
			},
			wantErr: domain.ErrNameRequired,
		},
		{
			name: "bad account type",
			account: domain.Account{
				WorkspaceID: workspaceID,
				Name:        "Mystery",
				AccountType: "equity",
				Currency:    "USD",
			},
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "bad currency code",
			account: domain.Account{
				WorkspaceID: workspaceID,
				Name:        "Checking",
				AccountType: domain.AccountTypeAsset,
				Currency:    "US",
			},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewAccountService(testutil.NewMockAccountRepository())
			created, err := svc.Create(&tt.account)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.True(t, created.IsActive)
		})
	}
}

func TestAccountService_Create_DefaultsStartingFxRate(t *testing.T) {
	svc := NewAccountService(testutil.NewMockAccountRepository())

	created, err := svc.Create(&domain.Account{
		WorkspaceID: uuid.New(),
		Name:        "Checking",
		AccountType: domain.AccountTypeAsset,
		Currency:    "USD",
	})
	require.NoError(t, err)
	assert.True(t, created.StartingFxRate.Equal(decimal.NewFromInt(1)))
}

func TestAccountService_Rename(t *testing.T) {
	repo := testutil.NewMockAccountRepository()
	svc := NewAccountService(repo)
	workspaceID := uuid.New()

	account := &domain.Account{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        "Old Name",
		AccountType: domain.AccountTypeAsset,
		Currency:    "USD",
		IsActive:    true,
	}
	repo.AddAccount(account)

	renamed, err := svc.Rename(workspaceID, account.ID, "New Name")
	require.NoError(t, err)
	assert.Equal(t, "New Name", renamed.Name)

	_, err = svc.Rename(workspaceID, account.ID, "")
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	_, err = svc.Rename(workspaceID, uuid.New(), "Name")
	assert.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAccountService_Deactivate(t *testing.T) {
	repo := testutil.NewMockAccountRepository()
	svc := NewAccountService(repo)
	workspaceID := uuid.New()

	account := &domain.Account{
		ID:          uuid.New(),
		WorkspaceID: workspaceID,
		Name:        "Checking",
		AccountType: domain.AccountTypeAsset,
		Currency:    "USD",
		IsActive:    true,
	}
	repo.AddAccount(account)

	require.NoError(t, svc.Deactivate(workspaceID, account.ID))

	active, err := svc.List(workspaceID, false)
	require.NoError(t, err)
	assert.Empty(t, active)

	all, err := svc.List(workspaceID, true)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}
