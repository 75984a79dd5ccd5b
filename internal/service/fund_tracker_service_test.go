package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelfFundingCredits(t *testing.T) {
	fullySelfFunding := &domain.Fund{IsSelfFunding: true, SelfFundingPercentage: dec("100")}
	assert.True(t, SelfFundingCredits(fullySelfFunding, dec("500")).Equal(dec("500")))

	half := &domain.Fund{IsSelfFunding: true, SelfFundingPercentage: dec("50")}
	assert.True(t, SelfFundingCredits(half, dec("500")).Equal(dec("250")))

	plain := &domain.Fund{}
	assert.True(t, SelfFundingCredits(plain, dec("500")).IsZero())
}

func TestFundingShortfall(t *testing.T) {
	// A fully self-funding fund has no shortfall regardless of actuals.
	assert.True(t, FundingShortfall(dec("500"), dec("500"), dec("500")).IsZero())
	assert.True(t, FundingShortfall(dec("500"), dec("0"), dec("500")).IsZero())

	assert.True(t, FundingShortfall(dec("500"), dec("100"), dec("0")).Equal(dec("400")))
	assert.True(t, FundingShortfall(dec("500"), dec("200"), dec("250")).Equal(dec("50")))
	// Overfunding never goes negative.
	assert.True(t, FundingShortfall(dec("500"), dec("900"), dec("0")).IsZero())
}

type trackerFixture struct {
	tracker      *FundTrackerService
	workspaceID  uuid.UUID
	checking     *domain.Account
	travelAcct   *domain.Account
	diningAcct   *domain.Account
	wcFund       *domain.Fund
	travelFund   *domain.Fund
	diningFund   *domain.Fund
	fundRepo     *testutil.MockFundRepository
	transactions *testutil.MockTransactionRepository
}

// newTrackerFixture books one 1000 salary in May 2025 against a model where
// Travel takes 30% and the fully self-funding Dining fund 20%, frozen at
// June 15 2025.
func newTrackerFixture(t *testing.T) *trackerFixture {
	t.Helper()

	accountRepo := testutil.NewMockAccountRepository()
	transactionRepo := testutil.NewMockTransactionRepository()
	categoryRepo := testutil.NewMockCategoryRepository()
	fundRepo := testutil.NewMockFundRepository()
	overrideRepo := testutil.NewMockAllocationOverrideRepository()
	scenarioRepo := testutil.NewMockScenarioRepository()

	workspaceID := uuid.New()

	checking := &domain.Account{
		ID: uuid.New(), WorkspaceID: workspaceID, Name: "Checking",
		AccountType: domain.AccountTypeAsset, Currency: "USD",
		StartingBalance: dec("500"), StartingFxRate: dec("1"), IsActive: true,
	}
	travelAcct := &domain.Account{
		ID: uuid.New(), WorkspaceID: workspaceID, Name: "Travel EUR",
		AccountType: domain.AccountTypeAsset, Currency: "EUR",
		StartingFxRate: dec("1.1"), IsActive: true,
	}
	diningAcct := &domain.Account{
		ID: uuid.New(), WorkspaceID: workspaceID, Name: "Dining",
		AccountType: domain.AccountTypeAsset, Currency: "USD",
		StartingFxRate: dec("1"), IsActive: true,
	}
	clearing := &domain.Account{
		ID: uuid.New(), WorkspaceID: workspaceID, Name: "Clearing",
		AccountType: domain.AccountTypeAsset, Currency: "USD",
		StartingFxRate: dec("1"), IsActive: true,
	}
	for _, a := range []*domain.Account{checking, travelAcct, diningAcct, clearing} {
		accountRepo.AddAccount(a)
	}

	salaryCat := &domain.Category{ID: uuid.New(), WorkspaceID: workspaceID, Name: "Salary", Type: domain.CategoryTypeIncome}
	categoryRepo.AddCategory(salaryCat)

	wc := &domain.Fund{
		ID: uuid.New(), WorkspaceID: workspaceID, Name: domain.WorkingCapitalFundName,
		IsActive: true,
		LinkedAccounts: []domain.LinkedAccount{{AccountID: checking.ID, AllocationPercentage: dec("100")}},
	}
	travel := &domain.Fund{
		ID: uuid.New(), WorkspaceID: workspaceID, Name: "Travel",
		AllocationPercentage: dec("30"), IsActive: true,
		LinkedAccounts: []domain.LinkedAccount{{AccountID: travelAcct.ID, AllocationPercentage: dec("100")}},
	}
	dining := &domain.Fund{
		ID: uuid.New(), WorkspaceID: workspaceID, Name: "Dining",
		AllocationPercentage: dec("20"), IsSelfFunding: true, SelfFundingPercentage: dec("100"),
		IsActive: true,
		LinkedAccounts: []domain.LinkedAccount{{AccountID: diningAcct.ID, AllocationPercentage: dec("100")}},
	}
	fundRepo.AddFund(wc)
	fundRepo.AddFund(travel)
	fundRepo.AddFund(dining)

	scenarioRepo.AddScenario(&domain.Scenario{
		ID: uuid.New(), WorkspaceID: workspaceID, Name: "Base", IsActive: true,
	})

	transactionRepo.AddTransaction(&domain.Transaction{
		WorkspaceID: workspaceID,
		Timestamp:   time.Date(2025, 5, 15, 12, 0, 0, 0, time.UTC),
		Kind:        domain.TransactionKindIncome,
		CategoryID:  &salaryCat.ID,
		Postings: []*domain.Posting{
			{AccountID: checking.ID, Amount: dec("1000"), Currency: "USD", FxRate: dec("1")},
			{AccountID: clearing.ID, Amount: dec("-1000"), Currency: "USD", FxRate: dec("1")},
		},
	})

	now := func() time.Time { return time.Date(2025, 6, 15, 10, 0, 0, 0, time.UTC) }

	allocation := NewAllocationService(accountRepo, transactionRepo, categoryRepo, fundRepo, overrideRepo, scenarioRepo)
	allocation.now = now

	tracker := NewFundTrackerService(accountRepo, transactionRepo, fundRepo, allocation)

	return &trackerFixture{
		tracker:      tracker,
		workspaceID:  workspaceID,
		checking:     checking,
		travelAcct:   travelAcct,
		diningAcct:   diningAcct,
		wcFund:       wc,
		travelFund:   travel,
		diningFund:   dining,
		fundRepo:     fundRepo,
		transactions: transactionRepo,
	}
}

func TestFundTrackerService_Reconcile(t *testing.T) {
	f := newTrackerFixture(t)

	result, err := f.tracker.Reconcile(f.workspaceID, 2025)
	require.NoError(t, err)
	require.Len(t, result.FundLedgers, 3)

	var travelLedger, diningLedger *domain.FundLedger
	for i := range result.FundLedgers {
		switch result.FundLedgers[i].FundID {
		case f.travelFund.ID:
			travelLedger = &result.FundLedgers[i]
		case f.diningFund.ID:
			diningLedger = &result.FundLedgers[i]
		}
	}
	require.NotNil(t, travelLedger)
	require.NotNil(t, diningLedger)

	// June distributes May's 1000: Travel expects 300, nothing arrived.
	require.Len(t, travelLedger.Months, 6)
	june := travelLedger.Months[5]
	assert.True(t, june.ExpectedContribution.Equal(dec("300")))
	assert.True(t, june.ActualCredits.IsZero())
	assert.True(t, june.Shortfall.Equal(dec("300")))

	// Dining expects 200 but funds itself in full.
	diningJune := diningLedger.Months[5]
	assert.True(t, diningJune.ExpectedContribution.Equal(dec("200")))
	assert.True(t, diningJune.SelfFundingCredits.Equal(dec("200")))
	assert.True(t, diningJune.Shortfall.IsZero())

	// Only Travel's shortfall becomes a transfer, sourced from WC's account.
	require.Len(t, result.TransferSuggestions, 1)
	s := result.TransferSuggestions[0]
	assert.Equal(t, f.checking.ID, s.FromAccountID)
	assert.Equal(t, f.travelAcct.ID, s.ToAccountID)
	assert.True(t, s.Amount.Equal(dec("300")))
	assert.True(t, s.IsCrossCurrency)
	require.NotNil(t, s.SourceFundID)
	assert.Equal(t, f.wcFund.ID, *s.SourceFundID)
	require.NotNil(t, s.DestFundID)
	assert.Equal(t, f.travelFund.ID, *s.DestFundID)
	assert.Equal(t, "2025-06", s.Note)

	// WC took in 1000 but the model only claims 500 of it.
	assert.True(t, result.Summary.UnallocatedRemainder.Equal(dec("500")))
	assert.Contains(t, result.Summary.Warnings, domain.WarningUnallocatedRemainder)
}

func TestFundTrackerService_ActualCreditsCloseShortfall(t *testing.T) {
	f := newTrackerFixture(t)

	// A 300 arrival on the travel account settles June in full.
	f.transactions.AddTransaction(&domain.Transaction{
		WorkspaceID: f.workspaceID,
		Timestamp:   time.Date(2025, 6, 10, 12, 0, 0, 0, time.UTC),
		Kind:        domain.TransactionKindTransfer,
		Postings: []*domain.Posting{
			{AccountID: f.checking.ID, Amount: dec("-300"), Currency: "USD", FxRate: dec("1")},
			{AccountID: f.travelAcct.ID, Amount: dec("250"), Currency: "EUR", FxRate: dec("1.2")},
		},
	})

	result, err := f.tracker.Reconcile(f.workspaceID, 2025)
	require.NoError(t, err)
	assert.Empty(t, result.TransferSuggestions)
}

func TestFundTrackerService_MultiAccountSplit(t *testing.T) {
	f := newTrackerFixture(t)

	second := &domain.Account{
		ID: uuid.New(), WorkspaceID: f.workspaceID, Name: "Travel USD",
		AccountType: domain.AccountTypeAsset, Currency: "USD",
		StartingFxRate: dec("1"), IsActive: true,
	}
	f.tracker.accountRepo.(*testutil.MockAccountRepository).AddAccount(second)
	f.travelFund.LinkedAccounts = []domain.LinkedAccount{
		{AccountID: f.travelAcct.ID, AllocationPercentage: dec("50")},
		{AccountID: second.ID, AllocationPercentage: dec("50")},
	}

	result, err := f.tracker.Reconcile(f.workspaceID, 2025)
	require.NoError(t, err)
	require.Len(t, result.TransferSuggestions, 2)

	for _, s := range result.TransferSuggestions {
		assert.True(t, s.Amount.Equal(dec("150")), "got %s", s.Amount)
	}
}

func TestFundTrackerService_SourceFundOverride(t *testing.T) {
	f := newTrackerFixture(t)
	f.travelFund.SourceFundID = &f.diningFund.ID

	result, err := f.tracker.Reconcile(f.workspaceID, 2025)
	require.NoError(t, err)
	require.Len(t, result.TransferSuggestions, 1)

	s := result.TransferSuggestions[0]
	assert.Equal(t, f.diningAcct.ID, s.FromAccountID)
	require.NotNil(t, s.SourceFundID)
	assert.Equal(t, f.diningFund.ID, *s.SourceFundID)
}
