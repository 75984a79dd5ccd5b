package testutil

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// MockWorkspaceRepository is a mock implementation of domain.WorkspaceRepository
type MockWorkspaceRepository struct {
	Workspaces map[uuid.UUID]*domain.Workspace
	ByAuth0ID  map[string]*domain.Workspace
}

// NewMockWorkspaceRepository creates a new MockWorkspaceRepository
func NewMockWorkspaceRepository() *MockWorkspaceRepository {
	return &MockWorkspaceRepository{
		Workspaces: make(map[uuid.UUID]*domain.Workspace),
		ByAuth0ID:  make(map[string]*domain.Workspace),
	}
}

// AddWorkspace adds a workspace to the mock
func (m *MockWorkspaceRepository) AddWorkspace(workspace *domain.Workspace) {
	m.Workspaces[workspace.ID] = workspace
}

// AddWorkspaceForAuth0 adds a workspace resolvable by the owner's Auth0 ID
func (m *MockWorkspaceRepository) AddWorkspaceForAuth0(auth0ID string, workspace *domain.Workspace) {
	m.Workspaces[workspace.ID] = workspace
	m.ByAuth0ID[auth0ID] = workspace
}

// GetByID retrieves a workspace by ID
func (m *MockWorkspaceRepository) GetByID(id uuid.UUID) (*domain.Workspace, error) {
	if workspace, ok := m.Workspaces[id]; ok {
		return workspace, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// GetByAuth0ID retrieves a workspace by the owning user's Auth0 ID
func (m *MockWorkspaceRepository) GetByAuth0ID(auth0ID string) (*domain.Workspace, error) {
	if workspace, ok := m.ByAuth0ID[auth0ID]; ok {
		return workspace, nil
	}
	return nil, domain.ErrWorkspaceNotFound
}

// Create creates a new workspace
func (m *MockWorkspaceRepository) Create(workspace *domain.Workspace) (*domain.Workspace, error) {
	workspace.ID = uuid.New()
	m.Workspaces[workspace.ID] = workspace
	return workspace, nil
}

// Update updates an existing workspace
func (m *MockWorkspaceRepository) Update(workspace *domain.Workspace) (*domain.Workspace, error) {
	if _, ok := m.Workspaces[workspace.ID]; !ok {
		return nil, domain.ErrWorkspaceNotFound
	}
	m.Workspaces[workspace.ID] = workspace
	return workspace, nil
}

// MockAccountRepository is a mock implementation of domain.AccountRepository
type MockAccountRepository struct {
	Accounts     map[uuid.UUID]*domain.Account
	WithPostings map[uuid.UUID]bool
	CreateFn     func(account *domain.Account) (*domain.Account, error)
}

// NewMockAccountRepository creates a new MockAccountRepository
func NewMockAccountRepository() *MockAccountRepository {
	return &MockAccountRepository{
		Accounts:     make(map[uuid.UUID]*domain.Account),
		WithPostings: make(map[uuid.UUID]bool),
	}
}

// AddAccount adds an account to the mock
func (m *MockAccountRepository) AddAccount(account *domain.Account) {
	m.Accounts[account.ID] = account
}

// Create creates a new account
func (m *MockAccountRepository) Create(account *domain.Account) (*domain.Account, error) {
	if m.CreateFn != nil {
		return m.CreateFn(account)
	}
	account.ID = uuid.New()
	account.CreatedAt = time.Now()
	m.Accounts[account.ID] = account
	return account, nil
}

// GetByID retrieves an account by ID
func (m *MockAccountRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Account, error) {
	if account, ok := m.Accounts[id]; ok && account.WorkspaceID == workspaceID {
		return account, nil
	}
	return nil, domain.ErrAccountNotFound
}

// GetAllByWorkspace retrieves all accounts for a workspace
func (m *MockAccountRepository) GetAllByWorkspace(workspaceID uuid.UUID, includeInactive bool) ([]*domain.Account, error) {
	var accounts []*domain.Account
	for _, account := range m.Accounts {
		if account.WorkspaceID != workspaceID {
			continue
		}
		if !account.IsActive && !includeInactive {
			continue
		}
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		return accounts[i].CreatedAt.Before(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// Update updates an existing account
func (m *MockAccountRepository) Update(account *domain.Account) (*domain.Account, error) {
	if _, ok := m.Accounts[account.ID]; !ok {
		return nil, domain.ErrAccountNotFound
	}
	m.Accounts[account.ID] = account
	return account, nil
}

// Deactivate marks an account inactive
func (m *MockAccountRepository) Deactivate(workspaceID, id uuid.UUID) error {
	account, ok := m.Accounts[id]
	if !ok || account.WorkspaceID != workspaceID {
		return domain.ErrAccountNotFound
	}
	account.IsActive = false
	return nil
}

// HasPostings reports whether any posting references the account
func (m *MockAccountRepository) HasPostings(workspaceID, id uuid.UUID) (bool, error) {
	if account, ok := m.Accounts[id]; !ok || account.WorkspaceID != workspaceID {
		return false, domain.ErrAccountNotFound
	}
	return m.WithPostings[id], nil
}

// MockTransactionRepository is a mock implementation of domain.TransactionRepository
type MockTransactionRepository struct {
	Transactions map[uuid.UUID]*domain.Transaction
	CreateFn     func(tx *domain.Transaction) (*domain.Transaction, error)
}

// NewMockTransactionRepository creates a new MockTransactionRepository
func NewMockTransactionRepository() *MockTransactionRepository {
	return &MockTransactionRepository{
		Transactions: make(map[uuid.UUID]*domain.Transaction),
	}
}

// AddTransaction adds a transaction to the mock
func (m *MockTransactionRepository) AddTransaction(tx *domain.Transaction) {
	if tx.ID == uuid.Nil {
		tx.ID = uuid.New()
	}
	m.Transactions[tx.ID] = tx
}

// Create creates a new transaction with its postings
func (m *MockTransactionRepository) Create(tx *domain.Transaction) (*domain.Transaction, error) {
	if m.CreateFn != nil {
		return m.CreateFn(tx)
	}
	tx.ID = uuid.New()
	for _, p := range tx.Postings {
		p.ID = uuid.New()
		p.TransactionID = tx.ID
	}
	tx.CreatedAt = time.Now()
	m.Transactions[tx.ID] = tx
	return tx, nil
}

// GetByID retrieves a transaction by ID
func (m *MockTransactionRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Transaction, error) {
	if tx, ok := m.Transactions[id]; ok && tx.WorkspaceID == workspaceID {
		return tx, nil
	}
	return nil, domain.ErrTransactionNotFound
}

// GetByWorkspace retrieves filtered transactions ordered by timestamp
func (m *MockTransactionRepository) GetByWorkspace(workspaceID uuid.UUID, filters *domain.TransactionFilters) ([]*domain.Transaction, error) {
	var txs []*domain.Transaction
	for _, tx := range m.Transactions {
		if tx.WorkspaceID != workspaceID {
			continue
		}
		if filters != nil {
			if filters.Kind != nil && tx.Kind != *filters.Kind {
				continue
			}
			if filters.StartDate != nil && tx.Timestamp.Before(*filters.StartDate) {
				continue
			}
			if filters.EndDate != nil && !tx.Timestamp.Before(*filters.EndDate) {
				continue
			}
			if filters.AccountID != nil && !touchesAccount(tx, *filters.AccountID) {
				continue
			}
		}
		txs = append(txs, tx)
	}
	sort.Slice(txs, func(i, j int) bool {
		return txs[i].Timestamp.Before(txs[j].Timestamp)
	})
	return txs, nil
}

func touchesAccount(tx *domain.Transaction, accountID uuid.UUID) bool {
	for _, p := range tx.Postings {
		if p.AccountID == accountID {
			return true
		}
	}
	return false
}

// Delete removes a transaction
func (m *MockTransactionRepository) Delete(workspaceID, id uuid.UUID) error {
	if tx, ok := m.Transactions[id]; ok && tx.WorkspaceID == workspaceID {
		delete(m.Transactions, id)
		return nil
	}
	return domain.ErrTransactionNotFound
}

// MockCategoryRepository is a mock implementation of domain.CategoryRepository
type MockCategoryRepository struct {
	Categories map[uuid.UUID]*domain.Category
}

// NewMockCategoryRepository creates a new MockCategoryRepository
func NewMockCategoryRepository() *MockCategoryRepository {
	return &MockCategoryRepository{
		Categories: make(map[uuid.UUID]*domain.Category),
	}
}

// AddCategory adds a category to the mock
func (m *MockCategoryRepository) AddCategory(category *domain.Category) {
	m.Categories[category.ID] = category
}

// Create creates a new category
func (m *MockCategoryRepository) Create(category *domain.Category) (*domain.Category, error) {
	category.ID = uuid.New()
	m.Categories[category.ID] = category
	return category, nil
}

// GetByID retrieves a category by ID
func (m *MockCategoryRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Category, error) {
	if category, ok := m.Categories[id]; ok && category.WorkspaceID == workspaceID {
		return category, nil
	}
	return nil, domain.ErrCategoryNotFound
}

// GetAllByWorkspace retrieves all categories for a workspace
func (m *MockCategoryRepository) GetAllByWorkspace(workspaceID uuid.UUID) ([]*domain.Category, error) {
	var categories []*domain.Category
	for _, category := range m.Categories {
		if category.WorkspaceID == workspaceID {
			categories = append(categories, category)
		}
	}
	return categories, nil
}

// Update updates an existing category
func (m *MockCategoryRepository) Update(category *domain.Category) (*domain.Category, error) {
	if _, ok := m.Categories[category.ID]; !ok {
		return nil, domain.ErrCategoryNotFound
	}
	m.Categories[category.ID] = category
	return category, nil
}

// Delete removes a category
func (m *MockCategoryRepository) Delete(workspaceID, id uuid.UUID) error {
	if category, ok := m.Categories[id]; ok && category.WorkspaceID == workspaceID {
		delete(m.Categories, id)
		return nil
	}
	return domain.ErrCategoryNotFound
}

// MockFundRepository is a mock implementation of domain.FundRepository
type MockFundRepository struct {
	Funds map[uuid.UUID]*domain.Fund
	order []uuid.UUID
}

// NewMockFundRepository creates a new MockFundRepository
func NewMockFundRepository() *MockFundRepository {
	return &MockFundRepository{
		Funds: make(map[uuid.UUID]*domain.Fund),
	}
}

// AddFund adds a fund to the mock, preserving insertion order
func (m *MockFundRepository) AddFund(fund *domain.Fund) {
	if fund.ID == uuid.Nil {
		fund.ID = uuid.New()
	}
	m.Funds[fund.ID] = fund
	m.order = append(m.order, fund.ID)
}

// Create creates a new fund
func (m *MockFundRepository) Create(fund *domain.Fund) (*domain.Fund, error) {
	fund.ID = uuid.New()
	m.Funds[fund.ID] = fund
	m.order = append(m.order, fund.ID)
	return fund, nil
}

// GetByID retrieves a fund by ID
func (m *MockFundRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Fund, error) {
	if fund, ok := m.Funds[id]; ok && fund.WorkspaceID == workspaceID {
		return fund, nil
	}
	return nil, domain.ErrFundNotFound
}

// GetAllByWorkspace retrieves active funds in creation order
func (m *MockFundRepository) GetAllByWorkspace(workspaceID uuid.UUID) ([]*domain.Fund, error) {
	var funds []*domain.Fund
	for _, id := range m.order {
		fund := m.Funds[id]
		if fund != nil && fund.WorkspaceID == workspaceID && fund.IsActive {
			funds = append(funds, fund)
		}
	}
	return funds, nil
}

// Update updates an existing fund
func (m *MockFundRepository) Update(fund *domain.Fund) (*domain.Fund, error) {
	if _, ok := m.Funds[fund.ID]; !ok {
		return nil, domain.ErrFundNotFound
	}
	m.Funds[fund.ID] = fund
	return fund, nil
}

// Deactivate marks a fund inactive
func (m *MockFundRepository) Deactivate(workspaceID, id uuid.UUID) error {
	fund, ok := m.Funds[id]
	if !ok || fund.WorkspaceID != workspaceID {
		return domain.ErrFundNotFound
	}
	fund.IsActive = false
	return nil
}

type overrideKey struct {
	fundID uuid.UUID
	year   int
	month  int
}

// MockAllocationOverrideRepository is a mock implementation of domain.AllocationOverrideRepository
type MockAllocationOverrideRepository struct {
	Overrides map[overrideKey]*domain.AllocationOverride
}

// NewMockAllocationOverrideRepository creates a new MockAllocationOverrideRepository
func NewMockAllocationOverrideRepository() *MockAllocationOverrideRepository {
	return &MockAllocationOverrideRepository{
		Overrides: make(map[overrideKey]*domain.AllocationOverride),
	}
}

// AddOverride adds an override to the mock
func (m *MockAllocationOverrideRepository) AddOverride(o *domain.AllocationOverride) {
	m.Overrides[overrideKey{o.FundID, o.Year, o.Month}] = o
}

// Upsert creates or replaces the override for its (fund, year, month) key
func (m *MockAllocationOverrideRepository) Upsert(o *domain.AllocationOverride) (*domain.AllocationOverride, error) {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	m.Overrides[overrideKey{o.FundID, o.Year, o.Month}] = o
	return o, nil
}

// GetByFundAndPeriod retrieves an override by fund and period
func (m *MockAllocationOverrideRepository) GetByFundAndPeriod(workspaceID, fundID uuid.UUID, year, month int) (*domain.AllocationOverride, error) {
	if o, ok := m.Overrides[overrideKey{fundID, year, month}]; ok && o.WorkspaceID == workspaceID {
		return o, nil
	}
	return nil, domain.ErrOverrideNotFound
}

// GetByWorkspace retrieves all overrides for a workspace
func (m *MockAllocationOverrideRepository) GetByWorkspace(workspaceID uuid.UUID) ([]*domain.AllocationOverride, error) {
	var overrides []*domain.AllocationOverride
	for _, o := range m.Overrides {
		if o.WorkspaceID == workspaceID {
			overrides = append(overrides, o)
		}
	}
	return overrides, nil
}

// Delete removes an override
func (m *MockAllocationOverrideRepository) Delete(workspaceID, fundID uuid.UUID, year, month int) error {
	key := overrideKey{fundID, year, month}
	if o, ok := m.Overrides[key]; ok && o.WorkspaceID == workspaceID {
		delete(m.Overrides, key)
		return nil
	}
	return domain.ErrOverrideNotFound
}

// MockScenarioRepository is a mock implementation of domain.ScenarioRepository
type MockScenarioRepository struct {
	Scenarios map[uuid.UUID]*domain.Scenario
}

// NewMockScenarioRepository creates a new MockScenarioRepository
func NewMockScenarioRepository() *MockScenarioRepository {
	return &MockScenarioRepository{
		Scenarios: make(map[uuid.UUID]*domain.Scenario),
	}
}

// AddScenario adds a scenario to the mock
func (m *MockScenarioRepository) AddScenario(scenario *domain.Scenario) {
	if scenario.ID == uuid.Nil {
		scenario.ID = uuid.New()
	}
	m.Scenarios[scenario.ID] = scenario
}

// Create creates a new scenario
func (m *MockScenarioRepository) Create(scenario *domain.Scenario) (*domain.Scenario, error) {
	scenario.ID = uuid.New()
	m.Scenarios[scenario.ID] = scenario
	return scenario, nil
}

// GetByID retrieves a scenario by ID
func (m *MockScenarioRepository) GetByID(workspaceID, id uuid.UUID) (*domain.Scenario, error) {
	if scenario, ok := m.Scenarios[id]; ok && scenario.WorkspaceID == workspaceID {
		return scenario, nil
	}
	return nil, domain.ErrScenarioNotFound
}

// GetAllByWorkspace retrieves all scenarios for a workspace
func (m *MockScenarioRepository) GetAllByWorkspace(workspaceID uuid.UUID) ([]*domain.Scenario, error) {
	var scenarios []*domain.Scenario
	for _, scenario := range m.Scenarios {
		if scenario.WorkspaceID == workspaceID {
			scenarios = append(scenarios, scenario)
		}
	}
	return scenarios, nil
}

// GetActive retrieves the active scenario
func (m *MockScenarioRepository) GetActive(workspaceID uuid.UUID) (*domain.Scenario, error) {
	for _, scenario := range m.Scenarios {
		if scenario.WorkspaceID == workspaceID && scenario.IsActive {
			return scenario, nil
		}
	}
	return nil, domain.ErrScenarioNotFound
}

// Update updates an existing scenario
func (m *MockScenarioRepository) Update(scenario *domain.Scenario) (*domain.Scenario, error) {
	if _, ok := m.Scenarios[scenario.ID]; !ok {
		return nil, domain.ErrScenarioNotFound
	}
	m.Scenarios[scenario.ID] = scenario
	return scenario, nil
}

// SetActive marks one scenario active and deactivates the rest
func (m *MockScenarioRepository) SetActive(workspaceID, id uuid.UUID) error {
	target, ok := m.Scenarios[id]
	if !ok || target.WorkspaceID != workspaceID {
		return domain.ErrScenarioNotFound
	}
	for _, scenario := range m.Scenarios {
		if scenario.WorkspaceID == workspaceID {
			scenario.IsActive = scenario.ID == id
		}
	}
	return nil
}

// Delete removes a scenario
func (m *MockScenarioRepository) Delete(workspaceID, id uuid.UUID) error {
	if scenario, ok := m.Scenarios[id]; ok && scenario.WorkspaceID == workspaceID {
		delete(m.Scenarios, id)
		return nil
	}
	return domain.ErrScenarioNotFound
}

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// Create creates a new user
func (m *MockUserRepository) Create(user *domain.User) (*domain.User, error) {
	user.ID = uuid.New()
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
	return user, nil
}

// MockRateProvider is a mock implementation of domain.RateProvider
type MockRateProvider struct {
	Rates map[string]decimal.Decimal
}

// NewMockRateProvider creates a new MockRateProvider
func NewMockRateProvider() *MockRateProvider {
	return &MockRateProvider{Rates: make(map[string]decimal.Decimal)}
}

// AddRate registers a rate for a currency pair
func (m *MockRateProvider) AddRate(base, quote string, rate decimal.Decimal) {
	m.Rates[base+"/"+quote] = rate
}

// GetRate returns the registered rate for a currency pair
func (m *MockRateProvider) GetRate(base, quote string) (*domain.Rate, error) {
	rate, ok := m.Rates[base+"/"+quote]
	if !ok {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrMissingRate, base, quote)
	}
	return &domain.Rate{Base: base, Quote: quote, Rate: rate, Timestamp: time.Now()}, nil
}
