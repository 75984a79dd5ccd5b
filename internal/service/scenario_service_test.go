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

func TestScenarioService_Create(t *testing.T) {
	workspaceID := uuid.New()

	t.Run("valid scenario becomes active when requested", func(t *testing.T) {
		repo := testutil.NewMockScenarioRepository()
		svc := NewScenarioService(repo)

		created, err := svc.Create(&domain.Scenario{
			WorkspaceID: workspaceID,
			Name:        "Base case",
			Assumptions: domain.ProjectionAssumptions{
				AllocationWeights: map[string]decimal.Decimal{
					"Pension": dec("0.6"),
					"Fun":     dec("0.4"),
				},
			},
			IsActive: true,
		})
		require.NoError(t, err)

		active, err := svc.Active(workspaceID)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, created.ID, active.ID)
	})

	t.Run("name required", func(t *testing.T) {
		svc := NewScenarioService(testutil.NewMockScenarioRepository())
		_, err := svc.Create(&domain.Scenario{WorkspaceID: workspaceID})
		assert.ErrorIs(t, err, domain.ErrNameRequired)
	})

	t.Run("weights must sum to one", func(t *testing.T) {
		svc := NewScenarioService(testutil.NewMockScenarioRepository())
		_, err := svc.Create(&domain.Scenario{
			WorkspaceID: workspaceID,
			Name:        "Broken",
			Assumptions: domain.ProjectionAssumptions{
				AllocationWeights: map[string]decimal.Decimal{
					"Pension": dec("0.6"),
					"Fun":     dec("0.6"),
				},
			},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAllocation)
	})
}

func TestScenarioService_Update(t *testing.T) {
	workspaceID := uuid.New()

	t.Run("replaces assumptions and preserves the active flag", func(t *testing.T) {
		repo := testutil.NewMockScenarioRepository()
		svc := NewScenarioService(repo)

		scenario := &domain.Scenario{
			ID:          uuid.New(),
			WorkspaceID: workspaceID,
			Name:        "Base case",
			Assumptions: domain.ProjectionAssumptions{
				AllocationWeights: map[string]decimal.Decimal{"Pension": dec("1")},
			},
			IsActive: true,
		}
		repo.AddScenario(scenario)

		updated, err := svc.Update(&domain.Scenario{
			ID:          scenario.ID,
			WorkspaceID: workspaceID,
			Name:        "Aggressive",
			Assumptions: domain.ProjectionAssumptions{
				AllocationWeights: map[string]decimal.Decimal{
					"Pension": dec("0.8"),
					"Fun":     dec("0.2"),
				},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "Aggressive", updated.Name)
		assert.True(t, updated.IsActive)
		assert.True(t, updated.Assumptions.AllocationWeights["Pension"].Equal(dec("0.8")))

		active, err := svc.Active(workspaceID)
		require.NoError(t, err)
		require.NotNil(t, active)
		assert.Equal(t, scenario.ID, active.ID)
	})

	t.Run("unknown scenario", func(t *testing.T) {
		svc := NewScenarioService(testutil.NewMockScenarioRepository())
		_, err := svc.Update(&domain.Scenario{ID: uuid.New(), WorkspaceID: workspaceID, Name: "Ghost"})
		assert.ErrorIs(t, err, domain.ErrScenarioNotFound)
	})

	t.Run("invalid weights rejected", func(t *testing.T) {
		repo := testutil.NewMockScenarioRepository()
		svc := NewScenarioService(repo)

		scenario := &domain.Scenario{ID: uuid.New(), WorkspaceID: workspaceID, Name: "Base case"}
		repo.AddScenario(scenario)

		_, err := svc.Update(&domain.Scenario{
			ID:          scenario.ID,
			WorkspaceID: workspaceID,
			Name:        "Base case",
			Assumptions: domain.ProjectionAssumptions{
				AllocationWeights: map[string]decimal.Decimal{"Pension": dec("1.5")},
			},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidAllocation)
	})
}

func TestScenarioService_Activate_SwitchesActive(t *testing.T) {
	repo := testutil.NewMockScenarioRepository()
	svc := NewScenarioService(repo)
	workspaceID := uuid.New()

	first := &domain.Scenario{ID: uuid.New(), WorkspaceID: workspaceID, Name: "First", IsActive: true}
	second := &domain.Scenario{ID: uuid.New(), WorkspaceID: workspaceID, Name: "Second"}
	repo.AddScenario(first)
	repo.AddScenario(second)

	require.NoError(t, svc.Activate(workspaceID, second.ID))

	active, err := svc.Active(workspaceID)
	require.NoError(t, err)
	require.NotNil(t, active)
	assert.Equal(t, second.ID, active.ID)
}

func TestScenarioService_Active_NoneActive(t *testing.T) {
	svc := NewScenarioService(testutil.NewMockScenarioRepository())

	active, err := svc.Active(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, active)
}
