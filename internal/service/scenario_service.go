package service

import (
	"errors"

	"github.com/google/uuid"
	"github.com/ledgera/ledgera-backend/internal/domain"
)

// ScenarioService manages saved projection scenarios. The active scenario
// doubles as the budget benchmark source for the allocation table.
type ScenarioService struct {
	scenarioRepo domain.ScenarioRepository
}

// NewScenarioService creates a new ScenarioService
func NewScenarioService(scenarioRepo domain.ScenarioRepository) *ScenarioService {
	return &ScenarioService{scenarioRepo: scenarioRepo}
}

// Create validates and saves a scenario
func (s *ScenarioService) Create(scenario *domain.Scenario) (*domain.Scenario, error) {
	if scenario.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if err := validateWeights(scenario.Assumptions.AllocationWeights); err != nil {
		return nil, err
	}

	created, err := s.scenarioRepo.Create(scenario)
	if err != nil {
		return nil, err
	}
	if scenario.IsActive {
		if err := s.scenarioRepo.SetActive(scenario.WorkspaceID, created.ID); err != nil {
			return nil, err
		}
	}
	return created, nil
}

// Update validates and replaces a scenario's name, description and
// assumptions. The active flag is managed through Activate and is preserved.
func (s *ScenarioService) Update(scenario *domain.Scenario) (*domain.Scenario, error) {
	existing, err := s.scenarioRepo.GetByID(scenario.WorkspaceID, scenario.ID)
	if err != nil {
		return nil, err
	}
	if scenario.Name == "" {
		return nil, domain.ErrNameRequired
	}
	if err := validateWeights(scenario.Assumptions.AllocationWeights); err != nil {
		return nil, err
	}
	scenario.IsActive = existing.IsActive
	return s.scenarioRepo.Update(scenario)
}

// Get retrieves a scenario by ID
func (s *ScenarioService) Get(workspaceID, id uuid.UUID) (*domain.Scenario, error) {
	return s.scenarioRepo.GetByID(workspaceID, id)
}

// List retrieves all scenarios for a workspace
func (s *ScenarioService) List(workspaceID uuid.UUID) ([]*domain.Scenario, error) {
	return s.scenarioRepo.GetAllByWorkspace(workspaceID)
}

// Activate marks one scenario active, deactivating the rest
func (s *ScenarioService) Activate(workspaceID, id uuid.UUID) error {
	if _, err := s.scenarioRepo.GetByID(workspaceID, id); err != nil {
		return err
	}
	return s.scenarioRepo.SetActive(workspaceID, id)
}

// Active returns the active scenario, or nil when none is active
func (s *ScenarioService) Active(workspaceID uuid.UUID) (*domain.Scenario, error) {
	scenario, err := s.scenarioRepo.GetActive(workspaceID)
	if err != nil {
		if errors.Is(err, domain.ErrScenarioNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return scenario, nil
}

// Delete removes a scenario
func (s *ScenarioService) Delete(workspaceID, id uuid.UUID) error {
	if _, err := s.scenarioRepo.GetByID(workspaceID, id); err != nil {
		return err
	}
	return s.scenarioRepo.Delete(workspaceID, id)
}
