package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/middleware"
	"github.com/ledgera/ledgera-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ScenarioHandler handles scenario-related HTTP requests
type ScenarioHandler struct {
	scenarioService *service.ScenarioService
}

// NewScenarioHandler creates a new ScenarioHandler
func NewScenarioHandler(scenarioService *service.ScenarioService) *ScenarioHandler {
	return &ScenarioHandler{scenarioService: scenarioService}
}

// ScenarioRequest represents the create/update scenario request body
type ScenarioRequest struct {
	Name        string                       `json:"name"`
	Description *string                      `json:"description,omitempty"`
	Assumptions domain.ProjectionAssumptions `json:"assumptions"`
	IsActive    bool                         `json:"isActive"`
}

// CreateScenario handles POST /api/v1/scenarios
func (h *ScenarioHandler) CreateScenario(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req ScenarioRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	scenario, err := h.scenarioService.Create(&domain.Scenario{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		Assumptions: req.Assumptions,
		IsActive:    req.IsActive,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAllocation) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "assumptions.allocationWeights", Message: "Weights must be in [0,1] and sum to 1"},
			})
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to create scenario")
		return NewInternalError(c, "Failed to create scenario")
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("scenario_id", scenario.ID.String()).Str("name", scenario.Name).Msg("Scenario created")
	return c.JSON(http.StatusCreated, scenario)
}

// UpdateScenario handles PUT /api/v1/scenarios/:id
func (h *ScenarioHandler) UpdateScenario(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid scenario ID", nil)
	}

	var req ScenarioRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	scenario, err := h.scenarioService.Update(&domain.Scenario{
		ID:          id,
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Description: req.Description,
		Assumptions: req.Assumptions,
	})
	if err != nil {
		if errors.Is(err, domain.ErrScenarioNotFound) {
			return NewNotFoundError(c, "Scenario not found")
		}
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "name", Message: "Name is required"},
			})
		}
		if errors.Is(err, domain.ErrInvalidAllocation) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "assumptions.allocationWeights", Message: "Weights must be in [0,1] and sum to 1"},
			})
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Str("scenario_id", id.String()).Msg("Failed to update scenario")
		return NewInternalError(c, "Failed to update scenario")
	}

	return c.JSON(http.StatusOK, scenario)
}

// GetScenarios handles GET /api/v1/scenarios
func (h *ScenarioHandler) GetScenarios(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	scenarios, err := h.scenarioService.List(workspaceID)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to get scenarios")
		return NewInternalError(c, "Failed to get scenarios")
	}

	if scenarios == nil {
		scenarios = []*domain.Scenario{}
	}
	return c.JSON(http.StatusOK, scenarios)
}

// ActivateScenario handles POST /api/v1/scenarios/:id/activate
func (h *ScenarioHandler) ActivateScenario(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid scenario ID", nil)
	}

	if err := h.scenarioService.Activate(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrScenarioNotFound) {
			return NewNotFoundError(c, "Scenario not found")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Str("scenario_id", id.String()).Msg("Failed to activate scenario")
		return NewInternalError(c, "Failed to activate scenario")
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("scenario_id", id.String()).Msg("Scenario activated")
	return c.NoContent(http.StatusNoContent)
}

// DeleteScenario handles DELETE /api/v1/scenarios/:id
func (h *ScenarioHandler) DeleteScenario(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid scenario ID", nil)
	}

	if err := h.scenarioService.Delete(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrScenarioNotFound) {
			return NewNotFoundError(c, "Scenario not found")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Str("scenario_id", id.String()).Msg("Failed to delete scenario")
		return NewInternalError(c, "Failed to delete scenario")
	}

	return c.NoContent(http.StatusNoContent)
}
