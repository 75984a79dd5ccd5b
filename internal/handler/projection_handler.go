package handler

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/middleware"
	"github.com/ledgera/ledgera-backend/internal/service"
	"github.com/rs/zerolog/log"
)

const (
	defaultForecastMonths = 120
	maxForecastMonths     = 600
)

// ProjectionHandler handles forecast HTTP requests
type ProjectionHandler struct {
	scenarioService *service.ScenarioService
}

// NewProjectionHandler creates a new ProjectionHandler
func NewProjectionHandler(scenarioService *service.ScenarioService) *ProjectionHandler {
	return &ProjectionHandler{scenarioService: scenarioService}
}

// ForecastRequest represents the forecast request body. When assumptions are
// omitted the workspace's active scenario is used.
type ForecastRequest struct {
	Assumptions *domain.ProjectionAssumptions `json:"assumptions,omitempty"`
}

func (h *ProjectionHandler) resolveAssumptions(c echo.Context, workspaceID uuid.UUID) (*domain.ProjectionAssumptions, error) {
	var req ForecastRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewValidationError(c, "Invalid request body", nil)
	}
	if req.Assumptions != nil {
		return req.Assumptions, nil
	}

	scenario, err := h.scenarioService.Active(workspaceID)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to load active scenario")
		return nil, NewInternalError(c, "Failed to load active scenario")
	}
	if scenario == nil {
		return nil, NewValidationError(c, "No assumptions supplied and no active scenario", nil)
	}
	return &scenario.Assumptions, nil
}

func forecastMonths(c echo.Context) int {
	months := defaultForecastMonths
	if raw := c.QueryParam("months"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 && n <= maxForecastMonths {
			months = n
		}
	}
	return months
}

// Forecast handles POST /api/v1/projections/forecast
func (h *ProjectionHandler) Forecast(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	assumptions, err := h.resolveAssumptions(c, workspaceID)
	if err != nil {
		return err
	}

	months, err := service.RunProjection(*assumptions, forecastMonths(c))
	if err != nil {
		return NewValidationError(c, "Allocation weights must be in [0,1] and sum to 1", nil)
	}

	return c.JSON(http.StatusOK, months)
}

// YearlyForecast handles POST /api/v1/projections/yearly
func (h *ProjectionHandler) YearlyForecast(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	assumptions, err := h.resolveAssumptions(c, workspaceID)
	if err != nil {
		return err
	}

	months, err := service.RunProjection(*assumptions, forecastMonths(c))
	if err != nil {
		return NewValidationError(c, "Allocation weights must be in [0,1] and sum to 1", nil)
	}

	result, err := service.AggregateYears(months, assumptions.BucketReturns)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to aggregate projection years")
		return NewInternalError(c, "Failed to aggregate projection years")
	}

	return c.JSON(http.StatusOK, result)
}
