package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/middleware"
	"github.com/ledgera/ledgera-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// AllocationHandler handles income-allocation HTTP requests
type AllocationHandler struct {
	allocationService *service.AllocationService
}

// NewAllocationHandler creates a new AllocationHandler
func NewAllocationHandler(allocationService *service.AllocationService) *AllocationHandler {
	return &AllocationHandler{allocationService: allocationService}
}

// GetIncomeAllocation handles GET /api/v1/analytics/income-allocation
func (h *AllocationHandler) GetIncomeAllocation(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	years := 1
	if raw := c.QueryParam("years"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 10 {
			return NewValidationError(c, "Invalid years parameter", []ValidationError{
				{Field: "years", Message: "Must be an integer between 1 and 10"},
			})
		}
		years = n
	}

	result, err := h.allocationService.BuildTable(workspaceID, years)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to build income allocation table")
		return NewInternalError(c, "Failed to build income allocation table")
	}

	return c.JSON(http.StatusOK, result)
}

// UpsertOverrideRequest represents the override upsert request body
type UpsertOverrideRequest struct {
	FundID uuid.UUID `json:"fundId"`
	Year   int       `json:"year"`
	Month  int       `json:"month"`
	Kind   string    `json:"kind"`
	Value  string    `json:"value"`
}

// UpsertOverride handles POST /api/v1/analytics/fund-allocation-overrides
func (h *AllocationHandler) UpsertOverride(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req UpsertOverrideRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	value, err := decimal.NewFromString(req.Value)
	if err != nil {
		return NewValidationError(c, "Invalid override value", []ValidationError{
			{Field: "value", Message: "Must be a valid decimal number"},
		})
	}

	override, err := h.allocationService.UpsertOverride(workspaceID, req.FundID,
		req.Year, req.Month, domain.OverrideKind(req.Kind), value)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMonthLocked):
			return NewConflictError(c, "Month is locked; settled history cannot be edited")
		case errors.Is(err, domain.ErrFundNotFound):
			return NewNotFoundError(c, "Fund not found")
		case errors.Is(err, domain.ErrInvalidAllocation):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "value", Message: "Percentage must be in [0,100]; amount must be non-negative"},
			})
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "kind", Message: "Kind must be percentage or amount, month 1-12"},
			})
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to upsert allocation override")
		return NewInternalError(c, "Failed to upsert allocation override")
	}

	return c.JSON(http.StatusOK, override)
}

// DeleteOverride handles DELETE /api/v1/analytics/fund-allocation-overrides/:fundId/:year/:month
func (h *AllocationHandler) DeleteOverride(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	fundID, err := uuid.Parse(c.Param("fundId"))
	if err != nil {
		return NewValidationError(c, "Invalid fund ID", nil)
	}
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		return NewValidationError(c, "Invalid year", nil)
	}
	month, err := strconv.Atoi(c.Param("month"))
	if err != nil {
		return NewValidationError(c, "Invalid month", nil)
	}

	if err := h.allocationService.DeleteOverride(workspaceID, fundID, year, month); err != nil {
		switch {
		case errors.Is(err, domain.ErrMonthLocked):
			return NewConflictError(c, "Month is locked; settled history cannot be edited")
		case errors.Is(err, domain.ErrFundNotFound):
			return NewNotFoundError(c, "Fund not found")
		case errors.Is(err, domain.ErrOverrideNotFound):
			return NewNotFoundError(c, "Override not found")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to delete allocation override")
		return NewInternalError(c, "Failed to delete allocation override")
	}

	return c.NoContent(http.StatusNoContent)
}
