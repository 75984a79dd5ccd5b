package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/middleware"
	"github.com/ledgera/ledgera-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// AnalyticsHandler handles fund tracker and net worth HTTP requests
type AnalyticsHandler struct {
	fundTrackerService *service.FundTrackerService
	ledgerService      *service.LedgerService
}

// NewAnalyticsHandler creates a new AnalyticsHandler
func NewAnalyticsHandler(fundTrackerService *service.FundTrackerService, ledgerService *service.LedgerService) *AnalyticsHandler {
	return &AnalyticsHandler{
		fundTrackerService: fundTrackerService,
		ledgerService:      ledgerService,
	}
}

// GetFundTracker handles GET /api/v1/analytics/fund-tracker
func (h *AnalyticsHandler) GetFundTracker(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	year := time.Now().Year()
	if raw := c.QueryParam("year"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return NewValidationError(c, "Invalid year parameter", []ValidationError{
				{Field: "year", Message: "Must be an integer"},
			})
		}
		year = n
	}

	result, err := h.fundTrackerService.Reconcile(workspaceID, year)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Int("year", year).Msg("Failed to build fund tracker")
		return NewInternalError(c, "Failed to build fund tracker")
	}

	return c.JSON(http.StatusOK, result)
}

// GetNetWorth handles GET /api/v1/analytics/net-worth
func (h *AnalyticsHandler) GetNetWorth(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	result, err := h.ledgerService.NetWorth(workspaceID, time.Now())
	if err != nil {
		if errors.Is(err, domain.ErrMissingRate) {
			return NewValidationError(c, "No current rate stored for one of the account currencies", nil)
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to compute net worth")
		return NewInternalError(c, "Failed to compute net worth")
	}

	return c.JSON(http.StatusOK, result)
}
