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
	"github.com/shopspring/decimal"
)

// FundHandler handles fund-related HTTP requests
type FundHandler struct {
	fundService *service.FundService
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(fundService *service.FundService) *FundHandler {
	return &FundHandler{fundService: fundService}
}

// LinkedAccountRequest represents one linked account in a fund request
type LinkedAccountRequest struct {
	AccountID            uuid.UUID `json:"accountId"`
	AllocationPercentage string    `json:"allocationPercentage"`
}

// FundRequest represents the create/update fund request body
type FundRequest struct {
	Name                  string                 `json:"name"`
	Emoji                 *string                `json:"emoji,omitempty"`
	Description           *string                `json:"description,omitempty"`
	AllocationPercentage  string                 `json:"allocationPercentage"`
	IsSelfFunding         bool                   `json:"isSelfFunding"`
	SelfFundingPercentage string                 `json:"selfFundingPercentage,omitempty"`
	SourceFundID          *uuid.UUID             `json:"sourceFundId,omitempty"`
	LinkedAccounts        []LinkedAccountRequest `json:"linkedAccounts"`
}

func (h *FundHandler) bindFund(c echo.Context, workspaceID uuid.UUID) (*domain.Fund, error) {
	var req FundRequest
	if err := c.Bind(&req); err != nil {
		return nil, NewValidationError(c, "Invalid request body", nil)
	}

	allocationPct, err := parseDecimalField(c, req.AllocationPercentage, "allocationPercentage")
	if err != nil {
		return nil, err
	}
	selfFundingPct, err := parseDecimalField(c, req.SelfFundingPercentage, "selfFundingPercentage")
	if err != nil {
		return nil, err
	}

	fund := &domain.Fund{
		WorkspaceID:           workspaceID,
		Name:                  req.Name,
		Emoji:                 req.Emoji,
		Description:           req.Description,
		AllocationPercentage:  allocationPct,
		IsSelfFunding:         req.IsSelfFunding,
		SelfFundingPercentage: selfFundingPct,
		SourceFundID:          req.SourceFundID,
	}
	for _, la := range req.LinkedAccounts {
		pct := decimal.NewFromInt(100)
		if la.AllocationPercentage != "" {
			pct, err = parseDecimalField(c, la.AllocationPercentage, "linkedAccounts.allocationPercentage")
			if err != nil {
				return nil, err
			}
		}
		fund.LinkedAccounts = append(fund.LinkedAccounts, domain.LinkedAccount{
			AccountID:            la.AccountID,
			AllocationPercentage: pct,
		})
	}
	return fund, nil
}

func fundErrorResponse(c echo.Context, workspaceID uuid.UUID, err error, action string) error {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		})
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 255 characters or less"},
		})
	case errors.Is(err, domain.ErrInvalidAllocation):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "allocationPercentage", Message: "Percentages must be non-negative and multi-account shares must sum to 100"},
		})
	case errors.Is(err, domain.ErrFundNotFound):
		return NewNotFoundError(c, "Fund not found")
	case errors.Is(err, domain.ErrAccountNotFound):
		return NewNotFoundError(c, "Linked account not found")
	}
	log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to " + action)
	return NewInternalError(c, "Failed to "+action)
}

// CreateFund handles POST /api/v1/funds
func (h *FundHandler) CreateFund(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	fund, err := h.bindFund(c, workspaceID)
	if err != nil {
		return err
	}

	created, err := h.fundService.Create(fund)
	if err != nil {
		return fundErrorResponse(c, workspaceID, err, "create fund")
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("fund_id", created.ID.String()).Str("name", created.Name).Msg("Fund created")
	return c.JSON(http.StatusCreated, created)
}

// GetFunds handles GET /api/v1/funds
func (h *FundHandler) GetFunds(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	funds, err := h.fundService.List(workspaceID)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to get funds")
		return NewInternalError(c, "Failed to get funds")
	}

	if funds == nil {
		funds = []*domain.Fund{}
	}
	return c.JSON(http.StatusOK, funds)
}

// UpdateFund handles PUT /api/v1/funds/:id
func (h *FundHandler) UpdateFund(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid fund ID", nil)
	}

	fund, err := h.bindFund(c, workspaceID)
	if err != nil {
		return err
	}
	fund.ID = id

	updated, err := h.fundService.Update(fund)
	if err != nil {
		return fundErrorResponse(c, workspaceID, err, "update fund")
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteFund handles DELETE /api/v1/funds/:id
func (h *FundHandler) DeleteFund(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid fund ID", nil)
	}

	if err := h.fundService.Deactivate(workspaceID, id); err != nil {
		if errors.Is(err, domain.ErrFundNotFound) {
			return NewNotFoundError(c, "Fund not found")
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Str("fund_id", id.String()).Msg("Failed to deactivate fund")
		return NewInternalError(c, "Failed to deactivate fund")
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("fund_id", id.String()).Msg("Fund deactivated")
	return c.NoContent(http.StatusNoContent)
}
