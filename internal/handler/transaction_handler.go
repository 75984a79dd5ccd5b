package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/middleware"
	"github.com/ledgera/ledgera-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// TransactionHandler handles transaction-related HTTP requests
type TransactionHandler struct {
	transactionService *service.TransactionService
	transactionRepo    domain.TransactionRepository
}

// NewTransactionHandler creates a new TransactionHandler
func NewTransactionHandler(transactionService *service.TransactionService, transactionRepo domain.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		transactionRepo:    transactionRepo,
	}
}

// PostingRequest represents one posting in a create transaction request
type PostingRequest struct {
	AccountID uuid.UUID `json:"accountId"`
	Amount    string    `json:"amount"`
	Currency  string    `json:"currency"`
	FxRate    string    `json:"fxRate"`
}

// CreateTransactionRequest represents the create transaction request body
type CreateTransactionRequest struct {
	Timestamp  time.Time        `json:"timestamp"`
	Payee      string           `json:"payee"`
	Memo       string           `json:"memo"`
	Kind       string           `json:"kind"`
	CategoryID *uuid.UUID       `json:"categoryId,omitempty"`
	FundID     *uuid.UUID       `json:"fundId,omitempty"`
	Postings   []PostingRequest `json:"postings"`
}

// CreateTransaction handles POST /api/v1/transactions
func (h *TransactionHandler) CreateTransaction(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req CreateTransactionRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	postings := make([]*domain.Posting, 0, len(req.Postings))
	for _, p := range req.Postings {
		amount, err := decimal.NewFromString(p.Amount)
		if err != nil {
			return NewValidationError(c, "Invalid posting amount", []ValidationError{
				{Field: "amount", Message: "Must be a valid decimal number"},
			})
		}
		fxRate := decimal.NewFromInt(1)
		if p.FxRate != "" {
			fxRate, err = decimal.NewFromString(p.FxRate)
			if err != nil {
				return NewValidationError(c, "Invalid posting fx rate", []ValidationError{
					{Field: "fxRate", Message: "Must be a valid decimal number"},
				})
			}
		}
		postings = append(postings, &domain.Posting{
			AccountID: p.AccountID,
			Amount:    amount,
			Currency:  p.Currency,
			FxRate:    fxRate,
		})
	}

	transaction, err := h.transactionService.Create(&domain.Transaction{
		WorkspaceID: workspaceID,
		Timestamp:   req.Timestamp,
		Payee:       req.Payee,
		Memo:        req.Memo,
		Kind:        domain.TransactionKind(req.Kind),
		CategoryID:  req.CategoryID,
		FundID:      req.FundID,
		Postings:    postings,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrWrongPostingCount):
			return NewValidationError(c, "A transaction must have exactly two postings", nil)
		case errors.Is(err, domain.ErrUnbalanced):
			return NewValidationError(c, "Postings do not balance in base currency", nil)
		case errors.Is(err, domain.ErrAccountNotFound):
			return NewNotFoundError(c, "Account not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Posting currency must match the account currency", nil)
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to create transaction")
		return NewInternalError(c, "Failed to create transaction")
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("transaction_id", transaction.ID.String()).Msg("Transaction created")
	return c.JSON(http.StatusCreated, transaction)
}

// GetTransactions handles GET /api/v1/transactions
func (h *TransactionHandler) GetTransactions(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	filters := &domain.TransactionFilters{}
	if raw := c.QueryParam("accountId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return NewValidationError(c, "Invalid accountId parameter", nil)
		}
		filters.AccountID = &id
	}
	if raw := c.QueryParam("kind"); raw != "" {
		kind := domain.TransactionKind(raw)
		filters.Kind = &kind
	}
	if raw := c.QueryParam("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return NewValidationError(c, "Invalid from parameter", nil)
		}
		filters.StartDate = &ts
	}
	if raw := c.QueryParam("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return NewValidationError(c, "Invalid to parameter", nil)
		}
		filters.EndDate = &ts
	}

	transactions, err := h.transactionRepo.GetByWorkspace(workspaceID, filters)
	if err != nil {
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to get transactions")
		return NewInternalError(c, "Failed to get transactions")
	}

	if transactions == nil {
		transactions = []*domain.Transaction{}
	}
	return c.JSON(http.StatusOK, transactions)
}

// TransferRequest represents the execute transfer request body
type TransferRequest struct {
	FromAccountID uuid.UUID  `json:"fromAccountId"`
	ToAccountID   uuid.UUID  `json:"toAccountId"`
	Amount        string     `json:"amount"`
	FromFxRate    *string    `json:"fromFxRate,omitempty"`
	ToFxRate      *string    `json:"toFxRate,omitempty"`
	Fee           *string    `json:"fee,omitempty"`
	SourceFundID  *uuid.UUID `json:"sourceFundId,omitempty"`
	DestFundID    *uuid.UUID `json:"destFundId,omitempty"`
	Memo          string     `json:"memo,omitempty"`
}

func parseOptionalDecimal(raw *string) (*decimal.Decimal, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(*raw)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// CreateTransfer handles POST /api/v1/transactions/transfer
func (h *TransactionHandler) CreateTransfer(c echo.Context) error {
	workspaceID := middleware.GetWorkspaceID(c)
	if workspaceID == uuid.Nil {
		return NewUnauthorizedError(c, "Workspace required")
	}

	var req TransferRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid transfer amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}
	fromRate, err := parseOptionalDecimal(req.FromFxRate)
	if err != nil {
		return NewValidationError(c, "Invalid fromFxRate", nil)
	}
	toRate, err := parseOptionalDecimal(req.ToFxRate)
	if err != nil {
		return NewValidationError(c, "Invalid toFxRate", nil)
	}
	fee, err := parseOptionalDecimal(req.Fee)
	if err != nil {
		return NewValidationError(c, "Invalid fee", nil)
	}

	transaction, err := h.transactionService.ExecuteSuggestion(workspaceID, domain.TransferSuggestion{
		FromAccountID: req.FromAccountID,
		ToAccountID:   req.ToAccountID,
		Amount:        amount,
		SourceFundID:  req.SourceFundID,
		DestFundID:    req.DestFundID,
	}, service.ExecuteTransferParams{
		FromFxRate: fromRate,
		ToFxRate:   toRate,
		Fee:        fee,
		Memo:       req.Memo,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMissingRate):
			return NewValidationError(c, "Cross-currency transfer requires an fx rate", []ValidationError{
				{Field: "toFxRate", Message: "Required when the account currency differs from the base currency"},
			})
		case errors.Is(err, domain.ErrAccountNotFound):
			return NewNotFoundError(c, "Account not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return NewValidationError(c, "Transfer amount must be positive and exceed any fee", nil)
		}
		log.Error().Err(err).Str("workspace_id", workspaceID.String()).Msg("Failed to execute transfer")
		return NewInternalError(c, "Failed to execute transfer")
	}

	log.Info().Str("workspace_id", workspaceID.String()).Str("transaction_id", transaction.ID.String()).Msg("Transfer executed")
	return c.JSON(http.StatusCreated, transaction)
}
