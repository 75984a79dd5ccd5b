package domain

import "errors"

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrInvalidInput        = errors.New("invalid input")
	ErrUnauthorized        = errors.New("unauthorized")
	ErrInternalError       = errors.New("internal error")
	ErrUserNotFound        = errors.New("user not found")
	ErrWorkspaceNotFound   = errors.New("workspace not found")
	ErrAccountNotFound     = errors.New("account not found")
	ErrCategoryNotFound    = errors.New("category not found")
	ErrFundNotFound        = errors.New("fund not found")
	ErrScenarioNotFound    = errors.New("scenario not found")
	ErrOverrideNotFound    = errors.New("allocation override not found")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrNameRequired        = errors.New("name is required")
	ErrNameTooLong         = errors.New("name exceeds maximum length")

	// Ledger validation
	ErrUnbalanced        = errors.New("postings do not balance in base currency")
	ErrWrongPostingCount = errors.New("transaction must have exactly two postings")

	// Allocation validation
	ErrInvalidAllocation = errors.New("invalid allocation")
	ErrMonthLocked       = errors.New("month is locked")

	// FX
	ErrMissingRate = errors.New("fx rate required for cross-currency operation")
)

// Validation constants
const (
	MaxAccountNameLength = 255
	MaxFundNameLength    = 255
)
