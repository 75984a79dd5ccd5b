package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransferSuggestion reconciles expected vs. actual fund funding. For a
// cross-currency suggestion the fx rate is supplied by the caller at
// execution time; the engine never invents one.
type TransferSuggestion struct {
	FromAccountID   uuid.UUID        `json:"fromAccountId"`
	FromAccountName string           `json:"fromAccountName"`
	FromCurrency    string           `json:"fromCurrency"`
	ToAccountID     uuid.UUID        `json:"toAccountId"`
	ToAccountName   string           `json:"toAccountName"`
	ToCurrency      string           `json:"toCurrency"`
	Amount          decimal.Decimal  `json:"amount"` // in base currency
	IsCrossCurrency bool             `json:"isCrossCurrency"`
	FxRate          *decimal.Decimal `json:"fxRate,omitempty"`
	Fee             *decimal.Decimal `json:"fee,omitempty"`
	SourceFundID    *uuid.UUID       `json:"sourceFundId,omitempty"`
	DestFundID      *uuid.UUID       `json:"destFundId,omitempty"`
	Note            string           `json:"note,omitempty"`
}

// FundMonthRow is one month of a fund's reconciliation ledger.
type FundMonthRow struct {
	Year                 int             `json:"year"`
	Month                int             `json:"month"`
	ExpectedContribution decimal.Decimal `json:"expectedContribution"`
	ActualCredits        decimal.Decimal `json:"actualCredits"`
	ActualDebits         decimal.Decimal `json:"actualDebits"`
	SelfFundingCredits   decimal.Decimal `json:"selfFundingCredits"`
	Shortfall            decimal.Decimal `json:"shortfall"`
}

// FundLedger is a fund's monthly reconciliation time series.
type FundLedger struct {
	FundID               uuid.UUID       `json:"fundId"`
	FundName             string          `json:"fundName"`
	Months               []FundMonthRow  `json:"months"`
	TotalExpected        decimal.Decimal `json:"totalExpected"`
	TotalActualCredits   decimal.Decimal `json:"totalActualCredits"`
	TotalShortfall       decimal.Decimal `json:"totalShortfall"`
}

// FundTrackerSummary carries period-level reconciliation metrics.
type FundTrackerSummary struct {
	TotalExpected        decimal.Decimal     `json:"totalExpected"`
	TotalActual          decimal.Decimal     `json:"totalActual"`
	TotalDifference      decimal.Decimal     `json:"totalDifference"`
	UnallocatedRemainder decimal.Decimal     `json:"unallocatedRemainder"`
	Warnings             []AllocationWarning `json:"warnings,omitempty"`
}

// FundTrackerResult is the full reconciliation output for a period.
type FundTrackerResult struct {
	FundLedgers         []FundLedger         `json:"fundLedgers"`
	TransferSuggestions []TransferSuggestion `json:"transferSuggestions"`
	Summary             FundTrackerSummary   `json:"summary"`
}
