package domain

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AccountNetWorthRow values one account at current rates while tracking the
// booked cost basis.
type AccountNetWorthRow struct {
	AccountID        uuid.UUID       `json:"accountId"`
	AccountName      string          `json:"accountName"`
	Currency         string          `json:"currency"`
	AccountType      AccountType     `json:"accountType"`
	NativeBalance    decimal.Decimal `json:"nativeBalance"`
	CurrentFxRate    decimal.Decimal `json:"currentFxRate"`
	MarketValueBase  decimal.Decimal `json:"marketValueBase"`
	CostBasisBase    decimal.Decimal `json:"costBasisBase"`
	UnrealizedFxGain decimal.Decimal `json:"unrealizedFxGain"`
}

// NetWorthResult is the workspace-level net worth valuation.
type NetWorthResult struct {
	BaseCurrency          string               `json:"baseCurrency"`
	Total                 decimal.Decimal      `json:"total"`
	TotalUnrealizedFxGain decimal.Decimal      `json:"totalUnrealizedFxGain"`
	Accounts              []AccountNetWorthRow `json:"accounts"`
}
