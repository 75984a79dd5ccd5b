package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Rate is one FX rate observation.
type Rate struct {
	Base      string          `json:"base"`
	Quote     string          `json:"quote"`
	Rate      decimal.Decimal `json:"rate"`
	Timestamp time.Time       `json:"timestamp"`
	Source    string          `json:"source"`
}

// RateProvider supplies current FX rates for net-worth valuation and
// cross-currency transfer prefill. Historical postings keep their booked
// rate and are never re-priced through this interface.
type RateProvider interface {
	GetRate(base, quote string) (*Rate, error)
}
