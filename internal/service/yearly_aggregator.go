package service

import (
	"sort"

	"github.com/ledgera/ledgera-backend/internal/domain"
	"github.com/ledgera/ledgera-backend/internal/util"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// classifyFund buckets a fund by its configured return: zero-return funds
// are spent down on recreation, everything else builds wealth.
func classifyFund(bucketReturns map[string]decimal.Decimal, fund string) domain.FundClass {
	if bucketReturns[fund].IsZero() {
		return domain.FundClassRecreation
	}
	return domain.FundClassInvestment
}

// AggregateYears rolls a projected month sequence into calendar-year
// summaries and per-fund wealth curves.
func AggregateYears(months []*domain.MonthlyProjection, bucketReturns map[string]decimal.Decimal) (*domain.YearlyProjectionResult, error) {
	result := &domain.YearlyProjectionResult{}
	if len(months) == 0 {
		return result, nil
	}

	type yearGroup struct {
		year   int
		months []*domain.MonthlyProjection
	}

	var groups []*yearGroup
	byYear := make(map[int]*yearGroup)
	for _, m := range months {
		year, _, err := util.ParsePeriod(m.Period)
		if err != nil {
			return nil, err
		}
		group, ok := byYear[year]
		if !ok {
			group = &yearGroup{year: year}
			byYear[year] = group
			groups = append(groups, group)
		}
		group.months = append(group.months, m)
	}

	fundNames := make([]string, 0, len(months[0].BucketBalances))
	for name := range months[0].BucketBalances {
		fundNames = append(fundNames, name)
	}
	sort.Strings(fundNames)

	priorClosing := make(map[string]decimal.Decimal, len(fundNames))

	for _, group := range groups {
		summary := domain.YearlySummary{Year: group.year}

		for _, m := range group.months {
			summary.GrossIncome = summary.GrossIncome.Add(m.GrossIncome)
			summary.NetIncome = summary.NetIncome.Add(m.NetIncome)
			summary.Expenses = summary.Expenses.Add(m.Expenses)
			summary.OneTimeCosts = summary.OneTimeCosts.Add(m.OneTimeCosts)
			summary.Savings = summary.Savings.Add(m.Savings)
		}

		last := group.months[len(group.months)-1]
		for _, fund := range fundNames {
			opening := priorClosing[fund]
			contributions := decimal.Zero
			for _, m := range group.months {
				contributions = contributions.Add(m.BucketAllocations[fund])
			}
			closing := last.BucketBalances[fund]
			revenue := closing.Sub(opening).Sub(contributions)

			pctRevenue := decimal.Zero
			if !opening.IsZero() {
				pctRevenue = revenue.Div(opening).Mul(oneHundred)
			}

			class := classifyFund(bucketReturns, fund)
			if class == domain.FundClassInvestment {
				summary.AmountInvested = summary.AmountInvested.Add(contributions)
			} else {
				summary.AmountSpentRecreation = summary.AmountSpentRecreation.Add(contributions)
			}

			summary.Funds = append(summary.Funds, domain.FundYear{
				Fund:           fund,
				Class:          class,
				Year:           group.year,
				OpeningBalance: opening,
				Contributions:  contributions,
				ClosingBalance: closing,
				Revenue:        revenue,
				PctRevenue:     pctRevenue,
			})

			priorClosing[fund] = closing
		}

		result.Years = append(result.Years, summary)
	}

	for _, fund := range fundNames {
		result.TotalWealthFinal = result.TotalWealthFinal.Add(priorClosing[fund])
	}

	return result, nil
}
