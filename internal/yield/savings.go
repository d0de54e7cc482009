package yield

import (
	"math"

	"frizo/quant_calc/common"
	icommon "frizo/quant_calc/internal/common"
)

// SavingsPlan is a compounding account with a monthly deposit that
// grows by ContributionGrowthPct every year.
type SavingsPlan struct {
	Initial               float64          `json:"initial"`
	Monthly               float64          `json:"monthly"`
	RatePct               float64          `json:"rate_pct"`
	Frequency             common.Frequency `json:"frequency"`
	Years                 int              `json:"years"`
	ContributionGrowthPct float64          `json:"contribution_growth_pct"`
}

type SavingsYear struct {
	Year          int     `json:"year"`
	Balance       float64 `json:"balance"`
	Contributions float64 `json:"contributions"` // deposited during the year
	Interest      float64 `json:"interest"`      // cumulative
}

type SavingsResult struct {
	FinalAmount        float64       `json:"final_amount"`
	TotalContributions float64       `json:"total_contributions"` // includes the initial deposit
	TotalInterest      float64       `json:"total_interest"`
	Breakdown          []SavingsYear `json:"breakdown"`
}

// Grow deposits at the start of each month, then applies one month of
// interest: balance *= (1 + r/n)^(n/12).
func Grow(plan SavingsPlan) (SavingsResult, error) {
	const op = "yield.Grow"
	switch {
	case plan.Initial < 0 || !validFinite(plan.Initial):
		return SavingsResult{}, icommon.InvalidInput(op, "initial", "must not be negative, got %v", plan.Initial)
	case plan.Monthly < 0 || !validFinite(plan.Monthly):
		return SavingsResult{}, icommon.InvalidInput(op, "monthly", "must not be negative, got %v", plan.Monthly)
	case !validFinite(plan.RatePct) || plan.RatePct <= -100:
		return SavingsResult{}, icommon.InvalidInput(op, "rate_pct", "must be greater than -100, got %v", plan.RatePct)
	case plan.Frequency <= 0:
		return SavingsResult{}, icommon.InvalidInput(op, "frequency", "must be positive, got %d", int(plan.Frequency))
	case plan.Years <= 0:
		return SavingsResult{}, icommon.InvalidInput(op, "years", "must be positive, got %d", plan.Years)
	case !validFinite(plan.ContributionGrowthPct):
		return SavingsResult{}, icommon.InvalidInput(op, "contribution_growth_pct", "must be finite, got %v", plan.ContributionGrowthPct)
	}

	n := plan.Frequency.PerYear()
	monthlyFactor := math.Pow(1+plan.RatePct/100/n, n/12)

	balance := plan.Initial
	contributed := plan.Initial
	deposit := plan.Monthly

	res := SavingsResult{Breakdown: make([]SavingsYear, 0, plan.Years)}
	for year := 1; year <= plan.Years; year++ {
		start := contributed
		for month := 0; month < 12; month++ {
			balance += deposit
			contributed += deposit
			balance *= monthlyFactor
		}
		deposit *= 1 + plan.ContributionGrowthPct/100

		res.Breakdown = append(res.Breakdown, SavingsYear{
			Year:          year,
			Balance:       balance,
			Contributions: contributed - start,
			Interest:      balance - contributed,
		})
	}

	res.FinalAmount = balance
	res.TotalContributions = contributed
	res.TotalInterest = balance - contributed
	return res, nil
}
