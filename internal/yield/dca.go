package yield

import (
	"fmt"
	"math"
	"strings"

	icommon "frizo/quant_calc/internal/common"
)

// Schedule is how often a DCA plan buys.
type Schedule int

const (
	DailyBuys Schedule = iota
	WeeklyBuys
	BiweeklyBuys
	MonthlyBuys
)

func (s Schedule) String() string {
	switch s {
	case DailyBuys:
		return "daily"
	case WeeklyBuys:
		return "weekly"
	case BiweeklyBuys:
		return "biweekly"
	case MonthlyBuys:
		return "monthly"
	default:
		return "unknown"
	}
}

// PerMonth is the average number of purchases in one month.
func (s Schedule) PerMonth() float64 {
	switch s {
	case DailyBuys:
		return 30
	case WeeklyBuys:
		return 4.33
	case BiweeklyBuys:
		return 2.17
	case MonthlyBuys:
		return 1
	default:
		return 0
	}
}

func ParseSchedule(s string) (Schedule, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return DailyBuys, nil
	case "weekly":
		return WeeklyBuys, nil
	case "biweekly", "bi-weekly":
		return BiweeklyBuys, nil
	case "monthly":
		return MonthlyBuys, nil
	default:
		return 0, fmt.Errorf("unknown schedule %q", s)
	}
}

// DCAPlan invests Budget every month, split evenly across the month's
// purchases, while the price drifts linearly from StartPrice to EndPrice.
type DCAPlan struct {
	Budget        float64  `json:"budget"` // per month
	Schedule      Schedule `json:"schedule"`
	Months        int      `json:"months"`
	StartPrice    float64  `json:"start_price"`
	EndPrice      float64  `json:"end_price"`
	VolatilityPct float64  `json:"volatility_pct"` // max perturbation of each purchase price
}

// Purchase is one simulated buy.
type Purchase struct {
	Index              int     `json:"index"`
	Month              int     `json:"month"`
	Price              float64 `json:"price"`
	Invested           float64 `json:"invested"`
	Coins              float64 `json:"coins"`
	CumulativeInvested float64 `json:"cumulative_invested"`
	CumulativeCoins    float64 `json:"cumulative_coins"`
	AverageCost        float64 `json:"average_cost"`
}

// MonthSummary aggregates the purchases of one month. Value is the
// cumulative holding valued at the plan's end price.
type MonthSummary struct {
	Month       int     `json:"month"`
	Invested    float64 `json:"invested"`
	Coins       float64 `json:"coins"`
	Value       float64 `json:"value"`
	AverageCost float64 `json:"average_cost"`
}

type DCAResult struct {
	Purchases     int            `json:"purchases"`
	PerPurchase   float64        `json:"per_purchase"`
	TotalInvested float64        `json:"total_invested"`
	TotalCoins    float64        `json:"total_coins"`
	FinalValue    float64        `json:"final_value"`
	AverageCost   float64        `json:"average_cost"`
	TotalReturn   float64        `json:"total_return"`
	ReturnPct     float64        `json:"return_pct"`
	Trajectory    []Purchase     `json:"trajectory"`
	Months        []MonthSummary `json:"months"`
}

func (p DCAPlan) validate(op string) error {
	switch {
	case !(p.Budget > 0) || !validFinite(p.Budget):
		return icommon.InvalidInput(op, "budget", "must be positive, got %v", p.Budget)
	case p.Schedule.PerMonth() == 0:
		return icommon.InvalidInput(op, "schedule", "unknown schedule %d", int(p.Schedule))
	case p.Months <= 0:
		return icommon.InvalidInput(op, "months", "must be positive, got %d", p.Months)
	case !(p.StartPrice > 0) || !validFinite(p.StartPrice):
		return icommon.InvalidInput(op, "start_price", "must be positive and finite, got %v", p.StartPrice)
	case !(p.EndPrice > 0) || !validFinite(p.EndPrice):
		return icommon.InvalidInput(op, "end_price", "must be positive and finite, got %v", p.EndPrice)
	case !(p.VolatilityPct >= 0 && p.VolatilityPct < 100):
		return icommon.InvalidInput(op, "volatility_pct", "must be in [0, 100), got %v", p.VolatilityPct)
	}
	return nil
}

// SimulateDCA runs the plan against noise. Purchase i of n executes at
//
//	(start + (end-start)*(i+1)/n) * (1 + (2u-1)*vol/100)
//
// with u drawn from noise, so prices stay within ±vol% of the linear path.
// The same plan and an identically seeded noise give identical results.
func SimulateDCA(plan DCAPlan, noise Noise) (DCAResult, error) {
	const op = "yield.SimulateDCA"
	if err := plan.validate(op); err != nil {
		return DCAResult{}, err
	}
	if noise == nil {
		return DCAResult{}, icommon.InvalidInput(op, "noise", "generator is required")
	}

	perMonth := plan.Schedule.PerMonth()
	total := int(math.Floor(float64(plan.Months) * perMonth))
	if total == 0 {
		return DCAResult{}, icommon.InvalidInput(op, "months", "plan makes no purchases")
	}
	amount := plan.Budget / perMonth
	vol := plan.VolatilityPct / 100

	res := DCAResult{
		Purchases:   total,
		PerPurchase: amount,
		Trajectory:  make([]Purchase, 0, total),
		Months:      make([]MonthSummary, 0, plan.Months),
	}

	var invested, coins float64
	for i := 0; i < total; i++ {
		progress := float64(i+1) / float64(total)
		base := plan.StartPrice + (plan.EndPrice-plan.StartPrice)*progress
		price := base * (1 + (2*noise.Float64()-1)*vol)

		bought := amount / price
		invested += amount
		coins += bought

		month := int(math.Floor(float64(i)/perMonth)) + 1
		if month > plan.Months {
			month = plan.Months
		}
		res.Trajectory = append(res.Trajectory, Purchase{
			Index:              i + 1,
			Month:              month,
			Price:              price,
			Invested:           amount,
			Coins:              bought,
			CumulativeInvested: invested,
			CumulativeCoins:    coins,
			AverageCost:        invested / coins,
		})
	}
	res.Months = summarizeMonths(res.Trajectory, plan.Months, plan.EndPrice)

	res.TotalInvested = invested
	res.TotalCoins = coins
	res.FinalValue = coins * plan.EndPrice
	res.AverageCost = invested / coins
	res.TotalReturn = res.FinalValue - invested
	res.ReturnPct = res.TotalReturn / invested * 100

	return res, nil
}

func summarizeMonths(trajectory []Purchase, months int, endPrice float64) []MonthSummary {
	out := make([]MonthSummary, months)
	for m := range out {
		out[m].Month = m + 1
	}

	var last Purchase
	idx := 0
	for m := range out {
		for idx < len(trajectory) && trajectory[idx].Month == m+1 {
			out[m].Invested += trajectory[idx].Invested
			out[m].Coins += trajectory[idx].Coins
			last = trajectory[idx]
			idx++
		}
		out[m].Value = last.CumulativeCoins * endPrice
		out[m].AverageCost = last.AverageCost
	}
	return out
}
