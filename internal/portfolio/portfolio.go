// Package portfolio aggregates the costs and expected returns of a
// weighted set of fund holdings.
package portfolio

import (
	"fmt"
	"math"
	"strings"

	"frizo/quant_calc/internal/common"
)

// Holding is one fund in the portfolio. Weight is relative; the other
// fields are annual percentages.
type Holding struct {
	Label          string  `json:"label" yaml:"label"`
	Weight         float64 `json:"weight" yaml:"weight"`
	ExpenseRatio   float64 `json:"expense_ratio" yaml:"expense_ratio"`
	ExpectedReturn float64 `json:"expected_return" yaml:"expected_return"`
}

// Rebalance is how often target weights are restored.
type Rebalance int

const (
	RebalanceMonthly Rebalance = iota
	RebalanceQuarterly
	RebalanceSemiAnnually
	RebalanceAnnually
)

func (r Rebalance) String() string {
	switch r {
	case RebalanceMonthly:
		return "monthly"
	case RebalanceQuarterly:
		return "quarterly"
	case RebalanceSemiAnnually:
		return "semiannually"
	case RebalanceAnnually:
		return "annually"
	default:
		return "unknown"
	}
}

func ParseRebalance(s string) (Rebalance, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "monthly":
		return RebalanceMonthly, nil
	case "quarterly":
		return RebalanceQuarterly, nil
	case "semiannually", "semi-annually":
		return RebalanceSemiAnnually, nil
	case "annually", "yearly":
		return RebalanceAnnually, nil
	default:
		return 0, fmt.Errorf("unknown rebalance frequency %q", s)
	}
}

// Schedule is the cost side of a rebalancing frequency.
type Schedule struct {
	PerYear float64 `json:"per_year" yaml:"per_year"`
	CostPct float64 `json:"cost_pct" yaml:"cost_pct"` // % of portfolio value per rebalance
}

// DefaultSchedules returns a fresh copy of the built-in rebalance costs.
func DefaultSchedules() map[Rebalance]Schedule {
	return map[Rebalance]Schedule{
		RebalanceMonthly:      {PerYear: 12, CostPct: 0.10},
		RebalanceQuarterly:    {PerYear: 4, CostPct: 0.05},
		RebalanceSemiAnnually: {PerYear: 2, CostPct: 0.03},
		RebalanceAnnually:     {PerYear: 1, CostPct: 0.02},
	}
}

type Input struct {
	Holdings     []Holding `json:"holdings"`
	Value        float64   `json:"value"`
	Rebalancing  Schedule  `json:"rebalancing"`
	HorizonYears float64   `json:"horizon_years"`
}

// Allocation is one holding's share after normalization.
type Allocation struct {
	Label      string  `json:"label"`
	Weight     float64 `json:"weight"` // percent, sums to 100
	Value      float64 `json:"value"`
	AnnualCost float64 `json:"annual_cost"`
}

// Result holds the portfolio aggregates. Ratios and returns are in percent.
type Result struct {
	ExpenseRatio      float64      `json:"expense_ratio"`
	ExpectedReturn    float64      `json:"expected_return"`
	NetReturn         float64      `json:"net_return"`
	AnnualExpenseCost float64      `json:"annual_expense_cost"`
	RebalancingCost   float64      `json:"rebalancing_cost"`
	TotalExpenseCost  float64      `json:"total_expense_cost"`
	GrossFinalValue   float64      `json:"gross_final_value"`
	NetFinalValue     float64      `json:"net_final_value"`
	CostImpact        float64      `json:"cost_impact"`
	Allocations       []Allocation `json:"allocations"`
}

// Normalize rescales weights to sum to 100. The input is not modified.
// Normalizing an already-normalized set leaves it unchanged.
func Normalize(holdings []Holding) ([]Holding, error) {
	const op = "portfolio.Normalize"
	if len(holdings) == 0 {
		return nil, common.InvalidInput(op, "holdings", "must not be empty")
	}

	var sum float64
	for _, h := range holdings {
		if h.Weight < 0 || math.IsNaN(h.Weight) || math.IsInf(h.Weight, 0) {
			return nil, common.InvalidInput(op, "weight", "of %q must be a non-negative number, got %v", h.Label, h.Weight)
		}
		sum += h.Weight
	}
	if sum == 0 {
		return nil, common.InvalidInput(op, "weight", "weights sum to zero")
	}

	out := make([]Holding, len(holdings))
	for i, h := range holdings {
		h.Weight = h.Weight / sum * 100
		out[i] = h
	}
	return out, nil
}

// Aggregate normalizes the holdings and computes expense, return and
// rebalancing figures over the horizon.
func Aggregate(in Input) (Result, error) {
	const op = "portfolio.Aggregate"

	for _, h := range in.Holdings {
		if !finite(h.ExpenseRatio) || !finite(h.ExpectedReturn) {
			return Result{}, common.InvalidInput(op, "holdings", "%q has a non-finite expense ratio or return", h.Label)
		}
	}
	switch {
	case !(in.Value > 0) || !finite(in.Value):
		return Result{}, common.InvalidInput(op, "value", "must be positive, got %v", in.Value)
	case !(in.HorizonYears > 0) || !finite(in.HorizonYears):
		return Result{}, common.InvalidInput(op, "horizon_years", "must be positive, got %v", in.HorizonYears)
	case !(in.Rebalancing.PerYear >= 0) || !finite(in.Rebalancing.PerYear),
		!(in.Rebalancing.CostPct >= 0) || !finite(in.Rebalancing.CostPct):
		return Result{}, common.InvalidInput(op, "rebalancing", "must be finite and not negative, got %+v", in.Rebalancing)
	}

	holdings, err := Normalize(in.Holdings)
	if err != nil {
		return Result{}, err
	}

	var res Result
	res.Allocations = make([]Allocation, 0, len(holdings))
	for _, h := range holdings {
		share := h.Weight / 100
		res.ExpenseRatio += share * h.ExpenseRatio
		res.ExpectedReturn += share * h.ExpectedReturn

		value := in.Value * share
		res.Allocations = append(res.Allocations, Allocation{
			Label:      h.Label,
			Weight:     h.Weight,
			Value:      value,
			AnnualCost: value * h.ExpenseRatio / 100,
		})
	}

	res.NetReturn = res.ExpectedReturn - res.ExpenseRatio
	res.AnnualExpenseCost = in.Value * res.ExpenseRatio / 100
	res.RebalancingCost = in.Value * in.Rebalancing.CostPct / 100 * in.Rebalancing.PerYear * in.HorizonYears
	res.TotalExpenseCost = res.AnnualExpenseCost*in.HorizonYears + res.RebalancingCost

	res.GrossFinalValue = in.Value * math.Pow(1+res.ExpectedReturn/100, in.HorizonYears)
	res.NetFinalValue = in.Value * math.Pow(1+res.NetReturn/100, in.HorizonYears)
	res.CostImpact = res.GrossFinalValue - res.NetFinalValue

	return res, nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
