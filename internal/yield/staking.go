package yield

import (
	"math"

	"frizo/quant_calc/common"
	icommon "frizo/quant_calc/internal/common"
)

// StakingPlan stakes Amount of currency worth of tokens for Months.
type StakingPlan struct {
	Amount          float64          `json:"amount"`
	TokenPrice      float64          `json:"token_price"`
	APYPct          float64          `json:"apy_pct"`
	FeePct          float64          `json:"fee_pct"` // validator commission, share of rewards
	Frequency       common.Frequency `json:"frequency"`
	Months          int              `json:"months"`
	AppreciationPct float64          `json:"appreciation_pct"` // annual token price change
}

// StakingMonth is the month-end state under monthly accrual.
type StakingMonth struct {
	Month   int     `json:"month"`
	Rewards float64 `json:"rewards"` // value of the month's new tokens
	Tokens  float64 `json:"tokens"`
	Price   float64 `json:"price"`
	Value   float64 `json:"value"`
}

type StakingResult struct {
	NetAPY            float64        `json:"net_apy"`
	InitialTokens     float64        `json:"initial_tokens"`
	FinalTokens       float64        `json:"final_tokens"`
	TokensEarned      float64        `json:"tokens_earned"`
	FinalTokenPrice   float64        `json:"final_token_price"`
	TotalValue        float64        `json:"total_value"`
	TotalRewards      float64        `json:"total_rewards"`
	MonthlyRewards    float64        `json:"monthly_rewards"`
	AppreciationGains float64        `json:"appreciation_gains"`
	TotalReturn       float64        `json:"total_return"`
	EffectiveAPY      float64        `json:"effective_apy"`
	Breakdown         []StakingMonth `json:"breakdown"`
}

// Stake compounds the token quantity at the net APY and, separately,
// the token price at the appreciation rate.
func Stake(plan StakingPlan) (StakingResult, error) {
	const op = "yield.Stake"
	switch {
	case !(plan.Amount > 0) || !validFinite(plan.Amount):
		return StakingResult{}, icommon.InvalidInput(op, "amount", "must be positive, got %v", plan.Amount)
	case !(plan.TokenPrice > 0) || !validFinite(plan.TokenPrice):
		return StakingResult{}, icommon.InvalidInput(op, "token_price", "must be positive, got %v", plan.TokenPrice)
	case !validFinite(plan.APYPct) || plan.APYPct < 0:
		return StakingResult{}, icommon.InvalidInput(op, "apy_pct", "must not be negative, got %v", plan.APYPct)
	case !(plan.FeePct >= 0 && plan.FeePct < 100):
		return StakingResult{}, icommon.InvalidInput(op, "fee_pct", "must be in [0, 100), got %v", plan.FeePct)
	case plan.Frequency <= 0:
		return StakingResult{}, icommon.InvalidInput(op, "frequency", "must be positive, got %d", int(plan.Frequency))
	case plan.Months <= 0:
		return StakingResult{}, icommon.InvalidInput(op, "months", "must be positive, got %d", plan.Months)
	case !validFinite(plan.AppreciationPct) || plan.AppreciationPct <= -100:
		return StakingResult{}, icommon.InvalidInput(op, "appreciation_pct", "must be greater than -100, got %v", plan.AppreciationPct)
	}

	years := float64(plan.Months) / 12
	res := StakingResult{
		NetAPY:        plan.APYPct * (100 - plan.FeePct) / 100,
		InitialTokens: plan.Amount / plan.TokenPrice,
	}

	finalTokens, err := Compound(res.InitialTokens, res.NetAPY, plan.Frequency, years)
	if err != nil {
		return StakingResult{}, err
	}
	res.FinalTokens = finalTokens
	res.TokensEarned = finalTokens - res.InitialTokens

	growth := 1 + plan.AppreciationPct/100
	res.FinalTokenPrice = plan.TokenPrice * math.Pow(growth, years)
	res.AppreciationGains = res.InitialTokens * (res.FinalTokenPrice - plan.TokenPrice)

	res.TotalValue = res.FinalTokens * res.FinalTokenPrice
	res.TotalRewards = res.TokensEarned * res.FinalTokenPrice
	res.MonthlyRewards = res.TotalRewards / float64(plan.Months)
	res.TotalReturn = res.TotalValue - plan.Amount
	res.EffectiveAPY = (math.Pow(res.TotalValue/plan.Amount, 1/years) - 1) * 100

	res.Breakdown = make([]StakingMonth, 0, plan.Months)
	tokens := res.InitialTokens
	monthly := res.NetAPY / 100 / 12
	for m := 1; m <= plan.Months; m++ {
		prev := tokens
		tokens *= 1 + monthly
		price := plan.TokenPrice * math.Pow(growth, float64(m)/12)
		res.Breakdown = append(res.Breakdown, StakingMonth{
			Month:   m,
			Rewards: (tokens - prev) * price,
			Tokens:  tokens,
			Price:   price,
			Value:   tokens * price,
		})
	}

	return res, nil
}
