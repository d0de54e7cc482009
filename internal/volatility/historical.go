// Package volatility estimates annualized volatility from a price series.
package volatility

import (
	"fmt"
	"math"
	"strings"

	"frizo/quant_calc/internal/common"
	"frizo/quant_calc/pkg/utils"
)

// Interval is the spacing between observations.
type Interval int

const (
	Daily Interval = iota
	Weekly
	Monthly
)

func (i Interval) String() string {
	switch i {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	default:
		return "unknown"
	}
}

// Factor is the number of sampling periods per year.
func (i Interval) Factor() float64 {
	switch i {
	case Daily:
		return 252
	case Weekly:
		return 52
	case Monthly:
		return 12
	default:
		return 0
	}
}

func ParseInterval(s string) (Interval, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily", "d":
		return Daily, nil
	case "weekly", "w":
		return Weekly, nil
	case "monthly", "m":
		return Monthly, nil
	default:
		return 0, fmt.Errorf("unknown interval %q", s)
	}
}

// Sample is a chronological price series.
type Sample struct {
	Prices   []float64
	Interval Interval
}

// Range is a band around the annualized volatility, in percent.
type Range struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Estimate holds the statistics of one sample. Every field except
// LogReturns is in percent.
type Estimate struct {
	LogReturns []float64 `json:"log_returns"`
	Movements  []float64 `json:"movements"`
	MeanReturn float64   `json:"mean_return"`
	StdDev     float64   `json:"std_dev"`
	Annualized float64   `json:"annualized"`
	Range      Range     `json:"range"`
	Rank       float64   `json:"rank"`
}

// rangeWidth is the half-width of the comparison band used for Rank.
const rangeWidth = 20.0

// Historical computes close-to-close volatility with Bessel's correction.
func Historical(s Sample) (Estimate, error) {
	const op = "volatility.Historical"

	if len(s.Prices) < 2 {
		return Estimate{}, common.InvalidInput(op, "prices", "need at least 2 observations, got %d", len(s.Prices))
	}
	factor := s.Interval.Factor()
	if factor == 0 {
		return Estimate{}, common.InvalidInput(op, "interval", "unknown interval %d", int(s.Interval))
	}
	for i, p := range s.Prices {
		if !(p > 0) || math.IsInf(p, 0) {
			return Estimate{}, common.InvalidInput(op, "prices", "observation %d must be positive and finite, got %v", i, p)
		}
	}

	returns := LogReturns(s.Prices)
	mean := utils.Sum(returns) / float64(len(returns))

	// A single return has no dispersion to measure; report zero rather than 0/0.
	variance := 0.0
	if len(returns) > 1 {
		sumSquares := 0.0
		for _, r := range returns {
			diff := r - mean
			sumSquares += diff * diff
		}
		variance = sumSquares / float64(len(returns)-1)
	}
	stdDev := math.Sqrt(variance)
	annualized := stdDev * math.Sqrt(factor) * 100

	band := Range{
		Low:  math.Max(0, annualized-rangeWidth),
		High: annualized + rangeWidth,
	}

	return Estimate{
		LogReturns: returns,
		Movements:  utils.Map(returns, func(r float64) float64 { return r * 100 }),
		MeanReturn: mean * 100,
		StdDev:     stdDev * 100,
		Annualized: annualized,
		Range:      band,
		Rank:       (annualized - band.Low) / (band.High - band.Low) * 100,
	}, nil
}

// LogReturns returns ln(P[i]/P[i-1]) for i >= 1. Prices must be positive.
func LogReturns(prices []float64) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, math.Log(prices[i]/prices[i-1]))
	}
	return returns
}
