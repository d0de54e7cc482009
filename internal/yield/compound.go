// Package yield holds the periodic-compounding math behind the DCA,
// staking and savings calculators.
package yield

import (
	"math"

	"frizo/quant_calc/common"
	icommon "frizo/quant_calc/internal/common"
)

// Compound returns principal * (1 + rate/f)^(f*years), where rate is
// ratePct/100 and f is the number of compounding periods per year.
func Compound(principal, ratePct float64, f common.Frequency, years float64) (float64, error) {
	const op = "yield.Compound"
	if f <= 0 {
		return 0, icommon.InvalidInput(op, "frequency", "must be positive, got %d", int(f))
	}
	if !(years > 0) || !validFinite(years) {
		return 0, icommon.InvalidInput(op, "years", "must be positive and finite, got %v", years)
	}
	return compound(principal, ratePct, f.PerYear(), years), nil
}

func compound(principal, ratePct, periods, years float64) float64 {
	return principal * math.Pow(1+ratePct/100/periods, periods*years)
}

func validFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
