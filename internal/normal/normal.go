// Package normal provides the standard normal distribution used by the
// option pricing code.
package normal

import "math"

// Distribution evaluates the standard normal CDF and PDF.
type Distribution interface {
	CDF(x float64) float64
	PDF(x float64) float64
}

// Abramowitz and Stegun 7.1.26 coefficients.
const (
	a1 = 0.254829592
	a2 = -0.284496736
	a3 = 1.421413741
	a4 = -1.453152027
	a5 = 1.061405429
	p  = 0.3275911
)

// Approx evaluates Φ(x) from the five-term Abramowitz and Stegun rational
// approximation of erf. It is an approximation, not an exact evaluation:
// the absolute error is at most about 7.5e-8.
type Approx struct{}

func (Approx) CDF(x float64) float64 {
	sign := 1.0
	if x < 0 {
		sign = -1.0
	}
	z := math.Abs(x) / math.Sqrt2

	t := 1.0 / (1.0 + p*z)
	y := 1.0 - ((((a5*t+a4)*t+a3)*t+a2)*t+a1)*t*math.Exp(-z*z)

	return 0.5 * (1.0 + sign*y)
}

func (Approx) PDF(x float64) float64 {
	return pdf(x)
}

// Exact evaluates Φ(x) through math.Erfc.
type Exact struct{}

func (Exact) CDF(x float64) float64 {
	return 0.5 * math.Erfc(-x/math.Sqrt2)
}

func (Exact) PDF(x float64) float64 {
	return pdf(x)
}

// Default is the distribution used when a caller does not supply one.
var Default Distribution = Approx{}

// CDF evaluates Default.CDF.
func CDF(x float64) float64 {
	return Default.CDF(x)
}

// PDF is the exact Gaussian density.
func PDF(x float64) float64 {
	return pdf(x)
}

func pdf(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
