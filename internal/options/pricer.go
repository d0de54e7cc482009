package options

import (
	"math"

	"frizo/quant_calc/internal/common"
	"frizo/quant_calc/internal/normal"
)

// Pricer prices European options with Black-Scholes (continuous dividend yield).
type Pricer struct {
	dist normal.Distribution
}

// NewPricer returns a pricer using dist; nil selects normal.Default.
func NewPricer(dist normal.Distribution) *Pricer {
	if dist == nil {
		dist = normal.Default
	}
	return &Pricer{dist: dist}
}

var defaultPricer = NewPricer(nil)

// Price is a shortcut for the default pricer.
func Price(c Contract) (float64, error) {
	return defaultPricer.Price(c)
}

// Compute is a shortcut for the default pricer's Greeks.
func Compute(c Contract) (Greeks, error) {
	return defaultPricer.Greeks(c)
}

// Validate rejects contracts Black-Scholes is undefined for.
func (c Contract) Validate(op string) error {
	if err := c.validateWithoutVol(op); err != nil {
		return err
	}
	if !(c.Vol > 0) || math.IsInf(c.Vol, 0) {
		return common.InvalidInput(op, "vol", "must be positive and finite, got %v", c.Vol)
	}
	return nil
}

func (c Contract) validateWithoutVol(op string) error {
	if c.Kind != CALL && c.Kind != PUT {
		return common.InvalidInput(op, "kind", "must be call or put, got %d", int(c.Kind))
	}
	if !(c.Spot > 0) || math.IsInf(c.Spot, 0) {
		return common.InvalidInput(op, "spot", "must be positive and finite, got %v", c.Spot)
	}
	if !(c.Strike > 0) || math.IsInf(c.Strike, 0) {
		return common.InvalidInput(op, "strike", "must be positive and finite, got %v", c.Strike)
	}
	if !(c.Expiry > 0) || math.IsInf(c.Expiry, 0) {
		return common.InvalidInput(op, "expiry", "must be positive and finite, got %v", c.Expiry)
	}
	if !(c.Dividend >= 0) || math.IsInf(c.Dividend, 0) {
		return common.InvalidInput(op, "dividend", "must be finite and not negative, got %v", c.Dividend)
	}
	if math.IsNaN(c.Rate) || math.IsInf(c.Rate, 0) {
		return common.InvalidInput(op, "rate", "must be finite, got %v", c.Rate)
	}
	return nil
}

// Price returns the option premium.
func (p *Pricer) Price(c Contract) (float64, error) {
	if err := c.Validate("options.Price"); err != nil {
		return 0, err
	}
	return p.price(c), nil
}

// Greeks prices the contract and computes its sensitivities.
func (p *Pricer) Greeks(c Contract) (Greeks, error) {
	if err := c.Validate("options.Greeks"); err != nil {
		return Greeks{}, err
	}

	S, K, T, r, q, sigma := c.Spot, c.Strike, c.Expiry, c.Rate, c.Dividend, c.Vol
	sqrtT := math.Sqrt(T)
	d1, d2 := p.d1d2(c)

	discQ := math.Exp(-q * T) // dividend discount
	discR := math.Exp(-r * T) // rate discount
	pdf1 := p.dist.PDF(d1)

	g := Greeks{D1: d1, D2: d2}
	g.Price = p.price(c)
	g.Gamma = discQ * pdf1 / (S * sigma * sqrtT)
	g.Vega = S * discQ * pdf1 * sqrtT / 100

	decay := -S * discQ * pdf1 * sigma / (2 * sqrtT)
	switch c.Kind {
	case CALL:
		g.Delta = discQ * p.dist.CDF(d1)
		g.Theta = (decay - r*K*discR*p.dist.CDF(d2) + q*S*discQ*p.dist.CDF(d1)) / 365
		g.Rho = K * T * discR * p.dist.CDF(d2) / 100
		g.Intrinsic = math.Max(S-K, 0)
		g.Breakeven = K + g.Price
	default:
		g.Delta = discQ * (p.dist.CDF(d1) - 1)
		g.Theta = (decay + r*K*discR*p.dist.CDF(-d2) - q*S*discQ*p.dist.CDF(-d1)) / 365
		g.Rho = -K * T * discR * p.dist.CDF(-d2) / 100
		g.Intrinsic = math.Max(K-S, 0)
		g.Breakeven = K - g.Price
	}
	g.TimeValue = g.Price - g.Intrinsic
	g.Moneyness = moneyness(c)

	return g, nil
}

// Vega returns dPrice/dSigma per 1.0 of volatility, i.e. 100 times Greeks.Vega.
func (p *Pricer) Vega(c Contract) (float64, error) {
	if err := c.Validate("options.Vega"); err != nil {
		return 0, err
	}
	return p.rawVega(c), nil
}

// rawVega is Vega without validation.
func (p *Pricer) rawVega(c Contract) float64 {
	d1, _ := p.d1d2(c)
	return c.Spot * math.Exp(-c.Dividend*c.Expiry) * p.dist.PDF(d1) * math.Sqrt(c.Expiry)
}

func (p *Pricer) price(c Contract) float64 {
	S, K, T, r, q := c.Spot, c.Strike, c.Expiry, c.Rate, c.Dividend
	d1, d2 := p.d1d2(c)

	if c.Kind == CALL {
		return S*math.Exp(-q*T)*p.dist.CDF(d1) - K*math.Exp(-r*T)*p.dist.CDF(d2)
	}
	return K*math.Exp(-r*T)*p.dist.CDF(-d2) - S*math.Exp(-q*T)*p.dist.CDF(-d1)
}

func (p *Pricer) d1d2(c Contract) (float64, float64) {
	volSqrtT := c.Vol * math.Sqrt(c.Expiry)
	d1 := (math.Log(c.Spot/c.Strike) + (c.Rate-c.Dividend+0.5*c.Vol*c.Vol)*c.Expiry) / volSqrtT
	return d1, d1 - volSqrtT
}

func moneyness(c Contract) Moneyness {
	switch {
	case c.Spot == c.Strike:
		return AtTheMoney
	case c.Kind == CALL && c.Spot > c.Strike, c.Kind == PUT && c.Spot < c.Strike:
		return InTheMoney
	default:
		return OutOfTheMoney
	}
}
