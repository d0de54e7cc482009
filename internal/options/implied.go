package options

import (
	"math"

	"frizo/quant_calc/internal/common"
)

// StopReason tells why the implied volatility iteration ended.
type StopReason int

const (
	Converged StopReason = iota
	MaxIterations
	ZeroVega
)

func (r StopReason) String() string {
	switch r {
	case Converged:
		return "converged"
	case MaxIterations:
		return "max_iterations"
	case ZeroVega:
		return "zero_vega"
	default:
		return "unknown"
	}
}

// IVResult is the outcome of an implied volatility search. When Converged
// is false, Vol is the best available estimate, not a solution.
type IVResult struct {
	Vol        float64    `json:"vol"`
	Iterations int        `json:"iterations"`
	Converged  bool       `json:"converged"`
	Reason     StopReason `json:"reason"`
	Residual   float64    `json:"residual"` // model price minus market price at the last evaluation
}

// Err returns nil for a converged result and an ErrNonConvergence error otherwise.
func (r IVResult) Err() error {
	if r.Converged {
		return nil
	}
	return common.NonConvergence("options.Solve", "%s after %d iterations, estimate %.6f, residual %.6g",
		r.Reason, r.Iterations, r.Vol, r.Residual)
}

// Solver inverts Black-Scholes for volatility with Newton-Raphson.
type Solver struct {
	Pricer        *Pricer
	InitialGuess  float64
	Tolerance     float64
	MaxIterations int
	Floor         float64 // replaces a non-positive iterate
}

// DefaultSolver starts at 20% vol and stops within 1e-4 of the market price or after 100 iterations.
func DefaultSolver() *Solver {
	return &Solver{
		Pricer:        defaultPricer,
		InitialGuess:  0.20,
		Tolerance:     1e-4,
		MaxIterations: 100,
		Floor:         0.01,
	}
}

// Solve finds the volatility at which the model price of c matches
// marketPrice. c.Vol is ignored.
func (s *Solver) Solve(marketPrice float64, c Contract) (IVResult, error) {
	const op = "options.Solve"
	if err := c.validateWithoutVol(op); err != nil {
		return IVResult{}, err
	}
	if !(marketPrice > 0) || math.IsInf(marketPrice, 0) {
		return IVResult{}, common.InvalidInput(op, "market_price", "must be positive and finite, got %v", marketPrice)
	}

	cfg := s.withDefaults()
	pricer := cfg.Pricer

	sigma := cfg.InitialGuess
	for i := 1; i <= cfg.MaxIterations; i++ {
		c.Vol = sigma
		diff := pricer.price(c) - marketPrice
		if math.Abs(diff) < cfg.Tolerance {
			return IVResult{Vol: sigma, Iterations: i, Converged: true, Reason: Converged, Residual: diff}, nil
		}

		vega := pricer.rawVega(c)
		if vega == 0 {
			return IVResult{Vol: sigma, Iterations: i, Reason: ZeroVega, Residual: diff}, nil
		}

		sigma -= diff / vega
		if !(sigma > 0) || math.IsInf(sigma, 0) {
			sigma = cfg.Floor
		}
	}

	// Residual is measured at the returned estimate, not the previous iterate.
	c.Vol = sigma
	return IVResult{
		Vol:        sigma,
		Iterations: cfg.MaxIterations,
		Reason:     MaxIterations,
		Residual:   pricer.price(c) - marketPrice,
	}, nil
}

// withDefaults fills unset or invalid fields from DefaultSolver, so a zero
// Solver behaves like the default one.
func (s *Solver) withDefaults() Solver {
	d := DefaultSolver()
	cfg := *s
	if cfg.Pricer == nil {
		cfg.Pricer = d.Pricer
	}
	if !(cfg.InitialGuess > 0) || math.IsInf(cfg.InitialGuess, 0) {
		cfg.InitialGuess = d.InitialGuess
	}
	if !(cfg.Tolerance > 0) || math.IsInf(cfg.Tolerance, 0) {
		cfg.Tolerance = d.Tolerance
	}
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = d.MaxIterations
	}
	if !(cfg.Floor > 0) || math.IsInf(cfg.Floor, 0) {
		cfg.Floor = d.Floor
	}
	return cfg
}

// ImpliedVol solves with DefaultSolver.
func ImpliedVol(marketPrice float64, c Contract) (IVResult, error) {
	return DefaultSolver().Solve(marketPrice, c)
}
