package engine

import (
	"frizo/quant_calc/internal/cfd"
	"frizo/quant_calc/internal/common"
	"frizo/quant_calc/internal/export"
	"frizo/quant_calc/internal/options"
	"frizo/quant_calc/internal/portfolio"
	"frizo/quant_calc/internal/volatility"
	"frizo/quant_calc/internal/yield"
)

// Commands keep their typed result after a successful Run.

type GreeksCommand struct {
	Contract options.Contract
	Result   options.Greeks
}

func (c *GreeksCommand) Name() string { return export.GreeksCalculator }

func (c *GreeksCommand) Execute(e *Engine) (*export.Document, error) {
	g, err := e.pricer.Greeks(c.Contract)
	if err != nil {
		return nil, err
	}
	c.Result = g
	return export.Greeks(c.Contract, g), nil
}

// ImpliedVolCommand solves for volatility. A non-converged search is not
// an error: the document reports the estimate with its stop reason.
// Contract.Vol is ignored.
type ImpliedVolCommand struct {
	Contract    options.Contract
	MarketPrice float64
	Result      options.IVResult
}

func (c *ImpliedVolCommand) Name() string { return export.ImpliedVolCalculator }

func (c *ImpliedVolCommand) Execute(e *Engine) (*export.Document, error) {
	res, err := e.solver.Solve(c.MarketPrice, c.Contract)
	if err != nil {
		return nil, err
	}
	if !res.Converged {
		e.log.Warn("Implied volatility did not converge",
			"reason", res.Reason.String(),
			"iterations", res.Iterations,
			"estimate", res.Vol,
			"residual", res.Residual,
		)
	}
	c.Result = res

	contract := c.Contract
	contract.Vol = res.Vol
	return export.ImpliedVol(contract, c.MarketPrice, res), nil
}

type HistoricalCommand struct {
	Sample volatility.Sample
	Result volatility.Estimate
}

func (c *HistoricalCommand) Name() string { return export.HistoricalCalculator }

func (c *HistoricalCommand) Execute(e *Engine) (*export.Document, error) {
	est, err := volatility.Historical(c.Sample)
	if err != nil {
		return nil, err
	}
	c.Result = est
	return export.Historical(c.Sample, est), nil
}

type CFDCommand struct {
	Position cfd.Position
	Result   cfd.Result
}

func (c *CFDCommand) Name() string { return export.CFDCalculator }

func (c *CFDCommand) Execute(e *Engine) (*export.Document, error) {
	res, err := e.cfd.Calculate(c.Position)
	if err != nil {
		return nil, err
	}
	c.Result = res
	return export.CFD(c.Position, res), nil
}

// FuturesCommand looks Symbol up in the built-in contract table.
type FuturesCommand struct {
	Symbol    string
	Price     float64
	Contracts int
	Result    cfd.FuturesMarginResult
}

func (c *FuturesCommand) Name() string { return export.FuturesCalculator }

func (c *FuturesCommand) Execute(e *Engine) (*export.Document, error) {
	contract, err := cfd.LookupFuturesContract(c.Symbol)
	if err != nil {
		return nil, common.InvalidInput("cfd.FuturesMargin", "symbol", "%v", err)
	}
	res, err := cfd.FuturesMargin(contract, c.Price, c.Contracts)
	if err != nil {
		return nil, err
	}
	c.Result = res
	return export.Futures(contract, c.Price, c.Contracts, res), nil
}

// DCACommand simulates with a generator of its own. A nil Seed uses the
// configured default.
type DCACommand struct {
	Plan   yield.DCAPlan
	Seed   *uint64
	Result yield.DCAResult
}

func (c *DCACommand) Name() string { return export.DCACalculator }

func (c *DCACommand) Execute(e *Engine) (*export.Document, error) {
	seed := e.cfg.NoiseSeed
	if c.Seed != nil {
		seed = *c.Seed
	}
	e.log.Debug("Simulating DCA", "seed", seed, "schedule", c.Plan.Schedule.String())

	res, err := yield.SimulateDCA(c.Plan, yield.NewSeededNoise(seed))
	if err != nil {
		return nil, err
	}
	c.Result = res
	return export.DCA(c.Plan, res), nil
}

type StakingCommand struct {
	Plan   yield.StakingPlan
	Result yield.StakingResult
}

func (c *StakingCommand) Name() string { return export.StakingCalculator }

func (c *StakingCommand) Execute(e *Engine) (*export.Document, error) {
	res, err := yield.Stake(c.Plan)
	if err != nil {
		return nil, err
	}
	c.Result = res
	return export.Staking(c.Plan, res), nil
}

type SavingsCommand struct {
	Plan   yield.SavingsPlan
	Result yield.SavingsResult
}

func (c *SavingsCommand) Name() string { return export.SavingsCalculator }

func (c *SavingsCommand) Execute(e *Engine) (*export.Document, error) {
	res, err := yield.Grow(c.Plan)
	if err != nil {
		return nil, err
	}
	c.Result = res
	return export.Savings(c.Plan, res), nil
}

// PortfolioCommand prices Rebalance from the engine's schedule table
// unless Schedule is set.
type PortfolioCommand struct {
	Holdings     []portfolio.Holding
	Value        float64
	Rebalance    portfolio.Rebalance
	Schedule     *portfolio.Schedule
	HorizonYears float64
	Result       portfolio.Result
}

func (c *PortfolioCommand) Name() string { return export.PortfolioCalculator }

func (c *PortfolioCommand) Execute(e *Engine) (*export.Document, error) {
	in := portfolio.Input{
		Holdings:     c.Holdings,
		Value:        c.Value,
		HorizonYears: c.HorizonYears,
	}
	if c.Schedule != nil {
		in.Rebalancing = *c.Schedule
	} else {
		s, ok := e.Schedule(c.Rebalance)
		if !ok {
			return nil, common.InvalidInput("portfolio.Aggregate", "rebalance", "unknown frequency %d", int(c.Rebalance))
		}
		in.Rebalancing = s
	}

	res, err := portfolio.Aggregate(in)
	if err != nil {
		return nil, err
	}
	c.Result = res
	return export.Portfolio(in, res), nil
}
