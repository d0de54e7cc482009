package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"frizo/quant_calc/common"
	"frizo/quant_calc/internal/cfd"
	"frizo/quant_calc/internal/engine"
	"frizo/quant_calc/internal/options"
	"frizo/quant_calc/internal/portfolio"
	"frizo/quant_calc/internal/volatility"
	"frizo/quant_calc/internal/yield"
)

// usageError is a problem with the command line rather than the calculation.
type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

type subcommand struct {
	name    string
	summary string
	parse   func(e *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error)
}

var subcommands = []subcommand{
	{"greeks", "Black-Scholes price and Greeks", parseGreeks},
	{"iv", "implied volatility from a market price", parseImpliedVol},
	{"hv", "historical volatility of a price series", parseHistorical},
	{"cfd", "CFD margin, costs and P&L", parseCFD},
	{"futures", "futures initial and maintenance margin", parseFutures},
	{"dca", "dollar-cost averaging simulation", parseDCA},
	{"staking", "staking rewards with price appreciation", parseStaking},
	{"savings", "compound interest with monthly contributions", parseSavings},
	{"portfolio", "ETF portfolio costs and returns", parsePortfolio},
}

func parseCommand(e *engine.Engine, name string, args []string) (engine.Command, error) {
	for _, s := range subcommands {
		if s.name == name {
			fs := flag.NewFlagSet(name, flag.ContinueOnError)
			fs.SetOutput(os.Stderr)
			cmd, err := s.parse(e, fs, args)
			if err != nil {
				return nil, &usageError{err: fmt.Errorf("%s: %w", name, err)}
			}
			return cmd, nil
		}
	}
	return nil, usageErrorf("unknown calculator %q", name)
}

// =====================================================
// options
// =====================================================

type contractFlags struct {
	kind     *string
	spot     *float64
	strike   *float64
	days     *float64
	rate     *float64
	dividend *float64
}

func bindContract(fs *flag.FlagSet) contractFlags {
	return contractFlags{
		kind:     fs.String("type", "call", "Option type (call, put)"),
		spot:     fs.Float64("spot", 100, "Underlying price"),
		strike:   fs.Float64("strike", 100, "Strike price"),
		days:     fs.Float64("days", 30, "Days to expiry"),
		rate:     fs.Float64("rate", 5, "Risk-free rate (%)"),
		dividend: fs.Float64("dividend", 0, "Dividend yield (%)"),
	}
}

func (f contractFlags) contract() (options.Contract, error) {
	kind, err := options.ParseKind(*f.kind)
	if err != nil {
		return options.Contract{}, err
	}
	return options.Contract{
		Spot:     *f.spot,
		Strike:   *f.strike,
		Expiry:   options.ExpiryFromDays(*f.days),
		Rate:     *f.rate / 100,
		Dividend: *f.dividend / 100,
		Kind:     kind,
	}, nil
}

func parseGreeks(_ *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	cf := bindContract(fs)
	vol := fs.Float64("vol", 25, "Volatility (%)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c, err := cf.contract()
	if err != nil {
		return nil, err
	}
	c.Vol = *vol / 100
	return &engine.GreeksCommand{Contract: c}, nil
}

func parseImpliedVol(_ *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	cf := bindContract(fs)
	price := fs.Float64("price", 0, "Observed option price")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	c, err := cf.contract()
	if err != nil {
		return nil, err
	}
	return &engine.ImpliedVolCommand{Contract: c, MarketPrice: *price}, nil
}

func parseHistorical(_ *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	prices := fs.String("prices", "", "Comma-separated prices, oldest first")
	interval := fs.String("interval", "daily", "Sampling interval (daily, weekly, monthly)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	series, err := parseFloats(*prices)
	if err != nil {
		return nil, err
	}
	iv, err := volatility.ParseInterval(*interval)
	if err != nil {
		return nil, err
	}
	return &engine.HistoricalCommand{Sample: volatility.Sample{Prices: series, Interval: iv}}, nil
}

// =====================================================
// cfd
// =====================================================

func parseCFD(e *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	class := fs.String("class", "forex", "Instrument class (forex, indices, commodities, stocks, crypto)")
	size := fs.Float64("size", 10000, "Position size (notional)")
	leverage := fs.Float64("leverage", 0, "Leverage, defaults to the instrument's")
	entry := fs.Float64("entry", 0, "Entry price")
	exit := fs.Float64("exit", 0, "Exit price")
	side := fs.String("side", "long", "Direction (long, short)")
	days := fs.Float64("days", 1, "Holding period in days")
	spread := fs.Float64("spread", 0, "Spread in pips/points, defaults to the instrument's")
	commission := fs.Float64("commission", 0, "Commission (% of notional)")
	swap := fs.Float64("swap", 0, "Annual swap rate (%), defaults to the instrument's")
	balance := fs.Float64("balance", 0, "Reference account balance, defaults to config")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	ic, err := cfd.ParseInstrumentClass(*class)
	if err != nil {
		return nil, err
	}
	dir, err := common.ParseDirection(*side)
	if err != nil {
		return nil, err
	}

	p := cfd.Position{
		Class:         ic,
		Notional:      *size,
		Leverage:      *leverage,
		Entry:         *entry,
		Exit:          *exit,
		Direction:     dir,
		HoldingDays:   *days,
		Spread:        *spread,
		CommissionPct: *commission,
		SwapPct:       *swap,
		Balance:       *balance,
	}

	set := setFlags(fs)
	if spec, ok := e.Instrument(ic); ok {
		if !set["leverage"] {
			p.Leverage = spec.DefaultLeverage
		}
		if !set["spread"] {
			p.Spread = spec.DefaultSpread
		}
		if !set["swap"] {
			p.SwapPct = spec.DefaultSwap
		}
	}
	return &engine.CFDCommand{Position: p}, nil
}

func parseFutures(_ *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	symbol := fs.String("contract", "ES", "Contract symbol ("+strings.Join(cfd.FuturesSymbols(), ", ")+")")
	price := fs.Float64("price", 4500, "Futures price")
	contracts := fs.Int("contracts", 1, "Number of contracts")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	if _, err := cfd.LookupFuturesContract(*symbol); err != nil {
		return nil, err
	}
	return &engine.FuturesCommand{Symbol: *symbol, Price: *price, Contracts: *contracts}, nil
}

// =====================================================
// yield
// =====================================================

func parseDCA(_ *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	budget := fs.Float64("budget", 500, "Investment per month")
	frequency := fs.String("frequency", "weekly", "Purchase frequency (daily, weekly, biweekly, monthly)")
	months := fs.Int("months", 12, "Time horizon in months")
	start := fs.Float64("start", 0, "Starting price")
	end := fs.Float64("end", 0, "Current price")
	vol := fs.Float64("volatility", 20, "Price volatility (%)")
	seed := fs.Uint64("seed", 0, "Noise seed, defaults to config")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	schedule, err := yield.ParseSchedule(*frequency)
	if err != nil {
		return nil, err
	}

	cmd := &engine.DCACommand{Plan: yield.DCAPlan{
		Budget:        *budget,
		Schedule:      schedule,
		Months:        *months,
		StartPrice:    *start,
		EndPrice:      *end,
		VolatilityPct: *vol,
	}}
	if setFlags(fs)["seed"] {
		cmd.Seed = seed
	}
	return cmd, nil
}

func parseStaking(_ *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	amount := fs.Float64("amount", 1000, "Amount staked")
	price := fs.Float64("price", 0, "Token price")
	apy := fs.Float64("apy", 5, "Staking APY (%)")
	fee := fs.Float64("fee", 0, "Validator fee (% of rewards)")
	frequency := fs.String("frequency", "daily", "Compounding frequency")
	months := fs.Int("months", 12, "Staking period in months")
	appreciation := fs.Float64("appreciation", 0, "Annual token price change (%)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	f, err := common.ParseFrequency(*frequency)
	if err != nil {
		return nil, err
	}
	return &engine.StakingCommand{Plan: yield.StakingPlan{
		Amount:          *amount,
		TokenPrice:      *price,
		APYPct:          *apy,
		FeePct:          *fee,
		Frequency:       f,
		Months:          *months,
		AppreciationPct: *appreciation,
	}}, nil
}

func parseSavings(_ *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	initial := fs.Float64("initial", 10000, "Initial amount")
	monthly := fs.Float64("monthly", 500, "Monthly contribution")
	rate := fs.Float64("rate", 7, "Annual interest rate (%)")
	frequency := fs.String("frequency", "monthly", "Compounding frequency")
	years := fs.Int("years", 10, "Time horizon in years")
	growth := fs.Float64("growth", 0, "Yearly contribution increase (%)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	f, err := common.ParseFrequency(*frequency)
	if err != nil {
		return nil, err
	}
	return &engine.SavingsCommand{Plan: yield.SavingsPlan{
		Initial:               *initial,
		Monthly:               *monthly,
		RatePct:               *rate,
		Frequency:             f,
		Years:                 *years,
		ContributionGrowthPct: *growth,
	}}, nil
}

// =====================================================
// portfolio
// =====================================================

// holdingsFlag collects repeated -holding label:weight:expense:return values.
type holdingsFlag []portfolio.Holding

func (h *holdingsFlag) String() string {
	parts := make([]string, 0, len(*h))
	for _, x := range *h {
		parts = append(parts, fmt.Sprintf("%s:%g:%g:%g", x.Label, x.Weight, x.ExpenseRatio, x.ExpectedReturn))
	}
	return strings.Join(parts, ",")
}

func (h *holdingsFlag) Set(value string) error {
	fields := strings.Split(value, ":")
	if len(fields) != 4 {
		return fmt.Errorf("holding %q: want label:weight:expense:return", value)
	}
	nums, err := parseFloats(strings.Join(fields[1:], ","))
	if err != nil {
		return fmt.Errorf("holding %q: %w", value, err)
	}
	*h = append(*h, portfolio.Holding{
		Label:          fields[0],
		Weight:         nums[0],
		ExpenseRatio:   nums[1],
		ExpectedReturn: nums[2],
	})
	return nil
}

func parsePortfolio(_ *engine.Engine, fs *flag.FlagSet, args []string) (engine.Command, error) {
	var holdings holdingsFlag
	fs.Var(&holdings, "holding", "Holding as label:weight:expense%:return%, repeatable")
	value := fs.Float64("value", 100000, "Portfolio value")
	rebalance := fs.String("rebalance", "quarterly", "Rebalance frequency (monthly, quarterly, semiannually, annually)")
	years := fs.Float64("years", 10, "Investment horizon in years")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	r, err := portfolio.ParseRebalance(*rebalance)
	if err != nil {
		return nil, err
	}
	return &engine.PortfolioCommand{
		Holdings:     holdings,
		Value:        *value,
		Rebalance:    r,
		HorizonYears: *years,
	}, nil
}

// =====================================================
// tool functions
// =====================================================

func parseFloats(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		if math.IsNaN(v) {
			return nil, fmt.Errorf("invalid number %q", p)
		}
		out = append(out, v)
	}
	return out, nil
}

func setFlags(fs *flag.FlagSet) map[string]bool {
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}
