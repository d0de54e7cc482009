package engine

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frizo/quant_calc/common"
	"frizo/quant_calc/internal/cfd"
	icommon "frizo/quant_calc/internal/common"
	"frizo/quant_calc/internal/config"
	"frizo/quant_calc/internal/logger"
	"frizo/quant_calc/internal/options"
	"frizo/quant_calc/internal/portfolio"
	"frizo/quant_calc/internal/volatility"
	"frizo/quant_calc/internal/yield"
)

// Test helpers
func newTestEngine(t *testing.T, cfg *config.Config) *Engine {
	t.Helper()
	e, err := New(cfg, logger.Discard())
	require.NoError(t, err)
	return e
}

func atmContract() options.Contract {
	return options.Contract{Spot: 100, Strike: 100, Expiry: 30.0 / 365, Vol: 0.25, Rate: 0.05, Kind: options.CALL}
}

func ptr[T any](v T) *T { return &v }

func TestNew(t *testing.T) {
	e := newTestEngine(t, nil)
	assert.Equal(t, "quantcalc", e.Name())
	assert.NotEmpty(t, e.Version())

	spec, ok := e.Instrument(cfd.Forex)
	require.True(t, ok)
	assert.Equal(t, 100.0, spec.DefaultLeverage)

	s, ok := e.Schedule(portfolio.RebalanceQuarterly)
	require.True(t, ok)
	assert.Equal(t, 4.0, s.PerYear)
}

func TestNewWithOverrides(t *testing.T) {
	cfg := config.Default()
	cfg.Instruments = map[string]config.InstrumentOverride{
		"indices": {PipSize: ptr(0.1), DefaultLeverage: ptr(50.0)},
	}
	cfg.Rebalance = map[string]config.RebalanceOverride{
		"monthly": {CostPct: ptr(0.5)},
	}
	e := newTestEngine(t, cfg)

	spec, _ := e.Instrument(cfd.Indices)
	assert.True(t, spec.PipSize.Equal(decimal.RequireFromString("0.1")))
	assert.Equal(t, 50.0, spec.DefaultLeverage)
	assert.Equal(t, "Stock Indices", spec.Name)

	s, _ := e.Schedule(portfolio.RebalanceMonthly)
	assert.Equal(t, 12.0, s.PerYear)
	assert.Equal(t, 0.5, s.CostPct)

	t.Run("UnknownClass", func(t *testing.T) {
		cfg := config.Default()
		cfg.Instruments = map[string]config.InstrumentOverride{"bonds": {}}
		_, err := New(cfg, logger.Discard())
		assert.Error(t, err)
	})

	t.Run("UnknownRebalance", func(t *testing.T) {
		cfg := config.Default()
		cfg.Rebalance = map[string]config.RebalanceOverride{"hourly": {}}
		_, err := New(cfg, logger.Discard())
		assert.Error(t, err)
	})

	t.Run("NonFinitePipSize", func(t *testing.T) {
		cfg := config.Default()
		cfg.Instruments = map[string]config.InstrumentOverride{"forex": {PipSize: ptr(math.NaN())}}
		require.NotPanics(t, func() {
			_, err := New(cfg, logger.Discard())
			assert.Error(t, err)
		})
	})

	t.Run("NonFiniteRebalanceCost", func(t *testing.T) {
		cfg := config.Default()
		cfg.Rebalance = map[string]config.RebalanceOverride{"monthly": {CostPct: ptr(math.Inf(1))}}
		_, err := New(cfg, logger.Discard())
		assert.Error(t, err)
	})
}

func TestRunGreeks(t *testing.T) {
	e := newTestEngine(t, nil)
	cmd := &GreeksCommand{Contract: atmContract()}

	doc, err := e.Run(cmd)
	require.NoError(t, err)
	assert.Equal(t, "greeks", doc.Calculator)
	assert.InDelta(t, 3.06, cmd.Result.Price, 0.01)

	v, ok := doc.Results.Get("Option Price")
	require.True(t, ok)
	assert.Equal(t, "$3.06", v)
}

func TestRunImpliedVol(t *testing.T) {
	e := newTestEngine(t, nil)

	c := atmContract()
	price, err := options.Price(c)
	require.NoError(t, err)

	cmd := &ImpliedVolCommand{Contract: c, MarketPrice: price}
	doc, err := e.Run(cmd)
	require.NoError(t, err)
	assert.True(t, cmd.Result.Converged)
	assert.InDelta(t, 0.25, cmd.Result.Vol, 0.001)

	v, _ := doc.Results.Get("Converged")
	assert.Equal(t, "true", v)

	t.Run("NotConvergedIsReported", func(t *testing.T) {
		var buf bytes.Buffer
		e, err := New(nil, logger.NewWithWriter("warn", "json", &buf))
		require.NoError(t, err)

		// above the call's upper bound of S
		cmd := &ImpliedVolCommand{Contract: c, MarketPrice: 150}
		doc, err := e.Run(cmd)
		require.NoError(t, err)
		assert.False(t, cmd.Result.Converged)
		assert.ErrorIs(t, cmd.Result.Err(), icommon.ErrNonConvergence)

		v, _ := doc.Results.Get("Converged")
		assert.Equal(t, "false", v)
		assert.Contains(t, buf.String(), "did not converge")
	})
}

func TestRunHistorical(t *testing.T) {
	e := newTestEngine(t, nil)
	cmd := &HistoricalCommand{Sample: volatility.Sample{
		Prices:   []float64{100, 102, 98, 105, 103, 99, 101, 104, 106, 102},
		Interval: volatility.Daily,
	}}

	doc, err := e.Run(cmd)
	require.NoError(t, err)
	assert.InDelta(t, 60.83017155, cmd.Result.Annualized, 1e-6)
	assert.Len(t, doc.Breakdown, 9)
}

func TestRunCFD(t *testing.T) {
	cfg := config.Default()
	cfg.AccountBalance = 5000
	e := newTestEngine(t, cfg)

	cmd := &CFDCommand{Position: cfd.Position{
		Class: cfd.Forex, Notional: 10000, Leverage: 100, Entry: 1.2, Exit: 1.205,
		Direction: common.LONG, HoldingDays: 5, Spread: 1.5, SwapPct: -2.5,
	}}
	_, err := e.Run(cmd)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, cmd.Result.GrossPnL.InexactFloat64(), 1e-9)
	assert.InDelta(t, 2.0, cmd.Result.MarginUsage.InexactFloat64(), 1e-12)
}

func TestRunFutures(t *testing.T) {
	e := newTestEngine(t, nil)

	cmd := &FuturesCommand{Symbol: "cl", Price: 80, Contracts: 2}
	doc, err := e.Run(cmd)
	require.NoError(t, err)
	assert.Equal(t, "futures_margin", doc.Calculator)
	assert.True(t, cmd.Result.InitialMargin.Equal(decimal.NewFromInt(9600)), cmd.Result.InitialMargin.String())
	assert.True(t, cmd.Result.MaintenanceMargin.Equal(decimal.NewFromInt(8000)), cmd.Result.MaintenanceMargin.String())

	_, err = e.Run(&FuturesCommand{Symbol: "XX", Price: 80, Contracts: 1})
	assert.True(t, errors.Is(err, icommon.ErrInvalidInput))

	_, err = e.Run(&FuturesCommand{Symbol: "CL", Price: math.Inf(1), Contracts: 1})
	assert.True(t, errors.Is(err, icommon.ErrInvalidInput))
}

func TestRunDCA(t *testing.T) {
	cfg := config.Default()
	cfg.NoiseSeed = 11
	e := newTestEngine(t, cfg)

	plan := yield.DCAPlan{Budget: 200, Schedule: yield.WeeklyBuys, Months: 6, StartPrice: 100, EndPrice: 80, VolatilityPct: 10}

	byConfig := &DCACommand{Plan: plan}
	_, err := e.Run(byConfig)
	require.NoError(t, err)

	explicit := &DCACommand{Plan: plan, Seed: ptr(uint64(11))}
	_, err = e.Run(explicit)
	require.NoError(t, err)
	assert.Equal(t, byConfig.Result, explicit.Result)

	direct, err := yield.SimulateDCA(plan, yield.NewSeededNoise(11))
	require.NoError(t, err)
	assert.Equal(t, direct, explicit.Result)
}

func TestRunStakingAndSavings(t *testing.T) {
	e := newTestEngine(t, nil)

	stake := &StakingCommand{Plan: yield.StakingPlan{
		Amount: 1000, TokenPrice: 10, APYPct: 10, FeePct: 20, Frequency: common.Annually, Months: 12, AppreciationPct: 5,
	}}
	_, err := e.Run(stake)
	require.NoError(t, err)
	assert.InDelta(t, 1134.0, stake.Result.TotalValue, 1e-9)

	save := &SavingsCommand{Plan: yield.SavingsPlan{Initial: 1000, RatePct: 5, Frequency: common.Annually, Years: 1}}
	doc, err := e.Run(save)
	require.NoError(t, err)
	v, _ := doc.Results.Get("Final Amount")
	assert.Equal(t, "$1,050.00", v)
}

func TestRunPortfolio(t *testing.T) {
	holdings := []portfolio.Holding{
		{Label: "VTI", Weight: 60, ExpenseRatio: 0.03, ExpectedReturn: 10},
		{Label: "BND", Weight: 40, ExpenseRatio: 0.05, ExpectedReturn: 4},
	}

	t.Run("FromTable", func(t *testing.T) {
		e := newTestEngine(t, nil)
		cmd := &PortfolioCommand{Holdings: holdings, Value: 100000, Rebalance: portfolio.RebalanceQuarterly, HorizonYears: 10}
		_, err := e.Run(cmd)
		require.NoError(t, err)
		assert.InDelta(t, 2000.0, cmd.Result.RebalancingCost, 1e-9)
	})

	t.Run("ExplicitSchedule", func(t *testing.T) {
		e := newTestEngine(t, nil)
		cmd := &PortfolioCommand{
			Holdings: holdings, Value: 100000, HorizonYears: 10,
			Schedule: &portfolio.Schedule{PerYear: 1, CostPct: 1},
		}
		_, err := e.Run(cmd)
		require.NoError(t, err)
		assert.InDelta(t, 10000.0, cmd.Result.RebalancingCost, 1e-9)
	})

	t.Run("UnknownRebalance", func(t *testing.T) {
		e := newTestEngine(t, nil)
		cmd := &PortfolioCommand{Holdings: holdings, Value: 1000, Rebalance: portfolio.Rebalance(9), HorizonYears: 1}
		_, err := e.Run(cmd)
		assert.ErrorIs(t, err, icommon.ErrInvalidInput)
	})
}

func TestRunWrapsErrors(t *testing.T) {
	e := newTestEngine(t, nil)

	c := atmContract()
	c.Spot = -1
	_, err := e.Run(&GreeksCommand{Contract: c})
	require.Error(t, err)
	assert.True(t, errors.Is(err, icommon.ErrInvalidInput))
	assert.Contains(t, err.Error(), "greeks: options.Greeks: invalid input: spot")

	var calcErr *icommon.CalcError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, "spot", calcErr.Field)
}

func TestExport(t *testing.T) {
	t.Run("Disabled", func(t *testing.T) {
		e := newTestEngine(t, nil)
		doc, err := e.Run(&GreeksCommand{Contract: atmContract()})
		require.NoError(t, err)

		path, err := e.Export(doc)
		require.NoError(t, err)
		assert.Empty(t, path)
	})

	t.Run("Enabled", func(t *testing.T) {
		cfg := config.Default()
		cfg.OutputDir = t.TempDir()
		e := newTestEngine(t, cfg)

		doc, err := e.Run(&GreeksCommand{Contract: atmContract()})
		require.NoError(t, err)

		path, err := e.Export(doc)
		require.NoError(t, err)

		data, err := os.ReadFile(path)
		require.NoError(t, err)
		var decoded map[string]interface{}
		require.NoError(t, json.Unmarshal(data, &decoded))
		assert.Equal(t, doc.ID, decoded["id"])
	})
}

func TestConcurrentRuns(t *testing.T) {
	e := newTestEngine(t, nil)
	plan := yield.DCAPlan{Budget: 100, Schedule: yield.DailyBuys, Months: 3, StartPrice: 50, EndPrice: 60, VolatilityPct: 20}

	want, err := yield.SimulateDCA(plan, yield.NewSeededNoise(3))
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			cmd := &DCACommand{Plan: plan, Seed: ptr(uint64(3))}
			if _, err := e.Run(cmd); assert.NoError(t, err) {
				assert.Equal(t, want.TotalCoins, cmd.Result.TotalCoins)
			}
			_, err := e.Run(&GreeksCommand{Contract: atmContract()})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()
}
