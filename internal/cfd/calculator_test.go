package cfd

import (
	"errors"
	"math"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"frizo/quant_calc/common"
	icommon "frizo/quant_calc/internal/common"
)

// Test helpers
func forexPosition(side common.Direction) Position {
	return Position{
		Class:       Forex,
		Notional:    10000,
		Leverage:    100,
		Entry:       1.2000,
		Exit:        1.2050,
		Direction:   side,
		HoldingDays: 5,
		Spread:      1.5,
		SwapPct:     -2.5,
	}
}

func f(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

func TestCalculateForex(t *testing.T) {
	calc := NewCalculator(nil)

	t.Run("Long", func(t *testing.T) {
		res, err := calc.Calculate(forexPosition(common.LONG))
		require.NoError(t, err)

		assert.Equal(t, "Forex", res.Instrument)
		assert.InDelta(t, 100.0, f(res.RequiredMargin), 1e-12) // 10000 / 100
		assert.InDelta(t, 50.0, f(res.Pips), 1e-9)
		assert.InDelta(t, 50.0, f(res.GrossPnL), 1e-9)
		assert.InDelta(t, 1.5, f(res.SpreadCost), 1e-12)
		assert.True(t, res.CommissionCost.IsZero())
		assert.InDelta(t, -0.025/365*5*100, f(res.SwapCost), 1e-12)
		assert.InDelta(t, 1.5+0.025/365*5*100, f(res.TotalCosts), 1e-12)
		assert.InDelta(t, 50-1.5-0.025/365*5*100, f(res.NetPnL), 1e-9)
		assert.InDelta(t, f(res.NetPnL), f(res.ReturnOnMargin), 1e-9) // margin is 100
		assert.InDelta(t, 1.0, f(res.MarginUsage), 1e-12)
		assert.InDelta(t, 1.194, f(res.LiquidationPrice), 1e-9)
	})

	t.Run("Short", func(t *testing.T) {
		res, err := calc.Calculate(forexPosition(common.SHORT))
		require.NoError(t, err)

		assert.InDelta(t, -50.0, f(res.GrossPnL), 1e-9)
		assert.InDelta(t, 1.206, f(res.LiquidationPrice), 1e-9)
	})

	t.Run("SignConsistency", func(t *testing.T) {
		long, err := calc.Calculate(forexPosition(common.LONG))
		require.NoError(t, err)
		short, err := calc.Calculate(forexPosition(common.SHORT))
		require.NoError(t, err)

		assert.True(t, long.GrossPnL.Neg().Equal(short.GrossPnL))
		assert.True(t, long.TotalCosts.Equal(short.TotalCosts))
		assert.True(t, long.NetPnL.Add(long.TotalCosts).Equal(long.GrossPnL))
	})
}

func TestCalculateCosts(t *testing.T) {
	calc := NewCalculator(&CalculatorConfig{AccountBalance: 50000})

	p := Position{
		Class:         Indices,
		Notional:      20000,
		Leverage:      20,
		Entry:         4000,
		Exit:          4010,
		Direction:     common.LONG,
		HoldingDays:   10,
		Spread:        0.5,
		CommissionPct: 0.1,
		SwapPct:       3.65,
	}
	res, err := calc.Calculate(p)
	require.NoError(t, err)

	assert.InDelta(t, 1000.0, f(res.RequiredMargin), 1e-9)
	assert.InDelta(t, 20.0, f(res.GrossPnL), 1e-9) // 10 points * 1 * 2 lots
	assert.InDelta(t, 1.0, f(res.SpreadCost), 1e-9)
	assert.InDelta(t, 20.0, f(res.CommissionCost), 1e-9)
	assert.InDelta(t, 1.0, f(res.SwapCost), 1e-9) // 3.65% / 365 * 10 * 1000
	assert.InDelta(t, 22.0, f(res.TotalCosts), 1e-9)
	assert.InDelta(t, -2.0, f(res.NetPnL), 1e-9)
	assert.InDelta(t, -0.2, f(res.ReturnOnMargin), 1e-9)
	assert.InDelta(t, 2.0, f(res.MarginUsage), 1e-9)
}

func TestCalculateBalanceOverride(t *testing.T) {
	calc := NewCalculator(nil)

	p := forexPosition(common.LONG)
	p.Balance = 1000
	res, err := calc.Calculate(p)
	require.NoError(t, err)
	assert.InDelta(t, 10.0, f(res.MarginUsage), 1e-12)
}

func TestLiquidationPrice(t *testing.T) {
	calc := NewCalculator(nil)

	t.Run("NoBuffer", func(t *testing.T) {
		// 2x crypto: margin 50% of notional, maintenance 25%
		p := Position{Class: Crypto, Notional: 1000, Leverage: 4, Entry: 100, Exit: 100, Direction: common.LONG}
		res, err := calc.Calculate(p)
		require.NoError(t, err)
		assert.True(t, res.LiquidationPrice.Equal(decimal.NewFromInt(100)))
	})

	t.Run("ClampedAtZero", func(t *testing.T) {
		spec := InstrumentSpec{
			Name:            "Unlevered",
			PipSize:         decimal.NewFromInt(1),
			PipValue:        decimal.NewFromInt(1),
			MaintenanceRate: decimal.Zero,
		}
		p := Position{Class: Stocks, Spec: &spec, Notional: 1000, Leverage: 1, Entry: 50, Exit: 55, Direction: common.LONG}
		res, err := calc.Calculate(p)
		require.NoError(t, err)
		assert.True(t, res.LiquidationPrice.IsZero())
	})
}

func TestCalculateInvalid(t *testing.T) {
	calc := NewCalculator(nil)

	tests := []struct {
		name   string
		mutate func(p *Position)
	}{
		{"ZeroNotional", func(p *Position) { p.Notional = 0 }},
		{"LeverageBelowOne", func(p *Position) { p.Leverage = 0.5 }},
		{"ZeroEntry", func(p *Position) { p.Entry = 0 }},
		{"NegativeExit", func(p *Position) { p.Exit = -1 }},
		{"NegativeDays", func(p *Position) { p.HoldingDays = -1 }},
		{"NegativeSpread", func(p *Position) { p.Spread = -0.1 }},
		{"NegativeCommission", func(p *Position) { p.CommissionPct = -1 }},
		{"NoDirection", func(p *Position) { p.Direction = 0 }},
		{"UnknownClass", func(p *Position) { p.Class = InstrumentClass(42) }},
		{"InfNotional", func(p *Position) { p.Notional = math.Inf(1) }},
		{"InfLeverage", func(p *Position) { p.Leverage = math.Inf(1) }},
		{"InfEntry", func(p *Position) { p.Entry = math.Inf(1) }},
		{"InfExit", func(p *Position) { p.Exit = math.Inf(1) }},
		{"NaNExit", func(p *Position) { p.Exit = math.NaN() }},
		{"InfDays", func(p *Position) { p.HoldingDays = math.Inf(1) }},
		{"InfSpread", func(p *Position) { p.Spread = math.Inf(1) }},
		{"InfCommission", func(p *Position) { p.CommissionPct = math.Inf(1) }},
		{"NegInfSwap", func(p *Position) { p.SwapPct = math.Inf(-1) }},
		{"InfBalance", func(p *Position) { p.Balance = math.Inf(1) }},
		{"NaNBalance", func(p *Position) { p.Balance = math.NaN() }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := forexPosition(common.LONG)
			tt.mutate(&p)
			var err error
			require.NotPanics(t, func() { _, err = calc.Calculate(p) })
			require.Error(t, err)
			assert.True(t, errors.Is(err, icommon.ErrInvalidInput))
		})
	}
}

func TestCalculateDegenerate(t *testing.T) {
	t.Run("ZeroPipSize", func(t *testing.T) {
		calc := NewCalculator(nil)
		spec := DefaultInstruments()[Forex]
		spec.PipSize = decimal.Zero
		calc.SetInstrument(Forex, spec)

		_, err := calc.Calculate(forexPosition(common.LONG))
		assert.ErrorIs(t, err, icommon.ErrNumericDegenerate)
	})

	t.Run("ZeroBalance", func(t *testing.T) {
		calc := NewCalculator(&CalculatorConfig{AccountBalance: 0})
		_, err := calc.Calculate(forexPosition(common.LONG))
		assert.ErrorIs(t, err, icommon.ErrNumericDegenerate)
	})
}

func TestInstrumentOverrides(t *testing.T) {
	custom := DefaultInstruments()[Indices]
	custom.PipSize = decimal.RequireFromString("0.1")

	calc := NewCalculator(&CalculatorConfig{
		AccountBalance: 10000,
		Instruments:    map[InstrumentClass]InstrumentSpec{Indices: custom},
	})

	spec, ok := calc.Instrument(Indices)
	require.True(t, ok)
	assert.True(t, spec.PipSize.Equal(decimal.RequireFromString("0.1")))

	// other classes keep their defaults
	fx, ok := calc.Instrument(Forex)
	require.True(t, ok)
	assert.True(t, fx.PipSize.Equal(decimal.RequireFromString("0.0001")))

	// overrides must not leak into the shared defaults
	assert.True(t, DefaultInstruments()[Indices].PipSize.Equal(decimal.NewFromInt(1)))
}

func TestConcurrentCalculate(t *testing.T) {
	calc := NewCalculator(nil)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if i%5 == 0 {
				calc.SetInstrument(Forex, DefaultInstruments()[Forex])
			}
			_, err := calc.Calculate(forexPosition(common.LONG))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()
}

func TestParseInstrumentClass(t *testing.T) {
	for _, c := range []InstrumentClass{Forex, Indices, Commodities, Stocks, Crypto} {
		got, err := ParseInstrumentClass(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
	_, err := ParseInstrumentClass("bonds")
	assert.Error(t, err)
}

func BenchmarkCalculate(b *testing.B) {
	calc := NewCalculator(nil)
	p := forexPosition(common.LONG)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = calc.Calculate(p)
	}
}
