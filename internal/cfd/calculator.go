// Package cfd prices the margin, costs and P&L of leveraged
// contract-for-difference positions.
package cfd

import (
	"math"
	"sync"

	"github.com/shopspring/decimal"

	"frizo/quant_calc/common"
	icommon "frizo/quant_calc/internal/common"
)

var (
	hundred     = decimal.NewFromInt(100)
	lotDivisor  = decimal.NewFromInt(10000) // pip values are quoted per 10,000 notional
	daysPerYear = decimal.NewFromInt(365)
)

// CalculatorConfig
type CalculatorConfig struct {
	AccountBalance float64 // reference balance for margin utilization
	Instruments    map[InstrumentClass]InstrumentSpec
}

// Calculator Main type
type Calculator struct {
	instruments    map[InstrumentClass]InstrumentSpec
	accountBalance float64

	mu sync.RWMutex
}

// NewCalculator
func NewCalculator(config *CalculatorConfig) *Calculator {
	if config == nil {
		config = &CalculatorConfig{AccountBalance: 10000}
	}
	instruments := DefaultInstruments()
	for class, spec := range config.Instruments {
		instruments[class] = spec
	}
	return &Calculator{
		instruments:    instruments,
		accountBalance: config.AccountBalance,
	}
}

// SetInstrument replaces the spec for one class.
func (c *Calculator) SetInstrument(class InstrumentClass, spec InstrumentSpec) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.instruments[class] = spec
}

// Instrument returns the spec for class.
func (c *Calculator) Instrument(class InstrumentClass) (InstrumentSpec, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	spec, ok := c.instruments[class]
	return spec, ok
}

// =====================================================
// Calculate
// =====================================================

// Calculate returns the margin, costs and P&L of p.
func (c *Calculator) Calculate(p Position) (Result, error) {
	const op = "cfd.Calculate"

	if err := validate(op, p); err != nil {
		return Result{}, err
	}

	spec, err := c.resolveSpec(op, p)
	if err != nil {
		return Result{}, err
	}
	if spec.PipSize.IsZero() {
		return Result{}, icommon.Degenerate(op, "pip size of %s is zero", spec.Name)
	}

	balance := p.Balance
	if balance == 0 {
		balance = c.accountBalance
	}
	if !(balance > 0) {
		return Result{}, icommon.Degenerate(op, "reference account balance is %v", balance)
	}

	notional := decimal.NewFromFloat(p.Notional)
	entry := decimal.NewFromFloat(p.Entry)
	exit := decimal.NewFromFloat(p.Exit)
	direction := decimal.NewFromFloat(p.Direction.Sign())
	lots := notional.Div(lotDivisor)

	res := Result{Instrument: spec.Name}

	// margin = notional / leverage
	res.RequiredMargin = notional.Div(decimal.NewFromFloat(p.Leverage))

	// gross = direction * (exit - entry) / pipSize * pipValue * lots
	res.Pips = exit.Sub(entry).Mul(direction).Div(spec.PipSize)
	res.GrossPnL = res.Pips.Mul(spec.PipValue).Mul(lots)

	// costs
	res.SpreadCost = decimal.NewFromFloat(p.Spread).Mul(spec.PipValue).Mul(lots)
	res.CommissionCost = decimal.NewFromFloat(p.CommissionPct).Div(hundred).Mul(notional)
	res.SwapCost = decimal.NewFromFloat(p.SwapPct).Div(hundred).Div(daysPerYear).
		Mul(decimal.NewFromFloat(p.HoldingDays)).Mul(res.RequiredMargin)
	res.TotalCosts = res.SpreadCost.Add(res.CommissionCost).Add(res.SwapCost.Abs())

	res.NetPnL = res.GrossPnL.Sub(res.TotalCosts)
	res.ReturnOnMargin = res.NetPnL.Div(res.RequiredMargin).Mul(hundred)
	res.MarginUsage = res.RequiredMargin.Div(decimal.NewFromFloat(balance)).Mul(hundred)

	res.LiquidationPrice = liquidationPrice(entry, notional, res.RequiredMargin, spec.MaintenanceRate, p.Direction)

	return res, nil
}

// =====================================================
// tool methods
// =====================================================

func (c *Calculator) resolveSpec(op string, p Position) (InstrumentSpec, error) {
	if p.Spec != nil {
		return *p.Spec, nil
	}
	spec, ok := c.Instrument(p.Class)
	if !ok {
		return InstrumentSpec{}, icommon.InvalidInput(op, "class", "no instrument spec for %s", p.Class)
	}
	return spec, nil
}

func validate(op string, p Position) error {
	switch {
	case !(p.Notional > 0) || !finite(p.Notional):
		return icommon.InvalidInput(op, "notional", "must be positive and finite, got %v", p.Notional)
	case !(p.Leverage >= 1) || !finite(p.Leverage):
		return icommon.InvalidInput(op, "leverage", "must be at least 1 and finite, got %v", p.Leverage)
	case !(p.Entry > 0) || !finite(p.Entry):
		return icommon.InvalidInput(op, "entry", "must be positive and finite, got %v", p.Entry)
	case !(p.Exit > 0) || !finite(p.Exit):
		return icommon.InvalidInput(op, "exit", "must be positive and finite, got %v", p.Exit)
	case p.Direction != common.LONG && p.Direction != common.SHORT:
		return icommon.InvalidInput(op, "direction", "must be long or short, got %d", int(p.Direction))
	case !(p.HoldingDays >= 0) || !finite(p.HoldingDays):
		return icommon.InvalidInput(op, "holding_days", "must be non-negative and finite, got %v", p.HoldingDays)
	case !(p.Spread >= 0) || !finite(p.Spread):
		return icommon.InvalidInput(op, "spread", "must be non-negative and finite, got %v", p.Spread)
	case !(p.CommissionPct >= 0) || !finite(p.CommissionPct):
		return icommon.InvalidInput(op, "commission_pct", "must be non-negative and finite, got %v", p.CommissionPct)
	case !finite(p.SwapPct):
		return icommon.InvalidInput(op, "swap_pct", "must be finite, got %v", p.SwapPct)
	case !(p.Balance >= 0) || !finite(p.Balance):
		return icommon.InvalidInput(op, "balance", "must be non-negative and finite, got %v", p.Balance)
	}
	return nil
}

// finite rejects NaN and ±Inf, which decimal.NewFromFloat cannot represent.
func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// liquidationPrice (強平價格) is the price at which the margin left after
// maintenance is used up:
//
//	LONG : entry - (margin - maintenance) / units
//	SHORT: entry + (margin - maintenance) / units
//
// where units = notional / entry.
func liquidationPrice(entry, notional, margin, maintenanceRate decimal.Decimal, side common.Direction) decimal.Decimal {
	maintenance := notional.Mul(maintenanceRate)
	buffer := margin.Sub(maintenance)
	if buffer.Sign() <= 0 {
		return entry
	}

	units := notional.Div(entry)
	priceBuffer := buffer.Div(units)

	if side == common.LONG {
		liq := entry.Sub(priceBuffer)
		if liq.Sign() < 0 {
			return decimal.Zero
		}
		return liq
	}
	return entry.Add(priceBuffer)
}
