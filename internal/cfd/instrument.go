package cfd

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// InstrumentClass forex, indices, commodities, stocks, crypto
type InstrumentClass int

const (
	Forex InstrumentClass = iota
	Indices
	Commodities
	Stocks
	Crypto
)

func (c InstrumentClass) String() string {
	switch c {
	case Forex:
		return "forex"
	case Indices:
		return "indices"
	case Commodities:
		return "commodities"
	case Stocks:
		return "stocks"
	case Crypto:
		return "crypto"
	default:
		return "unknown"
	}
}

func ParseInstrumentClass(s string) (InstrumentClass, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "forex", "fx":
		return Forex, nil
	case "indices", "index":
		return Indices, nil
	case "commodities", "commodity":
		return Commodities, nil
	case "stocks", "stock":
		return Stocks, nil
	case "crypto":
		return Crypto, nil
	default:
		return 0, fmt.Errorf("unknown instrument class %q", s)
	}
}

// InstrumentSpec (合約規格) describes how one instrument class is quoted.
// The pip convention is a per-class default, not a universal rule; override
// it through configuration for anything other than forex.
type InstrumentSpec struct {
	Name            string
	PipSize         decimal.Decimal // smallest quoted increment
	PipValue        decimal.Decimal // value of one pip per 10,000 notional
	DefaultLeverage float64
	DefaultSpread   float64 // pips or points
	DefaultSwap     float64 // annual %, negative is a cost
	MaintenanceRate decimal.Decimal // 維持保證金率, fraction of notional
}

// DefaultInstruments returns a fresh copy of the built-in instrument table.
func DefaultInstruments() map[InstrumentClass]InstrumentSpec {
	return map[InstrumentClass]InstrumentSpec{
		Forex: {
			Name:            "Forex",
			PipSize:         decimal.RequireFromString("0.0001"),
			PipValue:        decimal.NewFromInt(1),
			DefaultLeverage: 100,
			DefaultSpread:   1.5,
			DefaultSwap:     -2.5,
			MaintenanceRate: decimal.RequireFromString("0.005"),
		},
		Indices: {
			Name:            "Stock Indices",
			PipSize:         decimal.NewFromInt(1),
			PipValue:        decimal.NewFromInt(1),
			DefaultLeverage: 20,
			DefaultSpread:   0.5,
			DefaultSwap:     -1.8,
			MaintenanceRate: decimal.RequireFromString("0.025"),
		},
		Commodities: {
			Name:            "Commodities",
			PipSize:         decimal.RequireFromString("0.01"),
			PipValue:        decimal.NewFromInt(1),
			DefaultLeverage: 10,
			DefaultSpread:   3.0,
			DefaultSwap:     -3.2,
			MaintenanceRate: decimal.RequireFromString("0.05"),
		},
		Stocks: {
			Name:            "Individual Stocks",
			PipSize:         decimal.RequireFromString("0.01"),
			PipValue:        decimal.NewFromInt(1),
			DefaultLeverage: 5,
			DefaultSpread:   0.1,
			DefaultSwap:     -4.5,
			MaintenanceRate: decimal.RequireFromString("0.10"),
		},
		Crypto: {
			Name:            "Cryptocurrencies",
			PipSize:         decimal.NewFromInt(1),
			PipValue:        decimal.NewFromInt(1),
			DefaultLeverage: 2,
			DefaultSpread:   50,
			DefaultSwap:     -15.0,
			MaintenanceRate: decimal.RequireFromString("0.25"),
		},
	}
}
