package cfd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	icommon "frizo/quant_calc/internal/common"
)

// FuturesContract (期貨合約規格) is an exchange-listed contract quoted as a
// price per unit of the underlying.
type FuturesContract struct {
	Symbol               string
	Name                 string
	Category             string
	Multiplier           decimal.Decimal // units of the underlying per contract
	InitialMarginPct     decimal.Decimal // 原始保證金, % of contract value
	MaintenanceMarginPct decimal.Decimal // 維持保證金, % of contract value
}

func futuresContract(symbol, name, category string, multiplier int64, initPct, maintPct string) FuturesContract {
	return FuturesContract{
		Symbol:               symbol,
		Name:                 name,
		Category:             category,
		Multiplier:           decimal.NewFromInt(multiplier),
		InitialMarginPct:     decimal.RequireFromString(initPct),
		MaintenanceMarginPct: decimal.RequireFromString(maintPct),
	}
}

// DefaultFuturesContracts returns a fresh copy of the built-in contract
// table, keyed by symbol. Margin rates are approximations, not exchange
// figures.
func DefaultFuturesContracts() map[string]FuturesContract {
	contracts := []FuturesContract{
		futuresContract("ES", "E-mini S&P 500", "Equity Index", 50, "5", "4.5"),
		futuresContract("NQ", "E-mini NASDAQ-100", "Equity Index", 20, "5.5", "5"),
		futuresContract("YM", "E-mini Dow Jones", "Equity Index", 5, "5", "4.5"),
		futuresContract("RTY", "E-mini Russell 2000", "Equity Index", 50, "5", "4.5"),
		futuresContract("CL", "Crude Oil", "Energy", 1000, "6", "5"),
		futuresContract("GC", "Gold", "Metals", 100, "5", "4.5"),
		futuresContract("SI", "Silver", "Metals", 5000, "7", "6"),
		futuresContract("ZB", "U.S. Treasury Bond", "Interest Rates", 1000, "3", "2.5"),
		futuresContract("6E", "Euro FX", "Currencies", 125000, "2.5", "2"),
		futuresContract("6J", "Japanese Yen", "Currencies", 12500000, "2.5", "2"),
		futuresContract("ZC", "Corn", "Agriculture", 50, "5", "4"),
	}

	table := make(map[string]FuturesContract, len(contracts))
	for _, c := range contracts {
		table[c.Symbol] = c
	}
	return table
}

// FuturesSymbols lists the built-in symbols in sorted order.
func FuturesSymbols() []string {
	table := DefaultFuturesContracts()
	symbols := make([]string, 0, len(table))
	for s := range table {
		symbols = append(symbols, s)
	}
	sort.Strings(symbols)
	return symbols
}

// LookupFuturesContract finds a built-in contract by symbol, ignoring case.
func LookupFuturesContract(symbol string) (FuturesContract, error) {
	c, ok := DefaultFuturesContracts()[strings.ToUpper(strings.TrimSpace(symbol))]
	if !ok {
		return FuturesContract{}, fmt.Errorf("unknown futures contract %q", symbol)
	}
	return c, nil
}

// FuturesMarginResult holds the margin owed on a number of contracts.
type FuturesMarginResult struct {
	Symbol            string          `json:"symbol"`
	ContractValue     decimal.Decimal `json:"contract_value"`    // one contract
	Exposure          decimal.Decimal `json:"exposure"`          // all contracts
	InitialMargin     decimal.Decimal `json:"initial_margin"`
	MaintenanceMargin decimal.Decimal `json:"maintenance_margin"`
	Leverage          decimal.Decimal `json:"leverage"` // exposure over initial margin
}

// FuturesMargin prices contracts at price:
//
//	contract value = price * multiplier
//	initial        = contract value * initial% / 100 * contracts
//	maintenance    = contract value * maintenance% / 100 * contracts
func FuturesMargin(c FuturesContract, price float64, contracts int) (FuturesMarginResult, error) {
	const op = "cfd.FuturesMargin"
	switch {
	case !(price > 0) || !finite(price):
		return FuturesMarginResult{}, icommon.InvalidInput(op, "price", "must be positive and finite, got %v", price)
	case contracts <= 0:
		return FuturesMarginResult{}, icommon.InvalidInput(op, "contracts", "must be positive, got %d", contracts)
	case !c.Multiplier.IsPositive():
		return FuturesMarginResult{}, icommon.InvalidInput(op, "multiplier", "must be positive, got %s", c.Multiplier)
	case !c.InitialMarginPct.IsPositive():
		return FuturesMarginResult{}, icommon.InvalidInput(op, "initial_margin_pct", "must be positive, got %s", c.InitialMarginPct)
	case c.MaintenanceMarginPct.IsNegative() || c.MaintenanceMarginPct.GreaterThan(c.InitialMarginPct):
		return FuturesMarginResult{}, icommon.InvalidInput(op, "maintenance_margin_pct",
			"must be in [0, %s], got %s", c.InitialMarginPct, c.MaintenanceMarginPct)
	}

	n := decimal.NewFromInt(int64(contracts))
	value := decimal.NewFromFloat(price).Mul(c.Multiplier)
	exposure := value.Mul(n)
	initial := exposure.Mul(c.InitialMarginPct).Div(hundred)

	return FuturesMarginResult{
		Symbol:            c.Symbol,
		ContractValue:     value,
		Exposure:          exposure,
		InitialMargin:     initial,
		MaintenanceMargin: exposure.Mul(c.MaintenanceMarginPct).Div(hundred),
		Leverage:          exposure.Div(initial),
	}, nil
}
