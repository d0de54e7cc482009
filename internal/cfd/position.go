package cfd

import (
	"github.com/shopspring/decimal"

	"frizo/quant_calc/common"
)

// Position is a hypothetical CFD trade, entered and exited at fixed prices.
type Position struct {
	Class         InstrumentClass  `json:"class"`
	Spec          *InstrumentSpec  `json:"-"` // overrides the calculator's table when set
	Notional      float64          `json:"notional"`
	Leverage      float64          `json:"leverage"`
	Entry         float64          `json:"entry"`
	Exit          float64          `json:"exit"`
	Direction     common.Direction `json:"direction"`
	HoldingDays   float64          `json:"holding_days"`
	Spread        float64          `json:"spread"`         // pips or points
	CommissionPct float64          `json:"commission_pct"` // % of notional
	SwapPct       float64          `json:"swap_pct"`       // annual % of margin
	Balance       float64          `json:"balance"`        // reference account balance, 0 uses the calculator default
}

// Result (倉位損益) holds the economics of one position. Money values are
// decimals; percentages are in percent.
type Result struct {
	Instrument       string          `json:"instrument"`
	RequiredMargin   decimal.Decimal `json:"required_margin"`
	GrossPnL         decimal.Decimal `json:"gross_pnl"`
	SpreadCost       decimal.Decimal `json:"spread_cost"`
	CommissionCost   decimal.Decimal `json:"commission_cost"`
	SwapCost         decimal.Decimal `json:"swap_cost"` // signed: negative is a charge
	TotalCosts       decimal.Decimal `json:"total_costs"`
	NetPnL           decimal.Decimal `json:"net_pnl"`
	ReturnOnMargin   decimal.Decimal `json:"return_on_margin"`
	MarginUsage      decimal.Decimal `json:"margin_utilization"`
	Pips             decimal.Decimal `json:"pips"`
	LiquidationPrice decimal.Decimal `json:"liquidation_price"`
}
