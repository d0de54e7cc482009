package cfd

import (
	"github.com/shopspring/decimal"

	icommon "frizo/quant_calc/internal/common"
)

// StandardLot is the contract size of one forex lot.
var StandardLot = decimal.NewFromInt(100000)

// QuoteType says how the account currency relates to the quoted pair.
type QuoteType int

const (
	QuoteIsAccount QuoteType = iota // EUR/USD on a USD account
	BaseIsAccount                   // USD/JPY on a USD account
	CrossQuote                      // EUR/GBP on a USD account, treated like QuoteIsAccount
)

// PipValue returns the account-currency value of one pip for lots standard lots.
// rate is the pair's current price and is only used when the base currency
// is the account currency.
func PipValue(lots, pipSize, rate decimal.Decimal, quote QuoteType) (decimal.Decimal, error) {
	const op = "cfd.PipValue"
	if lots.Sign() <= 0 {
		return decimal.Zero, icommon.InvalidInput(op, "lots", "must be positive, got %s", lots)
	}
	if pipSize.Sign() <= 0 {
		return decimal.Zero, icommon.InvalidInput(op, "pip_size", "must be positive, got %s", pipSize)
	}

	value := lots.Mul(StandardLot).Mul(pipSize)
	if quote != BaseIsAccount {
		return value, nil
	}
	if rate.Sign() <= 0 {
		return decimal.Zero, icommon.Degenerate(op, "conversion rate is %s", rate)
	}
	return value.Div(rate), nil
}

// Rollover returns the overnight financing for lots held over days nights.
// swapPerLot is the broker's per-lot nightly swap (negative is a charge).
// Each full week adds two extra nights for the Wednesday triple swap.
func Rollover(lots, swapPerLot decimal.Decimal, days int) (decimal.Decimal, error) {
	if days < 0 {
		return decimal.Zero, icommon.InvalidInput("cfd.Rollover", "days", "must not be negative, got %d", days)
	}
	nights := days + (days/7)*2
	return lots.Mul(swapPerLot).Mul(decimal.NewFromInt(int64(nights))), nil
}
