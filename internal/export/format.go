package export

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const notAvailable = "n/a"

// Currency formats v as dollars with grouping, e.g. "-$1,234.50".
func Currency(v float64) string {
	if !finite(v) {
		return notAvailable
	}
	return CurrencyDecimal(decimal.NewFromFloat(v))
}

// CurrencyDecimal is Currency for decimal amounts.
func CurrencyDecimal(d decimal.Decimal) string {
	rounded := d.Round(2)
	sign := ""
	if rounded.Sign() < 0 {
		sign = "-"
	}
	return sign + "$" + grouped(rounded.Abs(), 2)
}

// Percent formats v (already in percent) with dp decimals, e.g. "12.5%".
func Percent(v float64, dp int32) string {
	if !finite(v) {
		return notAvailable
	}
	return grouped(decimal.NewFromFloat(v).Round(dp), dp) + "%"
}

// PercentDecimal is Percent for decimal values.
func PercentDecimal(d decimal.Decimal, dp int32) string {
	return grouped(d.Round(dp), dp) + "%"
}

// Number formats v with grouping and dp decimals.
func Number(v float64, dp int32) string {
	if !finite(v) {
		return notAvailable
	}
	return grouped(decimal.NewFromFloat(v).Round(dp), dp)
}

func grouped(d decimal.Decimal, dp int32) string {
	out := message.NewPrinter(language.English).Sprintf(fmt.Sprintf("%%.%df", dp), d.InexactFloat64())
	// -0.00 reads as a loss that is not there
	if strings.HasPrefix(out, "-") && strings.Trim(out, "-0.,") == "" {
		return out[1:]
	}
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
