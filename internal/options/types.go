package options

import (
	"fmt"
	"strings"
)

// Kind CALL or PUT
type Kind int

const (
	CALL Kind = iota
	PUT
)

func (k Kind) String() string {
	switch k {
	case CALL:
		return "call"
	case PUT:
		return "put"
	default:
		return "unknown"
	}
}

func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "call", "c":
		return CALL, nil
	case "put", "p":
		return PUT, nil
	default:
		return 0, fmt.Errorf("unknown option kind %q", s)
	}
}

// ========================================================

// Moneyness ITM ATM OTM
type Moneyness int

const (
	AtTheMoney Moneyness = iota
	InTheMoney
	OutOfTheMoney
)

func (m Moneyness) String() string {
	switch m {
	case InTheMoney:
		return "In-the-Money"
	case AtTheMoney:
		return "At-the-Money"
	case OutOfTheMoney:
		return "Out-of-the-Money"
	default:
		return "unknown"
	}
}

// ========================================================

// Contract is a European option. Expiry is in years; Vol, Rate and
// Dividend are annual decimals (0.25 = 25%).
type Contract struct {
	Spot     float64 `json:"spot"`
	Strike   float64 `json:"strike"`
	Expiry   float64 `json:"expiry"`
	Vol      float64 `json:"vol"`
	Rate     float64 `json:"rate"`
	Dividend float64 `json:"dividend"`
	Kind     Kind    `json:"kind"`
}

// ExpiryFromDays converts calendar days to years.
func ExpiryFromDays(days float64) float64 {
	return days / 365
}

// Greeks is the full pricing result for one contract. Theta is per
// calendar day, Vega per 1% of volatility and Rho per 1% of rate.
type Greeks struct {
	Price     float64   `json:"price"`
	Delta     float64   `json:"delta"`
	Gamma     float64   `json:"gamma"`
	Theta     float64   `json:"theta"`
	Vega      float64   `json:"vega"`
	Rho       float64   `json:"rho"`
	Intrinsic float64   `json:"intrinsic"`
	TimeValue float64   `json:"time_value"`
	Moneyness Moneyness `json:"moneyness"`
	Breakeven float64   `json:"breakeven"`
	D1        float64   `json:"d1"`
	D2        float64   `json:"d2"`
}
