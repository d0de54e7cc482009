package common

import (
	"fmt"
	"strings"
)

// Direction LONG or SHORT
type Direction int

const (
	LONG  Direction = 1
	SHORT Direction = -1
)

func (d Direction) String() string {
	switch d {
	case LONG:
		return "long"
	case SHORT:
		return "short"
	default:
		return "unknown"
	}
}

// Sign returns +1 for LONG and -1 for SHORT.
func (d Direction) Sign() float64 {
	return float64(d)
}

func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "long", "buy":
		return LONG, nil
	case "short", "sell":
		return SHORT, nil
	default:
		return 0, fmt.Errorf("unknown direction %q", s)
	}
}

// ========================================================

// Frequency is a compounding frequency, valued as periods per year.
type Frequency int

const (
	Daily        Frequency = 365
	Weekly       Frequency = 52
	Monthly      Frequency = 12
	Quarterly    Frequency = 4
	SemiAnnually Frequency = 2
	Annually     Frequency = 1
)

func (f Frequency) String() string {
	switch f {
	case Daily:
		return "daily"
	case Weekly:
		return "weekly"
	case Monthly:
		return "monthly"
	case Quarterly:
		return "quarterly"
	case SemiAnnually:
		return "semiannually"
	case Annually:
		return "annually"
	default:
		return fmt.Sprintf("%d/year", int(f))
	}
}

// PerYear returns the number of compounding periods in one year.
func (f Frequency) PerYear() float64 {
	return float64(f)
}

func ParseFrequency(s string) (Frequency, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "daily":
		return Daily, nil
	case "weekly":
		return Weekly, nil
	case "monthly":
		return Monthly, nil
	case "quarterly":
		return Quarterly, nil
	case "semiannually", "semi-annually":
		return SemiAnnually, nil
	case "annually", "yearly":
		return Annually, nil
	default:
		return 0, fmt.Errorf("unknown frequency %q", s)
	}
}
