package types

import "errors"

// ErrUnknownFeeTier is returned when a fee tier outside the closed set
// is used to build an engine.
var ErrUnknownFeeTier = errors.New("unknown fee tier")

// FeeTier selects the fee rate applied to every trade on an engine.
// The set of tiers is closed, the rate is fixed at construction.
type FeeTier int

const (
	FeeTierZero FeeTier = iota
	FeeTierLow
	FeeTierMedium
	FeeTierHigh
)

// feeBpsPerTier maps a tier to its rate in basis points.
var feeBpsPerTier = map[FeeTier]uint64{
	FeeTierZero:   0,
	FeeTierLow:    30,
	FeeTierMedium: 100,
	FeeTierHigh:   300,
}

// Bps returns the fee rate of the tier in basis points.
func (t FeeTier) Bps() (uint64, error) {
	bps, ok := feeBpsPerTier[t]
	if !ok {
		return 0, ErrUnknownFeeTier
	}
	return bps, nil
}

// FeeTierFromString parses the textual tier name used in construction
// requests.
func FeeTierFromString(s string) (FeeTier, error) {
	switch s {
	case "zero":
		return FeeTierZero, nil
	case "low":
		return FeeTierLow, nil
	case "medium":
		return FeeTierMedium, nil
	case "high":
		return FeeTierHigh, nil
	default:
		return FeeTier(-1), ErrUnknownFeeTier
	}
}

func (t FeeTier) String() string {
	switch t {
	case FeeTierZero:
		return "zero"
	case FeeTierLow:
		return "low"
	case FeeTierMedium:
		return "medium"
	case FeeTierHigh:
		return "high"
	default:
		return "unknown"
	}
}
