package curve

import (
	"errors"

	"code.launchcurve.io/launchcurve/libs/num"
)

var (
	// ErrInvalidCurveParameters is returned when base price or slope do
	// not make sense for the chosen curve kind.
	ErrInvalidCurveParameters = errors.New("invalid curve parameters")
	// ErrUnknownCurveKind is returned for a kind outside the closed set.
	ErrUnknownCurveKind = errors.New("unknown curve kind")
	// ErrInvalidInterval is returned when the lower supply bound is
	// greater than the upper one.
	ErrInvalidInterval = errors.New("invalid supply interval")
	// ErrSupplyCapExceeded is returned when a computation would take the
	// supply beyond MaxTotalSupply. Trades hitting this are rejected
	// whole, never partially filled.
	ErrSupplyCapExceeded = errors.New("max total supply exceeded")
	// ErrNumericOverflow is returned when a computation does not fit in
	// 256 bits.
	ErrNumericOverflow = errors.New("numeric overflow")
)

// MaxTotalSupply is the hard cap on curve supply, in asset base units.
var MaxTotalSupply = num.MustUintFromString("1000000000000000")

var (
	// growth factors for the exponential curve are fixed point with
	// 18 decimals, the slope itself is expressed in millionths of
	// growth per asset unit.
	fpScale  = num.MustUintFromString("1000000000000000000")
	ppmToFP  = num.MustUintFromString("1000000000000")
	two      = num.NewUint(2)
	bpsScale = num.NewUint(10000)
)

// FeeBpsScale is the denominator for basis point fee computations.
func FeeBpsScale() *num.Uint {
	return bpsScale.Clone()
}

// Kind is the closed set of supported curve shapes.
type Kind int

const (
	KindUnspecified Kind = iota
	KindLinear
	KindExponential
)

func (k Kind) String() string {
	switch k {
	case KindLinear:
		return "linear"
	case KindExponential:
		return "exponential"
	default:
		return "unspecified"
	}
}

// KindFromString reads a curve kind from its string representation.
func KindFromString(s string) (Kind, error) {
	switch s {
	case "linear":
		return KindLinear, nil
	case "exponential":
		return KindExponential, nil
	default:
		return KindUnspecified, ErrUnknownCurveKind
	}
}

// Curve prices an asset purely as a function of how much of it has
// been issued. It holds no trading state, all methods are pure.
//
// For the linear kind the unit price at supply s is
//
//	basePrice + slope*s
//
// For the exponential kind the price at supply s is
//
//	basePrice * (1 + slope/1e6)^s
//
// evaluated in 18-decimal fixed point. All rounding is floor, which
// always favours the engine reserve: a buyer never receives more than
// the closed form owes, a seller is never paid more.
type Curve struct {
	kind      Kind
	basePrice *num.Uint
	slope     *num.Uint
}

// New builds a curve from immutable parameters.
func New(kind Kind, basePrice, slope *num.Uint) (*Curve, error) {
	if kind != KindLinear && kind != KindExponential {
		return nil, ErrUnknownCurveKind
	}
	if basePrice == nil || slope == nil || basePrice.IsZero() {
		return nil, ErrInvalidCurveParameters
	}
	if kind == KindExponential && slope.IsZero() {
		// the closed form divides by the growth rate
		return nil, ErrInvalidCurveParameters
	}
	return &Curve{
		kind:      kind,
		basePrice: basePrice.Clone(),
		slope:     slope.Clone(),
	}, nil
}

func (c *Curve) Kind() Kind {
	return c.kind
}

func (c *Curve) BasePrice() *num.Uint {
	return c.basePrice.Clone()
}

func (c *Curve) Slope() *num.Uint {
	return c.slope.Clone()
}

// PriceAt returns the unit price at the given supply level. The price
// is non-decreasing in supply for both curve kinds.
func (c *Curve) PriceAt(supply *num.Uint) (*num.Uint, error) {
	if supply.GT(MaxTotalSupply) {
		return nil, ErrSupplyCapExceeded
	}
	switch c.kind {
	case KindLinear:
		inc, overflow := num.UintZero().MulOverflow(c.slope, supply)
		if overflow {
			return nil, ErrNumericOverflow
		}
		price, overflow := num.UintZero().AddOverflow(c.basePrice, inc)
		if overflow {
			return nil, ErrNumericOverflow
		}
		return price, nil
	case KindExponential:
		g, err := c.growthAt(supply.Uint64())
		if err != nil {
			return nil, err
		}
		price, overflow := num.UintZero().MulOverflow(c.basePrice, g)
		if overflow {
			return nil, ErrNumericOverflow
		}
		return price.Div(price, fpScale), nil
	default:
		return nil, ErrUnknownCurveKind
	}
}

// CostBetween returns the reserve cost of moving the supply from one
// level to another, the closed form integral of PriceAt over the
// interval. CostBetween(s, s) is zero and the result is strictly
// increasing in the upper bound.
func (c *Curve) CostBetween(from, to *num.Uint) (*num.Uint, error) {
	if from.GT(to) {
		return nil, ErrInvalidInterval
	}
	if to.GT(MaxTotalSupply) {
		return nil, ErrSupplyCapExceeded
	}
	switch c.kind {
	case KindLinear:
		return c.linearCost(from, to)
	case KindExponential:
		return c.exponentialCost(from, to)
	default:
		return nil, ErrUnknownCurveKind
	}
}

// linearCost = basePrice*(to-from) + slope*(to^2-from^2)/2, with the
// floor division last so truncation favours the reserve.
func (c *Curve) linearCost(from, to *num.Uint) (*num.Uint, error) {
	delta := num.UintZero().Sub(to, from)
	base, overflow := num.UintZero().MulOverflow(c.basePrice, delta)
	if overflow {
		return nil, ErrNumericOverflow
	}

	toSq, overflow := num.UintZero().MulOverflow(to, to)
	if overflow {
		return nil, ErrNumericOverflow
	}
	fromSq := num.UintZero().Mul(from, from)
	sqDelta := num.UintZero().Sub(toSq, fromSq)
	slopePart, overflow := num.UintZero().MulOverflow(c.slope, sqDelta)
	if overflow {
		return nil, ErrNumericOverflow
	}
	slopePart.Div(slopePart, two)

	cost, overflow := num.UintZero().AddOverflow(base, slopePart)
	if overflow {
		return nil, ErrNumericOverflow
	}
	return cost, nil
}

// exponentialCost uses the geometric series closed form
//
//	basePrice * (r^to - r^from) / (r - 1)
//
// with r the per-unit growth factor in fixed point, so r-1 is exactly
// slope scaled from millionths to 18 decimals.
func (c *Curve) exponentialCost(from, to *num.Uint) (*num.Uint, error) {
	if from.EQ(to) {
		return num.UintZero(), nil
	}
	gFrom, err := c.growthAt(from.Uint64())
	if err != nil {
		return nil, err
	}
	gTo, err := c.growthAt(to.Uint64())
	if err != nil {
		return nil, err
	}
	diff := num.UintZero().Sub(gTo, gFrom)
	cost, overflow := num.UintZero().MulOverflow(c.basePrice, diff)
	if overflow {
		return nil, ErrNumericOverflow
	}
	denom, overflow := num.UintZero().MulOverflow(c.slope, ppmToFP)
	if overflow {
		return nil, ErrNumericOverflow
	}
	return cost.Div(cost, denom), nil
}

// growthAt returns (1 + slope/1e6)^n in 18-decimal fixed point, by
// square and multiply. Every intermediate product floors at 18
// decimals; with at most 50 squarings the accumulated error stays
// far below one millionth, so the result is monotonic in n for any
// valid slope.
func (c *Curve) growthAt(n uint64) (*num.Uint, error) {
	r, overflow := num.UintZero().MulOverflow(c.slope, ppmToFP)
	if overflow {
		return nil, ErrNumericOverflow
	}
	if _, overflow = r.AddOverflow(r, fpScale); overflow {
		return nil, ErrNumericOverflow
	}

	result := fpScale.Clone()
	base := r
	for n > 0 {
		if n&1 == 1 {
			var err error
			if result, err = fpMul(result, base); err != nil {
				return nil, err
			}
		}
		n >>= 1
		if n > 0 {
			var err error
			if base, err = fpMul(base, base); err != nil {
				return nil, err
			}
		}
	}
	return result, nil
}

func fpMul(x, y *num.Uint) (*num.Uint, error) {
	z, overflow := num.UintZero().MulOverflow(x, y)
	if overflow {
		return nil, ErrNumericOverflow
	}
	return z.Div(z, fpScale), nil
}

// AssetsForReserve inverts CostBetween: it returns the largest amount
// of assets q, capped at maxOut, such that the cost of moving the
// supply from its current level up by q does not exceed the given
// reserve input. The floor choice here is what guarantees a buyer can
// sell the exact amount straight back for the exact reserve charged.
func (c *Curve) AssetsForReserve(supply, reserveIn, maxOut *num.Uint) (*num.Uint, error) {
	if supply.GT(MaxTotalSupply) {
		return nil, ErrSupplyCapExceeded
	}
	bound := num.Min(maxOut, num.UintZero().Sub(MaxTotalSupply, supply))

	var lo, hi uint64 = 0, bound.Uint64()
	for lo < hi {
		mid := lo + (hi-lo+1)/2
		to := num.UintZero().Add(supply, num.NewUint(mid))
		cost, err := c.CostBetween(supply, to)
		if err != nil {
			if errors.Is(err, ErrNumericOverflow) {
				// cost beyond 256 bits is certainly beyond reserveIn
				hi = mid - 1
				continue
			}
			return nil, err
		}
		if cost.LTE(reserveIn) {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return num.NewUint(lo), nil
}
