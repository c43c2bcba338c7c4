package num

import (
	"math/big"

	"github.com/holiman/uint256"
)

// Uint is a wrapper around a 256-bit unsigned integer. All engine
// arithmetic goes through this type so overflow is always observable.
type Uint struct {
	u uint256.Int
}

// NewUint returns a new Uint holding the given uint64 value.
func NewUint(val uint64) *Uint {
	return &Uint{*uint256.NewInt(val)}
}

// UintZero returns a new Uint set to zero.
func UintZero() *Uint {
	return NewUint(0)
}

// UintOne returns a new Uint set to one.
func UintOne() *Uint {
	return NewUint(1)
}

// UintFromBig constructs a Uint from a big.Int.
// The boolean return is true if an overflow happened.
func UintFromBig(b *big.Int) (*Uint, bool) {
	u, overflow := uint256.FromBig(b)
	if overflow {
		return UintZero(), true
	}
	return &Uint{*u}, false
}

// UintFromString reads a Uint from a base-10 string.
// The boolean return is true if parsing failed or the value overflowed.
func UintFromString(str string) (*Uint, bool) {
	b, ok := big.NewInt(0).SetString(str, 10)
	if !ok {
		return UintZero(), true
	}
	return UintFromBig(b)
}

// MustUintFromString reads a Uint from a base-10 string, and panics on
// any error. Meant for tests and hard-coded constants only.
func MustUintFromString(str string) *Uint {
	u, overflow := UintFromString(str)
	if overflow {
		panic("num: invalid uint string " + str)
	}
	return u
}

// Sum returns a new Uint equal to the sum of all the given values.
func Sum(vals ...*Uint) *Uint {
	return UintZero().AddSum(vals...)
}

// Min returns the smallest of the 2 numbers.
func Min(a, b *Uint) *Uint {
	if a.LT(b) {
		return a
	}
	return b
}

// Max returns the largest of the 2 numbers.
func Max(a, b *Uint) *Uint {
	if a.GT(b) {
		return a
	}
	return b
}

// Clone returns a copy of the value, so the original can be mutated safely.
func (z Uint) Clone() *Uint {
	return &Uint{z.u}
}

// Set copies the value of oth into z, z is returned for convenience.
func (z *Uint) Set(oth *Uint) *Uint {
	z.u.Set(&oth.u)
	return z
}

// SetUint64 sets z to the given uint64 value.
func (z *Uint) SetUint64(val uint64) *Uint {
	z.u.SetUint64(val)
	return z
}

// Uint64 returns the low 64 bits of z.
func (z Uint) Uint64() uint64 {
	return z.u.Uint64()
}

// BigInt returns a big.Int copy of z.
func (z Uint) BigInt() *big.Int {
	return z.u.ToBig()
}

// Float64 returns the nearest float64 to z, for display and metrics
// use only.
func (z Uint) Float64() float64 {
	f, _ := z.ToDecimal().Float64()
	return f
}

// ToDecimal converts z into a Decimal.
func (z Uint) ToDecimal() Decimal {
	return DecimalFromUint(&z)
}

// Add sets z to x + y and returns z.
func (z *Uint) Add(x, y *Uint) *Uint {
	z.u.Add(&x.u, &y.u)
	return z
}

// AddSum adds all the given values to z, so x.AddSum(y, w) is
// equivalent to x + y + w.
func (z *Uint) AddSum(vals ...*Uint) *Uint {
	for _, x := range vals {
		z.u.Add(&z.u, &x.u)
	}
	return z
}

// AddOverflow sets z to x + y. The boolean return is true if the
// addition overflowed.
func (z *Uint) AddOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.AddOverflow(&x.u, &y.u)
	return z, overflow
}

// Sub sets z to x - y and returns z.
func (z *Uint) Sub(x, y *Uint) *Uint {
	z.u.Sub(&x.u, &y.u)
	return z
}

// SubOverflow sets z to x - y. The boolean return is true if the
// subtraction underflowed.
func (z *Uint) SubOverflow(x, y *Uint) (*Uint, bool) {
	_, underflow := z.u.SubOverflow(&x.u, &y.u)
	return z, underflow
}

// Mul sets z to x * y and returns z.
func (z *Uint) Mul(x, y *Uint) *Uint {
	z.u.Mul(&x.u, &y.u)
	return z
}

// MulOverflow sets z to x * y. The boolean return is true if the
// multiplication overflowed.
func (z *Uint) MulOverflow(x, y *Uint) (*Uint, bool) {
	_, overflow := z.u.MulOverflow(&x.u, &y.u)
	return z, overflow
}

// Div sets z to x / y, truncated towards zero, and returns z.
func (z *Uint) Div(x, y *Uint) *Uint {
	z.u.Div(&x.u, &y.u)
	return z
}

// Mod sets z to x % y and returns z.
func (z *Uint) Mod(x, y *Uint) *Uint {
	z.u.Mod(&x.u, &y.u)
	return z
}

// Sqrt sets z to the integer square root of x and returns z.
func (z *Uint) Sqrt(x *Uint) *Uint {
	z.u.Sqrt(&x.u)
	return z
}

// EQ returns true if z == oth.
func (z Uint) EQ(oth *Uint) bool {
	return z.u.Eq(&oth.u)
}

// NEQ returns true if z != oth.
func (z Uint) NEQ(oth *Uint) bool {
	return !z.u.Eq(&oth.u)
}

// LT returns true if z < oth.
func (z Uint) LT(oth *Uint) bool {
	return z.u.Lt(&oth.u)
}

// LTE returns true if z <= oth.
func (z Uint) LTE(oth *Uint) bool {
	return z.u.Lt(&oth.u) || z.u.Eq(&oth.u)
}

// GT returns true if z > oth.
func (z Uint) GT(oth *Uint) bool {
	return z.u.Gt(&oth.u)
}

// GTE returns true if z >= oth.
func (z Uint) GTE(oth *Uint) bool {
	return z.u.Gt(&oth.u) || z.u.Eq(&oth.u)
}

// IsZero returns true if z == 0.
func (z Uint) IsZero() bool {
	return z.u.IsZero()
}

// String returns the base-10 representation of z.
func (z Uint) String() string {
	return z.u.ToBig().String()
}
