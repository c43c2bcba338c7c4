package num

import (
	"github.com/shopspring/decimal"
)

type Decimal = decimal.Decimal

func DecimalZero() Decimal {
	return decimal.Zero
}

func DecimalOne() Decimal {
	return decimal.New(1, 0)
}

func DecimalFromInt64(i int64) Decimal {
	return decimal.NewFromInt(i)
}

func DecimalFromFloat(f float64) Decimal {
	return decimal.NewFromFloat(f)
}

func DecimalFromUint(u *Uint) Decimal {
	return decimal.NewFromBigInt(u.BigInt(), 0)
}

func DecimalFromString(s string) (Decimal, error) {
	return decimal.NewFromString(s)
}

func MustDecimalFromString(s string) Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}
