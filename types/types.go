package types

import (
	"time"

	"code.launchcurve.io/launchcurve/libs/num"
)

// Side is the direction of a curve trade.
type Side int

const (
	SideUnspecified Side = iota
	SideBuy
	SideSell
)

func (s Side) String() string {
	switch s {
	case SideBuy:
		return "buy"
	case SideSell:
		return "sell"
	default:
		return "unspecified"
	}
}

// Trade is the record emitted for every executed curve trade. It is
// never stored by the engine, subscribers persist it if they need to.
type Trade struct {
	ID            string
	Asset         string
	Trader        string
	Side          Side
	ReserveAmount *num.Uint
	AssetAmount   *num.Uint
	Price         *num.Uint
	Fee           *num.Uint
	Timestamp     time.Time
}

// LPLock describes the state of the post-graduation liquidity lock.
type LPLock struct {
	Locked     *num.Uint
	UnlockTime time.Time
	TokenRef   string
}

// LiquidityPosition is what the external exchange router reports back
// after pairing the remaining asset reserve with the migrated funds.
type LiquidityPosition struct {
	PoolRef   string
	Liquidity *num.Uint
}
