package events

import (
	"context"
	"time"

	"code.launchcurve.io/launchcurve/libs/num"
)

// LiquidityAdded is emitted when the external migration call succeeds
// and the remaining asset reserve has been paired on the external
// exchange.
type LiquidityAdded struct {
	*Base
	asset         string
	assetAmount   *num.Uint
	reserveAmount *num.Uint
	liquidity     *num.Uint
	poolRef       string
}

func NewLiquidityAddedEvent(ctx context.Context, asset string, assetAmount, reserveAmount, liquidity *num.Uint, poolRef string) *LiquidityAdded {
	return &LiquidityAdded{
		Base:          newBase(ctx, LiquidityAddedEvent),
		asset:         asset,
		assetAmount:   assetAmount.Clone(),
		reserveAmount: reserveAmount.Clone(),
		liquidity:     liquidity.Clone(),
		poolRef:       poolRef,
	}
}

func (l *LiquidityAdded) Asset() string          { return l.asset }
func (l *LiquidityAdded) AssetAmount() *num.Uint { return l.assetAmount.Clone() }
func (l *LiquidityAdded) ReserveAmount() *num.Uint {
	return l.reserveAmount.Clone()
}
func (l *LiquidityAdded) Liquidity() *num.Uint { return l.liquidity.Clone() }
func (l *LiquidityAdded) PoolRef() string      { return l.poolRef }

// LiquidityLocked is emitted when the migrated LP position gets
// time-locked for the creator.
type LiquidityLocked struct {
	*Base
	asset      string
	amount     *num.Uint
	unlockTime time.Time
}

func NewLiquidityLockedEvent(ctx context.Context, asset string, amount *num.Uint, unlockTime time.Time) *LiquidityLocked {
	return &LiquidityLocked{
		Base:       newBase(ctx, LiquidityLockedEvent),
		asset:      asset,
		amount:     amount.Clone(),
		unlockTime: unlockTime,
	}
}

func (l *LiquidityLocked) Asset() string         { return l.asset }
func (l *LiquidityLocked) Amount() *num.Uint     { return l.amount.Clone() }
func (l *LiquidityLocked) UnlockTime() time.Time { return l.unlockTime }

// LiquidityWithdrawn is emitted when the creator withdraws the
// unlocked LP position.
type LiquidityWithdrawn struct {
	*Base
	asset     string
	amount    *num.Uint
	recipient string
}

func NewLiquidityWithdrawnEvent(ctx context.Context, asset string, amount *num.Uint, recipient string) *LiquidityWithdrawn {
	return &LiquidityWithdrawn{
		Base:      newBase(ctx, LiquidityWithdrawnEvent),
		asset:     asset,
		amount:    amount.Clone(),
		recipient: recipient,
	}
}

func (l *LiquidityWithdrawn) Asset() string     { return l.asset }
func (l *LiquidityWithdrawn) Amount() *num.Uint { return l.amount.Clone() }
func (l *LiquidityWithdrawn) Recipient() string { return l.recipient }
