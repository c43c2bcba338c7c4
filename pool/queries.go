package pool

import (
	"code.launchcurve.io/launchcurve/curve"
	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/types"
)

// CurrentPrice returns the unit price at the current supply level.
func (e *Engine) CurrentPrice() (*num.Uint, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.crv.PriceAt(e.currentSupply)
}

// CurrentSupply returns the cumulative amount sold out of the curve.
func (e *Engine) CurrentSupply() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentSupply.Clone()
}

// ReserveBalance returns the reserve currency held by the curve.
func (e *Engine) ReserveBalance() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.reserveBalance.Clone()
}

// AssetReserve returns the asset amount the engine still holds.
func (e *Engine) AssetReserve() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.assetReserve.Clone()
}

// TotalVolume returns the cumulative reserve currency turnover.
func (e *Engine) TotalVolume() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.totalVolume.Clone()
}

// FeesCollected returns the cumulative fees extracted from trades.
func (e *Engine) FeesCollected() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.feesCollected.Clone()
}

// PlatformFunds returns the reserve currency pushed to the platform
// recipient at graduation.
func (e *Engine) PlatformFunds() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.platformFunds.Clone()
}

// IsGraduated reports whether curve trading has closed for good.
func (e *Engine) IsGraduated() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.graduated
}

// GraduationProgress returns currentSupply/graduationThreshold as a
// ratio in [0, 1].
func (e *Engine) GraduationProgress() num.Decimal {
	e.mu.Lock()
	defer e.mu.Unlock()

	progress := e.currentSupply.ToDecimal().Div(e.threshold.ToDecimal())
	if progress.GreaterThan(num.DecimalOne()) {
		return num.DecimalOne()
	}
	return progress
}

// WithdrawableCreatorFunds returns the creator's pull balance from the
// graduation split.
func (e *Engine) WithdrawableCreatorFunds() *num.Uint {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.withdrawableByCreator.Clone()
}

// LPLock returns the state of the post-graduation liquidity lock.
func (e *Engine) LPLock() types.LPLock {
	e.mu.Lock()
	defer e.mu.Unlock()
	return types.LPLock{
		Locked:     e.lpLockedAmount.Clone(),
		UnlockTime: e.lpUnlockTime,
		TokenRef:   e.lpTokenRef,
	}
}

// UnmigratedFunds returns the reserve and asset amounts parked on the
// books after a failed liquidity migration. Both are zero when the
// migration succeeded.
func (e *Engine) UnmigratedFunds() (*num.Uint, *num.Uint) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.unmigratedReserve.Clone(), e.unmigratedAssets.Clone()
}

// EstimateBuy previews the asset amount and fee for a hypothetical
// buy, without touching state.
func (e *Engine) EstimateBuy(reserveIn *num.Uint) (assetOut, fee *num.Uint, err error) {
	if reserveIn == nil || reserveIn.IsZero() {
		return nil, nil, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graduated {
		return nil, nil, ErrTradingClosed
	}
	fee = num.UintZero().Mul(reserveIn, e.feeBps)
	fee.Div(fee, curve.FeeBpsScale())
	netIn := num.UintZero().Sub(reserveIn, fee)
	room := num.UintZero().Sub(e.threshold, e.currentSupply)
	assetOut, err = e.crv.AssetsForReserve(e.currentSupply, netIn, room)
	if err != nil {
		return nil, nil, err
	}
	return assetOut, fee, nil
}

// EstimateSell previews the net reserve payout and fee for a
// hypothetical sell, without touching state.
func (e *Engine) EstimateSell(assetIn *num.Uint) (reserveOut, fee *num.Uint, err error) {
	if assetIn == nil || assetIn.IsZero() {
		return nil, nil, ErrInvalidAmount
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graduated {
		return nil, nil, ErrTradingClosed
	}
	if assetIn.GT(e.currentSupply) {
		return nil, nil, ErrInvalidAmount
	}
	from := num.UintZero().Sub(e.currentSupply, assetIn)
	gross, err := e.crv.CostBetween(from, e.currentSupply)
	if err != nil {
		return nil, nil, err
	}
	fee = num.UintZero().Mul(gross, e.feeBps)
	fee.Div(fee, curve.FeeBpsScale())
	return num.UintZero().Sub(gross, fee), fee, nil
}
