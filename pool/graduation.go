package pool

import (
	"context"
	"time"

	"code.launchcurve.io/launchcurve/events"
	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/logging"
	"code.launchcurve.io/launchcurve/metrics"
)

// lpLockPeriod is how long the migrated liquidity position stays
// locked for the creator after graduation.
const lpLockPeriod = 180 * 24 * time.Hour

var (
	hundred     = num.NewUint(100)
	platformPct = num.NewUint(10)
	creatorPct  = num.NewUint(20)
)

// graduate closes curve trading for good and migrates the remaining
// liquidity. Called with the engine lock held, from the buy that
// crosses the threshold.
//
// The latch flips and the funds are split before the external call is
// attempted, so a failing router can never reopen trading or undo the
// split. A router failure is absorbed: graduation completes with no
// locked position and the earmarked funds parked on the books.
func (e *Engine) graduate(ctx context.Context) error {
	if e.graduated {
		return ErrAlreadyGraduated
	}
	e.graduated = true

	total := e.reserveBalance.Clone()
	platformCut := num.UintZero().Mul(total, platformPct)
	platformCut.Div(platformCut, hundred)
	creatorCut := num.UintZero().Mul(total, creatorPct)
	creatorCut.Div(creatorCut, hundred)
	// integer remainders land on the liquidity side
	liquidityCut := num.UintZero().Sub(total, num.Sum(platformCut, creatorCut))

	e.withdrawableByCreator.Add(e.withdrawableByCreator, creatorCut)
	e.platformFunds.Add(e.platformFunds, platformCut)
	e.reserveBalance = num.UintZero()

	assetSide := e.assetReserve.Clone()
	e.assetReserve = num.UintZero()

	e.log.Info("engine graduated",
		logging.String("asset", e.asset),
		logging.BigUint("final-supply", e.currentSupply),
		logging.BigUint("liquidity-funds", liquidityCut),
		logging.BigUint("creator-funds", creatorCut),
		logging.BigUint("platform-funds", platformCut),
	)
	e.broker.Send(events.NewGraduatedEvent(ctx, e.asset, e.currentSupply, liquidityCut, creatorCut, platformCut))
	metrics.GraduationCounterInc(e.asset)

	pos, err := e.router.AddLiquidity(ctx, e.asset, assetSide, liquidityCut)
	if err != nil {
		// deliberate: an external failure must not fail the trade that
		// triggered graduation
		e.log.Error("liquidity migration failed, completing graduation without a locked position",
			logging.String("asset", e.asset),
			logging.Error(err),
		)
		e.unmigratedReserve = liquidityCut
		e.unmigratedAssets = assetSide
		metrics.MigrationFailureCounterInc(e.asset)
		return nil
	}

	e.lpLockedAmount = pos.Liquidity.Clone()
	e.lpTokenRef = pos.PoolRef
	e.lpUnlockTime = e.timeS.GetTimeNow().Add(lpLockPeriod)

	e.broker.Send(events.NewLiquidityAddedEvent(ctx, e.asset, assetSide, liquidityCut, pos.Liquidity, pos.PoolRef))
	e.broker.Send(events.NewLiquidityLockedEvent(ctx, e.asset, e.lpLockedAmount, e.lpUnlockTime))
	return nil
}

// WithdrawGraduationFunds drains the creator's share of the graduation
// split. Pull pattern: the engine never pushes these funds, so a
// misbehaving creator side can not block graduation itself.
func (e *Engine) WithdrawGraduationFunds(ctx context.Context, caller string) (*num.Uint, error) {
	if caller == "" {
		return nil, ErrInvalidParty
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.creator {
		return nil, ErrNotCreator
	}
	if e.withdrawableByCreator.IsZero() {
		return nil, ErrNoWithdrawableFunds
	}

	amount := e.withdrawableByCreator
	e.withdrawableByCreator = num.UintZero()

	e.log.Info("creator withdrew graduation funds",
		logging.String("asset", e.asset),
		logging.BigUint("amount", amount),
	)
	return amount, nil
}

// WithdrawLPTokens transfers the whole locked liquidity position to
// the creator once the lock has expired.
func (e *Engine) WithdrawLPTokens(ctx context.Context, caller string) (*num.Uint, error) {
	if caller == "" {
		return nil, ErrInvalidParty
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if caller != e.creator {
		return nil, ErrNotCreator
	}
	if e.lpLockedAmount.IsZero() {
		return nil, ErrNoLPTokensToWithdraw
	}
	if e.timeS.GetTimeNow().Before(e.lpUnlockTime) {
		return nil, ErrLPTokensStillLocked
	}

	amount := e.lpLockedAmount
	e.lpLockedAmount = num.UintZero()

	e.broker.Send(events.NewLiquidityWithdrawnEvent(ctx, e.asset, amount, e.creator))
	e.log.Info("creator withdrew locked liquidity",
		logging.String("asset", e.asset),
		logging.BigUint("amount", amount),
	)
	return amount, nil
}
