package pool_test

import (
	"context"
	"testing"
	"time"

	"code.launchcurve.io/launchcurve/events"
	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/pool"
	"code.launchcurve.io/launchcurve/types"

	"github.com/golang/mock/gomock"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graduationDeposit is the closed form cost of the full 1000 unit
// threshold (2*1000 + 2*1000^2 = 2002000) plus a 10% safety margin.
const graduationDeposit = 2202200

func graduateTestEngine(t *testing.T, te *testEngine) *pool.TradeResult {
	t.Helper()
	res, err := te.Buy(context.Background(), "trader-1", num.NewUint(graduationDeposit), nil)
	require.NoError(t, err)
	require.True(t, res.Graduated)
	return res
}

func TestGraduationOnThresholdCross(t *testing.T) {
	te := getTestEngine(t, testParams())
	te.router.EXPECT().AddLiquidity(gomock.Any(), "TKN-1", gomock.Any(), gomock.Any()).Times(1).Return(
		&types.LiquidityPosition{PoolRef: "extdex-pool-1", Liquidity: num.NewUint(37435)}, nil)

	res := graduateTestEngine(t, te)

	assert.True(t, te.IsGraduated())
	assert.Equal(t, uint64(1000), te.CurrentSupply().Uint64())
	assert.Equal(t, uint64(1000), res.Trade.AssetAmount.Uint64())
	assert.Equal(t, uint64(2002000), res.Trade.ReserveAmount.Uint64())

	t.Run("fund split is exact", func(t *testing.T) {
		grads := te.eventsOfType(events.GraduatedEvent)
		require.Len(t, grads, 1)
		ge := grads[0].(*events.Graduated)

		assert.Equal(t, uint64(200200), ge.PlatformFunds().Uint64())
		assert.Equal(t, uint64(400400), ge.CreatorFunds().Uint64())
		assert.Equal(t, uint64(1401400), ge.LiquidityFunds().Uint64())
		// the three legs recompose the pre-graduation reserve exactly
		total := num.Sum(ge.PlatformFunds(), ge.CreatorFunds(), ge.LiquidityFunds())
		assert.Equal(t, uint64(2002000), total.Uint64())

		assert.Equal(t, uint64(400400), te.WithdrawableCreatorFunds().Uint64())
		assert.Equal(t, uint64(200200), te.PlatformFunds().Uint64())
		assert.True(t, te.ReserveBalance().IsZero())
		assert.True(t, te.AssetReserve().IsZero())
	})

	t.Run("liquidity is locked for 180 days", func(t *testing.T) {
		added := te.eventsOfType(events.LiquidityAddedEvent)
		require.Len(t, added, 1)
		ae := added[0].(*events.LiquidityAdded)
		assert.Equal(t, uint64(1000), ae.AssetAmount().Uint64())
		assert.Equal(t, uint64(1401400), ae.ReserveAmount().Uint64())
		assert.Equal(t, "extdex-pool-1", ae.PoolRef())

		locked := te.eventsOfType(events.LiquidityLockedEvent)
		require.Len(t, locked, 1)
		le := locked[0].(*events.LiquidityLocked)
		assert.Equal(t, uint64(37435), le.Amount().Uint64())
		assert.Equal(t, te.time.now.Add(180*24*time.Hour), le.UnlockTime())

		lock := te.LPLock()
		assert.Equal(t, uint64(37435), lock.Locked.Uint64())
		assert.Equal(t, "extdex-pool-1", lock.TokenRef)
	})

	t.Run("graduation progress caps at one", func(t *testing.T) {
		assert.True(t, te.GraduationProgress().Equal(num.DecimalOne()))
	})
}

func TestTradingClosedAfterGraduation(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())
	te.router.EXPECT().AddLiquidity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return(
		&types.LiquidityPosition{PoolRef: "extdex-pool-1", Liquidity: num.NewUint(37435)}, nil)

	graduateTestEngine(t, te)

	_, err := te.Buy(ctx, "trader-1", num.NewUint(100), nil)
	assert.ErrorIs(t, err, pool.ErrTradingClosed)
	_, err = te.Sell(ctx, "trader-1", num.NewUint(1), nil)
	assert.ErrorIs(t, err, pool.ErrTradingClosed)
	_, _, err = te.EstimateBuy(num.NewUint(100))
	assert.ErrorIs(t, err, pool.ErrTradingClosed)

	// only one graduation event, ever
	assert.Len(t, te.eventsOfType(events.GraduatedEvent), 1)
}

func TestMigrationFailureIsIsolated(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())
	te.router.EXPECT().AddLiquidity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return(
		nil, errors.New("router reverted"))

	// the buy crossing the threshold still succeeds
	res := graduateTestEngine(t, te)
	assert.True(t, te.IsGraduated())
	assert.Equal(t, uint64(1000), res.Trade.AssetAmount.Uint64())

	// the split stands, the earmarked funds stay on the books
	assert.Equal(t, uint64(400400), te.WithdrawableCreatorFunds().Uint64())
	reserve, assets := te.UnmigratedFunds()
	assert.Equal(t, uint64(1401400), reserve.Uint64())
	assert.Equal(t, uint64(1000), assets.Uint64())

	// no liquidity events, no lock
	assert.Len(t, te.eventsOfType(events.GraduatedEvent), 1)
	assert.Empty(t, te.eventsOfType(events.LiquidityAddedEvent))
	assert.Empty(t, te.eventsOfType(events.LiquidityLockedEvent))

	// and the LP withdrawal path degrades cleanly
	_, err := te.WithdrawLPTokens(ctx, "creator-1")
	assert.ErrorIs(t, err, pool.ErrNoLPTokensToWithdraw)
}

func TestWithdrawLPTokens(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())
	te.router.EXPECT().AddLiquidity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return(
		&types.LiquidityPosition{PoolRef: "extdex-pool-1", Liquidity: num.NewUint(37435)}, nil)

	graduateTestEngine(t, te)
	unlock := te.LPLock().UnlockTime

	t.Run("not the creator", func(t *testing.T) {
		_, err := te.WithdrawLPTokens(ctx, "someone-else")
		assert.ErrorIs(t, err, pool.ErrNotCreator)
	})

	t.Run("one second before unlock", func(t *testing.T) {
		te.time.now = unlock.Add(-time.Second)
		_, err := te.WithdrawLPTokens(ctx, "creator-1")
		assert.ErrorIs(t, err, pool.ErrLPTokensStillLocked)
	})

	t.Run("one second after unlock", func(t *testing.T) {
		te.time.now = unlock.Add(time.Second)
		amount, err := te.WithdrawLPTokens(ctx, "creator-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(37435), amount.Uint64())
		assert.True(t, te.LPLock().Locked.IsZero())

		withdrawn := te.eventsOfType(events.LiquidityWithdrawnEvent)
		require.Len(t, withdrawn, 1)
		we := withdrawn[0].(*events.LiquidityWithdrawn)
		assert.Equal(t, "creator-1", we.Recipient())
		assert.Equal(t, uint64(37435), we.Amount().Uint64())
	})

	t.Run("nothing left for a second withdrawal", func(t *testing.T) {
		_, err := te.WithdrawLPTokens(ctx, "creator-1")
		assert.ErrorIs(t, err, pool.ErrNoLPTokensToWithdraw)
	})
}

func TestWithdrawGraduationFunds(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	t.Run("nothing to withdraw before graduation", func(t *testing.T) {
		_, err := te.WithdrawGraduationFunds(ctx, "creator-1")
		assert.ErrorIs(t, err, pool.ErrNoWithdrawableFunds)
	})

	te.router.EXPECT().AddLiquidity(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(1).Return(
		&types.LiquidityPosition{PoolRef: "extdex-pool-1", Liquidity: num.NewUint(37435)}, nil)
	graduateTestEngine(t, te)

	t.Run("not the creator", func(t *testing.T) {
		_, err := te.WithdrawGraduationFunds(ctx, "someone-else")
		assert.ErrorIs(t, err, pool.ErrNotCreator)
	})

	t.Run("creator drains the pull balance", func(t *testing.T) {
		amount, err := te.WithdrawGraduationFunds(ctx, "creator-1")
		require.NoError(t, err)
		assert.Equal(t, uint64(400400), amount.Uint64())
		assert.True(t, te.WithdrawableCreatorFunds().IsZero())
	})

	t.Run("second withdrawal is rejected", func(t *testing.T) {
		_, err := te.WithdrawGraduationFunds(ctx, "creator-1")
		assert.ErrorIs(t, err, pool.ErrNoWithdrawableFunds)
	})
}
