package pool_test

import (
	"context"
	"testing"
	"time"

	"code.launchcurve.io/launchcurve/curve"
	"code.launchcurve.io/launchcurve/events"
	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/logging"
	"code.launchcurve.io/launchcurve/pool"
	"code.launchcurve.io/launchcurve/pool/mocks"
	"code.launchcurve.io/launchcurve/types"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testTime struct {
	now time.Time
}

func (t *testTime) GetTimeNow() time.Time {
	return t.now
}

type testEngine struct {
	*pool.Engine
	ctrl   *gomock.Controller
	broker *mocks.MockBroker
	router *mocks.MockLiquidityRouter
	time   *testTime
	evts   []events.Event
}

// testParams: cost(0, q) = 2q + 2q^2, graduation after 1000 units sold
// out of 2000 issued, 100bps fees.
func testParams() pool.Params {
	return pool.Params{
		Asset:               "TKN-1",
		Creator:             "creator-1",
		PlatformRecipient:   "platform-1",
		CurveKind:           curve.KindLinear,
		BasePrice:           num.NewUint(2),
		Slope:               num.NewUint(4),
		GraduationThreshold: num.NewUint(1000),
		FeeTier:             types.FeeTierMedium,
		TotalIssuable:       num.NewUint(2000),
	}
}

func getTestEngine(t *testing.T, params pool.Params) *testEngine {
	t.Helper()
	ctrl := gomock.NewController(t)
	te := &testEngine{
		ctrl:   ctrl,
		broker: mocks.NewMockBroker(ctrl),
		router: mocks.NewMockLiquidityRouter(ctrl),
		time:   &testTime{now: time.Unix(1700000000, 0)},
	}
	te.broker.EXPECT().Send(gomock.Any()).AnyTimes().Do(func(e events.Event) {
		te.evts = append(te.evts, e)
	})

	eng, err := pool.New(logging.NewTestLogger(), pool.NewDefaultConfig(), te.broker, te.time, te.router, params)
	require.NoError(t, err)
	te.Engine = eng
	return te
}

func (te *testEngine) eventsOfType(et events.Type) []events.Event {
	out := []events.Event{}
	for _, e := range te.evts {
		if e.Type() == et {
			out = append(out, e)
		}
	}
	return out
}

func TestEngineConstruction(t *testing.T) {
	log := logging.NewTestLogger()
	ctrl := gomock.NewController(t)
	broker := mocks.NewMockBroker(ctrl)
	router := mocks.NewMockLiquidityRouter(ctrl)
	ts := &testTime{}

	t.Run("valid params", func(t *testing.T) {
		eng, err := pool.New(log, pool.NewDefaultConfig(), broker, ts, router, testParams())
		require.NoError(t, err)
		assert.Equal(t, "TKN-1", eng.Asset())
		assert.Equal(t, "creator-1", eng.Creator())
		assert.False(t, eng.IsGraduated())
		assert.Equal(t, uint64(2000), eng.AssetReserve().Uint64())
		assert.True(t, eng.CurrentSupply().IsZero())
	})

	t.Run("threshold above issuable supply", func(t *testing.T) {
		params := testParams()
		params.GraduationThreshold = num.NewUint(3000)
		_, err := pool.New(log, pool.NewDefaultConfig(), broker, ts, router, params)
		assert.ErrorIs(t, err, pool.ErrInvalidParams)
	})

	t.Run("missing asset", func(t *testing.T) {
		params := testParams()
		params.Asset = ""
		_, err := pool.New(log, pool.NewDefaultConfig(), broker, ts, router, params)
		assert.ErrorIs(t, err, pool.ErrInvalidParams)
	})

	t.Run("bad curve", func(t *testing.T) {
		params := testParams()
		params.BasePrice = num.UintZero()
		_, err := pool.New(log, pool.NewDefaultConfig(), broker, ts, router, params)
		assert.ErrorIs(t, err, curve.ErrInvalidCurveParameters)
	})
}

func TestBuyValidation(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	t.Run("missing trader", func(t *testing.T) {
		_, err := te.Buy(ctx, "", num.NewUint(100), nil)
		assert.ErrorIs(t, err, pool.ErrInvalidParty)
	})

	t.Run("zero amount", func(t *testing.T) {
		_, err := te.Buy(ctx, "trader-1", num.UintZero(), nil)
		assert.ErrorIs(t, err, pool.ErrInvalidAmount)
	})

	t.Run("input too small for a single unit", func(t *testing.T) {
		// first unit costs 4, minus fee nothing is buyable
		_, err := te.Buy(ctx, "trader-1", num.NewUint(2), nil)
		assert.ErrorIs(t, err, pool.ErrInsufficientBalance)
	})

	t.Run("slippage", func(t *testing.T) {
		_, err := te.Buy(ctx, "trader-1", num.NewUint(999), num.NewUint(1000000))
		assert.ErrorIs(t, err, pool.ErrSlippageTooHigh)
	})
}

func TestBuyFeeFloors(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	// 100bps on 999 floors 9.99 down to 9
	res, err := te.Buy(ctx, "trader-1", num.NewUint(999), nil)
	require.NoError(t, err)
	assert.Equal(t, uint64(9), res.Trade.Fee.Uint64())

	// net input 990 buys 21 units for 924, leaving 66 unspent
	assert.Equal(t, uint64(21), res.Trade.AssetAmount.Uint64())
	assert.Equal(t, uint64(924), res.Trade.ReserveAmount.Uint64())
	assert.Equal(t, uint64(66), res.Refund.Uint64())

	assert.Equal(t, uint64(21), te.CurrentSupply().Uint64())
	assert.Equal(t, uint64(924), te.ReserveBalance().Uint64())
	assert.Equal(t, uint64(9), te.FeesCollected().Uint64())
	assert.Equal(t, uint64(2000-21), te.AssetReserve().Uint64())
}

func TestTinyDepositBuysSomething(t *testing.T) {
	ctx := context.Background()
	params := testParams()
	params.FeeTier = types.FeeTierZero
	te := getTestEngine(t, params)

	res, err := te.Buy(ctx, "trader-1", num.NewUint(50), nil)
	require.NoError(t, err)
	assert.False(t, res.Trade.AssetAmount.IsZero())
}

func TestBuySellRoundTrip(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	res, err := te.Buy(ctx, "trader-1", num.NewUint(999), nil)
	require.NoError(t, err)

	sold, err := te.Sell(ctx, "trader-1", res.Trade.AssetAmount, nil)
	require.NoError(t, err)

	// reserve and asset holdings are restored exactly, fees excluded
	assert.True(t, te.ReserveBalance().IsZero())
	assert.True(t, te.CurrentSupply().IsZero())
	assert.Equal(t, uint64(2000), te.AssetReserve().Uint64())

	// the sell paid out the buy cost minus the sell fee
	expectedFee := 924 * 100 / 10000
	assert.Equal(t, uint64(expectedFee), sold.Trade.Fee.Uint64())
	assert.Equal(t, uint64(924-expectedFee), sold.Trade.ReserveAmount.Uint64())

	// both legs counted in turnover
	assert.Equal(t, uint64(924+924), te.TotalVolume().Uint64())
}

func TestSellValidation(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	_, err := te.Buy(ctx, "trader-1", num.NewUint(999), nil)
	require.NoError(t, err)

	t.Run("zero amount", func(t *testing.T) {
		_, err := te.Sell(ctx, "trader-1", num.UintZero(), nil)
		assert.ErrorIs(t, err, pool.ErrInvalidAmount)
	})

	t.Run("selling more than ever issued", func(t *testing.T) {
		_, err := te.Sell(ctx, "trader-1", num.NewUint(22), nil)
		assert.ErrorIs(t, err, pool.ErrInvalidAmount)
	})

	t.Run("slippage", func(t *testing.T) {
		_, err := te.Sell(ctx, "trader-1", num.NewUint(21), num.NewUint(1000000))
		assert.ErrorIs(t, err, pool.ErrSlippageTooHigh)
	})
}

func TestRejectedOperationsLeaveStateUntouched(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	_, err := te.Buy(ctx, "trader-1", num.NewUint(999), nil)
	require.NoError(t, err)

	snapshot := func() []string {
		return []string{
			te.CurrentSupply().String(),
			te.ReserveBalance().String(),
			te.AssetReserve().String(),
			te.TotalVolume().String(),
			te.FeesCollected().String(),
		}
	}
	before := snapshot()

	_, err = te.Buy(ctx, "trader-1", num.NewUint(100), num.NewUint(1000000))
	assert.ErrorIs(t, err, pool.ErrSlippageTooHigh)
	_, err = te.Sell(ctx, "trader-1", num.NewUint(5000), nil)
	assert.ErrorIs(t, err, pool.ErrInvalidAmount)
	_, err = te.Buy(ctx, "", num.NewUint(100), nil)
	assert.ErrorIs(t, err, pool.ErrInvalidParty)

	assert.Equal(t, before, snapshot())
}

func TestVolumeNeverDecreases(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	prev := num.UintZero()
	for i := 0; i < 5; i++ {
		_, err := te.Buy(ctx, "trader-1", num.NewUint(500), nil)
		require.NoError(t, err)
		vol := te.TotalVolume()
		assert.True(t, vol.GT(prev))
		prev = vol

		_, err = te.Sell(ctx, "trader-1", num.NewUint(1), nil)
		require.NoError(t, err)
		vol = te.TotalVolume()
		assert.True(t, vol.GT(prev))
		prev = vol
	}
}

func TestTradeEventsEmitted(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	res, err := te.Buy(ctx, "trader-1", num.NewUint(999), nil)
	require.NoError(t, err)

	trades := te.eventsOfType(events.TradeEvent)
	require.Len(t, trades, 1)
	trade := trades[0].(*events.Trade).Trade()
	assert.Equal(t, types.SideBuy, trade.Side)
	assert.Equal(t, "trader-1", trade.Trader)
	assert.Equal(t, res.Trade.ID, trade.ID)
	assert.Equal(t, te.time.now, trade.Timestamp)
	assert.NotEmpty(t, trades[0].TraceID())
}

func TestEstimates(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	t.Run("buy estimate matches execution", func(t *testing.T) {
		estOut, estFee, err := te.EstimateBuy(num.NewUint(999))
		require.NoError(t, err)

		res, err := te.Buy(ctx, "trader-1", num.NewUint(999), nil)
		require.NoError(t, err)
		assert.True(t, estOut.EQ(res.Trade.AssetAmount))
		assert.True(t, estFee.EQ(res.Trade.Fee))
	})

	t.Run("sell estimate matches execution", func(t *testing.T) {
		estOut, estFee, err := te.EstimateSell(num.NewUint(10))
		require.NoError(t, err)

		res, err := te.Sell(ctx, "trader-1", num.NewUint(10), nil)
		require.NoError(t, err)
		assert.True(t, estOut.EQ(res.Trade.ReserveAmount))
		assert.True(t, estFee.EQ(res.Trade.Fee))
	})

	t.Run("estimates do not mutate state", func(t *testing.T) {
		before := te.CurrentSupply()
		_, _, err := te.EstimateBuy(num.NewUint(12345))
		require.NoError(t, err)
		_, _, err = te.EstimateSell(num.NewUint(5))
		require.NoError(t, err)
		assert.True(t, before.EQ(te.CurrentSupply()))
	})
}

func TestGraduationProgress(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	assert.True(t, te.GraduationProgress().IsZero())

	_, err := te.Buy(ctx, "trader-1", num.NewUint(999), nil)
	require.NoError(t, err)

	// 21 sold out of 1000
	expected := num.MustDecimalFromString("0.021")
	assert.True(t, te.GraduationProgress().Equal(expected))
}

func TestCurrentPrice(t *testing.T) {
	ctx := context.Background()
	te := getTestEngine(t, testParams())

	p, err := te.CurrentPrice()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), p.Uint64())

	_, err = te.Buy(ctx, "trader-1", num.NewUint(999), nil)
	require.NoError(t, err)

	p, err = te.CurrentPrice()
	require.NoError(t, err)
	assert.Equal(t, uint64(2+4*21), p.Uint64())
}
