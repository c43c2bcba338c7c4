package pool

import (
	"context"
	"sync"
	"time"

	"code.launchcurve.io/launchcurve/curve"
	"code.launchcurve.io/launchcurve/events"
	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/logging"
	"code.launchcurve.io/launchcurve/metrics"
	"code.launchcurve.io/launchcurve/types"

	uuid "github.com/satori/go.uuid"
)

// Broker sends events out to whoever listens.
//
//go:generate go run github.com/golang/mock/mockgen -destination mocks/mocks.go -package mocks code.launchcurve.io/launchcurve/pool Broker,TimeService,LiquidityRouter
type Broker interface {
	Send(e events.Event)
}

// TimeService is the engine's only source of wall time.
type TimeService interface {
	GetTimeNow() time.Time
}

// LiquidityRouter pairs the remaining asset reserve with the migrated
// funds on the external exchange. A failure here never propagates out
// of graduation.
type LiquidityRouter interface {
	AddLiquidity(ctx context.Context, asset string, assetAmount, reserveAmount *num.Uint) (*types.LiquidityPosition, error)
}

// Engine is a single-sided market maker for one asset against one
// reserve currency. It sells the asset along a deterministic price
// curve, accumulates the proceeds, and closes itself for trading once
// the graduation threshold is crossed.
//
// Every public operation runs to completion under the engine lock:
// it either commits fully or returns an error leaving state untouched.
type Engine struct {
	log    *logging.Logger
	cfg    Config
	broker Broker
	timeS  TimeService
	router LiquidityRouter

	// immutable after construction
	asset             string
	creator           string
	platformRecipient string
	crv               *curve.Curve
	feeBps            *num.Uint
	threshold         *num.Uint
	totalIssuable     *num.Uint

	mu sync.Mutex

	currentSupply  *num.Uint
	assetReserve   *num.Uint
	reserveBalance *num.Uint
	totalVolume    *num.Uint
	feesCollected  *num.Uint
	platformFunds  *num.Uint

	graduated             bool
	withdrawableByCreator *num.Uint
	lpLockedAmount        *num.Uint
	lpUnlockTime          time.Time
	lpTokenRef            string

	// set only when the external migration call failed, so no value
	// silently disappears from the books
	unmigratedReserve *num.Uint
	unmigratedAssets  *num.Uint
}

// TradeResult is what a successful buy or sell returns to the caller.
type TradeResult struct {
	Trade types.Trade
	// Refund is the part of the net input a buy did not consume, when
	// the trade was clipped at the graduation threshold or at integer
	// granularity. Always zero for sells.
	Refund *num.Uint
	// Graduated is true if this trade crossed the graduation threshold.
	Graduated bool
}

// New builds an engine from construction parameters, taking custody of
// the full issuable supply.
func New(log *logging.Logger, cfg Config, broker Broker, timeS TimeService, router LiquidityRouter, params Params) (*Engine, error) {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	if err := params.Validate(); err != nil {
		return nil, err
	}
	crv, err := curve.New(params.CurveKind, params.BasePrice, params.Slope)
	if err != nil {
		return nil, err
	}
	bps, err := params.FeeTier.Bps()
	if err != nil {
		return nil, err
	}

	e := &Engine{
		log:    log,
		cfg:    cfg,
		broker: broker,
		timeS:  timeS,
		router: router,

		asset:             params.Asset,
		creator:           params.Creator,
		platformRecipient: params.PlatformRecipient,
		crv:               crv,
		feeBps:            num.NewUint(bps),
		threshold:         params.GraduationThreshold.Clone(),
		totalIssuable:     params.TotalIssuable.Clone(),

		currentSupply:  num.UintZero(),
		assetReserve:   params.TotalIssuable.Clone(),
		reserveBalance: num.UintZero(),
		totalVolume:    num.UintZero(),
		feesCollected:  num.UintZero(),
		platformFunds:  num.UintZero(),

		withdrawableByCreator: num.UintZero(),
		lpLockedAmount:        num.UintZero(),
		unmigratedReserve:     num.UintZero(),
		unmigratedAssets:      num.UintZero(),
	}

	log.Info("bonding curve engine created",
		logging.String("asset", e.asset),
		logging.String("curve", crv.Kind().String()),
		logging.BigUint("base-price", params.BasePrice),
		logging.BigUint("slope", params.Slope),
		logging.BigUint("graduation-threshold", e.threshold),
		logging.String("fee-tier", params.FeeTier.String()),
	)
	return e, nil
}

// Asset returns the identity of the asset this engine trades.
func (e *Engine) Asset() string {
	return e.asset
}

// Creator returns the engine creator identity.
func (e *Engine) Creator() string {
	return e.creator
}

// Buy spends reserveIn on the curve and delivers the resulting asset
// amount to the trader. The fee is taken off the input up front, the
// unspent remainder of the net input is refunded. If the resulting
// supply reaches the graduation threshold, graduation runs before the
// call returns.
func (e *Engine) Buy(ctx context.Context, trader string, reserveIn, minAssetOut *num.Uint) (*TradeResult, error) {
	if trader == "" {
		return nil, ErrInvalidParty
	}
	if reserveIn == nil || reserveIn.IsZero() {
		return nil, ErrInvalidAmount
	}
	if minAssetOut == nil {
		minAssetOut = num.UintZero()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graduated {
		return nil, ErrTradingClosed
	}

	fee := num.UintZero().Mul(reserveIn, e.feeBps)
	fee.Div(fee, curve.FeeBpsScale())
	netIn := num.UintZero().Sub(reserveIn, fee)

	room := num.UintZero().Sub(e.threshold, e.currentSupply)
	assetOut, err := e.crv.AssetsForReserve(e.currentSupply, netIn, room)
	if err != nil {
		return nil, err
	}
	if assetOut.IsZero() {
		return nil, ErrInsufficientBalance
	}
	if assetOut.LT(minAssetOut) {
		return nil, ErrSlippageTooHigh
	}

	newSupply := num.UintZero().Add(e.currentSupply, assetOut)
	used, err := e.crv.CostBetween(e.currentSupply, newSupply)
	if err != nil {
		return nil, err
	}
	refund := num.UintZero().Sub(netIn, used)
	price, err := e.crv.PriceAt(newSupply)
	if err != nil {
		return nil, err
	}

	// all checks done, commit
	e.currentSupply = newSupply
	e.assetReserve.Sub(e.assetReserve, assetOut)
	e.reserveBalance.Add(e.reserveBalance, used)
	e.totalVolume.Add(e.totalVolume, used)
	e.feesCollected.Add(e.feesCollected, fee)

	trade := types.Trade{
		ID:            uuid.NewV4().String(),
		Asset:         e.asset,
		Trader:        trader,
		Side:          types.SideBuy,
		ReserveAmount: used.Clone(),
		AssetAmount:   assetOut.Clone(),
		Price:         price,
		Fee:           fee.Clone(),
		Timestamp:     e.timeS.GetTimeNow(),
	}
	e.broker.Send(events.NewTradeEvent(ctx, trade))
	metrics.TradeCounterInc(e.asset, trade.Side.String())
	metrics.TradeVolumeAdd(e.asset, used.Float64())

	res := &TradeResult{
		Trade:  trade,
		Refund: refund,
	}
	if e.currentSupply.GTE(e.threshold) {
		if err := e.graduate(ctx); err != nil {
			// the latch can only flip once, and we are the only caller
			e.log.Error("unexpected graduation rejection",
				logging.String("asset", e.asset),
				logging.Error(err),
			)
		}
		res.Graduated = true
	}
	return res, nil
}

// Sell returns assetIn to the curve and pays the trader the closed
// form reserve value of the interval, minus the fee.
func (e *Engine) Sell(ctx context.Context, trader string, assetIn, minReserveOut *num.Uint) (*TradeResult, error) {
	if trader == "" {
		return nil, ErrInvalidParty
	}
	if assetIn == nil || assetIn.IsZero() {
		return nil, ErrInvalidAmount
	}
	if minReserveOut == nil {
		minReserveOut = num.UintZero()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.graduated {
		return nil, ErrTradingClosed
	}
	// cannot sell more than the curve has ever issued
	if assetIn.GT(e.currentSupply) {
		return nil, ErrInvalidAmount
	}

	newSupply := num.UintZero().Sub(e.currentSupply, assetIn)
	gross, err := e.crv.CostBetween(newSupply, e.currentSupply)
	if err != nil {
		return nil, err
	}
	if gross.GT(e.reserveBalance) {
		return nil, ErrInsufficientBalance
	}
	fee := num.UintZero().Mul(gross, e.feeBps)
	fee.Div(fee, curve.FeeBpsScale())
	netOut := num.UintZero().Sub(gross, fee)
	if netOut.LT(minReserveOut) {
		return nil, ErrSlippageTooHigh
	}
	price, err := e.crv.PriceAt(newSupply)
	if err != nil {
		return nil, err
	}

	// all checks done, commit
	e.currentSupply = newSupply
	e.assetReserve.Add(e.assetReserve, assetIn)
	e.reserveBalance.Sub(e.reserveBalance, gross)
	e.totalVolume.Add(e.totalVolume, gross)
	e.feesCollected.Add(e.feesCollected, fee)

	trade := types.Trade{
		ID:            uuid.NewV4().String(),
		Asset:         e.asset,
		Trader:        trader,
		Side:          types.SideSell,
		ReserveAmount: netOut.Clone(),
		AssetAmount:   assetIn.Clone(),
		Price:         price,
		Fee:           fee.Clone(),
		Timestamp:     e.timeS.GetTimeNow(),
	}
	e.broker.Send(events.NewTradeEvent(ctx, trade))
	metrics.TradeCounterInc(e.asset, trade.Side.String())
	metrics.TradeVolumeAdd(e.asset, gross.Float64())

	return &TradeResult{
		Trade:  trade,
		Refund: num.UintZero(),
	}, nil
}
