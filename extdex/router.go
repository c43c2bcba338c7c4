// Package extdex is an in-process constant product venue standing in
// for the external exchange that graduated engines migrate their
// liquidity to. It mints LP tokens against deposits and keeps the
// resulting pools queryable.
package extdex

import (
	"context"
	"sync"

	"code.launchcurve.io/launchcurve/libs/num"
	"code.launchcurve.io/launchcurve/logging"
	"code.launchcurve.io/launchcurve/types"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"
)

var (
	// ErrInvalidDeposit is returned when either leg of a liquidity
	// deposit is missing or zero.
	ErrInvalidDeposit = errors.New("both deposit legs must be positive")
	// ErrDepositTooLarge is returned when the product of the deposit
	// legs does not fit the LP token arithmetic.
	ErrDepositTooLarge = errors.New("deposit legs are too large")
)

// Pool is one asset/reserve pair on the venue.
type Pool struct {
	Ref           string
	AssetAmount   *num.Uint
	ReserveAmount *num.Uint
	Liquidity     *num.Uint
}

// Router implements the liquidity migration target.
type Router struct {
	log *logging.Logger
	cfg Config

	mu    sync.Mutex
	pools map[string]*Pool
}

// New returns a router with no pools.
func New(log *logging.Logger, cfg Config) *Router {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Router{
		log:   log,
		cfg:   cfg,
		pools: map[string]*Pool{},
	}
}

// AddLiquidity deposits both legs into the asset's pool, creating the
// pool on first use. The initial deposit mints sqrt(asset * reserve)
// LP tokens, later deposits mint pro rata to their reserve share.
func (r *Router) AddLiquidity(_ context.Context, asset string, assetAmount, reserveAmount *num.Uint) (*types.LiquidityPosition, error) {
	if assetAmount == nil || assetAmount.IsZero() || reserveAmount == nil || reserveAmount.IsZero() {
		return nil, ErrInvalidDeposit
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[asset]
	if !ok {
		product, overflow := num.UintZero().MulOverflow(assetAmount, reserveAmount)
		if overflow {
			return nil, ErrDepositTooLarge
		}
		p = &Pool{
			Ref:           "extdex-" + uuid.NewV4().String(),
			AssetAmount:   assetAmount.Clone(),
			ReserveAmount: reserveAmount.Clone(),
			Liquidity:     num.UintZero().Sqrt(product),
		}
		r.pools[asset] = p
		r.log.Info("pool created",
			logging.String("asset", asset),
			logging.String("pool-ref", p.Ref),
			logging.BigUint("asset-amount", assetAmount),
			logging.BigUint("reserve-amount", reserveAmount),
			logging.BigUint("liquidity", p.Liquidity),
		)
		return &types.LiquidityPosition{
			PoolRef:   p.Ref,
			Liquidity: p.Liquidity.Clone(),
		}, nil
	}

	minted, overflow := num.UintZero().MulOverflow(p.Liquidity, reserveAmount)
	if overflow {
		return nil, ErrDepositTooLarge
	}
	minted.Div(minted, p.ReserveAmount)
	if minted.IsZero() {
		return nil, ErrInvalidDeposit
	}
	p.AssetAmount.Add(p.AssetAmount, assetAmount)
	p.ReserveAmount.Add(p.ReserveAmount, reserveAmount)
	p.Liquidity.Add(p.Liquidity, minted)

	return &types.LiquidityPosition{
		PoolRef:   p.Ref,
		Liquidity: minted,
	}, nil
}

// Pool returns a copy of the pool for an asset, or nil if no liquidity
// was ever added for it.
func (r *Router) Pool(asset string) *Pool {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pools[asset]
	if !ok {
		return nil
	}
	return &Pool{
		Ref:           p.Ref,
		AssetAmount:   p.AssetAmount.Clone(),
		ReserveAmount: p.ReserveAmount.Clone(),
		Liquidity:     p.Liquidity.Clone(),
	}
}
