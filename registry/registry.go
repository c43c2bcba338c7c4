package registry

import (
	"sort"
	"sync"

	"code.launchcurve.io/launchcurve/logging"
	"code.launchcurve.io/launchcurve/metrics"
	"code.launchcurve.io/launchcurve/pool"

	"github.com/pkg/errors"
)

var (
	// ErrEngineAlreadyExists is returned when creating an engine for an
	// asset that already has one.
	ErrEngineAlreadyExists = errors.New("an engine already exists for this asset")
	// ErrEngineNotFound is returned when looking up an asset no engine
	// was ever created for.
	ErrEngineNotFound = errors.New("no engine exists for this asset")
)

// Registry owns all live bonding curve engines, keyed by asset. An
// engine stays registered after graduation so the post-graduation
// operations (withdrawals, queries) remain reachable.
type Registry struct {
	log     *logging.Logger
	cfg     Config
	poolCfg pool.Config

	broker pool.Broker
	timeS  pool.TimeService
	router pool.LiquidityRouter

	mu      sync.RWMutex
	engines map[string]*pool.Engine
}

// New returns an empty registry wiring the given collaborators into
// every engine it creates.
func New(log *logging.Logger, cfg Config, poolCfg pool.Config, broker pool.Broker, timeS pool.TimeService, router pool.LiquidityRouter) *Registry {
	log = log.Named(namedLogger)
	log.SetLevel(cfg.Level.Get())

	return &Registry{
		log:     log,
		cfg:     cfg,
		poolCfg: poolCfg,
		broker:  broker,
		timeS:   timeS,
		router:  router,
		engines: map[string]*pool.Engine{},
	}
}

// Create validates the parameters, builds a new engine and registers
// it under its asset.
func (r *Registry) Create(params pool.Params) (*pool.Engine, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.engines[params.Asset]; ok {
		return nil, ErrEngineAlreadyExists
	}
	eng, err := pool.New(r.log, r.poolCfg, r.broker, r.timeS, r.router, params)
	if err != nil {
		return nil, errors.Wrap(err, "could not create engine")
	}
	r.engines[params.Asset] = eng
	metrics.EngineGaugeInc()

	r.log.Info("engine registered",
		logging.String("asset", params.Asset),
		logging.String("creator", params.Creator),
		logging.Int("engine-count", len(r.engines)),
	)
	return eng, nil
}

// Get returns the engine trading the given asset.
func (r *Registry) Get(asset string) (*pool.Engine, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	eng, ok := r.engines[asset]
	if !ok {
		return nil, ErrEngineNotFound
	}
	return eng, nil
}

// List returns the assets of all registered engines, sorted.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	assets := make([]string, 0, len(r.engines))
	for asset := range r.engines {
		assets = append(assets, asset)
	}
	sort.Strings(assets)
	return assets
}

// Len returns the number of registered engines.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.engines)
}
