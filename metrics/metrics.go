package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// the instruments are package-level so engine code can count without
// carrying a handle around; all helpers are safe no-ops until Setup
// has run.
var (
	tradeCounter            *prometheus.CounterVec
	tradeVolumeCounter      *prometheus.CounterVec
	graduationCounter       *prometheus.CounterVec
	migrationFailureCounter *prometheus.CounterVec
	engineGauge             prometheus.Gauge
)

// Setup registers all the engine instruments with the default
// prometheus registry.
func Setup() error {
	tradeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchcurve",
			Subsystem: "pool",
			Name:      "trades_total",
			Help:      "Number of executed curve trades",
		},
		[]string{"asset", "side"},
	)
	if err := prometheus.Register(tradeCounter); err != nil {
		return err
	}

	tradeVolumeCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchcurve",
			Subsystem: "pool",
			Name:      "trade_volume_total",
			Help:      "Cumulative reserve currency turnover",
		},
		[]string{"asset"},
	)
	if err := prometheus.Register(tradeVolumeCounter); err != nil {
		return err
	}

	graduationCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchcurve",
			Subsystem: "pool",
			Name:      "graduations_total",
			Help:      "Number of engines graduated to the external exchange",
		},
		[]string{"asset"},
	)
	if err := prometheus.Register(graduationCounter); err != nil {
		return err
	}

	migrationFailureCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "launchcurve",
			Subsystem: "pool",
			Name:      "migration_failures_total",
			Help:      "Number of graduations whose external liquidity migration failed",
		},
		[]string{"asset"},
	)
	if err := prometheus.Register(migrationFailureCounter); err != nil {
		return err
	}

	engineGauge = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "launchcurve",
			Subsystem: "registry",
			Name:      "engines",
			Help:      "Number of live bonding curve engines",
		},
	)
	return prometheus.Register(engineGauge)
}

// Handler returns the prometheus scrape handler.
func Handler() http.Handler {
	return promhttp.Handler()
}

// TradeCounterInc increments the trade counter for an asset and side.
func TradeCounterInc(asset, side string) {
	if tradeCounter == nil {
		return
	}
	tradeCounter.WithLabelValues(asset, side).Inc()
}

// TradeVolumeAdd adds reserve turnover for an asset.
func TradeVolumeAdd(asset string, volume float64) {
	if tradeVolumeCounter == nil {
		return
	}
	tradeVolumeCounter.WithLabelValues(asset).Add(volume)
}

// GraduationCounterInc counts a graduation for an asset.
func GraduationCounterInc(asset string) {
	if graduationCounter == nil {
		return
	}
	graduationCounter.WithLabelValues(asset).Inc()
}

// MigrationFailureCounterInc counts an isolated migration failure.
func MigrationFailureCounterInc(asset string) {
	if migrationFailureCounter == nil {
		return
	}
	migrationFailureCounter.WithLabelValues(asset).Inc()
}

// EngineGaugeInc counts a new live engine.
func EngineGaugeInc() {
	if engineGauge == nil {
		return
	}
	engineGauge.Inc()
}
