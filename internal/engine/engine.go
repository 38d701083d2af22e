// Package engine turns raw holdings plus fetched market data into a
// consistent portfolio metrics snapshot: valuation, exposure, income, risk,
// alerts and one advisory message.
//
// The engine is a pure transform. It persists nothing, caches nothing, and
// re-derives every metric from scratch on each run. The only shared state is
// the published snapshot, swapped atomically at the end of a successful run.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-sentinel/internal/clients/marketdata"
	"github.com/aristath/portfolio-sentinel/internal/domain"
	"github.com/aristath/portfolio-sentinel/internal/events"
)

// chartLookback is the historical price window used for volatility
const chartLookback = 90 * 24 * time.Hour

// MarketData is the remote data client the engine fans out to. Every call may
// return an empty list or an error; both degrade to "no data for this symbol".
type MarketData interface {
	GetQuotes(ctx context.Context, symbols []string) ([]marketdata.Quote, error)
	GetProfiles(ctx context.Context, symbols []string) ([]marketdata.Profile, error)
	GetChart(ctx context.Context, symbol string, from, to time.Time) ([]marketdata.PricePoint, error)
	GetDividends(ctx context.Context, symbol string) ([]marketdata.DividendRecord, error)
	GetSplits(ctx context.Context, symbol string) ([]marketdata.SplitRecord, error)
	GetStockNews(ctx context.Context, symbols []string) ([]marketdata.NewsItem, error)
}

// Snapshot is the engine's full output for one analytics run. It is never
// mutated after publication.
type Snapshot struct {
	Metrics domain.PortfolioMetrics `json:"metrics"`

	SectorExposure     []domain.ExposureBucket `json:"sector_exposure"`
	CountryExposure    []domain.ExposureBucket `json:"country_exposure"`
	AssetClassExposure []domain.ExposureBucket `json:"asset_class_exposure"`

	ConcentrationAlerts []domain.ConcentrationAlert `json:"concentration_alerts"`
	SectorRiskAlerts    []domain.SectorRiskAlert    `json:"sector_risk_alerts"`

	DividendCalendar []domain.DividendPayment `json:"dividend_calendar"`
	News             []marketdata.NewsItem    `json:"news"`
}

// Engine orchestrates the analytics runs
type Engine struct {
	data   MarketData
	events *events.Manager
	log    zerolog.Logger

	mu         sync.RWMutex
	snapshot   *Snapshot
	computing  bool
	lastError  string
	generation uint64
	cancelRun  context.CancelFunc
}

// New creates a new analytics engine
func New(data MarketData, ev *events.Manager, log zerolog.Logger) *Engine {
	return &Engine{
		data:   data,
		events: ev,
		log:    log.With().Str("service", "engine").Logger(),
	}
}

// Snapshot returns the last successfully computed snapshot, or nil when no
// run has completed yet
func (e *Engine) Snapshot() *Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.snapshot
}

// IsComputing reports whether an analytics run is in flight
func (e *Engine) IsComputing() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.computing
}

// LastError returns the error message of the last failed run, cleared on the
// next successful one
func (e *Engine) LastError() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.lastError
}

// Refresh runs the full analytics pipeline for the given holdings and
// publishes a new snapshot. Any in-flight run is canceled first; there is no
// partial merge of overlapping runs.
//
// An empty holdings set clears the snapshot without reporting an error. A
// failed run keeps the previous snapshot in place.
func (e *Engine) Refresh(ctx context.Context, holdings []domain.Holding) (err error) {
	if len(holdings) == 0 {
		e.mu.Lock()
		if e.cancelRun != nil {
			e.cancelRun()
			e.cancelRun = nil
		}
		e.generation++
		e.snapshot = nil
		e.computing = false
		e.lastError = ""
		e.mu.Unlock()
		return nil
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.mu.Lock()
	if e.cancelRun != nil {
		e.cancelRun()
	}
	e.cancelRun = cancel
	e.generation++
	gen := e.generation
	e.computing = true
	e.mu.Unlock()

	e.events.Emit(events.AnalyticsRunStarted, "engine", map[string]interface{}{
		"holdings": len(holdings),
	})

	// The pipeline below must never take the caller down with it: a panic is
	// converted to a recoverable error state and the previous snapshot stays
	// visible.
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("analytics run panicked: %v", r)
			e.failRun(gen, err)
		}
	}()

	start := time.Now()

	symbols := make([]string, len(holdings))
	for i, h := range holdings {
		symbols[i] = h.Symbol
	}

	data := e.fetchAll(runCtx, symbols)

	// Cancellation before the final assembly is always safe: nothing has
	// been published yet.
	if runCtx.Err() != nil {
		e.finishRun(gen, nil)
		e.events.Emit(events.AnalyticsRunCanceled, "engine", nil)
		return runCtx.Err()
	}

	snap := compute(holdings, data, time.Now())
	e.finishRun(gen, &snap)

	e.events.Emit(events.AnalyticsRunCompleted, "engine", map[string]interface{}{
		"total_value": snap.Metrics.TotalValue,
		"risk_score":  snap.Metrics.RiskScore,
	})

	e.log.Info().
		Int("holdings", len(holdings)).
		Float64("total_value", snap.Metrics.TotalValue).
		Int("risk_score", snap.Metrics.RiskScore).
		Dur("duration", time.Since(start)).
		Msg("Analytics run completed")

	return nil
}

// finishRun publishes the snapshot (when non-nil) if this run is still the
// current one. A stale run must not clobber the state of a newer run.
func (e *Engine) finishRun(gen uint64, snap *Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.generation != gen {
		return
	}

	if snap != nil {
		e.snapshot = snap
		e.lastError = ""
	}
	e.computing = false
	e.cancelRun = nil
}

// failRun records a recoverable error state, keeping the previous snapshot
func (e *Engine) failRun(gen uint64, err error) {
	e.mu.Lock()
	if e.generation == gen {
		e.computing = false
		e.lastError = err.Error()
		e.cancelRun = nil
	}
	e.mu.Unlock()

	e.events.Emit(events.AnalyticsRunFailed, "engine", map[string]interface{}{
		"error": err.Error(),
	})
	e.log.Error().Err(err).Msg("Analytics run failed")
}
