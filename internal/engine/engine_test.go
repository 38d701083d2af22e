package engine

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/portfolio-sentinel/internal/clients/marketdata"
	"github.com/aristath/portfolio-sentinel/internal/domain"
	"github.com/aristath/portfolio-sentinel/internal/events"
	"github.com/aristath/portfolio-sentinel/pkg/logger"
)

// fakeData is an in-memory MarketData implementation. Unset maps mean "no
// data"; err fields make a whole batch call fail.
type fakeData struct {
	quotes    map[string]marketdata.Quote
	profiles  map[string]marketdata.Profile
	charts    map[string][]marketdata.PricePoint
	dividends map[string][]marketdata.DividendRecord
	splits    map[string][]marketdata.SplitRecord
	news      []marketdata.NewsItem

	quotesErr   error
	profilesErr error
	chartErr    error
}

func (f *fakeData) GetQuotes(ctx context.Context, symbols []string) ([]marketdata.Quote, error) {
	if f.quotesErr != nil {
		return nil, f.quotesErr
	}
	var out []marketdata.Quote
	for _, s := range symbols {
		if q, ok := f.quotes[s]; ok {
			out = append(out, q)
		}
	}
	return out, nil
}

func (f *fakeData) GetProfiles(ctx context.Context, symbols []string) ([]marketdata.Profile, error) {
	if f.profilesErr != nil {
		return nil, f.profilesErr
	}
	var out []marketdata.Profile
	for _, s := range symbols {
		if p, ok := f.profiles[s]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeData) GetChart(ctx context.Context, symbol string, from, to time.Time) ([]marketdata.PricePoint, error) {
	if f.chartErr != nil {
		return nil, f.chartErr
	}
	return f.charts[symbol], nil
}

func (f *fakeData) GetDividends(ctx context.Context, symbol string) ([]marketdata.DividendRecord, error) {
	return f.dividends[symbol], nil
}

func (f *fakeData) GetSplits(ctx context.Context, symbol string) ([]marketdata.SplitRecord, error) {
	return f.splits[symbol], nil
}

func (f *fakeData) GetStockNews(ctx context.Context, symbols []string) ([]marketdata.NewsItem, error) {
	return f.news, nil
}

func newTestEngine(data MarketData) *Engine {
	log := logger.Nop()
	return New(data, events.NewManager(log), log)
}

var computeNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

func toFetched(f *fakeData) fetched {
	out := fetched{
		quotes:    f.quotes,
		profiles:  f.profiles,
		news:      f.news,
		charts:    f.charts,
		dividends: f.dividends,
		splits:    f.splits,
	}
	if out.quotes == nil {
		out.quotes = map[string]marketdata.Quote{}
	}
	if out.profiles == nil {
		out.profiles = map[string]marketdata.Profile{}
	}
	return out
}

// Single crypto holding with no fundamentals and no chart data: classified by
// symbol pattern, volatility via the quote fallback, risk penalized by both
// the high-risk sector and the volatility terms.
func TestCompute_SingleCryptoHolding(t *testing.T) {
	holdings := []domain.Holding{
		{Symbol: "BTC-USD", Name: "Bitcoin USD", Quantity: 0.5, PurchasePrice: 40000},
	}
	data := &fakeData{
		quotes: map[string]marketdata.Quote{
			"BTC-USD": {Symbol: "BTC-USD", Price: 60000, ChangePercent: 8},
		},
	}

	snap := compute(holdings, toFetched(data), computeNow)

	require.Len(t, snap.SectorExposure, 1)
	assert.Equal(t, "Cryptocurrency", snap.SectorExposure[0].Label)
	assert.InDelta(t, 100, snap.SectorExposure[0].Percent, 1e-9)

	require.Len(t, snap.CountryExposure, 1)
	assert.Equal(t, "Global", snap.CountryExposure[0].Label)

	require.Len(t, snap.AssetClassExposure, 1)
	assert.Equal(t, "Crypto", snap.AssetClassExposure[0].Label)

	// Quote fallback: the 8% daily change is the sole volatility sample
	assert.InDelta(t, 0.08*15.87*100, snap.Metrics.VolatilityPct, 1e-6)

	// 100 - 0.3*100 (high-risk sector) - 5 (concentration) - 40 (vol cap)
	assert.Equal(t, 25, snap.Metrics.RiskScore)
	assert.Equal(t, domain.RiskLabelHigh, snap.Metrics.RiskLabel)

	assert.InDelta(t, 30000, snap.Metrics.TotalValue, 1e-9)
	assert.InDelta(t, 20000, snap.Metrics.TotalCost, 1e-9)
	assert.InDelta(t, 50, snap.Metrics.ReturnPct, 1e-9)
}

// A dominant sector fires exactly one concentration alert and the top-sector
// advisory
func TestCompute_SectorConcentration(t *testing.T) {
	holdings := []domain.Holding{
		{Symbol: "NVDA", Name: "NVIDIA", Quantity: 60, PurchasePrice: 100},
	}
	quotes := map[string]marketdata.Quote{
		"NVDA": {Symbol: "NVDA", Price: 100, ChangePercent: 1},
	}
	profiles := map[string]marketdata.Profile{
		"NVDA": {Symbol: "NVDA", Sector: "Technology", Country: "United States", Beta: 1.7},
	}

	// Eight 5% utility positions around the 60% NVDA position
	utils := []string{"UA", "UB", "UC", "UD", "UE", "UF", "UG", "UH"}
	for _, sym := range utils {
		holdings = append(holdings, domain.Holding{Symbol: sym, Name: sym, Quantity: 5, PurchasePrice: 100})
		quotes[sym] = marketdata.Quote{Symbol: sym, Price: 100, ChangePercent: 0.5}
		profiles[sym] = marketdata.Profile{Symbol: sym, Sector: "Utilities", Country: "United States", Beta: 0.5}
	}

	snap := compute(holdings, toFetched(&fakeData{quotes: quotes, profiles: profiles}), computeNow)

	require.Len(t, snap.ConcentrationAlerts, 1)
	assert.Equal(t, "NVDA", snap.ConcentrationAlerts[0].Symbol)
	assert.InDelta(t, 60, snap.ConcentrationAlerts[0].Percent, 1e-9)

	assert.Equal(t, "Technology", snap.SectorExposure[0].Label)
	assert.InDelta(t, 60, snap.SectorExposure[0].Percent, 1e-9)

	assert.Contains(t, snap.Metrics.Advisory, "Technology makes up 60.0%")
}

// Zero quantity and zero purchase price must not divide anything by zero
func TestCompute_DegenerateHolding(t *testing.T) {
	holdings := []domain.Holding{
		{Symbol: "GHOST", Name: "Ghost Position", Quantity: 0, PurchasePrice: 0},
	}

	snap := compute(holdings, toFetched(&fakeData{}), computeNow)

	m := snap.Metrics
	for name, v := range map[string]float64{
		"total_value":    m.TotalValue,
		"total_cost":     m.TotalCost,
		"return_pct":     m.ReturnPct,
		"volatility_pct": m.VolatilityPct,
		"beta":           m.Beta,
		"sharpe":         m.SharpeRatio,
		"var":            m.ValueAtRisk,
		"yield":          m.CurrentYield,
	} {
		assert.Falsef(t, math.IsNaN(v) || math.IsInf(v, 0), "%s is not finite: %v", name, v)
	}

	assert.Zero(t, m.TotalValue)
	assert.Zero(t, m.ReturnPct)
	assert.GreaterOrEqual(t, m.RiskScore, 1)
	assert.LessOrEqual(t, m.RiskScore, 99)
	assert.NotEmpty(t, m.Advisory)
}

// Identical inputs must produce identical snapshots
func TestCompute_Idempotent(t *testing.T) {
	holdings := []domain.Holding{
		{Symbol: "AAPL", Name: "Apple", Quantity: 10, PurchasePrice: 150},
		{Symbol: "BTC-USD", Name: "Bitcoin USD", Quantity: 0.1, PurchasePrice: 30000},
	}
	data := &fakeData{
		quotes: map[string]marketdata.Quote{
			"AAPL":    {Symbol: "AAPL", Price: 180, ChangePercent: 1.2},
			"BTC-USD": {Symbol: "BTC-USD", Price: 60000, ChangePercent: -3},
		},
		profiles: map[string]marketdata.Profile{
			"AAPL": {Symbol: "AAPL", Sector: "Technology", Country: "United States", Beta: 1.25, LastDividend: 0.24},
		},
		charts: map[string][]marketdata.PricePoint{
			"AAPL": {
				{Date: computeNow.AddDate(0, 0, -3), Close: 176},
				{Date: computeNow.AddDate(0, 0, -2), Close: 179},
				{Date: computeNow.AddDate(0, 0, -1), Close: 178},
			},
		},
		dividends: map[string][]marketdata.DividendRecord{
			"AAPL": {{ExDate: "2025-05-09", PaymentDate: "2025-05-15", Amount: 0.25}},
		},
	}

	first := compute(holdings, toFetched(data), computeNow)
	second := compute(holdings, toFetched(data), computeNow)

	assert.Equal(t, first, second)
}

func TestRefresh_EmptyHoldings(t *testing.T) {
	eng := newTestEngine(&fakeData{})

	err := eng.Refresh(context.Background(), nil)

	require.NoError(t, err)
	assert.Nil(t, eng.Snapshot())
	assert.False(t, eng.IsComputing())
	assert.Empty(t, eng.LastError())
}

func TestRefresh_PublishesSnapshot(t *testing.T) {
	eng := newTestEngine(&fakeData{
		quotes: map[string]marketdata.Quote{
			"AAPL": {Symbol: "AAPL", Price: 180, ChangePercent: 1.2},
		},
	})
	holdings := []domain.Holding{{Symbol: "AAPL", Name: "Apple", Quantity: 10, PurchasePrice: 150}}

	err := eng.Refresh(context.Background(), holdings)

	require.NoError(t, err)
	require.NotNil(t, eng.Snapshot())
	assert.False(t, eng.IsComputing())
	assert.InDelta(t, 1800, eng.Snapshot().Metrics.TotalValue, 1e-9)
}

// A batch fetch failure degrades to fallbacks instead of aborting the run:
// holdings are valued at purchase price.
func TestRefresh_FetchFailuresDegrade(t *testing.T) {
	eng := newTestEngine(&fakeData{
		quotesErr:   context.DeadlineExceeded,
		profilesErr: context.DeadlineExceeded,
		chartErr:    context.DeadlineExceeded,
	})
	holdings := []domain.Holding{{Symbol: "AAPL", Name: "Apple", Quantity: 10, PurchasePrice: 150}}

	err := eng.Refresh(context.Background(), holdings)

	require.NoError(t, err)
	snap := eng.Snapshot()
	require.NotNil(t, snap)
	assert.InDelta(t, 1500, snap.Metrics.TotalValue, 1e-9)
	assert.Zero(t, snap.Metrics.ReturnPct)
}

// A canceled run leaves the previous snapshot untouched
func TestRefresh_CancellationKeepsPreviousSnapshot(t *testing.T) {
	eng := newTestEngine(&fakeData{
		quotes: map[string]marketdata.Quote{
			"AAPL": {Symbol: "AAPL", Price: 180, ChangePercent: 1.2},
		},
	})
	holdings := []domain.Holding{{Symbol: "AAPL", Name: "Apple", Quantity: 10, PurchasePrice: 150}}

	require.NoError(t, eng.Refresh(context.Background(), holdings))
	previous := eng.Snapshot()
	require.NotNil(t, previous)

	canceled, cancel := context.WithCancel(context.Background())
	cancel()

	err := eng.Refresh(canceled, holdings)

	assert.Error(t, err)
	assert.Same(t, previous, eng.Snapshot())
	assert.False(t, eng.IsComputing())
}
