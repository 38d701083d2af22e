package engine

import (
	"time"

	"github.com/aristath/portfolio-sentinel/internal/clients/marketdata"
	"github.com/aristath/portfolio-sentinel/internal/domain"
	"github.com/aristath/portfolio-sentinel/internal/engine/advisory"
	"github.com/aristath/portfolio-sentinel/internal/engine/classify"
	"github.com/aristath/portfolio-sentinel/internal/engine/exposure"
	"github.com/aristath/portfolio-sentinel/internal/engine/income"
	"github.com/aristath/portfolio-sentinel/internal/engine/risk"
)

// position is one holding reconciled against its fetched data
type position struct {
	holding domain.Holding
	class   domain.Classification
	profile *marketdata.Profile
	quote   *marketdata.Quote
	value   float64
	cost    float64
}

// compute is the synchronous half of a run: all inputs are already fetched,
// everything below is deterministic for a given now.
func compute(holdings []domain.Holding, f fetched, now time.Time) Snapshot {
	positions := reconcile(holdings, f)

	var totalValue, totalCost float64
	for _, p := range positions {
		totalValue += p.value
		totalCost += p.cost
	}

	returnAbs := totalValue - totalCost
	returnPct := 0.0
	if totalCost > 0 {
		returnPct = returnAbs / totalCost * 100
	}

	// Exposure buckets
	expPositions := make([]exposure.Position, len(positions))
	for i, p := range positions {
		expPositions[i] = exposure.Position{
			Symbol:     p.holding.Symbol,
			Sector:     p.class.Sector,
			Country:    p.class.Country,
			AssetClass: p.class.AssetClass,
			Value:      p.value,
		}
	}
	sectorBuckets := exposure.BySector(expPositions, totalValue)
	countryBuckets := exposure.ByCountry(expPositions, totalValue)
	assetClassBuckets := exposure.ByAssetClass(expPositions, totalValue)

	// Alerts and risk
	assets := make([]risk.Asset, len(positions))
	for i, p := range positions {
		var beta float64
		if p.profile != nil {
			beta = p.profile.Beta
		}
		assets[i] = risk.Asset{
			Symbol: p.holding.Symbol,
			Name:   p.holding.Name,
			Sector: p.class.Sector,
			Value:  p.value,
			Beta:   beta,
			Closes: closes(f.charts[p.holding.Symbol]),
		}
	}

	concentrationAlerts := risk.ConcentrationAlerts(assets, totalValue)
	sectorRiskAlerts := risk.SectorRiskAlerts(assets, totalValue)

	var changePcts []float64
	for _, p := range positions {
		if p.quote != nil {
			changePcts = append(changePcts, p.quote.ChangePercent)
		}
	}

	riskResult := risk.Compute(risk.Input{
		Assets:              assets,
		TotalValue:          totalValue,
		TotalReturnPct:      returnPct,
		QuoteChangePcts:     changePcts,
		ConcentrationAlerts: len(concentrationAlerts),
	})

	// Income projection
	incomeInputs := make([]income.Input, len(positions))
	for i, p := range positions {
		incomeInputs[i] = income.Input{
			Holding:   p.holding,
			Profile:   p.profile,
			Dividends: f.dividends[p.holding.Symbol],
		}
	}
	projection := income.Project(incomeInputs, totalValue, now)

	// Advisory
	topSector, topSectorPct := "", 0.0
	if len(sectorBuckets) > 0 {
		topSector = sectorBuckets[0].Label
		topSectorPct = sectorBuckets[0].Percent
	}
	cryptoPct := 0.0
	for _, b := range assetClassBuckets {
		if b.Label == classify.AssetClassCrypto {
			cryptoPct = b.Percent
			break
		}
	}

	advice := advisory.Advise(advisory.Input{
		RiskLabel:      riskResult.Label,
		TopSector:      topSector,
		TopSectorPct:   topSectorPct,
		SharpeRatio:    riskResult.SharpeRatio,
		TotalReturnPct: returnPct,
		CryptoPct:      cryptoPct,
	})

	gainer, loser := movers(positions)

	return Snapshot{
		Metrics: domain.PortfolioMetrics{
			TotalValue:    totalValue,
			TotalCost:     totalCost,
			ReturnAbs:     returnAbs,
			ReturnPct:     returnPct,
			TopGainer:     gainer,
			TopLoser:      loser,
			VolatilityPct: riskResult.Volatility * 100,
			Beta:          riskResult.Beta,
			SharpeRatio:   riskResult.SharpeRatio,
			ValueAtRisk:   riskResult.ValueAtRisk,
			RiskScore:     riskResult.Score,
			RiskLabel:     riskResult.Label,
			AnnualIncome:  projection.AnnualIncome,
			CurrentYield:  projection.CurrentYield,
			Advisory:      advice,
			GeneratedAt:   now,
		},
		SectorExposure:      sectorBuckets,
		CountryExposure:     countryBuckets,
		AssetClassExposure:  assetClassBuckets,
		ConcentrationAlerts: concentrationAlerts,
		SectorRiskAlerts:    sectorRiskAlerts,
		DividendCalendar:    projection.Calendar,
		News:                f.news,
	}
}

// reconcile joins each holding with its fetched quote and profile and
// resolves its classification. A holding without a usable quote is valued at
// its purchase price.
func reconcile(holdings []domain.Holding, f fetched) []position {
	positions := make([]position, 0, len(holdings))

	for _, h := range holdings {
		p := position{holding: h}

		if q, ok := f.quotes[h.Symbol]; ok {
			quote := q
			p.quote = &quote
		}
		if prof, ok := f.profiles[h.Symbol]; ok {
			profile := prof
			p.profile = &profile
		}

		price := h.PurchasePrice
		if p.quote != nil && p.quote.Price > 0 {
			price = p.quote.Price
		}
		p.value = h.Quantity * price
		p.cost = h.Quantity * h.PurchasePrice

		facts := classify.Facts{
			Symbol: h.Symbol,
			Name:   h.Name,
		}
		if p.profile != nil {
			facts.Sector = p.profile.Sector
			facts.Country = p.profile.Country
			facts.Exchange = p.profile.Exchange
			facts.IsETF = p.profile.IsETF
		}
		p.class = classify.Resolve(facts)

		positions = append(positions, p)
	}

	return positions
}

// movers picks the best and worst daily performer among holdings with quotes
func movers(positions []position) (gainer, loser *domain.Mover) {
	for _, p := range positions {
		if p.quote == nil {
			continue
		}
		m := domain.Mover{
			Symbol:     p.holding.Symbol,
			Name:       p.holding.Name,
			ChangePct:  p.quote.ChangePercent,
			ValueTotal: p.value,
		}
		if gainer == nil || m.ChangePct > gainer.ChangePct {
			g := m
			gainer = &g
		}
		if loser == nil || m.ChangePct < loser.ChangePct {
			l := m
			loser = &l
		}
	}
	return gainer, loser
}

// closes extracts the close series from a chart in chronological order
func closes(points []marketdata.PricePoint) []float64 {
	if len(points) == 0 {
		return nil
	}
	out := make([]float64, 0, len(points))
	for _, pt := range points {
		out = append(out, pt.Close)
	}
	return out
}
