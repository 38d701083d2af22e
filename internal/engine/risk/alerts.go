package risk

import (
	"sort"

	"github.com/aristath/portfolio-sentinel/internal/domain"
)

// ConcentrationThresholdPct is the share of total portfolio value above which
// a single holding triggers a concentration alert
const ConcentrationThresholdPct = 10.0

// ConcentrationAlerts returns exactly the holdings whose share of total
// portfolio value exceeds the concentration threshold, sorted descending by
// percentage.
func ConcentrationAlerts(assets []Asset, totalValue float64) []domain.ConcentrationAlert {
	var alerts []domain.ConcentrationAlert
	if totalValue <= 0 {
		return alerts
	}

	for _, a := range assets {
		pct := a.Value / totalValue * 100
		if pct > ConcentrationThresholdPct {
			alerts = append(alerts, domain.ConcentrationAlert{
				Symbol:  a.Symbol,
				Name:    a.Name,
				Percent: pct,
			})
		}
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Percent != alerts[j].Percent {
			return alerts[i].Percent > alerts[j].Percent
		}
		return alerts[i].Symbol < alerts[j].Symbol
	})

	return alerts
}

// SectorRiskAlerts flags holdings whose resolved sector is in the high-risk
// sector set, sorted descending by percentage.
func SectorRiskAlerts(assets []Asset, totalValue float64) []domain.SectorRiskAlert {
	var alerts []domain.SectorRiskAlert

	for _, a := range assets {
		if !highRiskSectors[a.Sector] {
			continue
		}
		pct := 0.0
		if totalValue > 0 {
			pct = a.Value / totalValue * 100
		}
		alerts = append(alerts, domain.SectorRiskAlert{
			Symbol:  a.Symbol,
			Sector:  a.Sector,
			Percent: pct,
		})
	}

	sort.Slice(alerts, func(i, j int) bool {
		if alerts[i].Percent != alerts[j].Percent {
			return alerts[i].Percent > alerts[j].Percent
		}
		return alerts[i].Symbol < alerts[j].Symbol
	})

	return alerts
}
