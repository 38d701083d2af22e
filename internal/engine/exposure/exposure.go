// Package exposure buckets holding values by sector, country and asset class
// and converts them to percentages of total portfolio value.
package exposure

import (
	"fmt"
	"hash/fnv"
	"sort"

	"github.com/aristath/portfolio-sentinel/internal/domain"
)

// Position is one valued, classified holding
type Position struct {
	Symbol     string
	Sector     string
	Country    string
	AssetClass string
	Value      float64
}

// BySector groups positions into sector buckets
func BySector(positions []Position, totalValue float64) []domain.ExposureBucket {
	return group(positions, totalValue, func(p Position) string { return p.Sector })
}

// ByCountry groups positions into country buckets. Positions with a blank
// country are skipped.
func ByCountry(positions []Position, totalValue float64) []domain.ExposureBucket {
	return group(positions, totalValue, func(p Position) string { return p.Country })
}

// ByAssetClass groups positions into asset class buckets
func ByAssetClass(positions []Position, totalValue float64) []domain.ExposureBucket {
	return group(positions, totalValue, func(p Position) string { return p.AssetClass })
}

// group aggregates position values by label and converts to percentages.
// Buckets are sorted descending by percentage, with label as tiebreaker so
// identical inputs always produce identical output order.
func group(positions []Position, totalValue float64, label func(Position) string) []domain.ExposureBucket {
	values := make(map[string]float64)
	for _, p := range positions {
		l := label(p)
		if l == "" {
			continue
		}
		values[l] += p.Value
	}

	buckets := make([]domain.ExposureBucket, 0, len(values))
	for l, v := range values {
		pct := 0.0
		if totalValue > 0 {
			pct = v / totalValue * 100
		}
		buckets = append(buckets, domain.ExposureBucket{
			Label:   l,
			Value:   v,
			Percent: pct,
			Color:   ColorFor(l),
		})
	}

	sort.Slice(buckets, func(i, j int) bool {
		if buckets[i].Percent != buckets[j].Percent {
			return buckets[i].Percent > buckets[j].Percent
		}
		return buckets[i].Label < buckets[j].Label
	})

	return buckets
}

// palette maps well-known labels to fixed display colors
var palette = map[string]string{
	"Technology":             "#2196F3",
	"Healthcare":             "#4CAF50",
	"Financial Services":     "#9C27B0",
	"Consumer Cyclical":      "#FF9800",
	"Consumer Defensive":     "#795548",
	"Communication Services": "#00BCD4",
	"Industrials":            "#607D8B",
	"Energy":                 "#F44336",
	"Utilities":              "#FFC107",
	"Real Estate":            "#8BC34A",
	"Basic Materials":        "#E91E63",
	"Cryptocurrency":         "#FF5722",
	"Exchange Traded Fund":   "#3F51B5",
	"Precious Metals":        "#FFD700",
	"Agricultural":           "#CDDC39",
	"Index":                  "#009688",
	"Currency":               "#673AB7",
	"Unknown":                "#9E9E9E",

	"Stocks":      "#2196F3",
	"ETF":         "#3F51B5",
	"Crypto":      "#FF5722",
	"Commodities": "#FFD700",

	"United States": "#2196F3",
	"Global":        "#009688",
}

// ColorFor returns the display color for a bucket label: the fixed palette
// entry when one exists, otherwise a stable color derived from the label's
// hash. The same label always maps to the same color across runs.
func ColorFor(label string) string {
	if c, ok := palette[label]; ok {
		return c
	}

	h := fnv.New32a()
	h.Write([]byte(label))
	sum := h.Sum32()

	return fmt.Sprintf("#%02X%02X%02X", byte(sum>>16), byte(sum>>8), byte(sum))
}
