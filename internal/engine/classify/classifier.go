// Package classify resolves the (sector, country, asset class) triple for a
// holding when fundamentals data is missing or marked unknown.
//
// Resolution is an ordered rule table evaluated top to bottom, first match
// wins. The order is part of the behavior contract: a crypto symbol that also
// happens to contain "ETF" in its name classifies as crypto, not as an ETF.
package classify

import (
	"strings"

	"github.com/aristath/portfolio-sentinel/internal/domain"
)

// Resolved sector and country labels
const (
	SectorCryptocurrency = "Cryptocurrency"
	SectorETF            = "Exchange Traded Fund"
	SectorIndex          = "Index"
	SectorCurrency       = "Currency"
	SectorPreciousMetals = "Precious Metals"
	SectorEnergy         = "Energy"
	SectorBasicMaterials = "Basic Materials"
	SectorAgricultural   = "Agricultural"

	LabelUnknown  = "Unknown"
	CountryGlobal = "Global"
)

// Asset class labels
const (
	AssetClassETF         = "ETF"
	AssetClassCrypto      = "Crypto"
	AssetClassCommodities = "Commodities"
	AssetClassStocks      = "Stocks"
)

// Facts is everything the classifier may consult: the holding itself plus its
// possibly incomplete fundamentals profile. Zero values mean "not known".
type Facts struct {
	Symbol   string
	Name     string
	Sector   string
	Country  string
	Exchange string
	IsETF    bool
}

// rule is one entry of the fallback table. forceCountry overrides an already
// known country with "Global"; otherwise "Global" only fills a blank.
type rule struct {
	name         string
	match        func(f Facts) bool
	sector       string
	forceCountry bool
}

var rules = []rule{
	{
		name: "crypto",
		match: func(f Facts) bool {
			sym := strings.ToUpper(f.Symbol)
			return strings.EqualFold(f.Exchange, "CRYPTO") ||
				strings.Contains(sym, "-USD") ||
				strings.Contains(sym, "BTC") ||
				strings.Contains(sym, "ETH")
		},
		sector: SectorCryptocurrency,
	},
	{
		name: "etf",
		match: func(f Facts) bool {
			return f.IsETF || containsFold(f.Name, "ETF")
		},
		sector: SectorETF,
	},
	{
		name: "index",
		match: func(f Facts) bool {
			return strings.HasPrefix(f.Symbol, "^")
		},
		sector: SectorIndex,
	},
	{
		name: "forex",
		match: func(f Facts) bool {
			return strings.Contains(strings.ToUpper(f.Symbol), "=X")
		},
		sector:       SectorCurrency,
		forceCountry: true,
	},
	{
		name: "precious_metals",
		match: func(f Facts) bool {
			return symbolIn(f.Symbol, "GC=F", "SI=F", "PL=F", "PA=F") ||
				containsFold(f.Name, "gold") ||
				containsFold(f.Name, "silver") ||
				containsFold(f.Name, "platinum") ||
				containsFold(f.Name, "palladium")
		},
		sector:       SectorPreciousMetals,
		forceCountry: true,
	},
	{
		name: "energy",
		match: func(f Facts) bool {
			return symbolIn(f.Symbol, "CL=F", "NG=F", "BZ=F") ||
				containsFold(f.Name, "crude oil") ||
				containsFold(f.Name, "natural gas") ||
				containsFold(f.Name, "brent")
		},
		sector:       SectorEnergy,
		forceCountry: true,
	},
	{
		name: "base_metals",
		match: func(f Facts) bool {
			return symbolIn(f.Symbol, "HG=F") || containsFold(f.Name, "copper")
		},
		sector:       SectorBasicMaterials,
		forceCountry: true,
	},
	{
		name: "agricultural",
		match: func(f Facts) bool {
			return symbolIn(f.Symbol, "ZC=F", "ZW=F", "ZS=F")
		},
		sector:       SectorAgricultural,
		forceCountry: true,
	},
}

// Resolve returns the classification for the given facts. It is total: the
// result never contains an empty sector, country or asset class.
func Resolve(f Facts) domain.Classification {
	sector := strings.TrimSpace(f.Sector)
	country := strings.TrimSpace(f.Country)

	if !isUnknown(sector) {
		// Sector already known from fundamentals: never overwritten, country
		// only backfilled.
		if country == "" {
			country = LabelUnknown
		}
		return domain.Classification{
			Sector:     sector,
			Country:    country,
			AssetClass: assetClass(f, sector),
		}
	}

	for _, r := range rules {
		if !r.match(f) {
			continue
		}
		if r.forceCountry || country == "" {
			country = CountryGlobal
		}
		return domain.Classification{
			Sector:     r.sector,
			Country:    country,
			AssetClass: assetClass(f, r.sector),
		}
	}

	if country == "" {
		country = LabelUnknown
	}
	return domain.Classification{
		Sector:     LabelUnknown,
		Country:    country,
		AssetClass: assetClass(f, LabelUnknown),
	}
}

// assetClass derives the asset class independently of the sector rules, from
// the resolved sector plus the raw facts
func assetClass(f Facts, sector string) string {
	switch {
	case f.IsETF || containsFold(f.Name, "ETF"):
		return AssetClassETF
	case sector == SectorCryptocurrency || strings.EqualFold(f.Exchange, "CRYPTO"):
		return AssetClassCrypto
	case sector == SectorPreciousMetals || sector == SectorEnergy || sector == SectorAgricultural:
		return AssetClassCommodities
	default:
		return AssetClassStocks
	}
}

func isUnknown(sector string) bool {
	return sector == "" || strings.EqualFold(sector, LabelUnknown)
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToUpper(s), strings.ToUpper(substr))
}

func symbolIn(symbol string, candidates ...string) bool {
	sym := strings.ToUpper(strings.TrimSpace(symbol))
	for _, c := range candidates {
		if sym == c {
			return true
		}
	}
	return false
}
