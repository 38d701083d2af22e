package classify

import (
	"testing"
)

func TestResolve_FallbackRules(t *testing.T) {
	tests := []struct {
		name           string
		facts          Facts
		wantSector     string
		wantCountry    string
		wantAssetClass string
	}{
		{
			name:           "crypto by exchange",
			facts:          Facts{Symbol: "SOL-EUR", Exchange: "CRYPTO"},
			wantSector:     SectorCryptocurrency,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCrypto,
		},
		{
			name:           "crypto by -USD suffix",
			facts:          Facts{Symbol: "BTC-USD", Name: "Bitcoin USD"},
			wantSector:     SectorCryptocurrency,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCrypto,
		},
		{
			name:           "crypto by ETH substring",
			facts:          Facts{Symbol: "ETHW", Name: "EthereumPoW"},
			wantSector:     SectorCryptocurrency,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCrypto,
		},
		{
			name:           "crypto keeps known country",
			facts:          Facts{Symbol: "BTC-USD", Country: "El Salvador"},
			wantSector:     SectorCryptocurrency,
			wantCountry:    "El Salvador",
			wantAssetClass: AssetClassCrypto,
		},
		{
			name:           "etf by flag",
			facts:          Facts{Symbol: "VWCE.DE", Name: "Vanguard FTSE All-World", IsETF: true},
			wantSector:     SectorETF,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassETF,
		},
		{
			name:           "etf by name case-insensitive",
			facts:          Facts{Symbol: "SPY", Name: "SPDR S&P 500 etf Trust"},
			wantSector:     SectorETF,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassETF,
		},
		{
			name:           "index by caret prefix",
			facts:          Facts{Symbol: "^GSPC", Name: "S&P 500"},
			wantSector:     SectorIndex,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassStocks,
		},
		{
			name:           "forex forces global country",
			facts:          Facts{Symbol: "EURUSD=X", Country: "Germany"},
			wantSector:     SectorCurrency,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassStocks,
		},
		{
			name:           "gold futures",
			facts:          Facts{Symbol: "GC=F", Name: "Gold Futures"},
			wantSector:     SectorPreciousMetals,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCommodities,
		},
		{
			name:           "silver by name",
			facts:          Facts{Symbol: "SLV-X", Name: "Physical Silver Trust"},
			wantSector:     SectorPreciousMetals,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCommodities,
		},
		{
			name:           "crude oil futures",
			facts:          Facts{Symbol: "CL=F", Name: "Crude Oil Futures"},
			wantSector:     SectorEnergy,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCommodities,
		},
		{
			name:           "natural gas by name",
			facts:          Facts{Symbol: "UNG-X", Name: "United States Natural Gas Fund"},
			wantSector:     SectorEnergy,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCommodities,
		},
		{
			name:           "copper is basic materials but not commodities class",
			facts:          Facts{Symbol: "HG=F", Name: "Copper Futures"},
			wantSector:     SectorBasicMaterials,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassStocks,
		},
		{
			name:           "corn futures",
			facts:          Facts{Symbol: "ZC=F", Name: "Corn Futures"},
			wantSector:     SectorAgricultural,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCommodities,
		},
		{
			name:           "no rule matches",
			facts:          Facts{Symbol: "XYZ", Name: "Some Company"},
			wantSector:     LabelUnknown,
			wantCountry:    LabelUnknown,
			wantAssetClass: AssetClassStocks,
		},
		{
			name:           "no rule matches keeps known country",
			facts:          Facts{Symbol: "XYZ", Name: "Some Company", Country: "France"},
			wantSector:     LabelUnknown,
			wantCountry:    "France",
			wantAssetClass: AssetClassStocks,
		},
		{
			name:           "unknown sentinel sector triggers fallback",
			facts:          Facts{Symbol: "BTC-USD", Sector: "Unknown"},
			wantSector:     SectorCryptocurrency,
			wantCountry:    CountryGlobal,
			wantAssetClass: AssetClassCrypto,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.facts)
			if got.Sector != tt.wantSector {
				t.Errorf("sector = %q, want %q", got.Sector, tt.wantSector)
			}
			if got.Country != tt.wantCountry {
				t.Errorf("country = %q, want %q", got.Country, tt.wantCountry)
			}
			if got.AssetClass != tt.wantAssetClass {
				t.Errorf("asset class = %q, want %q", got.AssetClass, tt.wantAssetClass)
			}
		})
	}
}

func TestResolve_KnownSectorNeverOverwritten(t *testing.T) {
	// BTC-like symbol with a known sector must keep the fundamentals sector
	got := Resolve(Facts{Symbol: "BTCS", Name: "BTCS Inc.", Sector: "Technology", Country: "United States"})

	if got.Sector != "Technology" {
		t.Errorf("sector = %q, want Technology", got.Sector)
	}
	if got.Country != "United States" {
		t.Errorf("country = %q, want United States", got.Country)
	}
}

func TestResolve_KnownSectorBlankCountry(t *testing.T) {
	got := Resolve(Facts{Symbol: "AAPL", Sector: "Technology"})

	if got.Sector != "Technology" {
		t.Errorf("sector = %q, want Technology", got.Sector)
	}
	if got.Country != LabelUnknown {
		t.Errorf("country = %q, want %q", got.Country, LabelUnknown)
	}
}

func TestResolve_RulePriority(t *testing.T) {
	// A crypto symbol whose name mentions ETF: the crypto rule comes first,
	// but asset class derivation still sees the ETF name.
	got := Resolve(Facts{Symbol: "BTC-USD", Name: "Bitcoin Strategy ETF"})

	if got.Sector != SectorCryptocurrency {
		t.Errorf("sector = %q, want %q", got.Sector, SectorCryptocurrency)
	}
	if got.AssetClass != AssetClassETF {
		t.Errorf("asset class = %q, want %q", got.AssetClass, AssetClassETF)
	}
}

// TestResolve_Totality feeds adversarial combinations and requires that every
// result is fully populated
func TestResolve_Totality(t *testing.T) {
	symbols := []string{"", "AAPL", "BTC-USD", "^DJI", "EURUSD=X", "GC=F", "ZW=F", "weird symbol", "HG=F"}
	sectors := []string{"", "Unknown", "unknown", "Technology"}
	countries := []string{"", "Unknown", "Japan"}
	exchanges := []string{"", "CRYPTO", "NASDAQ"}

	for _, sym := range symbols {
		for _, sec := range sectors {
			for _, country := range countries {
				for _, ex := range exchanges {
					got := Resolve(Facts{Symbol: sym, Sector: sec, Country: country, Exchange: ex})
					if got.Sector == "" || got.Country == "" || got.AssetClass == "" {
						t.Fatalf("Resolve(%q, sector=%q, country=%q, exchange=%q) produced empty field: %+v",
							sym, sec, country, ex, got)
					}
				}
			}
		}
	}
}
