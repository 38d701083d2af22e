package marketdata

import "time"

// Quote is the freshest known market quote for a symbol.
// Any field may be zero when the upstream source has no data for it.
type Quote struct {
	Symbol        string  `json:"symbol"`
	Price         float64 `json:"price"`
	Change        float64 `json:"change"`
	ChangePercent float64 `json:"change_percent"`
	DayLow        float64 `json:"day_low"`
	DayHigh       float64 `json:"day_high"`
	YearLow       float64 `json:"year_low"`
	YearHigh      float64 `json:"year_high"`
	Volume        int64   `json:"volume"`
	MarketCap     int64   `json:"market_cap"`
}

// Profile is the slow-changing fundamentals record for a symbol.
// String fields may be empty or the literal sentinel "Unknown".
type Profile struct {
	Symbol       string  `json:"symbol"`
	Sector       string  `json:"sector"`
	Country      string  `json:"country"`
	Exchange     string  `json:"exchange"`
	Beta         float64 `json:"beta"`
	LastDividend float64 `json:"last_dividend"` // last known dividend per share
	IsETF        bool    `json:"is_etf"`
	Image        string  `json:"image"`
}

// PricePoint is one trading day of a historical price series
type PricePoint struct {
	Date  time.Time `json:"date"`
	Close float64   `json:"close"`
}

// DividendRecord is one historical dividend payment.
// Dates are free-text strings from the upstream source and may fail to parse.
type DividendRecord struct {
	PaymentDate string  `json:"payment_date"`
	ExDate      string  `json:"ex_date"`
	Amount      float64 `json:"amount"` // per share
}

// SplitRecord is one historical stock split
type SplitRecord struct {
	Date        string  `json:"date"`
	Numerator   float64 `json:"numerator"`
	Denominator float64 `json:"denominator"`
}

// NewsItem is one news article for a symbol (informational only)
type NewsItem struct {
	Symbol      string `json:"symbol"`
	Title       string `json:"title"`
	Site        string `json:"site"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
}
