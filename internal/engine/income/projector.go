// Package income estimates projected annual dividend income from historical
// dividend records, with a profile-based fallback when history is absent.
package income

import (
	"fmt"
	"sort"
	"time"

	"github.com/aristath/portfolio-sentinel/internal/clients/marketdata"
	"github.com/aristath/portfolio-sentinel/internal/domain"
)

// quarterlyFactor turns a single last-known dividend per share into an annual
// estimate when no usable history exists
const quarterlyFactor = 4

// calendarEntriesPerHolding caps how many payments one holding contributes to
// the dividend calendar
const calendarEntriesPerHolding = 3

// Input is one holding plus its fetched dividend data
type Input struct {
	Holding   domain.Holding
	Profile   *marketdata.Profile // nil when the profile fetch failed
	Dividends []marketdata.DividendRecord
}

// Projection is the aggregated income estimate for the whole portfolio
type Projection struct {
	AnnualIncome float64
	CurrentYield float64
	Calendar     []domain.DividendPayment
}

// Project computes trailing-twelve-month income per holding, anchored to now,
// and the upcoming/recent payments calendar.
func Project(inputs []Input, totalValue float64, now time.Time) Projection {
	var p Projection

	for _, in := range inputs {
		perShare := trailingPerShare(in, now)
		p.AnnualIncome += perShare * in.Holding.Quantity
		p.Calendar = append(p.Calendar, calendarEntries(in)...)
	}

	// Descending sort on the formatted display string. This is lexicographic,
	// not a true date sort, and is kept for compatibility with the behavior
	// users already see.
	sort.Slice(p.Calendar, func(i, j int) bool {
		return p.Calendar[i].Display > p.Calendar[j].Display
	})

	if totalValue > 0 {
		p.CurrentYield = p.AnnualIncome / totalValue * 100
	}

	return p
}

// trailingPerShare sums dividend records with a parseable ex/payment date
// inside the last 365 days. When no such record exists (history empty, all
// dates unparseable, or all records too old) it falls back to the profile's
// last known dividend per share times the quarterly assumption.
func trailingPerShare(in Input, now time.Time) float64 {
	cutoff := now.AddDate(0, 0, -365)

	var sum float64
	matched := 0
	for _, rec := range in.Dividends {
		d, ok := recordDate(rec)
		if !ok {
			continue
		}
		if d.Before(cutoff) || d.After(now) {
			continue
		}
		sum += rec.Amount
		matched++
	}

	if matched > 0 {
		return sum
	}

	if in.Profile != nil && in.Profile.LastDividend > 0 {
		return in.Profile.LastDividend * quarterlyFactor
	}

	return 0
}

// recordDate resolves the effective date of a dividend record, preferring the
// ex-date. Unparseable dates invalidate the record, not the projection.
func recordDate(rec marketdata.DividendRecord) (time.Time, bool) {
	if d, err := parseDate(rec.ExDate); err == nil {
		return d, true
	}
	if d, err := parseDate(rec.PaymentDate); err == nil {
		return d, true
	}
	return time.Time{}, false
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", s)
}

// calendarEntries formats up to the first three records that carry a payment
// date. Record order is whatever the data source returned.
func calendarEntries(in Input) []domain.DividendPayment {
	var entries []domain.DividendPayment
	for _, rec := range in.Dividends {
		if len(entries) >= calendarEntriesPerHolding {
			break
		}
		if rec.PaymentDate == "" {
			continue
		}
		entries = append(entries, domain.DividendPayment{
			Display: fmt.Sprintf("Payment: %s - %s ($%.2f)", rec.PaymentDate, in.Holding.Symbol, rec.Amount),
		})
	}
	return entries
}
