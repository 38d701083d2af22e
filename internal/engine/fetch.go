package engine

import (
	"context"
	"sync"
	"time"

	"github.com/aristath/portfolio-sentinel/internal/clients/marketdata"
)

// fetched holds the joined results of one fan-out. Missing entries mean the
// fetch failed or returned nothing; downstream components fall back.
type fetched struct {
	quotes    map[string]marketdata.Quote
	profiles  map[string]marketdata.Profile
	news      []marketdata.NewsItem
	charts    map[string][]marketdata.PricePoint
	dividends map[string][]marketdata.DividendRecord
	splits    map[string][]marketdata.SplitRecord
}

// fetchAll launches every fetch for a run concurrently and joins them.
// Each goroutine writes only its own slot, so the join is the single point
// where results are assembled. A failing fetch degrades to empty data and
// never cancels its siblings.
func (e *Engine) fetchAll(ctx context.Context, symbols []string) fetched {
	var (
		quotes   []marketdata.Quote
		profiles []marketdata.Profile
		news     []marketdata.NewsItem

		charts    = make([][]marketdata.PricePoint, len(symbols))
		dividends = make([][]marketdata.DividendRecord, len(symbols))
		splits    = make([][]marketdata.SplitRecord, len(symbols))
	)

	to := time.Now()
	from := to.Add(-chartLookback)

	var wg sync.WaitGroup

	e.fetchStep(&wg, "quotes", func() error {
		var err error
		quotes, err = e.data.GetQuotes(ctx, symbols)
		return err
	})
	e.fetchStep(&wg, "profiles", func() error {
		var err error
		profiles, err = e.data.GetProfiles(ctx, symbols)
		return err
	})
	e.fetchStep(&wg, "news", func() error {
		var err error
		news, err = e.data.GetStockNews(ctx, symbols)
		return err
	})

	for i, symbol := range symbols {
		i, symbol := i, symbol

		e.fetchStep(&wg, "chart:"+symbol, func() error {
			var err error
			charts[i], err = e.data.GetChart(ctx, symbol, from, to)
			return err
		})
		e.fetchStep(&wg, "dividends:"+symbol, func() error {
			var err error
			dividends[i], err = e.data.GetDividends(ctx, symbol)
			return err
		})
		e.fetchStep(&wg, "splits:"+symbol, func() error {
			var err error
			splits[i], err = e.data.GetSplits(ctx, symbol)
			return err
		})
	}

	wg.Wait()

	f := fetched{
		quotes:    make(map[string]marketdata.Quote, len(quotes)),
		profiles:  make(map[string]marketdata.Profile, len(profiles)),
		news:      news,
		charts:    make(map[string][]marketdata.PricePoint, len(symbols)),
		dividends: make(map[string][]marketdata.DividendRecord, len(symbols)),
		splits:    make(map[string][]marketdata.SplitRecord, len(symbols)),
	}

	for _, q := range quotes {
		f.quotes[q.Symbol] = q
	}
	for _, p := range profiles {
		f.profiles[p.Symbol] = p
	}
	for i, symbol := range symbols {
		if len(charts[i]) > 0 {
			f.charts[symbol] = charts[i]
		}
		if len(dividends[i]) > 0 {
			f.dividends[symbol] = dividends[i]
		}
		if len(splits[i]) > 0 {
			f.splits[symbol] = splits[i]
		}
	}

	return f
}

// fetchStep runs one fetch in its own goroutine. Errors and panics are
// contained here: the symbol degrades to its fallback path downstream.
func (e *Engine) fetchStep(wg *sync.WaitGroup, name string, fn func() error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				e.log.Error().Interface("panic", r).Str("fetch", name).Msg("Fetch panicked")
			}
		}()

		if err := fn(); err != nil {
			e.log.Warn().Err(err).Str("fetch", name).Msg("Fetch failed, degrading to fallback")
		}
	}()
}
