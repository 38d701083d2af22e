// Package store persists the user's holdings and notifies subscribers on
// every change, driving a fresh analytics run.
package store

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-sentinel/internal/domain"
)

// HoldingsRepository provides access to the holdings table
type HoldingsRepository struct {
	db  *DB
	log zerolog.Logger

	mu          sync.Mutex
	subscribers []chan struct{}
}

// NewHoldingsRepository creates a new holdings repository
func NewHoldingsRepository(db *DB, log zerolog.Logger) *HoldingsRepository {
	return &HoldingsRepository{
		db:  db,
		log: log.With().Str("service", "holdings_repository").Logger(),
	}
}

// All returns every holding, ordered by symbol
func (r *HoldingsRepository) All() ([]domain.Holding, error) {
	query := `
		SELECT symbol, name, quantity, purchase_price, category
		FROM holdings
		ORDER BY symbol
	`

	rows, err := r.db.Conn().Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query holdings: %w", err)
	}
	defer rows.Close()

	var holdings []domain.Holding
	for rows.Next() {
		var h domain.Holding
		if err := rows.Scan(&h.Symbol, &h.Name, &h.Quantity, &h.PurchasePrice, &h.Category); err != nil {
			return nil, fmt.Errorf("failed to scan holding: %w", err)
		}
		holdings = append(holdings, h)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating holdings: %w", err)
	}

	return holdings, nil
}

// Upsert inserts or replaces a holding and notifies subscribers
func (r *HoldingsRepository) Upsert(h domain.Holding) error {
	h.Symbol = strings.ToUpper(strings.TrimSpace(h.Symbol))
	if h.Symbol == "" {
		return fmt.Errorf("symbol cannot be empty")
	}
	if h.Quantity < 0 {
		return fmt.Errorf("quantity cannot be negative")
	}

	query := `
		INSERT INTO holdings (symbol, name, quantity, purchase_price, category, updated_at)
		VALUES (?, ?, ?, ?, ?, datetime('now'))
		ON CONFLICT(symbol) DO UPDATE SET
			name = excluded.name,
			quantity = excluded.quantity,
			purchase_price = excluded.purchase_price,
			category = excluded.category,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.Conn().Exec(query, h.Symbol, h.Name, h.Quantity, h.PurchasePrice, h.Category); err != nil {
		return fmt.Errorf("failed to upsert holding %s: %w", h.Symbol, err)
	}

	r.log.Debug().Str("symbol", h.Symbol).Float64("quantity", h.Quantity).Msg("Holding upserted")
	r.notify()
	return nil
}

// Delete removes a holding and notifies subscribers
func (r *HoldingsRepository) Delete(symbol string) error {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	result, err := r.db.Conn().Exec(`DELETE FROM holdings WHERE symbol = ?`, symbol)
	if err != nil {
		return fmt.Errorf("failed to delete holding %s: %w", symbol, err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("holding %s not found", symbol)
	}

	r.log.Debug().Str("symbol", symbol).Msg("Holding deleted")
	r.notify()
	return nil
}

// Subscribe returns a channel that receives a signal after every change to
// the holdings set. The channel is buffered; a slow subscriber coalesces
// signals instead of blocking writers.
func (r *HoldingsRepository) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)

	r.mu.Lock()
	r.subscribers = append(r.subscribers, ch)
	r.mu.Unlock()

	return ch
}

// notify signals all subscribers without blocking
func (r *HoldingsRepository) notify() {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range r.subscribers {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
