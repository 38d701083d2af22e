package scheduler

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/portfolio-sentinel/internal/engine"
	"github.com/aristath/portfolio-sentinel/internal/store"
)

// RefreshCycleJob periodically re-runs the analytics pipeline so quotes and
// risk statistics stay reasonably fresh between holdings changes
type RefreshCycleJob struct {
	log      zerolog.Logger
	engine   *engine.Engine
	holdings *store.HoldingsRepository
}

// NewRefreshCycleJob creates a new refresh cycle job
func NewRefreshCycleJob(eng *engine.Engine, holdings *store.HoldingsRepository, log zerolog.Logger) *RefreshCycleJob {
	return &RefreshCycleJob{
		log:      log.With().Str("job", "refresh_cycle").Logger(),
		engine:   eng,
		holdings: holdings,
	}
}

// Name returns the job name
func (j *RefreshCycleJob) Name() string {
	return "refresh_cycle"
}

// Run executes one refresh cycle
func (j *RefreshCycleJob) Run() error {
	holdings, err := j.holdings.All()
	if err != nil {
		return fmt.Errorf("failed to load holdings: %w", err)
	}

	if len(holdings) == 0 {
		j.log.Debug().Msg("No holdings, skipping refresh")
		return nil
	}

	return j.engine.Refresh(context.Background(), holdings)
}
