// Package jobs holds the scheduled background jobs.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const syncRunTimeout = 10 * time.Minute

// PriceSyncer refreshes one ticker's stored history
type PriceSyncer interface {
	Sync(ctx context.Context, ticker string) (int, error)
}

// TickerLister names every ticker with stored history
type TickerLister interface {
	DistinctTickers() ([]string, error)
}

// PriceSyncJob refreshes the stored history of every known ticker
type PriceSyncJob struct {
	syncer  PriceSyncer
	tickers TickerLister
	log     zerolog.Logger
}

// NewPriceSyncJob creates a new price sync job
func NewPriceSyncJob(syncer PriceSyncer, tickers TickerLister, log zerolog.Logger) *PriceSyncJob {
	return &PriceSyncJob{
		syncer:  syncer,
		tickers: tickers,
		log:     log.With().Str("job", "price_sync").Logger(),
	}
}

// Name implements scheduler.Job
func (j *PriceSyncJob) Name() string {
	return "price_sync"
}

// Run refreshes every distinct ticker. One ticker failing does not stop
// the rest, the first error is reported after the full pass.
func (j *PriceSyncJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), syncRunTimeout)
	defer cancel()

	runLog := j.log.With().Str("run_id", uuid.New().String()).Logger()

	tickers, err := j.tickers.DistinctTickers()
	if err != nil {
		return fmt.Errorf("failed to list tickers: %w", err)
	}
	if len(tickers) == 0 {
		runLog.Debug().Msg("no tickers to sync")
		return nil
	}

	var firstErr error
	synced, rows := 0, 0
	for _, ticker := range tickers {
		n, err := j.syncer.Sync(ctx, ticker)
		if err != nil {
			runLog.Error().Err(err).Str("ticker", ticker).Msg("sync failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("sync %s: %w", ticker, err)
			}
			continue
		}
		synced++
		rows += n
	}

	runLog.Info().
		Int("tickers", len(tickers)).
		Int("synced", synced).
		Int("rows", rows).
		Msg("price sync finished")

	return firstErr
}
