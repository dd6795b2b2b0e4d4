package worker

import (
	"context"
	"log/slog"
	"time"

	"github.com/DanielPopoola/idempotency-gateway/internal/core/ports"
)

// ClaimSweeper removes claims whose TTL has elapsed from stores that have no
// native key expiry. Live claims are never touched, so a sweep cannot reopen a
// key early; expired rows are already reclaimable by the store itself.
type ClaimSweeper struct {
	expirer   ports.ClaimExpirer
	interval  time.Duration
	batchSize int
	logger    *slog.Logger
}

const (
	DefaultSweepInterval  = time.Minute
	DefaultSweepBatchSize = 500
)

// NewClaimSweeper falls back to the defaults for non-positive interval or batchSize.
func NewClaimSweeper(
	expirer ports.ClaimExpirer,
	interval time.Duration,
	batchSize int,
	logger *slog.Logger,
) *ClaimSweeper {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	if batchSize <= 0 {
		batchSize = DefaultSweepBatchSize
	}

	return &ClaimSweeper{
		expirer:   expirer,
		interval:  interval,
		batchSize: batchSize,
		logger:    logger,
	}
}

func (w *ClaimSweeper) Start(ctx context.Context) {
	w.logger.Info("claim sweeper started", "interval", w.interval, "batch_size", w.batchSize)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	if _, err := w.Sweep(ctx); err != nil {
		w.logger.Error("claim sweep failed", "error", err)
	}

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("claim sweeper stopping")
			return
		case <-ticker.C:
			if _, err := w.Sweep(ctx); err != nil {
				w.logger.Error("claim sweep failed", "error", err)
			}
		}
	}
}

// Sweep deletes expired claims in batches until a batch comes back short.
func (w *ClaimSweeper) Sweep(ctx context.Context) (int64, error) {
	var total int64

	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}

		deleted, err := w.expirer.DeleteExpired(ctx, w.batchSize)
		if err != nil {
			return total, err
		}
		total += deleted

		if deleted == 0 || deleted < int64(w.batchSize) {
			break
		}
	}

	if total > 0 {
		w.logger.Info("swept expired claims", "deleted", total)
	}

	return total, nil
}
