package enrollment

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/veenapanicker/nexus/internal/models"
)

// SyncWorker triggers automatic LMS syncs at a fixed interval.
type SyncWorker struct {
	manager  *Manager
	logger   *zap.Logger
	interval time.Duration
}

func NewSyncWorker(manager *Manager, logger *zap.Logger, interval time.Duration) *SyncWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SyncWorker{manager: manager, logger: logger, interval: interval}
}

// Start runs the auto-sync loop until ctx is cancelled.
func (w *SyncWorker) Start(ctx context.Context) {
	w.logger.Info("auto-sync worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("auto-sync worker stopped")
			return
		case <-ticker.C:
			if _, err := w.manager.Sync(ctx, models.SyncTypeAuto); err != nil {
				w.logger.Error("auto sync failed", zap.Error(err))
			}
		}
	}
}
