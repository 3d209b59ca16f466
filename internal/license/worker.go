package license

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/veenapanicker/nexus/internal/notify"
)

// ExpiryWorker periodically scans for licenses inside the expiring-soon
// window and notifies the configured Slack channel. It never mutates
// license state; expiry remains a derived, display-level concern.
type ExpiryWorker struct {
	manager  *Manager
	notifier *notify.Notifier
	logger   *zap.Logger
	interval time.Duration

	// licenses already reported this process lifetime, to avoid
	// repeating the same notice every scan
	notified map[string]bool
}

func NewExpiryWorker(manager *Manager, notifier *notify.Notifier, logger *zap.Logger, interval time.Duration) *ExpiryWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExpiryWorker{
		manager:  manager,
		notifier: notifier,
		logger:   logger,
		interval: interval,
		notified: make(map[string]bool),
	}
}

// Start runs the scan loop until ctx is cancelled. An initial scan runs
// immediately so a restart doesn't delay notices a full interval.
func (w *ExpiryWorker) Start(ctx context.Context) {
	w.logger.Info("license expiry worker started", zap.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.scan()
	for {
		select {
		case <-ctx.Done():
			w.logger.Info("license expiry worker stopped")
			return
		case <-ticker.C:
			w.scan()
		}
	}
}

func (w *ExpiryWorker) scan() {
	expiring, err := w.manager.Expiring()
	if err != nil {
		w.logger.Error("license expiry scan failed", zap.Error(err))
		return
	}

	for i := range expiring {
		lic := &expiring[i]
		if w.notified[lic.ID] {
			continue
		}
		if err := w.notifier.NotifyLicenseExpiring(lic); err != nil {
			w.logger.Error("failed to notify expiring license",
				zap.String("license_id", lic.ID), zap.Error(err))
			continue
		}
		w.notified[lic.ID] = true
	}
}
