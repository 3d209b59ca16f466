package report

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veenapanicker/nexus/internal/metrics"
	"github.com/veenapanicker/nexus/internal/models"
)

const artifactRetention = 90 * 24 * time.Hour

// Manager coordinates the report lifecycle: catalog lookups, artifact
// generation, and recurring-report schedules. It is the only component
// API handlers talk to for report state.
type Manager struct {
	db       *gorm.DB
	logger   *zap.Logger
	delay    time.Duration
	inFlight atomic.Int32
}

// DateRange optionally narrows a generate run to a reporting window.
type DateRange struct {
	From time.Time `json:"from"`
	To   time.Time `json:"to"`
}

// ScheduleConfig is the user-supplied part of a schedule.
type ScheduleConfig struct {
	Frequency      models.Frequency      `json:"frequency"`
	DayOfWeek      *int                  `json:"day_of_week,omitempty"`
	DayOfMonth     *int                  `json:"day_of_month,omitempty"`
	Format         models.ReportFormat   `json:"format"`
	DeliveryMethod models.DeliveryMethod `json:"delivery_method"`
	Email          string                `json:"email,omitempty"`
}

// NewManager creates a report manager. delay is the simulated processing
// latency for generate runs.
func NewManager(db *gorm.DB, logger *zap.Logger, delay time.Duration) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{db: db, logger: logger, delay: delay}
}

// Catalog returns all report definitions.
func (m *Manager) Catalog() ([]models.Report, error) {
	var reports []models.Report
	if err := m.db.Order("id").Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("failed to list report catalog: %w", err)
	}
	return reports, nil
}

// GetDefinition returns one catalog entry.
func (m *Manager) GetDefinition(reportID string) (*models.Report, error) {
	var report models.Report
	if err := m.db.First(&report, "id = ?", reportID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("report", reportID)
		}
		return nil, fmt.Errorf("failed to load report %s: %w", reportID, err)
	}
	return &report, nil
}

// Generating reports whether any generate run is currently in flight.
func (m *Manager) Generating() bool {
	return m.inFlight.Load() > 0
}

// Generate produces a new artifact for the given catalog report. It fails
// with a NotFoundError before touching any store when the id is unknown,
// then waits out the simulated processing latency (cancellable through
// ctx) and inserts the artifact.
func (m *Manager) Generate(ctx context.Context, reportID string, format models.ReportFormat, dateRange *DateRange) (*models.GeneratedReport, error) {
	report, err := m.GetDefinition(reportID)
	if err != nil {
		if models.IsNotFound(err) {
			metrics.ObserveGeneration("unknown", "not_found")
		}
		return nil, err
	}

	m.inFlight.Add(1)
	metrics.GenerationStarted()
	defer func() {
		m.inFlight.Add(-1)
		metrics.GenerationFinished()
	}()

	if m.delay > 0 {
		timer := time.NewTimer(m.delay)
		defer timer.Stop()
		select {
		case <-timer.C:
		case <-ctx.Done():
			metrics.ObserveGeneration(string(report.Product), "cancelled")
			return nil, ctx.Err()
		}
	}

	now := time.Now()
	artifact := models.GeneratedReport{
		ID:          "gen-" + uuid.NewString(),
		ReportID:    report.ID,
		ReportName:  report.Name,
		Product:     report.Product,
		GeneratedAt: now,
		Format:      format,
		FileSize:    fabricateFileSize(),
		DownloadURL: "#",
		ExpiresAt:   now.Add(artifactRetention),
	}

	if err := m.db.Create(&artifact).Error; err != nil {
		metrics.ObserveGeneration(string(report.Product), "error")
		return nil, fmt.Errorf("failed to store artifact: %w", err)
	}

	metrics.ObserveGeneration(string(report.Product), "success")
	m.logger.Info("report generated",
		zap.String("report_id", report.ID),
		zap.String("artifact_id", artifact.ID),
		zap.String("format", string(format)),
	)
	return &artifact, nil
}

// Schedule creates a recurring-report configuration for a catalog report,
// computing the first run time from the frequency rules.
func (m *Manager) Schedule(reportID string, cfg ScheduleConfig) (*models.ScheduledReport, error) {
	report, err := m.GetDefinition(reportID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	sched := models.ScheduledReport{
		ID:             "sched-" + uuid.NewString(),
		ReportID:       report.ID,
		ReportName:     report.Name,
		Product:        report.Product,
		Frequency:      cfg.Frequency,
		Format:         cfg.Format,
		DeliveryMethod: cfg.DeliveryMethod,
		Email:          cfg.Email,
		IsActive:       true,
		CreatedAt:      now,
	}

	// Exactly one of DayOfWeek/DayOfMonth survives, picked by frequency.
	dayOfWeek, dayOfMonth := 0, 1
	switch cfg.Frequency {
	case models.FrequencyWeekly:
		if cfg.DayOfWeek != nil {
			dayOfWeek = *cfg.DayOfWeek
		}
		sched.DayOfWeek = &dayOfWeek
	case models.FrequencyMonthly:
		if cfg.DayOfMonth != nil {
			dayOfMonth = *cfg.DayOfMonth
		}
		sched.DayOfMonth = &dayOfMonth
	}
	sched.NextRun = NextRun(cfg.Frequency, dayOfWeek, dayOfMonth, now)

	if err := m.db.Create(&sched).Error; err != nil {
		return nil, fmt.Errorf("failed to store schedule: %w", err)
	}

	metrics.ObserveScheduleCreated(string(cfg.Frequency))
	m.logger.Info("report scheduled",
		zap.String("report_id", report.ID),
		zap.String("schedule_id", sched.ID),
		zap.String("frequency", string(cfg.Frequency)),
		zap.Time("next_run", sched.NextRun),
	)
	return &sched, nil
}

// ListGenerated returns all artifacts, newest first.
func (m *Manager) ListGenerated() ([]models.GeneratedReport, error) {
	var artifacts []models.GeneratedReport
	if err := m.db.Order("generated_at desc").Find(&artifacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list artifacts: %w", err)
	}
	return artifacts, nil
}

// DeleteGenerated removes one artifact. Deleting an id that does not exist
// is a silent no-op so repeated UI deletes stay idempotent.
func (m *Manager) DeleteGenerated(id string) error {
	return m.db.Delete(&models.GeneratedReport{}, "id = ?", id).Error
}

// BulkDeleteGenerated removes several artifacts. Entries are independent,
// so partial application on error is acceptable.
func (m *Manager) BulkDeleteGenerated(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return m.db.Delete(&models.GeneratedReport{}, "id IN ?", ids).Error
}

// ListSchedules returns all schedules, newest first.
func (m *Manager) ListSchedules() ([]models.ScheduledReport, error) {
	var schedules []models.ScheduledReport
	if err := m.db.Order("created_at desc").Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}
	return schedules, nil
}

// DeleteSchedule removes one schedule; silent no-op on a missing id.
func (m *Manager) DeleteSchedule(id string) error {
	return m.db.Delete(&models.ScheduledReport{}, "id = ?", id).Error
}

// ToggleSchedule flips a schedule between active and paused; silent no-op
// on a missing id.
func (m *Manager) ToggleSchedule(id string) error {
	return m.db.Model(&models.ScheduledReport{}).
		Where("id = ?", id).
		Update("is_active", gorm.Expr("NOT is_active")).Error
}

func fabricateFileSize() string {
	return fmt.Sprintf("%.1f MB", rand.Float64()*3+0.5)
}
