package license

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veenapanicker/nexus/internal/models"
)

// ErrNoSeatsAvailable is returned when a seat assignment would exceed the
// license's seat pool.
var ErrNoSeatsAvailable = errors.New("no seats available")

// Manager handles institutional seat pools and per-student assignments.
type Manager struct {
	db     *gorm.DB
	logger *zap.Logger
}

func NewManager(db *gorm.DB, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{db: db, logger: logger}
}

// List returns all licenses with status rederived from expiration dates.
func (m *Manager) List() ([]models.License, error) {
	var licenses []models.License
	if err := m.db.Order("product").Find(&licenses).Error; err != nil {
		return nil, fmt.Errorf("failed to list licenses: %w", err)
	}
	now := time.Now()
	for i := range licenses {
		licenses[i].Status = licenses[i].DeriveStatus(now)
	}
	return licenses, nil
}

// Get returns one license.
func (m *Manager) Get(id string) (*models.License, error) {
	var lic models.License
	if err := m.db.First(&lic, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("license", id)
		}
		return nil, fmt.Errorf("failed to load license %s: %w", id, err)
	}
	lic.Status = lic.DeriveStatus(time.Now())
	return &lic, nil
}

// Add creates a new seat pool.
func (m *Manager) Add(lic *models.License) error {
	if lic.ID == "" {
		lic.ID = "lic-" + uuid.NewString()
	}
	lic.AvailableSeats = lic.TotalSeats - lic.UsedSeats
	lic.Status = lic.DeriveStatus(time.Now())
	if err := m.db.Create(lic).Error; err != nil {
		return fmt.Errorf("failed to create license: %w", err)
	}
	m.logger.Info("license added",
		zap.String("license_id", lic.ID),
		zap.String("product", string(lic.Product)),
		zap.Int("seats", lic.TotalSeats),
	)
	return nil
}

// SeatAssignment is the request side of AssignSeat.
type SeatAssignment struct {
	StudentID    string `json:"student_id"`
	StudentName  string `json:"student_name"`
	StudentEmail string `json:"student_email"`
	CourseName   string `json:"course_name,omitempty"`
}

// AssignSeat consumes one seat from a license and records the student
// assignment. Fails with NotFoundError for an unknown license and
// ErrNoSeatsAvailable when the pool is exhausted.
func (m *Manager) AssignSeat(licenseID string, req SeatAssignment) (*models.StudentLicense, error) {
	var seat *models.StudentLicense
	err := m.db.Transaction(func(tx *gorm.DB) error {
		var lic models.License
		if err := tx.First(&lic, "id = ?", licenseID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFound("license", licenseID)
			}
			return fmt.Errorf("failed to load license %s: %w", licenseID, err)
		}
		if lic.AvailableSeats <= 0 {
			return ErrNoSeatsAvailable
		}

		lic.UsedSeats++
		lic.AvailableSeats--
		if err := tx.Save(&lic).Error; err != nil {
			return fmt.Errorf("failed to update license seats: %w", err)
		}

		now := time.Now()
		seat = &models.StudentLicense{
			ID:             "sl-" + uuid.NewString(),
			LicenseID:      lic.ID,
			StudentID:      req.StudentID,
			StudentName:    req.StudentName,
			StudentEmail:   req.StudentEmail,
			Product:        lic.Product,
			AssignedDate:   now,
			ExpirationDate: lic.ExpirationDate,
			Status:         lic.DeriveStatus(now),
			CourseName:     req.CourseName,
		}
		return tx.Create(seat).Error
	})
	if err != nil {
		return nil, err
	}

	m.logger.Info("seat assigned",
		zap.String("license_id", licenseID),
		zap.String("student_id", req.StudentID),
	)
	return seat, nil
}

// RevokeSeat releases a seat back to its pool. Revoking an id that does
// not exist is a silent no-op, matching the store-delete semantics of the
// report module.
func (m *Manager) RevokeSeat(seatID string) error {
	return m.db.Transaction(func(tx *gorm.DB) error {
		var seat models.StudentLicense
		if err := tx.First(&seat, "id = ?", seatID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return fmt.Errorf("failed to load seat %s: %w", seatID, err)
		}

		if err := tx.Delete(&seat).Error; err != nil {
			return fmt.Errorf("failed to delete seat: %w", err)
		}

		return tx.Model(&models.License{}).
			Where("id = ? AND used_seats > 0", seat.LicenseID).
			Updates(map[string]interface{}{
				"used_seats":      gorm.Expr("used_seats - 1"),
				"available_seats": gorm.Expr("available_seats + 1"),
			}).Error
	})
}

// ListSeats returns seat assignments, optionally filtered by license.
func (m *Manager) ListSeats(licenseID string) ([]models.StudentLicense, error) {
	var seats []models.StudentLicense
	query := m.db.Order("assigned_date desc")
	if licenseID != "" {
		query = query.Where("license_id = ?", licenseID)
	}
	if err := query.Find(&seats).Error; err != nil {
		return nil, fmt.Errorf("failed to list seats: %w", err)
	}
	return seats, nil
}

// Stats aggregates the seat totals shown on the licenses dashboard.
func (m *Manager) Stats() (*models.LicenseStats, error) {
	licenses, err := m.List()
	if err != nil {
		return nil, err
	}

	stats := &models.LicenseStats{}
	for _, lic := range licenses {
		stats.Total += lic.TotalSeats
		stats.Used += lic.UsedSeats
		stats.Available += lic.AvailableSeats
		if lic.Status == models.LicenseStatusExpiringSoon {
			stats.Expiring += lic.UsedSeats
		}
	}
	if stats.Total > 0 {
		stats.UtilizationRate = int(float64(stats.Used)/float64(stats.Total)*100 + 0.5)
	}
	return stats, nil
}

// Expiring returns licenses whose expiration falls inside the
// expiring-soon window.
func (m *Manager) Expiring() ([]models.License, error) {
	licenses, err := m.List()
	if err != nil {
		return nil, err
	}
	var out []models.License
	for _, lic := range licenses {
		if lic.Status == models.LicenseStatusExpiringSoon {
			out = append(out, lic)
		}
	}
	return out, nil
}
