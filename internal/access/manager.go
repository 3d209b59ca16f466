package access

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/veenapanicker/nexus/internal/models"
	"github.com/veenapanicker/nexus/internal/notify"
)

// Manager handles the administrator roster: invitations, permission
// edits, and removal. Permissions here only gate dashboard routes; there
// is no further security model behind them.
type Manager struct {
	db       *gorm.DB
	notifier *notify.Notifier
	logger   *zap.Logger
}

func NewManager(db *gorm.DB, notifier *notify.Notifier, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{db: db, notifier: notifier, logger: logger}
}

// List returns all admins, optionally narrowed to those with any access
// to the named module.
func (m *Manager) List(module string) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	if err := m.db.Order("added_date").Find(&admins).Error; err != nil {
		return nil, fmt.Errorf("failed to list admins: %w", err)
	}
	if module == "" {
		return admins, nil
	}
	filtered := admins[:0]
	for _, a := range admins {
		if a.CanView(module) {
			filtered = append(filtered, a)
		}
	}
	return filtered, nil
}

// Get returns one admin.
func (m *Manager) Get(id string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := m.db.First(&admin, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("admin", id)
		}
		return nil, fmt.Errorf("failed to load admin %s: %w", id, err)
	}
	return &admin, nil
}

// GetByEmail returns one admin by email address.
func (m *Manager) GetByEmail(email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	if err := m.db.First(&admin, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFound("admin", email)
		}
		return nil, fmt.Errorf("failed to load admin %s: %w", email, err)
	}
	return &admin, nil
}

// Invite is the request side of the invite flow.
type Invite struct {
	Name        string           `json:"name"`
	Email       string           `json:"email"`
	Role        models.AdminRole `json:"role"`
	Institution string           `json:"institution"`
	// Products granted in every module the role preset allows.
	Products  []models.Product `json:"products"`
	SendEmail bool             `json:"send_email"`
}

// CreateInvite adds a new admin in invited status with the role's
// permission preset and emails the invitation when requested.
func (m *Manager) CreateInvite(inv Invite, invitedBy string) (*models.AdminUser, error) {
	perms := models.DefaultPermissions(inv.Role)
	admin := models.AdminUser{
		ID:          "user-" + uuid.NewString(),
		Name:        inv.Name,
		Email:       inv.Email,
		Role:        inv.Role,
		Institution: inv.Institution,
		Permissions: perms,
		Status:      models.AdminStatusInvited,
		AddedDate:   time.Now(),
		AddedBy:     invitedBy,
	}
	if perms.Reports != models.AccessNone {
		admin.ProductAccess.Reports = inv.Products
	}
	if perms.Licenses != models.AccessNone {
		admin.ProductAccess.Licenses = inv.Products
	}
	if perms.Enrollment != models.AccessNone {
		admin.ProductAccess.Enrollment = inv.Products
	}

	if err := m.db.Create(&admin).Error; err != nil {
		return nil, fmt.Errorf("failed to create admin invite: %w", err)
	}

	if inv.SendEmail && m.notifier != nil {
		if err := m.notifier.SendAdminInvite(&admin); err != nil {
			// The invite stands even when the email fails.
			m.logger.Error("failed to send invite email",
				zap.String("email", admin.Email), zap.Error(err))
		}
	}

	m.logger.Info("admin invited",
		zap.String("admin_id", admin.ID),
		zap.String("role", string(admin.Role)),
		zap.String("invited_by", invitedBy),
	)
	return &admin, nil
}

// PermissionUpdate is the request side of UpdatePermissions.
type PermissionUpdate struct {
	Permissions   models.ModulePermissions `json:"permissions"`
	ProductAccess models.ProductAccess     `json:"product_access"`
}

// UpdatePermissions replaces an admin's module permissions and product
// lists. Product lists for modules set to "none" are cleared so the pair
// stays consistent.
func (m *Manager) UpdatePermissions(id string, upd PermissionUpdate) (*models.AdminUser, error) {
	admin, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	admin.Permissions = upd.Permissions
	admin.ProductAccess = upd.ProductAccess
	admin.NormalizeProductAccess()

	if err := m.db.Save(admin).Error; err != nil {
		return nil, fmt.Errorf("failed to update admin %s: %w", id, err)
	}

	m.logger.Info("admin permissions updated", zap.String("admin_id", id))
	return admin, nil
}

// Activate flips an invited admin to active, as happens on first login.
func (m *Manager) Activate(id string) error {
	return m.db.Model(&models.AdminUser{}).
		Where("id = ? AND status = ?", id, models.AdminStatusInvited).
		Update("status", models.AdminStatusActive).Error
}

// Remove deletes an admin. Removing an unknown id is a silent no-op.
func (m *Manager) Remove(id string) error {
	return m.db.Delete(&models.AdminUser{}, "id = ?", id).Error
}

// Stats summarizes the roster for the access page header cards.
type Stats struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Invited int `json:"invited"`
}

func (m *Manager) Stats() (*Stats, error) {
	admins, err := m.List("")
	if err != nil {
		return nil, err
	}
	stats := &Stats{Total: len(admins)}
	for _, a := range admins {
		switch a.Status {
		case models.AdminStatusActive:
			stats.Active++
		case models.AdminStatusInvited:
			stats.Invited++
		}
	}
	return stats, nil
}
