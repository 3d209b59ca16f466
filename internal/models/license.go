package models

import (
	"time"
)

type LicenseStatus string

const (
	LicenseStatusActive       LicenseStatus = "active"
	LicenseStatusExpired      LicenseStatus = "expired"
	LicenseStatusExpiringSoon LicenseStatus = "expiring_soon"
	LicenseStatusUnassigned   LicenseStatus = "unassigned"
)

// ExpiringSoonWindow is how far ahead a license expiration counts as
// "expiring soon" for status derivation and notifications.
const ExpiringSoonWindow = 60 * 24 * time.Hour

// License is an institutional seat pool for one product.
type License struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	Product        Product       `json:"product" gorm:"not null;index"`
	TotalSeats     int           `json:"total_seats"`
	UsedSeats      int           `json:"used_seats"`
	AvailableSeats int           `json:"available_seats"`
	ExpirationDate time.Time     `json:"expiration_date"`
	Status         LicenseStatus `json:"status"`
	CostPerSeat    int           `json:"cost_per_seat"`
	RenewalDate    *time.Time    `json:"renewal_date,omitempty"`
}

// DeriveStatus recomputes the status from the expiration date.
func (l *License) DeriveStatus(now time.Time) LicenseStatus {
	switch {
	case now.After(l.ExpirationDate):
		return LicenseStatusExpired
	case l.ExpirationDate.Sub(now) <= ExpiringSoonWindow:
		return LicenseStatusExpiringSoon
	case l.UsedSeats == 0:
		return LicenseStatusUnassigned
	default:
		return LicenseStatusActive
	}
}

// StudentLicense is one assigned seat.
type StudentLicense struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	LicenseID      string        `json:"license_id" gorm:"not null;index"`
	StudentID      string        `json:"student_id" gorm:"not null;index"`
	StudentName    string        `json:"student_name"`
	StudentEmail   string        `json:"student_email"`
	Product        Product       `json:"product"`
	AssignedDate   time.Time     `json:"assigned_date"`
	ExpirationDate time.Time     `json:"expiration_date"`
	Status         LicenseStatus `json:"status"`
	LastAccess     *time.Time    `json:"last_access,omitempty"`
	CourseName     string        `json:"course_name,omitempty"`
}

// LicenseStats is the aggregate view shown on the licenses dashboard.
type LicenseStats struct {
	Total           int `json:"total"`
	Used            int `json:"used"`
	Available       int `json:"available"`
	Expiring        int `json:"expiring"`
	UtilizationRate int `json:"utilization_rate"`
}
