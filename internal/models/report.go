package models

import (
	"time"
)

type Product string

const (
	ProductConnect Product = "Connect"
	ProductALEKS   Product = "ALEKS"
	ProductSIMnet  Product = "SIMnet"
	ProductSharpen Product = "Sharpen"
)

type ReportFormat string

const (
	FormatCSV  ReportFormat = "csv"
	FormatXLSX ReportFormat = "xlsx"
	FormatBoth ReportFormat = "both"
)

type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	FrequencyTermEnd Frequency = "term-end"
)

type DeliveryMethod string

const (
	DeliveryEmail          DeliveryMethod = "email"
	DeliveryDownloadCenter DeliveryMethod = "download-center"
	DeliveryBoth           DeliveryMethod = "both"
)

// Report is a catalog entry. The catalog is seeded at startup and never
// mutated at runtime.
type Report struct {
	ID               string         `json:"id" gorm:"primaryKey"`
	Name             string         `json:"name" gorm:"not null"`
	Description      string         `json:"description"`
	Product          Product        `json:"product" gorm:"not null;index"`
	Category         string         `json:"category"`
	AvailableFormats []ReportFormat `json:"available_formats" gorm:"serializer:json"`
	LastGenerated    *time.Time     `json:"last_generated"`
}

// GeneratedReport is a downloadable artifact produced by a generate run.
// ReportName and Product are snapshots taken at generation time so the
// download center keeps rendering even if the catalog entry changes.
type GeneratedReport struct {
	ID          string       `json:"id" gorm:"primaryKey"`
	ReportID    string       `json:"report_id" gorm:"not null;index"`
	ReportName  string       `json:"report_name"`
	Product     Product      `json:"product"`
	GeneratedAt time.Time    `json:"generated_at" gorm:"index"`
	Format      ReportFormat `json:"format"`
	FileSize    string       `json:"file_size"`
	DownloadURL string       `json:"download_url"`
	ExpiresAt   time.Time    `json:"expires_at"`
}

// ExpiresSoon reports whether the artifact's download window closes within
// the next seven days. Expiry is display-only; nothing deletes the row.
func (g *GeneratedReport) ExpiresSoon(now time.Time) bool {
	return now.Before(g.ExpiresAt) && g.ExpiresAt.Sub(now) <= 7*24*time.Hour
}

// ScheduledReport is a recurring-report configuration. NextRun is computed
// once at creation and never advanced; no execution engine consumes it.
type ScheduledReport struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	ReportID       string         `json:"report_id" gorm:"not null;index"`
	ReportName     string         `json:"report_name"`
	Product        Product        `json:"product"`
	Frequency      Frequency      `json:"frequency" gorm:"not null"`
	DayOfWeek      *int           `json:"day_of_week,omitempty"`
	DayOfMonth     *int           `json:"day_of_month,omitempty"`
	Format         ReportFormat   `json:"format"`
	DeliveryMethod DeliveryMethod `json:"delivery_method"`
	Email          string         `json:"email,omitempty"`
	NextRun        time.Time      `json:"next_run"`
	IsActive       bool           `json:"is_active" gorm:"default:true"`
	CreatedAt      time.Time      `json:"created_at"`
}
