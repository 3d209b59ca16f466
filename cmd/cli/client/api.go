package client

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"github.com/veenapanicker/nexus/internal/access"
	"github.com/veenapanicker/nexus/internal/models"
	"github.com/veenapanicker/nexus/internal/report"
)

// APIClient is a thin HTTP wrapper over the Nexus REST API, used by the
// CLI commands.
type APIClient struct {
	baseURL    string
	httpClient *http.Client
}

func NewAPIClient(baseURL string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (c *APIClient) doRequest(method, path string, body interface{}) ([]byte, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		return nil, err
	}

	if token := viper.GetString("token"); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			return nil, fmt.Errorf("%s (%d)", apiErr.Error, resp.StatusCode)
		}
		return nil, fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	return data, nil
}

// Login exchanges credentials for a session token.
func (c *APIClient) Login(email, password string) (string, error) {
	data, err := c.doRequest(http.MethodPost, "/api/v1/auth/login", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return "", err
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(data, &resp); err != nil {
		return "", err
	}
	return resp.Token, nil
}

// ListReports returns the report catalog.
func (c *APIClient) ListReports() ([]models.Report, error) {
	data, err := c.doRequest(http.MethodGet, "/api/v1/reports", nil)
	if err != nil {
		return nil, err
	}
	var reports []models.Report
	return reports, json.Unmarshal(data, &reports)
}

// GenerateReport triggers a generate run and returns the new artifact.
func (c *APIClient) GenerateReport(reportID string, format models.ReportFormat) (*models.GeneratedReport, error) {
	data, err := c.doRequest(http.MethodPost, "/api/v1/reports/"+reportID+"/generate", map[string]interface{}{
		"format": format,
	})
	if err != nil {
		return nil, err
	}
	var artifact models.GeneratedReport
	return &artifact, json.Unmarshal(data, &artifact)
}

// ScheduleReport creates a recurring-report schedule.
func (c *APIClient) ScheduleReport(reportID string, cfg report.ScheduleConfig) (*models.ScheduledReport, error) {
	data, err := c.doRequest(http.MethodPost, "/api/v1/reports/"+reportID+"/schedule", cfg)
	if err != nil {
		return nil, err
	}
	var sched models.ScheduledReport
	return &sched, json.Unmarshal(data, &sched)
}

// Download is a generated artifact plus its expiring-soon flag.
type Download struct {
	models.GeneratedReport
	ExpiresSoon bool `json:"expires_soon"`
}

// ListDownloads returns all artifacts, newest first.
func (c *APIClient) ListDownloads() ([]Download, error) {
	data, err := c.doRequest(http.MethodGet, "/api/v1/downloads", nil)
	if err != nil {
		return nil, err
	}
	var downloads []Download
	return downloads, json.Unmarshal(data, &downloads)
}

// DeleteDownload removes one artifact.
func (c *APIClient) DeleteDownload(id string) error {
	_, err := c.doRequest(http.MethodDelete, "/api/v1/downloads/"+id, nil)
	return err
}

// ListSchedules returns all schedules.
func (c *APIClient) ListSchedules() ([]models.ScheduledReport, error) {
	data, err := c.doRequest(http.MethodGet, "/api/v1/schedules", nil)
	if err != nil {
		return nil, err
	}
	var schedules []models.ScheduledReport
	return schedules, json.Unmarshal(data, &schedules)
}

// DeleteSchedule removes one schedule.
func (c *APIClient) DeleteSchedule(id string) error {
	_, err := c.doRequest(http.MethodDelete, "/api/v1/schedules/"+id, nil)
	return err
}

// ToggleSchedule pauses or resumes one schedule.
func (c *APIClient) ToggleSchedule(id string) error {
	_, err := c.doRequest(http.MethodPut, "/api/v1/schedules/"+id+"/toggle", nil)
	return err
}

// ListLicenses returns all seat pools.
func (c *APIClient) ListLicenses() ([]models.License, error) {
	data, err := c.doRequest(http.MethodGet, "/api/v1/licenses", nil)
	if err != nil {
		return nil, err
	}
	var licenses []models.License
	return licenses, json.Unmarshal(data, &licenses)
}

// LicenseStats returns the aggregate seat totals.
func (c *APIClient) LicenseStats() (*models.LicenseStats, error) {
	data, err := c.doRequest(http.MethodGet, "/api/v1/licenses/stats", nil)
	if err != nil {
		return nil, err
	}
	var stats models.LicenseStats
	return &stats, json.Unmarshal(data, &stats)
}

// RunSync triggers a manual LMS sync.
func (c *APIClient) RunSync() (*models.SyncRecord, error) {
	data, err := c.doRequest(http.MethodPost, "/api/v1/enrollment/sync", nil)
	if err != nil {
		return nil, err
	}
	var record models.SyncRecord
	return &record, json.Unmarshal(data, &record)
}

// ListAdmins returns the administrator roster.
func (c *APIClient) ListAdmins() ([]models.AdminUser, error) {
	data, err := c.doRequest(http.MethodGet, "/api/v1/admin/users", nil)
	if err != nil {
		return nil, err
	}
	var admins []models.AdminUser
	return admins, json.Unmarshal(data, &admins)
}

// InviteAdmin creates a new administrator invitation.
func (c *APIClient) InviteAdmin(inv access.Invite) (*models.AdminUser, error) {
	data, err := c.doRequest(http.MethodPost, "/api/v1/admin/users", inv)
	if err != nil {
		return nil, err
	}
	var admin models.AdminUser
	return &admin, json.Unmarshal(data, &admin)
}
