package license

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/veenapanicker/nexus/internal/database"
	"github.com/veenapanicker/nexus/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := database.Open(dsn)
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })
	return db
}

func addLicense(t *testing.T, m *Manager, id string, total, used int, expires time.Time) *models.License {
	t.Helper()
	lic := &models.License{
		ID:             id,
		Product:        models.ProductConnect,
		TotalSeats:     total,
		UsedSeats:      used,
		ExpirationDate: expires,
	}
	require.NoError(t, m.Add(lic))
	return lic
}

func TestAssignSeat(t *testing.T) {
	m := NewManager(testDB(t), nil)
	addLicense(t, m, "lic-t1", 2, 0, time.Now().Add(365*24*time.Hour))

	seat, err := m.AssignSeat("lic-t1", SeatAssignment{
		StudentID:    "STU-1",
		StudentName:  "Emily Johnson",
		StudentEmail: "ejohnson@stateuniversity.edu",
		CourseName:   "ECON 101",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(seat.ID, "sl-"))
	assert.Equal(t, "lic-t1", seat.LicenseID)
	assert.Equal(t, models.ProductConnect, seat.Product)

	lic, err := m.Get("lic-t1")
	require.NoError(t, err)
	assert.Equal(t, 1, lic.UsedSeats)
	assert.Equal(t, 1, lic.AvailableSeats)
}

func TestAssignSeatExhaustsPool(t *testing.T) {
	m := NewManager(testDB(t), nil)
	addLicense(t, m, "lic-t1", 1, 0, time.Now().Add(365*24*time.Hour))

	_, err := m.AssignSeat("lic-t1", SeatAssignment{StudentID: "STU-1"})
	require.NoError(t, err)

	_, err = m.AssignSeat("lic-t1", SeatAssignment{StudentID: "STU-2"})
	require.ErrorIs(t, err, ErrNoSeatsAvailable)

	seats, err := m.ListSeats("lic-t1")
	require.NoError(t, err)
	assert.Len(t, seats, 1)
}

func TestAssignSeatUnknownLicense(t *testing.T) {
	m := NewManager(testDB(t), nil)

	_, err := m.AssignSeat("lic-unknown", SeatAssignment{StudentID: "STU-1"})
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))
}

func TestRevokeSeat(t *testing.T) {
	m := NewManager(testDB(t), nil)
	addLicense(t, m, "lic-t1", 2, 0, time.Now().Add(365*24*time.Hour))

	seat, err := m.AssignSeat("lic-t1", SeatAssignment{StudentID: "STU-1"})
	require.NoError(t, err)

	require.NoError(t, m.RevokeSeat(seat.ID))

	lic, err := m.Get("lic-t1")
	require.NoError(t, err)
	assert.Equal(t, 0, lic.UsedSeats)
	assert.Equal(t, 2, lic.AvailableSeats)

	// Revoking again, or revoking an unknown seat, changes nothing.
	require.NoError(t, m.RevokeSeat(seat.ID))
	require.NoError(t, m.RevokeSeat("sl-unknown"))

	lic, err = m.Get("lic-t1")
	require.NoError(t, err)
	assert.Equal(t, 0, lic.UsedSeats)
}

func TestStatusDerivation(t *testing.T) {
	m := NewManager(testDB(t), nil)
	now := time.Now()

	addLicense(t, m, "lic-expired", 10, 5, now.Add(-24*time.Hour))
	addLicense(t, m, "lic-expiring", 10, 5, now.Add(30*24*time.Hour))
	addLicense(t, m, "lic-unassigned", 10, 0, now.Add(365*24*time.Hour))
	addLicense(t, m, "lic-active", 10, 5, now.Add(365*24*time.Hour))

	licenses, err := m.List()
	require.NoError(t, err)

	byID := map[string]models.LicenseStatus{}
	for _, lic := range licenses {
		byID[lic.ID] = lic.Status
	}
	assert.Equal(t, models.LicenseStatusExpired, byID["lic-expired"])
	assert.Equal(t, models.LicenseStatusExpiringSoon, byID["lic-expiring"])
	assert.Equal(t, models.LicenseStatusUnassigned, byID["lic-unassigned"])
	assert.Equal(t, models.LicenseStatusActive, byID["lic-active"])
}

func TestStats(t *testing.T) {
	m := NewManager(testDB(t), nil)
	now := time.Now()

	addLicense(t, m, "lic-t1", 100, 80, now.Add(365*24*time.Hour))
	addLicense(t, m, "lic-t2", 100, 20, now.Add(30*24*time.Hour))

	stats, err := m.Stats()
	require.NoError(t, err)
	assert.Equal(t, 200, stats.Total)
	assert.Equal(t, 100, stats.Used)
	assert.Equal(t, 100, stats.Available)
	assert.Equal(t, 20, stats.Expiring)
	assert.Equal(t, 50, stats.UtilizationRate)
}

func TestExpiring(t *testing.T) {
	m := NewManager(testDB(t), nil)
	now := time.Now()

	addLicense(t, m, "lic-soon", 10, 5, now.Add(10*24*time.Hour))
	addLicense(t, m, "lic-later", 10, 5, now.Add(365*24*time.Hour))

	expiring, err := m.Expiring()
	require.NoError(t, err)
	require.Len(t, expiring, 1)
	assert.Equal(t, "lic-soon", expiring[0].ID)
}
