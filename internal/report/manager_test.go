package report

import (
	"context"
	"errors"
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
	require.NoError(t, database.SeedCatalog(db))
	t.Cleanup(func() { database.Close(db) })
	return db
}

func TestGenerate(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	artifact, err := m.Generate(context.Background(), "connect-enrollment", models.FormatXLSX, nil)
	require.NoError(t, err)

	assert.Equal(t, "Course Enrollment Summary", artifact.ReportName)
	assert.Equal(t, "connect-enrollment", artifact.ReportID)
	assert.Equal(t, models.ProductConnect, artifact.Product)
	assert.Equal(t, models.FormatXLSX, artifact.Format)
	assert.True(t, strings.HasPrefix(artifact.ID, "gen-"))
	assert.Equal(t, "#", artifact.DownloadURL)
	assert.Equal(t, 90*24*time.Hour, artifact.ExpiresAt.Sub(artifact.GeneratedAt))

	artifacts, err := m.ListGenerated()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, artifact.ID, artifacts[0].ID)
}

func TestGenerateUnknownReport(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	_, err := m.Generate(context.Background(), "no-such-report", models.FormatCSV, nil)
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))

	var nf *models.NotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, "no-such-report", nf.ID)

	artifacts, err := m.ListGenerated()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestGenerateCancelled(t *testing.T) {
	m := NewManager(testDB(t), nil, 500*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Generate(ctx, "connect-enrollment", models.FormatCSV, nil)
	require.ErrorIs(t, err, context.Canceled)

	artifacts, err := m.ListGenerated()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
	assert.False(t, m.Generating())
}

func TestGeneratingFlag(t *testing.T) {
	m := NewManager(testDB(t), nil, 300*time.Millisecond)
	assert.False(t, m.Generating())

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Generate(context.Background(), "connect-enrollment", models.FormatCSV, nil)
	}()

	assert.Eventually(t, m.Generating, 200*time.Millisecond, 10*time.Millisecond)
	<-done
	assert.False(t, m.Generating())
}

func TestListGeneratedNewestFirst(t *testing.T) {
	db := testDB(t)
	m := NewManager(db, nil, 0)

	older := models.GeneratedReport{
		ID:          "gen-old",
		ReportID:    "connect-enrollment",
		GeneratedAt: time.Now().Add(-48 * time.Hour),
		ExpiresAt:   time.Now().Add(88 * 24 * time.Hour),
	}
	require.NoError(t, db.Create(&older).Error)

	newest, err := m.Generate(context.Background(), "aleks-learning-path", models.FormatCSV, nil)
	require.NoError(t, err)

	artifacts, err := m.ListGenerated()
	require.NoError(t, err)
	require.Len(t, artifacts, 2)
	assert.Equal(t, newest.ID, artifacts[0].ID)
	assert.Equal(t, "gen-old", artifacts[1].ID)
}

func TestDeleteGeneratedIdempotent(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	artifact, err := m.Generate(context.Background(), "connect-enrollment", models.FormatCSV, nil)
	require.NoError(t, err)

	require.NoError(t, m.DeleteGenerated(artifact.ID))
	require.NoError(t, m.DeleteGenerated(artifact.ID))
	require.NoError(t, m.DeleteGenerated("gen-never-existed"))

	artifacts, err := m.ListGenerated()
	require.NoError(t, err)
	assert.Empty(t, artifacts)
}

func TestBulkDeleteGenerated(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	a1, err := m.Generate(context.Background(), "connect-enrollment", models.FormatCSV, nil)
	require.NoError(t, err)
	a2, err := m.Generate(context.Background(), "aleks-learning-path", models.FormatCSV, nil)
	require.NoError(t, err)
	keep, err := m.Generate(context.Background(), "simnet-skills", models.FormatCSV, nil)
	require.NoError(t, err)

	require.NoError(t, m.BulkDeleteGenerated([]string{a1.ID, a2.ID, "gen-unknown"}))

	artifacts, err := m.ListGenerated()
	require.NoError(t, err)
	require.Len(t, artifacts, 1)
	assert.Equal(t, keep.ID, artifacts[0].ID)
}

func TestScheduleWeeklyDefaults(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	sched, err := m.Schedule("connect-enrollment", ScheduleConfig{
		Frequency:      models.FrequencyWeekly,
		Format:         models.FormatCSV,
		DeliveryMethod: models.DeliveryEmail,
		Email:          "schen@stateuniversity.edu",
	})
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sched.ID, "sched-"))
	assert.Equal(t, "Course Enrollment Summary", sched.ReportName)
	assert.True(t, sched.IsActive)
	require.NotNil(t, sched.DayOfWeek)
	assert.Equal(t, 0, *sched.DayOfWeek)
	assert.Nil(t, sched.DayOfMonth)
	assert.Equal(t, time.Sunday, sched.NextRun.Weekday())
	assert.True(t, sched.NextRun.After(sched.CreatedAt))
}

func TestScheduleMonthly(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	day := 15
	sched, err := m.Schedule("aleks-learning-path", ScheduleConfig{
		Frequency:  models.FrequencyMonthly,
		DayOfMonth: &day,
		Format:     models.FormatXLSX,
	})
	require.NoError(t, err)

	assert.Nil(t, sched.DayOfWeek)
	require.NotNil(t, sched.DayOfMonth)
	assert.Equal(t, 15, *sched.DayOfMonth)
	assert.True(t, sched.NextRun.After(time.Now()))
}

func TestScheduleUnknownReport(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	_, err := m.Schedule("no-such-report", ScheduleConfig{Frequency: models.FrequencyDaily})
	require.Error(t, err)
	assert.True(t, models.IsNotFound(err))

	schedules, err := m.ListSchedules()
	require.NoError(t, err)
	assert.Empty(t, schedules)
}

func TestToggleSchedule(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	sched, err := m.Schedule("connect-enrollment", ScheduleConfig{Frequency: models.FrequencyDaily})
	require.NoError(t, err)
	require.True(t, sched.IsActive)

	require.NoError(t, m.ToggleSchedule(sched.ID))
	schedules, err := m.ListSchedules()
	require.NoError(t, err)
	require.Len(t, schedules, 1)
	assert.False(t, schedules[0].IsActive)

	require.NoError(t, m.ToggleSchedule(sched.ID))
	schedules, err = m.ListSchedules()
	require.NoError(t, err)
	assert.True(t, schedules[0].IsActive)

	// Unknown ids are silently ignored.
	require.NoError(t, m.ToggleSchedule("sched-unknown"))
}

func TestDeleteScheduleIdempotent(t *testing.T) {
	m := NewManager(testDB(t), nil, 0)

	sched, err := m.Schedule("connect-enrollment", ScheduleConfig{Frequency: models.FrequencyDaily})
	require.NoError(t, err)

	require.NoError(t, m.DeleteSchedule(sched.ID))
	require.NoError(t, m.DeleteSchedule(sched.ID))

	schedules, err := m.ListSchedules()
	require.NoError(t, err)
	assert.Empty(t, schedules)
}
