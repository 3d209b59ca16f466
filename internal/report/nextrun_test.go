package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/veenapanicker/nexus/internal/models"
)

func TestNextRunDaily(t *testing.T) {
	from := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	next := NextRun(models.FrequencyDaily, 0, 1, from)

	assert.Equal(t, time.Date(2025, time.March, 11, 14, 30, 0, 0, time.UTC), next)
}

func TestNextRunWeekly(t *testing.T) {
	// 2025-03-10 is a Monday.
	monday := time.Date(2025, time.March, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		dayOfWeek int
		want      time.Time
	}{
		{"later this week", 3, time.Date(2025, time.March, 12, 9, 0, 0, 0, time.UTC)},
		{"earlier in the week wraps", 0, time.Date(2025, time.March, 16, 9, 0, 0, 0, time.UTC)},
		{"same weekday moves a full week", 1, time.Date(2025, time.March, 17, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next := NextRun(models.FrequencyWeekly, tt.dayOfWeek, 1, monday)
			assert.Equal(t, tt.want, next)
			assert.True(t, next.After(monday))
		})
	}
}

func TestNextRunMonthly(t *testing.T) {
	from := time.Date(2025, time.March, 20, 8, 15, 0, 0, time.UTC)
	next := NextRun(models.FrequencyMonthly, 0, 15, from)

	assert.Equal(t, time.Date(2025, time.April, 15, 8, 15, 0, 0, time.UTC), next)
}

func TestNextRunMonthlyClampsShortMonths(t *testing.T) {
	from := time.Date(2025, time.January, 31, 12, 0, 0, 0, time.UTC)
	next := NextRun(models.FrequencyMonthly, 0, 31, from)

	assert.Equal(t, time.Date(2025, time.February, 28, 12, 0, 0, 0, time.UTC), next)
}

func TestNextRunTermEnd(t *testing.T) {
	before := time.Date(2025, time.March, 10, 14, 30, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2025, time.May, 15, 14, 30, 0, 0, time.UTC),
		NextRun(models.FrequencyTermEnd, 0, 1, before))

	after := time.Date(2025, time.June, 1, 14, 30, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2026, time.May, 15, 14, 30, 0, 0, time.UTC),
		NextRun(models.FrequencyTermEnd, 0, 1, after))

	// Creation exactly on the trigger date rolls to next year.
	onDate := time.Date(2025, time.May, 15, 14, 30, 0, 0, time.UTC)
	assert.Equal(t,
		time.Date(2026, time.May, 15, 14, 30, 0, 0, time.UTC),
		NextRun(models.FrequencyTermEnd, 0, 1, onDate))
}
