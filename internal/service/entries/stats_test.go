package entries

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/rocketqueue/queue-service/internal/domain"
)

func timePtr(t time.Time) *time.Time { return &t }
func intPtr(v int) *int              { return &v }

func TestBuildLineStats(t *testing.T) {
	now := time.Date(2025, 6, 10, 18, 0, 0, 0, time.UTC)
	yesterday := now.Add(-24 * time.Hour)

	entries := []*domain.Entry{
		{Status: domain.StatusWaiting},
		{Status: domain.StatusWaiting},
		{Status: domain.StatusInProgress},
		{Status: domain.StatusOnHold},

		// Завершена сегодня за 20 минут, с оценкой 5
		{
			Status:      domain.StatusCompleted,
			StartedAt:   timePtr(now.Add(-30 * time.Minute)),
			CompletedAt: timePtr(now.Add(-10 * time.Minute)),
			Rating:      intPtr(5),
		},
		// Завершена сегодня за 40 минут, с оценкой 3
		{
			Status:      domain.StatusCompleted,
			StartedAt:   timePtr(now.Add(-50 * time.Minute)),
			CompletedAt: timePtr(now.Add(-10 * time.Minute)),
			Rating:      intPtr(3),
		},
		// Завершена вчера: в served_today не входит, в среднее время входит
		{
			Status:      domain.StatusCompleted,
			StartedAt:   timePtr(yesterday.Add(-30 * time.Minute)),
			CompletedAt: timePtr(yesterday),
		},
		// Неявка сегодня
		{
			Status:      domain.StatusNoShow,
			CompletedAt: timePtr(now.Add(-time.Hour)),
		},
		// Отменённые в статистику обслуживания не входят
		{Status: domain.StatusCancelled},
	}

	stats := buildLineStats("line-1", entries, now)

	assert.Equal(t, "line-1", stats.LineID)
	assert.Equal(t, 2, stats.Waiting)
	assert.Equal(t, 1, stats.InProgress)
	assert.Equal(t, 1, stats.OnHold)
	assert.Equal(t, 2, stats.ServedToday)
	assert.Equal(t, 1, stats.NoShowsToday)
	// (20 + 40 + 30) / 3
	assert.InDelta(t, 30.0, stats.AverageServiceMinutes, 0.001)
	// (5 + 3) / 2
	assert.InDelta(t, 4.0, stats.AverageRating, 0.001)
}

func TestBuildLineStats_Empty(t *testing.T) {
	stats := buildLineStats("line-1", nil, time.Now())

	assert.Equal(t, 0, stats.Waiting)
	assert.Equal(t, 0.0, stats.AverageServiceMinutes)
	assert.Equal(t, 0.0, stats.AverageRating)
}

func TestIsSameDay(t *testing.T) {
	a := time.Date(2025, 6, 10, 0, 0, 1, 0, time.UTC)
	b := time.Date(2025, 6, 10, 23, 59, 59, 0, time.UTC)
	c := time.Date(2025, 6, 11, 0, 0, 0, 0, time.UTC)

	assert.True(t, isSameDay(a, b))
	assert.False(t, isSameDay(b, c))
}
