package entries

import (
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

// buildLineStats агрегирует статистику линии по полному списку её записей
//
// Средняя длительность обслуживания считается по завершённым записям
// с обеими временными метками (started_at и completed_at).
// "Сегодня" определяется по дате completed_at в локации now
func buildLineStats(lineID string, entries []*domain.Entry, now time.Time) *models.LineStatsResponse {
	stats := &models.LineStatsResponse{LineID: lineID}

	var totalServiceMinutes float64
	var servedWithStamps int
	var totalRating int
	var ratedCount int

	for _, e := range entries {
		switch e.Status {
		case domain.StatusWaiting:
			stats.Waiting++
		case domain.StatusInProgress:
			stats.InProgress++
		case domain.StatusOnHold:
			stats.OnHold++
		case domain.StatusCompleted:
			if e.CompletedAt != nil && isSameDay(*e.CompletedAt, now) {
				stats.ServedToday++
			}
			if e.StartedAt != nil && e.CompletedAt != nil {
				totalServiceMinutes += e.CompletedAt.Sub(*e.StartedAt).Minutes()
				servedWithStamps++
			}
			if e.Rating != nil {
				totalRating += *e.Rating
				ratedCount++
			}
		case domain.StatusNoShow:
			if e.CompletedAt != nil && isSameDay(*e.CompletedAt, now) {
				stats.NoShowsToday++
			}
		}
	}

	if servedWithStamps > 0 {
		stats.AverageServiceMinutes = totalServiceMinutes / float64(servedWithStamps)
	}
	if ratedCount > 0 {
		stats.AverageRating = float64(totalRating) / float64(ratedCount)
	}

	return stats
}

// isSameDay проверяет, что две даты относятся к одному и тому же дню
func isSameDay(a, b time.Time) bool {
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
