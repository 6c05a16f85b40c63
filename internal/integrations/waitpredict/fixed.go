package waitpredict

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/domain"
)

// FixedEstimator оценивает время ожидания по фиксированной норме минут на человека.
// Оценка для позиции N в очереди: (N + 1) * perPersonMinutes.
type FixedEstimator struct {
	perPersonMinutes int
}

// NewFixedEstimator создает эстиматор с фиксированной нормой времени обслуживания
func NewFixedEstimator(perPersonMinutes int) *FixedEstimator {
	if perPersonMinutes <= 0 {
		perPersonMinutes = domain.DefaultPerPersonMinutes
	}
	return &FixedEstimator{perPersonMinutes: perPersonMinutes}
}

// Estimate возвращает (queueLength + 1) * perPersonMinutes
func (e *FixedEstimator) Estimate(_ context.Context, queueLength int, _ string) (int, error) {
	return (queueLength + 1) * e.perPersonMinutes, nil
}

// RecordServiceDuration у фиксированного эстиматора обратная связь не используется
func (e *FixedEstimator) RecordServiceDuration(_ context.Context, _ string, _ int) error {
	return nil
}
