package waitpredict

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sumKeyTemplate   = "waitpredict:sum:%s"
	countKeyTemplate = "waitpredict:count:%s"

	// Скользящее окно статистики: данные старше суток не учитываются
	statsTTL = 24 * time.Hour

	// Минимальное количество наблюдений для доверия к средней оценке
	minObservations = 5
)

// ErrNoData возвращается, когда по категории недостаточно наблюдений
var ErrNoData = errors.New("waitpredict: not enough observations for category")

// RedisEstimator оценивает время ожидания по средней длительности обслуживания
// в категории, накопленной в Redis. При недостатке данных или недоступности
// Redis деградирует к резервному эстиматору.
type RedisEstimator struct {
	client   *redis.Client
	fallback Estimator
	log      Logger
}

// NewRedisEstimator создает эстиматор со статистикой в Redis и резервным эстиматором
func NewRedisEstimator(client *redis.Client, fallback Estimator, log Logger) *RedisEstimator {
	return &RedisEstimator{
		client:   client,
		fallback: fallback,
		log:      log,
	}
}

// Estimate рассчитывает оценку как (queueLength + 1) * средняя длительность по категории
func (e *RedisEstimator) Estimate(ctx context.Context, queueLength int, category string) (int, error) {
	avg, err := e.averageMinutes(ctx, category)
	if err != nil {
		if !errors.Is(err, ErrNoData) {
			e.log.Warn("[WaitPredict] Estimate - redis unavailable, falling back: %v", err)
		}
		return e.fallback.Estimate(ctx, queueLength, category)
	}

	return (queueLength + 1) * avg, nil
}

// RecordServiceDuration фиксирует фактическую длительность обслуживания по категории
func (e *RedisEstimator) RecordServiceDuration(ctx context.Context, category string, minutes int) error {
	if minutes <= 0 {
		return nil
	}

	sumKey := fmt.Sprintf(sumKeyTemplate, category)
	countKey := fmt.Sprintf(countKeyTemplate, category)

	pipe := e.client.TxPipeline()
	pipe.IncrBy(ctx, sumKey, int64(minutes))
	pipe.Incr(ctx, countKey)
	pipe.Expire(ctx, sumKey, statsTTL)
	pipe.Expire(ctx, countKey, statsTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("waitpredict: RecordServiceDuration - exec pipeline: %w", err)
	}

	return nil
}

func (e *RedisEstimator) averageMinutes(ctx context.Context, category string) (int, error) {
	sum, err := e.client.Get(ctx, fmt.Sprintf(sumKeyTemplate, category)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoData
		}
		return 0, fmt.Errorf("waitpredict: averageMinutes - get sum: %w", err)
	}

	count, err := e.client.Get(ctx, fmt.Sprintf(countKeyTemplate, category)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, ErrNoData
		}
		return 0, fmt.Errorf("waitpredict: averageMinutes - get count: %w", err)
	}

	if count < minObservations {
		return 0, ErrNoData
	}

	return int(sum / count), nil
}
