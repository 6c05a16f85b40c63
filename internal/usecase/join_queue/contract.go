package join_queue

import (
	"context"
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/infra/events"
	"github.com/rocketqueue/queue-service/internal/integrations/shopservice"
)

// ShopServiceClient интерфейс клиента для ShopService
type ShopServiceClient interface {
	GetShop(ctx context.Context, shopID string) (*shopservice.Shop, error)
}

// EntryRepository интерфейс репозитория записей очереди
type EntryRepository interface {
	Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error)
	GetByLineWithFilter(ctx context.Context, filter domain.LineEntriesFilter) ([]*domain.Entry, error)
	CountWaiting(ctx context.Context, lineID string) (int, error)
	HasActiveEntry(ctx context.Context, lineID, customerID string) (bool, error)
}

// LineRepository интерфейс репозитория сервисных линий
type LineRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ServiceLine, error)
}

// WaitEstimator рассчитывает ожидаемое время ожидания для живой очереди
type WaitEstimator interface {
	Estimate(ctx context.Context, queueLength int, category string) (int, error)
}

// AuditLogger пишет журнал аудита записей
type AuditLogger interface {
	Log(ctx context.Context, entryID, action, detail string) error
}

// EventPublisher публикует доменные события
type EventPublisher interface {
	Publish(subject string, event events.EntryEvent) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
