package entries

import (
	"context"
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/infra/events"
	"github.com/rocketqueue/queue-service/internal/infra/storage/audit"
	"github.com/rocketqueue/queue-service/internal/integrations/shopservice"
)

// EntryRepository интерфейс репозитория записей очереди
type EntryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Entry, error)
	GetByLineWithFilter(ctx context.Context, filter domain.LineEntriesFilter) ([]*domain.Entry, error)
	GetByCustomer(ctx context.Context, customerID string, status *domain.EntryStatus) ([]*domain.Entry, error)
	UpdateTransition(ctx context.Context, e *domain.Entry) error
	SetRating(ctx context.Context, id string, rating int, feedback *string) error
}

// LineRepository интерфейс репозитория сервисных линий
type LineRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ServiceLine, error)
}

// AuditRepository интерфейс журнала аудита записей
type AuditRepository interface {
	Log(ctx context.Context, entryID, action, detail string) error
	ListByEntry(ctx context.Context, entryID string) ([]*audit.Record, error)
}

// ShopServiceClient интерфейс клиента для ShopService
type ShopServiceClient interface {
	GetShop(ctx context.Context, shopID string) (*shopservice.Shop, error)
}

// WaitEstimator принимает обратную связь о фактической длительности обслуживания
type WaitEstimator interface {
	RecordServiceDuration(ctx context.Context, category string, minutes int) error
}

// EventPublisher публикует доменные события
type EventPublisher interface {
	Publish(subject string, event events.EntryEvent) error
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
