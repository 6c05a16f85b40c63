package get_available_slots

import (
	"context"
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/integrations/shopservice"
)

// EntryRepository интерфейс репозитория записей очереди
type EntryRepository interface {
	// GetByLineWithFilter получает записи линии (по умолчанию только активные)
	GetByLineWithFilter(ctx context.Context, filter domain.LineEntriesFilter) ([]*domain.Entry, error)
}

// LineRepository интерфейс репозитория сервисных линий
type LineRepository interface {
	GetByID(ctx context.Context, id string) (*domain.ServiceLine, error)
}

// ShopServiceClient интерфейс клиента для ShopService
type ShopServiceClient interface {
	GetShop(ctx context.Context, shopID string) (*shopservice.Shop, error)
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
