package lines

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/integrations/shopservice"
)

// LineRepository интерфейс репозитория сервисных линий
type LineRepository interface {
	Create(ctx context.Context, line *domain.ServiceLine) (*domain.ServiceLine, error)
	GetByID(ctx context.Context, id string) (*domain.ServiceLine, error)
	ListByShop(ctx context.Context, shopID string) ([]*domain.ServiceLine, error)
	UpdateConfig(ctx context.Context, line *domain.ServiceLine) (*domain.ServiceLine, error)
}

// ShopServiceClient интерфейс клиента для ShopService
type ShopServiceClient interface {
	GetShop(ctx context.Context, shopID string) (*shopservice.Shop, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
