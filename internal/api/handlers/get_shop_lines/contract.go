package get_shop_lines

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/lines/models"
)

type LinesService interface {
	ListByShop(ctx context.Context, shopID string) (*models.LineListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
