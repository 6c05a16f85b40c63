package get_shop_qr

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/integrations/shopservice"
)

type ShopServiceClient interface {
	GetShop(ctx context.Context, shopID string) (*shopservice.Shop, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
