package create_service_line

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/lines/models"
)

type LinesService interface {
	Create(ctx context.Context, req *models.CreateLineRequest) (*models.LineResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
