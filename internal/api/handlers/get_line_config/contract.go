package get_line_config

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/lines/models"
)

type LinesService interface {
	GetConfig(ctx context.Context, lineID string) (*models.LineResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
