package update_line_config

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/lines/models"
)

type LinesService interface {
	UpdateConfig(ctx context.Context, lineID string, req *models.UpdateConfigRequest) (*models.LineResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
