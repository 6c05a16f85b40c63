package get_line_stats

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

type EntriesService interface {
	GetLineStats(ctx context.Context, lineID, userID string) (*models.LineStatsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
