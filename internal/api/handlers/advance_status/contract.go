package advance_status

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

type EntriesService interface {
	AdvanceStatus(ctx context.Context, entryID string, req *models.AdvanceStatusRequest) (*models.EntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
