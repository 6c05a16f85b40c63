package get_entry

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

type EntriesService interface {
	GetByID(ctx context.Context, id string, userID string) (*models.EntryResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
