package get_line_entries

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

type EntriesService interface {
	GetLineEntries(ctx context.Context, req *models.GetLineEntriesRequest) (*models.EntryListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
