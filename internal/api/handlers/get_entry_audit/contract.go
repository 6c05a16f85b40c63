package get_entry_audit

import (
	"context"

	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

type EntriesService interface {
	GetAudit(ctx context.Context, entryID, userID string) (*models.AuditListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
