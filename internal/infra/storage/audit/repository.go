package audit

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/rocketqueue/queue-service/pkg/dbmetrics"
	"github.com/rocketqueue/queue-service/pkg/psqlbuilder"
)

// Действия, фиксируемые в журнале аудита записей
const (
	ActionCreated       = "CREATED"
	ActionStatusChanged = "STATUS_CHANGED"
	ActionCancelled     = "CANCELLED"
	ActionRated         = "RATED"
)

// Record одна запись журнала аудита
type Record struct {
	ID        int64
	EntryID   string
	Action    string
	Detail    string
	CreatedAt time.Time
}

// Repository репозиторий журнала аудита записей очереди
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория аудита
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Log добавляет запись в журнал аудита
func (r *Repository) Log(ctx context.Context, entryID, action, detail string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("entry_audit").
		Columns("entry_id", "action", "detail").
		Values(entryID, action, detail).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Log - build insert query: %v", ErrBuildQuery, err)
	}

	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: Log - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

// ListByEntry получает журнал аудита записи в хронологическом порядке
func (r *Repository) ListByEntry(ctx context.Context, entryID string) ([]*Record, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "entry_id", "action", "detail", "created_at").
		From("entry_audit").
		Where(squirrel.Eq{"entry_id": entryID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntry - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByEntry - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	records := make([]*Record, 0)
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.EntryID, &rec.Action, &rec.Detail, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("%w: ListByEntry - scan record: %v", ErrScanRow, err)
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByEntry - rows error: %v", ErrScanRow, err)
	}

	return records, nil
}
