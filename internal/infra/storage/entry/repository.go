package entry

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/pkg/dbmetrics"
	"github.com/rocketqueue/queue-service/pkg/psqlbuilder"
)

var entryColumns = []string{
	"id",
	"line_id",
	"customer_id",
	"customer_name",
	"joined_at",
	"status",
	"estimated_minutes",
	"booked_slot_start",
	"started_at",
	"completed_at",
	"rating",
	"feedback",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с записями очереди
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория записей
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает новую запись очереди
// Если в контексте передана активная транзакция, использует её —
// это обязательный режим для сценария постановки в очередь
// (проверка вместимости слота и вставка должны быть атомарны)
func (r *Repository) Create(ctx context.Context, e *domain.Entry) (*domain.Entry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("entries").
		Columns(
			"id",
			"line_id",
			"customer_id",
			"customer_name",
			"joined_at",
			"status",
			"estimated_minutes",
			"booked_slot_start",
		).
		Values(
			e.ID,
			e.LineID,
			e.CustomerID,
			e.CustomerName,
			e.JoinedAt,
			e.Status,
			e.EstimatedMinutes,
			e.BookedSlotStart,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt)
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return e, nil
}

// GetByID получает запись по ID
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Entry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(entryColumns...).
		From("entries").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	e, err := scanEntry(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrEntryNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan entry: %v", ErrScanRow, err)
	}

	return e, nil
}

// GetByLineWithFilter получает записи сервисной линии
// По умолчанию терминальные записи исключаются; порядок — joined_at ASC
// (порядок живой очереди). Внутри транзакции выборка блокируется FOR UPDATE,
// чтобы сериализовать конкурирующие постановки в очередь одной линии
//
// Примеры использования:
//
//  1. Активная очередь линии:
//     filter := domain.LineEntriesFilter{LineID: "q-1"}
//
//  2. Записи со слотом на дату (для расчёта занятости окон):
//     date := time.Date(2026, 8, 30, 0, 0, 0, 0, time.Local)
//     filter := domain.LineEntriesFilter{LineID: "q-1", SlotDate: &date}
//
//  3. Полная история линии:
//     filter := domain.LineEntriesFilter{LineID: "q-1", IncludeTerminal: true}
func (r *Repository) GetByLineWithFilter(ctx context.Context, filter domain.LineEntriesFilter) ([]*domain.Entry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("entries").
		Where(squirrel.Eq{"line_id": filter.LineID}).
		OrderBy("joined_at ASC")

	// Фильтрация по статусу
	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeTerminal {
		terminal := make([]string, len(domain.TerminalStatuses))
		for i, s := range domain.TerminalStatuses {
			terminal[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": terminal})
	}

	// Только записи со слотом в пределах указанной даты
	if filter.SlotDate != nil {
		dayStart := time.Date(filter.SlotDate.Year(), filter.SlotDate.Month(), filter.SlotDate.Day(),
			0, 0, 0, 0, filter.SlotDate.Location())
		dayEnd := dayStart.AddDate(0, 0, 1)
		selectBuilder = selectBuilder.
			Where(squirrel.GtOrEq{"booked_slot_start": dayStart}).
			Where(squirrel.Lt{"booked_slot_start": dayEnd})
	}

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLineWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByLineWithFilter - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// GetByCustomer получает историю записей клиента (сначала новые)
func (r *Repository) GetByCustomer(ctx context.Context, customerID string, status *domain.EntryStatus) ([]*domain.Entry, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(entryColumns...).
		From("entries").
		Where(squirrel.Eq{"customer_id": customerID}).
		OrderBy("joined_at DESC")

	if status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *status})
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByCustomer - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

// CountWaiting считает записи линии в статусе waiting
// Используется для оценки времени ожидания в момент постановки в очередь
func (r *Repository) CountWaiting(ctx context.Context, lineID string) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("entries").
		Where(squirrel.Eq{"line_id": lineID, "status": domain.StatusWaiting}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountWaiting - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("%w: CountWaiting - scan count: %v", ErrScanRow, err)
	}

	return count, nil
}

// HasActiveEntry проверяет, есть ли у клиента незавершённая запись в линии
func (r *Repository) HasActiveEntry(ctx context.Context, lineID, customerID string) (bool, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	active := make([]string, len(domain.ActiveStatuses))
	for i, s := range domain.ActiveStatuses {
		active[i] = string(s)
	}

	query, args, err := psqlbuilder.Select("COUNT(*)").
		From("entries").
		Where(squirrel.Eq{"line_id": lineID, "customer_id": customerID}).
		Where(squirrel.Eq{"status": active}).
		ToSql()

	if err != nil {
		return false, fmt.Errorf("%w: HasActiveEntry - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return false, fmt.Errorf("%w: HasActiveEntry - scan count: %v", ErrScanRow, err)
	}

	return count > 0, nil
}

// UpdateTransition сохраняет смену статуса вместе с временными метками
// started_at/completed_at берутся из доменной модели (domain.Entry.ApplyTransition)
func (r *Repository) UpdateTransition(ctx context.Context, e *domain.Entry) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("entries").
		Set("status", e.Status).
		Set("started_at", e.StartedAt).
		Set("completed_at", e.CompletedAt).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": e.ID}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: UpdateTransition - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: UpdateTransition - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: UpdateTransition - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// SetRating сохраняет оценку и отзыв клиента по завершённой записи
func (r *Repository) SetRating(ctx context.Context, id string, rating int, feedback *string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("entries").
		Set("rating", rating).
		Set("feedback", feedback).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetRating - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: SetRating - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: SetRating - get rows affected: %v", ErrExecQuery, err)
	}

	if rowsAffected == 0 {
		return ErrEntryNotFound
	}

	return nil
}

// scanEntry сканирует одну запись из строки результата
func scanEntry(scan func(dest ...interface{}) error) (*domain.Entry, error) {
	var e domain.Entry
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&e.ID,
		&e.LineID,
		&e.CustomerID,
		&e.CustomerName,
		&e.JoinedAt,
		&e.Status,
		&e.EstimatedMinutes,
		&e.BookedSlotStart,
		&e.StartedAt,
		&e.CompletedAt,
		&e.Rating,
		&e.Feedback,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	e.CreatedAt = createdAt.Time
	e.UpdatedAt = updatedAt.Time

	return &e, nil
}

func scanEntries(rows *sql.Rows) ([]*domain.Entry, error) {
	entries := make([]*domain.Entry, 0)

	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: scan entry: %v", ErrScanRow, err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return entries, nil
}
