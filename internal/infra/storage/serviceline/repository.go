package serviceline

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/pkg/dbmetrics"
	"github.com/rocketqueue/queue-service/pkg/psqlbuilder"
	"github.com/rocketqueue/queue-service/pkg/types"
)

var lineColumns = []string{
	"id",
	"shop_id",
	"name",
	"category",
	"is_active",
	"slot_enabled",
	"slot_duration_minutes",
	"slot_capacity",
	"sched_start_time",
	"sched_end_time",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с сервисными линиями
type Repository struct {
	db dbmetrics.DBExecutor
}

// NewRepository создает новый экземпляр репозитория сервисных линий
func NewRepository(db dbmetrics.DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает сервисную линию вместе с перерывами расписания
func (r *Repository) Create(ctx context.Context, line *domain.ServiceLine) (*domain.ServiceLine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slotEnabled, slotDuration, slotCapacity := slotConfigColumns(line.SlotConfig)
	schedStart, schedEnd := scheduleColumns(line.Schedule)

	query, args, err := psqlbuilder.Insert("service_lines").
		Columns(
			"id",
			"shop_id",
			"name",
			"category",
			"is_active",
			"slot_enabled",
			"slot_duration_minutes",
			"slot_capacity",
			"sched_start_time",
			"sched_end_time",
		).
		Values(
			line.ID,
			line.ShopID,
			line.Name,
			line.Category,
			line.IsActive,
			slotEnabled,
			slotDuration,
			slotCapacity,
			schedStart,
			schedEnd,
		).
		Suffix("RETURNING created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	line.CreatedAt = createdAt.Time
	line.UpdatedAt = updatedAt.Time

	if line.Schedule != nil {
		if err := r.replaceBreaks(ctx, line.ID, line.Schedule.Breaks); err != nil {
			return nil, err
		}
	}

	return line, nil
}

// GetByID получает сервисную линию с перерывами расписания
// Внутри транзакции строка линии блокируется FOR UPDATE — это точка
// взаимного исключения для конкурирующих постановок в очередь одной линии
func (r *Repository) GetByID(ctx context.Context, id string) (*domain.ServiceLine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(lineColumns...).
		From("service_lines").
		Where(squirrel.Eq{"id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	row := executor.QueryRowContext(ctx, query, args...)
	line, err := scanLine(row.Scan)
	if err == sql.ErrNoRows {
		return nil, ErrLineNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan line: %v", ErrScanRow, err)
	}

	if err := r.loadBreaks(ctx, line); err != nil {
		return nil, err
	}

	return line, nil
}

// ListByShop получает все сервисные линии магазина
func (r *Repository) ListByShop(ctx context.Context, shopID string) ([]*domain.ServiceLine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(lineColumns...).
		From("service_lines").
		Where(squirrel.Eq{"shop_id": shopID}).
		OrderBy("created_at ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListByShop - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListByShop - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	lines := make([]*domain.ServiceLine, 0)
	for rows.Next() {
		line, err := scanLine(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("%w: ListByShop - scan line: %v", ErrScanRow, err)
		}
		lines = append(lines, line)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListByShop - rows error: %v", ErrScanRow, err)
	}

	for _, line := range lines {
		if err := r.loadBreaks(ctx, line); err != nil {
			return nil, err
		}
	}

	return lines, nil
}

// UpdateConfig обновляет конфигурацию линии (слоты, расписание, активность)
// Перерывы перезаписываются целиком
func (r *Repository) UpdateConfig(ctx context.Context, line *domain.ServiceLine) (*domain.ServiceLine, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	slotEnabled, slotDuration, slotCapacity := slotConfigColumns(line.SlotConfig)
	schedStart, schedEnd := scheduleColumns(line.Schedule)

	query, args, err := psqlbuilder.Update("service_lines").
		Set("name", line.Name).
		Set("is_active", line.IsActive).
		Set("slot_enabled", slotEnabled).
		Set("slot_duration_minutes", slotDuration).
		Set("slot_capacity", slotCapacity).
		Set("sched_start_time", schedStart).
		Set("sched_end_time", schedEnd).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": line.ID}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: UpdateConfig - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateConfig - execute update: %v", ErrExecQuery, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("%w: UpdateConfig - get rows affected: %v", ErrExecQuery, err)
	}
	if rowsAffected == 0 {
		return nil, ErrLineNotFound
	}

	var breaks []domain.BreakWindow
	if line.Schedule != nil {
		breaks = line.Schedule.Breaks
	}
	if err := r.replaceBreaks(ctx, line.ID, breaks); err != nil {
		return nil, err
	}

	return r.GetByID(ctx, line.ID)
}

// loadBreaks подгружает перерывы расписания линии
func (r *Repository) loadBreaks(ctx context.Context, line *domain.ServiceLine) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("start_time", "end_time", "label").
		From("line_breaks").
		Where(squirrel.Eq{"line_id": line.ID}).
		OrderBy("position ASC").
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: loadBreaks - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%w: loadBreaks - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	breaks := make([]domain.BreakWindow, 0)
	for rows.Next() {
		var b domain.BreakWindow
		if err := rows.Scan(&b.StartTime, &b.EndTime, &b.Label); err != nil {
			return fmt.Errorf("%w: loadBreaks - scan break: %v", ErrScanRow, err)
		}
		breaks = append(breaks, b)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("%w: loadBreaks - rows error: %v", ErrScanRow, err)
	}

	if line.Schedule != nil {
		line.Schedule.Breaks = breaks
	} else if len(breaks) > 0 {
		// Перерывы без собственного расписания линии не имеют смысла,
		// но не теряем их при чтении
		line.Schedule = &domain.Schedule{Breaks: breaks}
	}

	return nil
}

// replaceBreaks перезаписывает перерывы линии
func (r *Repository) replaceBreaks(ctx context.Context, lineID string, breaks []domain.BreakWindow) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Delete("line_breaks").
		Where(squirrel.Eq{"line_id": lineID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceBreaks - build delete query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceBreaks - execute delete: %v", ErrExecQuery, err)
	}

	if len(breaks) == 0 {
		return nil
	}

	insertBuilder := psqlbuilder.Insert("line_breaks").
		Columns("line_id", "position", "start_time", "end_time", "label")
	for i, b := range breaks {
		insertBuilder = insertBuilder.Values(lineID, i, b.StartTime, b.EndTime, b.Label)
	}

	query, args, err = insertBuilder.ToSql()
	if err != nil {
		return fmt.Errorf("%w: replaceBreaks - build insert query: %v", ErrBuildQuery, err)
	}
	if _, err := executor.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("%w: replaceBreaks - execute insert: %v", ErrExecQuery, err)
	}

	return nil
}

func slotConfigColumns(cfg *domain.SlotConfig) (bool, *int, *int) {
	if cfg == nil {
		return false, nil, nil
	}
	duration := cfg.DurationMinutes
	capacity := cfg.MaxCapacityPerSlot
	return cfg.IsEnabled, &duration, &capacity
}

func scheduleColumns(s *domain.Schedule) (*types.TimeString, *types.TimeString) {
	if s == nil || s.StartTime.IsZero() || s.EndTime.IsZero() {
		return nil, nil
	}
	start := s.StartTime
	end := s.EndTime
	return &start, &end
}

// scanLine сканирует линию из строки результата
func scanLine(scan func(dest ...interface{}) error) (*domain.ServiceLine, error) {
	var line domain.ServiceLine
	var slotEnabled bool
	var slotDuration, slotCapacity sql.NullInt64
	var schedStart, schedEnd types.TimeString
	var createdAt, updatedAt sql.NullTime

	err := scan(
		&line.ID,
		&line.ShopID,
		&line.Name,
		&line.Category,
		&line.IsActive,
		&slotEnabled,
		&slotDuration,
		&slotCapacity,
		&schedStart,
		&schedEnd,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if slotDuration.Valid && slotCapacity.Valid {
		line.SlotConfig = &domain.SlotConfig{
			IsEnabled:          slotEnabled,
			DurationMinutes:    int(slotDuration.Int64),
			MaxCapacityPerSlot: int(slotCapacity.Int64),
		}
	}

	if !schedStart.IsZero() && !schedEnd.IsZero() {
		line.Schedule = &domain.Schedule{
			StartTime: schedStart,
			EndTime:   schedEnd,
		}
	}

	line.CreatedAt = createdAt.Time
	line.UpdatedAt = updatedAt.Time

	return &line, nil
}
