package domain

import "time"

// EntryStatus represents the lifecycle status of a queue entry
type EntryStatus string

const (
	StatusWaiting    EntryStatus = "waiting"
	StatusInProgress EntryStatus = "in_progress"
	StatusOnHold     EntryStatus = "on_hold"
	StatusCompleted  EntryStatus = "completed"
	StatusCancelled  EntryStatus = "cancelled"
	StatusNoShow     EntryStatus = "no_show"
)

// IsTerminal returns true for statuses that permanently remove the entry
// from active-queue counts, position ranking and capacity accounting
func (s EntryStatus) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled || s == StatusNoShow
}

// IsValid returns true for a known status value
func (s EntryStatus) IsValid() bool {
	switch s {
	case StatusWaiting, StatusInProgress, StatusOnHold, StatusCompleted, StatusCancelled, StatusNoShow:
		return true
	}
	return false
}

// transitions допустимые переходы статусов
// Из терминальных статусов переходов нет
var transitions = map[EntryStatus][]EntryStatus{
	StatusWaiting:    {StatusInProgress, StatusOnHold, StatusCancelled, StatusNoShow},
	StatusInProgress: {StatusCompleted, StatusCancelled, StatusNoShow},
	StatusOnHold:     {StatusWaiting, StatusInProgress, StatusCancelled},
}

// CanTransitionTo returns true if the status change from s to target is allowed
func (s EntryStatus) CanTransitionTo(target EntryStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Entry represents one customer's claim on a service line:
// either a first-come-first-served queue membership or a booked slot
type Entry struct {
	ID           string
	LineID       string
	CustomerID   string
	CustomerName string
	JoinedAt     time.Time
	Status       EntryStatus

	// Оценка ожидания, зафиксированная в момент постановки в очередь
	// Для слотовых записей всегда 0
	EstimatedMinutes int

	// Начало забронированного слота; nil для FCFS записей
	BookedSlotStart *time.Time

	StartedAt   *time.Time
	CompletedAt *time.Time

	Rating   *int
	Feedback *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the entry still occupies the queue or a slot
func (e *Entry) IsActive() bool {
	return !e.Status.IsTerminal()
}

// IsSlotted returns true for entries bound to a booked slot
func (e *Entry) IsSlotted() bool {
	return e.BookedSlotStart != nil
}

// CanBeCancelled returns true if the entry may still be cancelled
func (e *Entry) CanBeCancelled() bool {
	return !e.Status.IsTerminal()
}

// CanBeRated returns true if the customer may leave a rating
func (e *Entry) CanBeRated() bool {
	return e.Status == StatusCompleted
}

// ApplyTransition меняет статус записи с простановкой временных меток
// Вызывающий обязан предварительно проверить переход через CanTransitionTo
func (e *Entry) ApplyTransition(target EntryStatus, now time.Time) {
	e.Status = target

	switch target {
	case StatusInProgress:
		// Повторный вход в in_progress метку не перезаписывает
		if e.StartedAt == nil {
			t := now
			e.StartedAt = &t
		}
	case StatusCompleted, StatusNoShow:
		t := now
		e.CompletedAt = &t
	}
}

// LineEntriesFilter фильтр для выборки записей сервисной линии
type LineEntriesFilter struct {
	LineID          string
	Status          *EntryStatus // Фильтр по статусу (опционально)
	SlotDate        *time.Time   // Только записи со слотом на эту дату (опционально)
	IncludeTerminal bool         // Включать ли завершённые/отменённые записи
}
