package join_queue

import (
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
)

// isWindowInGrid проверяет, что slotStart — начало окна из сетки линии:
// лежит внутри расписания, выровнен по шагу сетки и не пересекается
// с перерывом. Конец окна за пределами расписания допустим: сетка
// обрезается только по началу окна
func isWindowInGrid(schedule *domain.Schedule, durationMinutes int, slotStart time.Time) bool {
	if schedule == nil || durationMinutes <= 0 {
		return false
	}

	startMin, err := schedule.StartTime.Minutes()
	if err != nil {
		return false
	}
	endMin, err := schedule.EndTime.Minutes()
	if err != nil {
		return false
	}
	if startMin >= endMin {
		return false
	}

	winStart := slotStart.Hour()*60 + slotStart.Minute()
	if slotStart.Second() != 0 || slotStart.Nanosecond() != 0 {
		return false
	}

	// Начало окна внутри расписания и выровнено по шагу сетки
	if winStart < startMin || winStart >= endMin {
		return false
	}
	if (winStart-startMin)%durationMinutes != 0 {
		return false
	}

	// Окно не должно пересекаться ни с одним перерывом
	winEnd := winStart + durationMinutes
	for _, b := range schedule.Breaks {
		brStart, err := b.StartTime.Minutes()
		if err != nil {
			continue
		}
		brEnd, err := b.EndTime.Minutes()
		if err != nil {
			continue
		}
		if winStart < brEnd && winEnd > brStart {
			return false
		}
	}

	return true
}

// countExactSlotEntries считает активные записи, занимающие окно
// Учитывается только ТОЧНОЕ совпадение booked_slot_start с началом окна.
// Терминальные записи вместимость не расходуют: отменённая запись
// освобождает место в слоте
func countExactSlotEntries(entries []*domain.Entry, slotStart time.Time) int {
	count := 0
	for _, e := range entries {
		if !e.IsActive() {
			continue
		}
		if e.BookedSlotStart != nil && e.BookedSlotStart.Equal(slotStart) {
			count++
		}
	}
	return count
}
