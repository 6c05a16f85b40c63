package get_available_slots

import (
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
)

// generateWindows генерирует сетку временных окон на день по расписанию линии
//
// Окна идут подряд от начала расписания с шагом durationMinutes, пока начало
// окна СТРОГО раньше конца расписания. Конец окна не проверяется: последнее
// окно может заканчиваться позже конца расписания (например, при расписании
// до 17:10 и шаге 30 минут окно 17:00 попадает в сетку)
//
// Окно целиком исключается, если оно пересекается с любым перерывом:
// начало окна раньше конца перерыва И конец окна позже начала перерыва.
// Граничащие интервалы пересечением не считаются
func generateWindows(
	schedule *domain.Schedule,
	durationMinutes int,
	date time.Time,
	now time.Time,
) ([]domain.SlotWindow, error) {
	if schedule == nil {
		return []domain.SlotWindow{}, nil
	}

	startMin, err := schedule.StartTime.Minutes()
	if err != nil {
		return nil, err
	}
	endMin, err := schedule.EndTime.Minutes()
	if err != nil {
		return nil, err
	}

	// Пустое или вырожденное расписание — окон нет
	if startMin >= endMin {
		return []domain.SlotWindow{}, nil
	}

	// Перерывы в минутах от начала суток; порядок и непересекаемость
	// перерывов не гарантируются, проверяем каждое окно против каждого
	type interval struct{ start, end int }
	breaks := make([]interval, 0, len(schedule.Breaks))
	for _, b := range schedule.Breaks {
		brStart, err := b.StartTime.Minutes()
		if err != nil {
			return nil, err
		}
		brEnd, err := b.EndTime.Minutes()
		if err != nil {
			return nil, err
		}
		breaks = append(breaks, interval{start: brStart, end: brEnd})
	}

	dayStart := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())

	windows := make([]domain.SlotWindow, 0)
	for winStart := startMin; winStart < endMin; winStart += durationMinutes {
		winEnd := winStart + durationMinutes

		overlapsBreak := false
		for _, br := range breaks {
			if winStart < br.end && winEnd > br.start {
				overlapsBreak = true
				break
			}
		}
		if overlapsBreak {
			continue
		}

		startAt := dayStart.Add(time.Duration(winStart) * time.Minute)
		windows = append(windows, domain.SlotWindow{
			StartAt:         startAt,
			EndAt:           dayStart.Add(time.Duration(winEnd) * time.Minute),
			Label:           startAt.Format(domain.TimeFormat),
			DurationMinutes: durationMinutes,
			IsPast:          startAt.Before(now),
		})
	}

	return windows, nil
}

// annotateCapacity заполняет занятость окон по активным записям линии
//
// Запись занимает окно только при ТОЧНОМ совпадении booked_slot_start
// с началом окна. Запись со временем внутри окна, но не равным его началу
// (осиротевшая после смены конфигурации сетки), вместимость не расходует.
// Терминальные записи тоже не считаются: отменённая запись освобождает место
func annotateCapacity(windows []domain.SlotWindow, entries []*domain.Entry, maxCapacityPerSlot int) {
	for i := range windows {
		booked := 0
		for _, e := range entries {
			if !e.IsActive() {
				continue
			}
			if e.BookedSlotStart != nil && e.BookedSlotStart.Equal(windows[i].StartAt) {
				booked++
			}
		}

		windows[i].BookedCount = booked
		windows[i].TotalSpots = maxCapacityPerSlot
		windows[i].IsFull = booked >= maxCapacityPerSlot
	}
}

// resolveSchedule возвращает расписание линии, а при его отсутствии —
// расписание из часов работы магазина (обед магазина становится перерывом)
func resolveSchedule(line *domain.ServiceLine, shop *domain.Shop) *domain.Schedule {
	if line.Schedule != nil && !line.Schedule.StartTime.IsZero() && !line.Schedule.EndTime.IsZero() {
		return line.Schedule
	}
	if shop == nil {
		return nil
	}
	return shop.FallbackSchedule()
}
