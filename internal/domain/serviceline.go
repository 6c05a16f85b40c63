package domain

import (
	"time"

	"github.com/rocketqueue/queue-service/pkg/types"
)

// LineMode is the operating mode of a service line
type LineMode string

const (
	// ModeFCFS first-come-first-served: живая очередь без слотов
	ModeFCFS LineMode = "fcfs"
	// ModeSlotted запись по фиксированным временным слотам
	ModeSlotted LineMode = "slotted"
)

// SlotConfig configuration of a slotted service line
type SlotConfig struct {
	IsEnabled          bool
	DurationMinutes    int
	MaxCapacityPerSlot int
}

// BreakWindow окно перерыва внутри рабочего дня (например, обед)
type BreakWindow struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Label     string
}

// Schedule рабочие часы сервисной линии
// Если расписание не задано, используются часы магазина (shop provider)
type Schedule struct {
	StartTime types.TimeString
	EndTime   types.TimeString
	Breaks    []BreakWindow
}

// ServiceLine represents one bookable queue/line within a shop
type ServiceLine struct {
	ID       string
	ShopID   string
	Name     string
	Category string
	IsActive bool

	SlotConfig *SlotConfig
	Schedule   *Schedule

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Mode derives the operating mode from the slot config:
// slotted iff an enabled slot config is present, fcfs otherwise
func (l *ServiceLine) Mode() LineMode {
	if l.SlotConfig != nil && l.SlotConfig.IsEnabled {
		return ModeSlotted
	}
	return ModeFCFS
}

// EffectiveSlotConfig возвращает конфигурацию слотов для слотовой линии
// Для FCFS линии возвращает nil
func (l *ServiceLine) EffectiveSlotConfig() *SlotConfig {
	if l.Mode() != ModeSlotted {
		return nil
	}
	return l.SlotConfig
}

// Shop данные магазина, получаемые от shop provider
// Обеденное окно магазина трактуется как перерыв по умолчанию
type Shop struct {
	ID          string
	VendorID    string
	Name        string
	Category    string
	OpeningTime *types.TimeString
	ClosingTime *types.TimeString
	LunchStart  *types.TimeString
	LunchEnd    *types.TimeString
}

// FallbackSchedule строит расписание из часов магазина
// Возвращает nil, если у магазина не заданы часы работы
func (s *Shop) FallbackSchedule() *Schedule {
	if s.OpeningTime == nil || s.ClosingTime == nil {
		return nil
	}

	schedule := &Schedule{
		StartTime: *s.OpeningTime,
		EndTime:   *s.ClosingTime,
	}

	if s.LunchStart != nil && s.LunchEnd != nil {
		schedule.Breaks = append(schedule.Breaks, BreakWindow{
			StartTime: *s.LunchStart,
			EndTime:   *s.LunchEnd,
			Label:     "Lunch",
		})
	}

	return schedule
}
