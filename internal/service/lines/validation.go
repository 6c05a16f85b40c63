package lines

import (
	"fmt"
	"strings"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/service/lines/models"
	"github.com/rocketqueue/queue-service/pkg/types"
)

// validateName проверяет название линии
func validateName(name string) error {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if len(trimmed) > domain.MaxNameLength {
		return fmt.Errorf("%w: name is too long (max %d)", ErrInvalidInput, domain.MaxNameLength)
	}
	return nil
}

// normalizeSlotConfig подставляет значения по умолчанию вместо
// непереданных длительности и вместимости слота
func normalizeSlotConfig(cfg *models.SlotConfigPayload) {
	if cfg == nil {
		return
	}
	if cfg.DurationMinutes == 0 {
		cfg.DurationMinutes = domain.DefaultSlotDurationMinutes
	}
	if cfg.MaxCapacityPerSlot == 0 {
		cfg.MaxCapacityPerSlot = domain.DefaultSlotCapacity
	}
}

// validateSlotConfig проверяет конфигурацию слотов
// Неположительная длительность или вместимость отклоняются здесь,
// при сохранении конфигурации — до генерации сетки они не доживают
func validateSlotConfig(cfg *models.SlotConfigPayload) error {
	if cfg == nil {
		return nil
	}

	if cfg.DurationMinutes < domain.MinSlotDurationMinutes || cfg.DurationMinutes > domain.MaxSlotDurationMinutes {
		return fmt.Errorf("%w: slot duration must be between %d and %d minutes",
			ErrInvalidConfig, domain.MinSlotDurationMinutes, domain.MaxSlotDurationMinutes)
	}

	if cfg.MaxCapacityPerSlot < domain.MinSlotCapacity || cfg.MaxCapacityPerSlot > domain.MaxSlotCapacity {
		return fmt.Errorf("%w: slot capacity must be between %d and %d",
			ErrInvalidConfig, domain.MinSlotCapacity, domain.MaxSlotCapacity)
	}

	return nil
}

// validateSchedule проверяет рабочие часы и перерывы
func validateSchedule(schedule *models.SchedulePayload) error {
	if schedule == nil {
		return nil
	}

	start, err := types.NewTimeStringFromString(schedule.StartTime)
	if err != nil {
		return fmt.Errorf("%w: schedule startTime: %v", ErrInvalidConfig, err)
	}
	end, err := types.NewTimeStringFromString(schedule.EndTime)
	if err != nil {
		return fmt.Errorf("%w: schedule endTime: %v", ErrInvalidConfig, err)
	}

	if !start.IsBefore(end) {
		return fmt.Errorf("%w: schedule startTime must be before endTime", ErrInvalidConfig)
	}

	for i, b := range schedule.Breaks {
		brStart, err := types.NewTimeStringFromString(b.StartTime)
		if err != nil {
			return fmt.Errorf("%w: break #%d startTime: %v", ErrInvalidConfig, i+1, err)
		}
		brEnd, err := types.NewTimeStringFromString(b.EndTime)
		if err != nil {
			return fmt.Errorf("%w: break #%d endTime: %v", ErrInvalidConfig, i+1, err)
		}
		if !brStart.IsBefore(brEnd) {
			return fmt.Errorf("%w: break #%d startTime must be before endTime", ErrInvalidConfig, i+1)
		}
	}

	return nil
}
