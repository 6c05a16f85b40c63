package models

import (
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/pkg/types"
)

// Request модели

// SlotConfigPayload конфигурация слотов линии
type SlotConfigPayload struct {
	IsEnabled          bool `json:"isEnabled"`
	DurationMinutes    int  `json:"durationMinutes"`
	MaxCapacityPerSlot int  `json:"maxCapacityPerSlot"`
}

// BreakPayload окно перерыва внутри рабочего дня
type BreakPayload struct {
	StartTime string `json:"startTime"` // "HH:MM"
	EndTime   string `json:"endTime"`   // "HH:MM"
	Label     string `json:"label,omitempty"`
}

// SchedulePayload рабочие часы линии
type SchedulePayload struct {
	StartTime string         `json:"startTime"` // "HH:MM"
	EndTime   string         `json:"endTime"`   // "HH:MM"
	Breaks    []BreakPayload `json:"breaks,omitempty"`
}

// CreateLineRequest запрос на создание сервисной линии
type CreateLineRequest struct {
	UserID     string             `json:"userId"`
	ShopID     string             `json:"shopId"`
	Name       string             `json:"name"`
	Category   string             `json:"category,omitempty"`
	SlotConfig *SlotConfigPayload `json:"slotConfig,omitempty"`
	Schedule   *SchedulePayload   `json:"schedule,omitempty"`
}

// UpdateConfigRequest запрос на обновление конфигурации линии
type UpdateConfigRequest struct {
	UserID     string             `json:"userId"`
	Name       *string            `json:"name,omitempty"`
	IsActive   *bool              `json:"isActive,omitempty"`
	SlotConfig *SlotConfigPayload `json:"slotConfig,omitempty"`
	Schedule   *SchedulePayload   `json:"schedule,omitempty"`
}

// Response модели

// LineResponse ответ с данными сервисной линии
type LineResponse struct {
	ID         string             `json:"id"`
	ShopID     string             `json:"shopId"`
	Name       string             `json:"name"`
	Category   string             `json:"category,omitempty"`
	IsActive   bool               `json:"isActive"`
	Mode       string             `json:"mode"`
	SlotConfig *SlotConfigPayload `json:"slotConfig,omitempty"`
	Schedule   *SchedulePayload   `json:"schedule,omitempty"`
	CreatedAt  time.Time          `json:"createdAt"`
	UpdatedAt  time.Time          `json:"updatedAt"`
}

// LineListResponse ответ со списком линий магазина
type LineListResponse struct {
	Lines []*LineResponse `json:"lines"`
	Total int             `json:"total"`
}

// Конвертеры

// FromDomainLine конвертирует доменную линию в response
func FromDomainLine(line *domain.ServiceLine) *LineResponse {
	response := &LineResponse{
		ID:        line.ID,
		ShopID:    line.ShopID,
		Name:      line.Name,
		Category:  line.Category,
		IsActive:  line.IsActive,
		Mode:      string(line.Mode()),
		CreatedAt: line.CreatedAt,
		UpdatedAt: line.UpdatedAt,
	}

	if line.SlotConfig != nil {
		response.SlotConfig = &SlotConfigPayload{
			IsEnabled:          line.SlotConfig.IsEnabled,
			DurationMinutes:    line.SlotConfig.DurationMinutes,
			MaxCapacityPerSlot: line.SlotConfig.MaxCapacityPerSlot,
		}
	}

	if line.Schedule != nil {
		schedule := &SchedulePayload{
			StartTime: line.Schedule.StartTime.String(),
			EndTime:   line.Schedule.EndTime.String(),
		}
		for _, b := range line.Schedule.Breaks {
			schedule.Breaks = append(schedule.Breaks, BreakPayload{
				StartTime: b.StartTime.String(),
				EndTime:   b.EndTime.String(),
				Label:     b.Label,
			})
		}
		response.Schedule = schedule
	}

	return response
}

// FromDomainLineList конвертирует список доменных линий в response
func FromDomainLineList(lines []*domain.ServiceLine) *LineListResponse {
	result := &LineListResponse{
		Lines: make([]*LineResponse, len(lines)),
		Total: len(lines),
	}
	for i, line := range lines {
		result.Lines[i] = FromDomainLine(line)
	}
	return result
}

// ToDomainSlotConfig конвертирует payload в доменную конфигурацию слотов
func (p *SlotConfigPayload) ToDomainSlotConfig() *domain.SlotConfig {
	if p == nil {
		return nil
	}
	return &domain.SlotConfig{
		IsEnabled:          p.IsEnabled,
		DurationMinutes:    p.DurationMinutes,
		MaxCapacityPerSlot: p.MaxCapacityPerSlot,
	}
}

// ToDomainSchedule конвертирует payload в доменное расписание
// Формат времени здесь не проверяется — валидация конфигурации делается
// сервисом до конвертации
func (p *SchedulePayload) ToDomainSchedule() *domain.Schedule {
	if p == nil {
		return nil
	}
	schedule := &domain.Schedule{
		StartTime: types.TimeString(p.StartTime),
		EndTime:   types.TimeString(p.EndTime),
	}
	for _, b := range p.Breaks {
		schedule.Breaks = append(schedule.Breaks, domain.BreakWindow{
			StartTime: types.TimeString(b.StartTime),
			EndTime:   types.TimeString(b.EndTime),
			Label:     b.Label,
		})
	}
	return schedule
}
