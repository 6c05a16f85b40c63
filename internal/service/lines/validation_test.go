package lines

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/service/lines/models"
)

func TestValidateName(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"valid", "Выдача заказов", false},
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"too long", strings.Repeat("a", 201), true},
		{"max length", strings.Repeat("a", 200), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizeSlotConfig(t *testing.T) {
	t.Run("nil config is noop", func(t *testing.T) {
		normalizeSlotConfig(nil)
	})

	t.Run("zero values get defaults", func(t *testing.T) {
		cfg := &models.SlotConfigPayload{IsEnabled: true}
		normalizeSlotConfig(cfg)
		assert.Equal(t, domain.DefaultSlotDurationMinutes, cfg.DurationMinutes)
		assert.Equal(t, domain.DefaultSlotCapacity, cfg.MaxCapacityPerSlot)
		assert.NoError(t, validateSlotConfig(cfg))
	})

	t.Run("explicit values are kept", func(t *testing.T) {
		cfg := &models.SlotConfigPayload{IsEnabled: true, DurationMinutes: 15, MaxCapacityPerSlot: 3}
		normalizeSlotConfig(cfg)
		assert.Equal(t, 15, cfg.DurationMinutes)
		assert.Equal(t, 3, cfg.MaxCapacityPerSlot)
	})
}

func TestValidateSlotConfig(t *testing.T) {
	tests := []struct {
		name    string
		cfg     *models.SlotConfigPayload
		wantErr bool
	}{
		{"nil config is fcfs", nil, false},
		{"valid", &models.SlotConfigPayload{IsEnabled: true, DurationMinutes: 30, MaxCapacityPerSlot: 2}, false},
		{"duration too small", &models.SlotConfigPayload{DurationMinutes: 4, MaxCapacityPerSlot: 1}, true},
		{"duration too large", &models.SlotConfigPayload{DurationMinutes: 481, MaxCapacityPerSlot: 1}, true},
		{"zero duration", &models.SlotConfigPayload{DurationMinutes: 0, MaxCapacityPerSlot: 1}, true},
		{"zero capacity", &models.SlotConfigPayload{DurationMinutes: 30, MaxCapacityPerSlot: 0}, true},
		{"capacity too large", &models.SlotConfigPayload{DurationMinutes: 30, MaxCapacityPerSlot: 101}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSlotConfig(tt.cfg)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateSchedule(t *testing.T) {
	tests := []struct {
		name     string
		schedule *models.SchedulePayload
		wantErr  bool
	}{
		{"nil schedule uses shop hours", nil, false},
		{"valid", &models.SchedulePayload{StartTime: "09:00", EndTime: "17:00"}, false},
		{
			"valid with breaks",
			&models.SchedulePayload{
				StartTime: "09:00",
				EndTime:   "17:00",
				Breaks: []models.BreakPayload{
					{StartTime: "13:00", EndTime: "14:00", Label: "Обед"},
				},
			},
			false,
		},
		{"bad start format", &models.SchedulePayload{StartTime: "9am", EndTime: "17:00"}, true},
		{"bad end format", &models.SchedulePayload{StartTime: "09:00", EndTime: "25:00"}, true},
		{"start equals end", &models.SchedulePayload{StartTime: "09:00", EndTime: "09:00"}, true},
		{"start after end", &models.SchedulePayload{StartTime: "17:00", EndTime: "09:00"}, true},
		{
			"inverted break",
			&models.SchedulePayload{
				StartTime: "09:00",
				EndTime:   "17:00",
				Breaks: []models.BreakPayload{
					{StartTime: "14:00", EndTime: "13:00"},
				},
			},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateSchedule(tt.schedule)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
