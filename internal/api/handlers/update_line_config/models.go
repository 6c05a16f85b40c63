package update_line_config

import (
	"github.com/rocketqueue/queue-service/internal/service/lines/models"
)

// UpdateLineConfigRequest HTTP request model (частичное обновление)
type UpdateLineConfigRequest struct {
	Name       *string                   `json:"name,omitempty"`
	IsActive   *bool                     `json:"isActive,omitempty"`
	SlotConfig *models.SlotConfigPayload `json:"slotConfig,omitempty"`
	Schedule   *models.SchedulePayload   `json:"schedule,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *UpdateLineConfigRequest) ToServiceRequest(userID string) *models.UpdateConfigRequest {
	return &models.UpdateConfigRequest{
		UserID:     userID,
		Name:       r.Name,
		IsActive:   r.IsActive,
		SlotConfig: r.SlotConfig,
		Schedule:   r.Schedule,
	}
}
