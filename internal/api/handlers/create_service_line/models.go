package create_service_line

import (
	"github.com/rocketqueue/queue-service/internal/service/lines/models"
)

// CreateLineRequest HTTP request model
type CreateLineRequest struct {
	Name       string                    `json:"name"`
	Category   string                    `json:"category,omitempty"`
	SlotConfig *models.SlotConfigPayload `json:"slotConfig,omitempty"`
	Schedule   *models.SchedulePayload   `json:"schedule,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *CreateLineRequest) ToServiceRequest(userID, shopID string) *models.CreateLineRequest {
	return &models.CreateLineRequest{
		UserID:     userID,
		ShopID:     shopID,
		Name:       r.Name,
		Category:   r.Category,
		SlotConfig: r.SlotConfig,
		Schedule:   r.Schedule,
	}
}
