package get_available_slots

import (
	"time"

	"github.com/rocketqueue/queue-service/internal/domain"
	getAvailableSlots "github.com/rocketqueue/queue-service/internal/usecase/get_available_slots"
)

// SlotsResponse HTTP response model
type SlotsResponse struct {
	Date   string         `json:"date"` // "2025-10-15"
	ShopID string         `json:"shopId"`
	LineID string         `json:"lineId"`
	Slots  []SlotResponse `json:"slots"`
}

// SlotResponse модель одного временного окна
type SlotResponse struct {
	StartAt         string `json:"startAt"` // RFC3339
	EndAt           string `json:"endAt"`   // RFC3339
	StartTime       string `json:"startTime"` // "10:00", для отображения
	DurationMinutes int    `json:"durationMinutes"`
	AvailableSpots  int    `json:"availableSpots"`
	TotalSpots      int    `json:"totalSpots"`
	IsFull          bool   `json:"isFull"`
	IsPast          bool   `json:"isPast"`
}

// ToUseCaseRequest конвертирует параметры запроса в модель use case
func ToUseCaseRequest(userID, shopID, lineID, dateStr string) (*getAvailableSlots.Request, error) {
	date, err := time.ParseInLocation(domain.DateFormat, dateStr, time.Local)
	if err != nil {
		return nil, err
	}

	return &getAvailableSlots.Request{
		UserID: userID,
		ShopID: shopID,
		LineID: lineID,
		Date:   date,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *getAvailableSlots.Response) *SlotsResponse {
	result := &SlotsResponse{
		Date:   resp.Date.Format(domain.DateFormat),
		ShopID: resp.ShopID,
		LineID: resp.LineID,
		Slots:  make([]SlotResponse, len(resp.Slots)),
	}

	for i, slot := range resp.Slots {
		result.Slots[i] = SlotResponse{
			StartAt:         slot.StartAt.Format(time.RFC3339),
			EndAt:           slot.EndAt.Format(time.RFC3339),
			StartTime:       slot.Label,
			DurationMinutes: slot.DurationMinutes,
			AvailableSpots:  slot.AvailableSpots,
			TotalSpots:      slot.TotalSpots,
			IsFull:          slot.IsFull,
			IsPast:          slot.IsPast,
		}
	}

	return result
}
