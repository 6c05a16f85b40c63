package join_queue

import (
	"time"

	joinQueue "github.com/rocketqueue/queue-service/internal/usecase/join_queue"
)

// JoinQueueRequest HTTP request model
type JoinQueueRequest struct {
	CustomerName string  `json:"customerName"`
	SlotStart    *string `json:"slotStart,omitempty"` // RFC3339, только для слотовых линий
}

// EntryResponse HTTP response model
type EntryResponse struct {
	ID               string  `json:"id"`
	LineID           string  `json:"lineId"`
	CustomerID       string  `json:"customerId"`
	CustomerName     string  `json:"customerName"`
	JoinedAt         string  `json:"joinedAt"`
	Status           string  `json:"status"`
	EstimatedMinutes int     `json:"estimatedMinutes"`
	BookedSlotStart  *string `json:"bookedSlotStart,omitempty"`
	Position         int     `json:"position,omitempty"`
	CreatedAt        string  `json:"createdAt"`
	UpdatedAt        string  `json:"updatedAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *JoinQueueRequest) ToUseCaseRequest(userID, lineID string) (*joinQueue.Request, error) {
	req := &joinQueue.Request{
		UserID:       userID,
		LineID:       lineID,
		CustomerName: r.CustomerName,
	}

	if r.SlotStart != nil {
		slotStart, err := time.Parse(time.RFC3339, *r.SlotStart)
		if err != nil {
			return nil, err
		}
		req.SlotStart = &slotStart
	}

	return req, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *joinQueue.Response) *EntryResponse {
	result := &EntryResponse{
		ID:               resp.ID,
		LineID:           resp.LineID,
		CustomerID:       resp.CustomerID,
		CustomerName:     resp.CustomerName,
		JoinedAt:         resp.JoinedAt.Format(time.RFC3339),
		Status:           resp.Status,
		EstimatedMinutes: resp.EstimatedMinutes,
		Position:         resp.Position,
		CreatedAt:        resp.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        resp.UpdatedAt.Format(time.RFC3339),
	}

	if resp.BookedSlotStart != nil {
		formatted := resp.BookedSlotStart.Format(time.RFC3339)
		result.BookedSlotStart = &formatted
	}

	return result
}
