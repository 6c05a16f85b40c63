package leave_queue

// LeaveQueueRequest HTTP request model
// Тело опционально: отмена без причины — валидный запрос
type LeaveQueueRequest struct {
	Reason string `json:"reason,omitempty"`
}
