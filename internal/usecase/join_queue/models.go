package join_queue

import "time"

// Request модель запроса постановки в очередь / бронирования слота
type Request struct {
	UserID       string     // ID клиента (из заголовка аутентификации)
	LineID       string     // ID сервисной линии
	CustomerName string     // Отображаемое имя клиента
	SlotStart    *time.Time // Начало окна для слотовой линии; nil для живой очереди
}

// Response модель ответа с созданной записью
type Response struct {
	ID               string
	LineID           string
	CustomerID       string
	CustomerName     string
	JoinedAt         time.Time
	Status           string
	EstimatedMinutes int
	BookedSlotStart  *time.Time

	// Позиция в живой очереди на момент постановки (1-based)
	// Для слотовых записей всегда 0
	Position int

	CreatedAt time.Time
	UpdatedAt time.Time
}
