package get_available_slots

import (
	"time"
)

// Request модель запроса на получение слотов линии
type Request struct {
	UserID string    // ID пользователя (для логирования, не влияет на результат)
	ShopID string    // ID магазина
	LineID string    // ID сервисной линии
	Date   time.Time // Дата, на которую запрашиваются слоты (без времени)
}

// Response модель ответа со списком слотов
type Response struct {
	Date   time.Time // Дата, на которую запрашивались слоты
	ShopID string    // ID магазина
	LineID string    // ID сервисной линии
	Slots  []Slot    // Сетка слотов на день
}

// Slot модель временного окна
// Полные и прошедшие окна тоже попадают в ответ: клиент показывает их
// недоступными, но сетка дня остаётся целой
type Slot struct {
	StartAt         time.Time // Начало окна
	EndAt           time.Time // Конец окна
	Label           string    // "10:00", для отображения
	DurationMinutes int       // Длительность окна в минутах
	AvailableSpots  int       // Количество свободных мест
	TotalSpots      int       // Общее количество мест
	IsFull          bool      // Все места заняты
	IsPast          bool      // Начало окна уже в прошлом
}
