package domain

// Default configuration values
const (
	// DefaultPerPersonMinutes базовая оценка времени обслуживания одного
	// человека в живой очереди; используется как fallback для эстиматора
	DefaultPerPersonMinutes = 15

	DefaultSlotDurationMinutes = 30
	DefaultSlotCapacity        = 1
)

// Business validation constants
const (
	MinSlotDurationMinutes = 5
	MaxSlotDurationMinutes = 480 // 8 часов
	MinSlotCapacity        = 1
	MaxSlotCapacity        = 100
	MinRating              = 1
	MaxRating              = 5
	MaxFeedbackLength      = 1000
	MaxNameLength          = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// TerminalStatuses список терминальных статусов
// Используется для исключения записей из подсчёта позиций и вместимости слотов
var TerminalStatuses = []EntryStatus{
	StatusCompleted,
	StatusCancelled,
	StatusNoShow,
}

// ActiveStatuses список активных статусов
var ActiveStatuses = []EntryStatus{
	StatusWaiting,
	StatusInProgress,
	StatusOnHold,
}
