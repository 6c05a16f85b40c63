package join_queue

import "errors"

var (
	// ErrLineNotFound возвращается, когда сервисная линия не найдена
	ErrLineNotFound = errors.New("service line not found")

	// ErrLineInactive возвращается при попытке встать в неактивную линию
	ErrLineInactive = errors.New("service line is not active")

	// ErrSlotNotAvailable возвращается, когда запрошенное окно занято,
	// в прошлом или не существует в сетке линии
	ErrSlotNotAvailable = errors.New("slot is not available")

	// ErrAlreadyInQueue возвращается, когда у клиента уже есть
	// незавершённая запись в этой линии
	ErrAlreadyInQueue = errors.New("customer already has an active entry in this line")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
