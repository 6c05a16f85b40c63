package lines

import "errors"

var (
	// ErrLineNotFound возвращается, когда сервисная линия не найдена
	ErrLineNotFound = errors.New("service line not found")

	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = errors.New("shop not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidConfig возвращается при некорректной конфигурации линии
	// Конфигурация проверяется здесь, при сохранении: генерация сетки
	// слотов работает только с уже проверенными значениями
	ErrInvalidConfig = errors.New("invalid line configuration")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
