package entries

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись не найдена
	ErrEntryNotFound = errors.New("entry not found")

	// ErrLineNotFound возвращается, когда сервисная линия не найдена
	ErrLineNotFound = errors.New("service line not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInvalidTransition возвращается при недопустимой смене статуса
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrCannotRate возвращается при попытке оценить незавершённую запись
	ErrCannotRate = errors.New("entry cannot be rated")

	// ErrInvalidStatus возвращается при неизвестном значении статуса
	ErrInvalidStatus = errors.New("invalid entry status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
