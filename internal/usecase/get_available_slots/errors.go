package get_available_slots

import "errors"

var (
	// ErrLineNotFound возвращается, когда сервисная линия не найдена
	ErrLineNotFound = errors.New("service line not found")

	// ErrShopNotFound возвращается, когда магазин не найден
	ErrShopNotFound = errors.New("shop not found")

	// ErrLineNotInShop возвращается, когда линия принадлежит другому магазину
	ErrLineNotInShop = errors.New("service line does not belong to this shop")

	// ErrLineNotSlotted возвращается для линии живой очереди: у неё нет слотов
	ErrLineNotSlotted = errors.New("service line does not use slots")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
