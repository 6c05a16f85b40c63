package serviceline

import "errors"

var (
	// ErrLineNotFound возвращается, когда сервисная линия не найдена
	ErrLineNotFound = errors.New("serviceline.repository: service line not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("serviceline.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("serviceline.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("serviceline.repository: failed to scan row")
)
