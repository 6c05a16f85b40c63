package entry

import "errors"

var (
	// ErrEntryNotFound возвращается, когда запись не найдена
	ErrEntryNotFound = errors.New("entry.repository: entry not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("entry.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("entry.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("entry.repository: failed to scan row")
)
