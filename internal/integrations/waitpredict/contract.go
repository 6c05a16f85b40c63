package waitpredict

import "context"

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Estimator рассчитывает ожидаемое время ожидания в минутах для клиента,
// который встает в конец очереди длиной queueLength.
type Estimator interface {
	Estimate(ctx context.Context, queueLength int, category string) (int, error)
	RecordServiceDuration(ctx context.Context, category string, minutes int) error
}
