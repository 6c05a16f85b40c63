package join_queue

import (
	"context"

	joinQueue "github.com/rocketqueue/queue-service/internal/usecase/join_queue"
)

type JoinQueueUseCase interface {
	Execute(ctx context.Context, req *joinQueue.Request) (*joinQueue.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
