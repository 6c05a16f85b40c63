package join_queue

import (
	"fmt"
	"strings"

	"github.com/rocketqueue/queue-service/internal/domain"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.UserID == "" {
		return fmt.Errorf("%w: userID is required", ErrInvalidInput)
	}

	if req.LineID == "" {
		return fmt.Errorf("%w: lineID is required", ErrInvalidInput)
	}

	name := strings.TrimSpace(req.CustomerName)
	if name == "" {
		return fmt.Errorf("%w: customerName is required", ErrInvalidInput)
	}
	if len(name) > domain.MaxNameLength {
		return fmt.Errorf("%w: customerName is too long (max %d)", ErrInvalidInput, domain.MaxNameLength)
	}

	return nil
}
