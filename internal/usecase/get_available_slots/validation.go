package get_available_slots

import (
	"fmt"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.ShopID == "" {
		return fmt.Errorf("%w: shopID is required", ErrInvalidInput)
	}

	if req.LineID == "" {
		return fmt.Errorf("%w: lineID is required", ErrInvalidInput)
	}

	// Проверяем, что дата не является нулевой
	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}
