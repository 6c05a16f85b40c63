package shopservice

import (
	"fmt"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/pkg/types"
)

// Shop модель магазина из каталога ShopService
type Shop struct {
	ID          string  `json:"id"`
	VendorID    string  `json:"vendorId"`
	Name        string  `json:"name"`
	Address     string  `json:"address"`
	Phone       string  `json:"phone"`
	Category    string  `json:"category"`
	OpeningTime *string `json:"openingTime,omitempty"` // "HH:MM"
	ClosingTime *string `json:"closingTime,omitempty"` // "HH:MM"
	LunchStart  *string `json:"lunchStart,omitempty"`  // "HH:MM"
	LunchEnd    *string `json:"lunchEnd,omitempty"`    // "HH:MM"
	IsVerified  bool    `json:"isVerified"`
}

// ErrorResponse модель ошибки от ShopService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ToDomain приводит модель каталога к доменной модели магазина
// Часы работы валидируются при разборе: битые значения каталога
// не должны молча ломать генерацию сетки слотов
func (s *Shop) ToDomain() (*domain.Shop, error) {
	result := &domain.Shop{
		ID:       s.ID,
		VendorID: s.VendorID,
		Name:     s.Name,
		Category: s.Category,
	}

	var err error
	if result.OpeningTime, err = parseOptionalTime(s.OpeningTime); err != nil {
		return nil, fmt.Errorf("%w: openingTime: %v", ErrInvalidResponse, err)
	}
	if result.ClosingTime, err = parseOptionalTime(s.ClosingTime); err != nil {
		return nil, fmt.Errorf("%w: closingTime: %v", ErrInvalidResponse, err)
	}
	if result.LunchStart, err = parseOptionalTime(s.LunchStart); err != nil {
		return nil, fmt.Errorf("%w: lunchStart: %v", ErrInvalidResponse, err)
	}
	if result.LunchEnd, err = parseOptionalTime(s.LunchEnd); err != nil {
		return nil, fmt.Errorf("%w: lunchEnd: %v", ErrInvalidResponse, err)
	}

	return result, nil
}

func parseOptionalTime(s *string) (*types.TimeString, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	ts, err := types.NewTimeStringFromString(*s)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}
