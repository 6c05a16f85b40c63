package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketqueue/queue-service/internal/domain"
	linestore "github.com/rocketqueue/queue-service/internal/infra/storage/serviceline"
	shopClient "github.com/rocketqueue/queue-service/internal/integrations/shopservice"
)

// UseCase use case для получения сетки слотов сервисной линии на дату
type UseCase struct {
	entryRepo    EntryRepository
	lineRepo     LineRepository
	shopClient   ShopServiceClient
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	entryRepo EntryRepository,
	lineRepo LineRepository,
	shopClient ShopServiceClient,
	logger Logger,
) *UseCase {
	return &UseCase{
		entryRepo:    entryRepo,
		lineRepo:     lineRepo,
		shopClient:   shopClient,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case получения слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: user=%s, shop=%s, line=%s, date=%s",
		req.UserID, req.ShopID, req.LineID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем сервисную линию
	line, err := uc.lineRepo.GetByID(ctx, req.LineID)
	if err != nil {
		if errors.Is(err, linestore.ErrLineNotFound) {
			uc.logger.Warn("GetAvailableSlots: line id=%s not found", req.LineID)
			return nil, ErrLineNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get line id=%s: %v", req.LineID, err)
		return nil, fmt.Errorf("%w: failed to get line: %v", ErrInternal, err)
	}

	// 4. Линия должна принадлежать запрошенному магазину
	if line.ShopID != req.ShopID {
		uc.logger.Warn("GetAvailableSlots: line id=%s belongs to shop %s, not %s",
			req.LineID, line.ShopID, req.ShopID)
		return nil, ErrLineNotInShop
	}

	// 5. У линии живой очереди сетки слотов нет
	if line.Mode() != domain.ModeSlotted {
		uc.logger.Warn("GetAvailableSlots: line id=%s is not slotted", req.LineID)
		return nil, ErrLineNotSlotted
	}
	slotConfig := line.EffectiveSlotConfig()

	// 6. Определяем расписание: собственное расписание линии,
	// иначе часы работы магазина (обед магазина трактуется как перерыв)
	var shop *domain.Shop
	if line.Schedule == nil || line.Schedule.StartTime.IsZero() || line.Schedule.EndTime.IsZero() {
		shop, err = uc.fetchShop(ctx, req.ShopID)
		if err != nil {
			return nil, err
		}
	}

	schedule := resolveSchedule(line, shop)
	if schedule == nil {
		// Ни у линии, ни у магазина нет часов работы — сетка пуста
		uc.logger.Info("GetAvailableSlots: no schedule for line id=%s, returning empty grid", req.LineID)
		return &Response{
			Date:   req.Date,
			ShopID: req.ShopID,
			LineID: req.LineID,
			Slots:  []Slot{},
		}, nil
	}

	// 7. Генерируем сетку окон на дату
	windows, err := generateWindows(schedule, slotConfig.DurationMinutes, req.Date, now)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to generate windows: %v", err)
		return nil, fmt.Errorf("%w: failed to generate windows: %v", ErrInternal, err)
	}

	// 8. Получаем активные записи со слотами на эту дату
	filter := domain.LineEntriesFilter{
		LineID:   req.LineID,
		SlotDate: &req.Date,
	}
	entries, err := uc.entryRepo.GetByLineWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to get entries: %v", err)
		return nil, fmt.Errorf("%w: failed to get entries: %v", ErrInternal, err)
	}

	// 9. Вычисляем занятость каждого окна
	annotateCapacity(windows, entries, slotConfig.MaxCapacityPerSlot)

	uc.logger.Info("GetAvailableSlots: generated %d windows for line=%s, date=%s",
		len(windows), req.LineID, req.Date.Format(domain.DateFormat))

	return &Response{
		Date:   req.Date,
		ShopID: req.ShopID,
		LineID: req.LineID,
		Slots:  toSlots(windows),
	}, nil
}

// fetchShop получает магазин из ShopService и приводит его к доменной модели
func (uc *UseCase) fetchShop(ctx context.Context, shopID string) (*domain.Shop, error) {
	shop, err := uc.shopClient.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopClient.ErrShopNotFound) {
			uc.logger.Warn("GetAvailableSlots: shop id=%s not found", shopID)
			return nil, ErrShopNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get shop id=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	domainShop, err := shop.ToDomain()
	if err != nil {
		uc.logger.Error("GetAvailableSlots: invalid shop id=%s payload: %v", shopID, err)
		return nil, fmt.Errorf("%w: invalid shop payload: %v", ErrInternal, err)
	}

	return domainShop, nil
}

func toSlots(windows []domain.SlotWindow) []Slot {
	slots := make([]Slot, len(windows))
	for i, w := range windows {
		slots[i] = Slot{
			StartAt:         w.StartAt,
			EndAt:           w.EndAt,
			Label:           w.Label,
			DurationMinutes: w.DurationMinutes,
			AvailableSpots:  w.AvailableSpots(),
			TotalSpots:      w.TotalSpots,
			IsFull:          w.IsFull,
			IsPast:          w.IsPast,
		}
	}
	return slots
}
