package join_queue

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/infra/events"
	"github.com/rocketqueue/queue-service/internal/infra/storage/audit"
	linestore "github.com/rocketqueue/queue-service/internal/infra/storage/serviceline"
	shopClient "github.com/rocketqueue/queue-service/internal/integrations/shopservice"
)

// UseCase use case постановки клиента в очередь или бронирования слота
// Это единственная точка создания записей: никаких предварительных
// резерваций перед ней нет
type UseCase struct {
	entryRepo    EntryRepository
	lineRepo     LineRepository
	shopClient   ShopServiceClient
	estimator    WaitEstimator
	auditLog     AuditLogger
	publisher    EventPublisher
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	entryRepo EntryRepository,
	lineRepo LineRepository,
	shopClient ShopServiceClient,
	estimator WaitEstimator,
	auditLog AuditLogger,
	publisher EventPublisher,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		entryRepo:    entryRepo,
		lineRepo:     lineRepo,
		shopClient:   shopClient,
		estimator:    estimator,
		auditLog:     auditLog,
		publisher:    publisher,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// Execute выполняет use case постановки в очередь
// Проверка вместимости и вставка записи идут в сериализуемой транзакции
// с блокировкой строки линии: конкурирующие постановки в одну линию
// выполняются строго по очереди, разные линии друг друга не блокируют
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("JoinQueue: user=%s, line=%s, slotStart=%v", req.UserID, req.LineID, req.SlotStart)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("JoinQueue: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Предварительное чтение линии без блокировки: понять, нужен ли
	// fallback на часы работы магазина (поход во внешний сервис держать
	// внутри транзакции нельзя)
	preview, err := uc.lineRepo.GetByID(ctx, req.LineID)
	if err != nil {
		if errors.Is(err, linestore.ErrLineNotFound) {
			uc.logger.Warn("JoinQueue: line id=%s not found", req.LineID)
			return nil, ErrLineNotFound
		}
		uc.logger.Error("JoinQueue: failed to get line id=%s: %v", req.LineID, err)
		return nil, fmt.Errorf("%w: failed to get line: %v", ErrInternal, err)
	}

	var fallbackSchedule *domain.Schedule
	if preview.Mode() == domain.ModeSlotted && !hasOwnSchedule(preview) {
		fallbackSchedule, err = uc.fetchShopSchedule(ctx, preview.ShopID)
		if err != nil {
			return nil, err
		}
	}

	var result *domain.Entry
	var position int

	// 4. Выполняем проверки и вставку в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 4.1. Получаем линию с блокировкой строки (FOR UPDATE)
		line, err := uc.lineRepo.GetByID(txCtx, req.LineID)
		if err != nil {
			if errors.Is(err, linestore.ErrLineNotFound) {
				return ErrLineNotFound
			}
			uc.logger.Error("JoinQueue: failed to lock line id=%s: %v", req.LineID, err)
			return fmt.Errorf("%w: failed to lock line: %v", ErrInternal, err)
		}

		// 4.2. В неактивную линию встать нельзя
		if !line.IsActive {
			uc.logger.Warn("JoinQueue: line id=%s is not active", req.LineID)
			return ErrLineInactive
		}

		// 4.3. У клиента не больше одной незавершённой записи на линию
		hasActive, err := uc.entryRepo.HasActiveEntry(txCtx, req.LineID, req.UserID)
		if err != nil {
			uc.logger.Error("JoinQueue: failed to check active entry: %v", err)
			return fmt.Errorf("%w: failed to check active entry: %v", ErrInternal, err)
		}
		if hasActive {
			uc.logger.Warn("JoinQueue: user=%s already has an active entry in line=%s", req.UserID, req.LineID)
			return ErrAlreadyInQueue
		}

		entry := &domain.Entry{
			ID:           uuid.NewString(),
			LineID:       req.LineID,
			CustomerID:   req.UserID,
			CustomerName: strings.TrimSpace(req.CustomerName),
			JoinedAt:     now,
			Status:       domain.StatusWaiting,
		}

		// 4.4. Проверки, зависящие от режима линии
		switch line.Mode() {
		case domain.ModeSlotted:
			if err := uc.admitSlotted(txCtx, line, fallbackSchedule, req, now, entry); err != nil {
				return err
			}
		default:
			pos, err := uc.admitFCFS(txCtx, line, req, entry)
			if err != nil {
				return err
			}
			position = pos
		}

		// 4.5. Сохраняем запись
		created, err := uc.entryRepo.Create(txCtx, entry)
		if err != nil {
			uc.logger.Error("JoinQueue: failed to create entry: %v", err)
			return fmt.Errorf("%w: failed to create entry: %v", ErrInternal, err)
		}

		result = created
		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.logger.Info("JoinQueue: created entry id=%s, line=%s, user=%s", result.ID, result.LineID, result.CustomerID)

	// 5. Аудит и события — после коммита, best-effort
	uc.recordCreated(ctx, result)

	return &Response{
		ID:               result.ID,
		LineID:           result.LineID,
		CustomerID:       result.CustomerID,
		CustomerName:     result.CustomerName,
		JoinedAt:         result.JoinedAt,
		Status:           string(result.Status),
		EstimatedMinutes: result.EstimatedMinutes,
		BookedSlotStart:  result.BookedSlotStart,
		Position:         position,
		CreatedAt:        result.CreatedAt,
		UpdatedAt:        result.UpdatedAt,
	}, nil
}

// admitSlotted проверяет бронирование окна слотовой линии:
// окно должно существовать в сетке, быть в будущем и иметь свободные места
func (uc *UseCase) admitSlotted(
	txCtx context.Context,
	line *domain.ServiceLine,
	fallbackSchedule *domain.Schedule,
	req *Request,
	now time.Time,
	entry *domain.Entry,
) error {
	if req.SlotStart == nil {
		return fmt.Errorf("%w: slotStart is required for a slotted line", ErrInvalidInput)
	}
	slotStart := *req.SlotStart

	schedule := fallbackSchedule
	if hasOwnSchedule(line) {
		schedule = line.Schedule
	}

	slotConfig := line.EffectiveSlotConfig()

	// Окно должно быть частью сетки линии
	if !isWindowInGrid(schedule, slotConfig.DurationMinutes, slotStart) {
		uc.logger.Warn("JoinQueue: slot %v is not in the grid of line=%s", slotStart, line.ID)
		return ErrSlotNotAvailable
	}

	// Прошедшие окна не предлагаются
	if slotStart.Before(now) {
		uc.logger.Warn("JoinQueue: slot %v is in the past for line=%s", slotStart, line.ID)
		return ErrSlotNotAvailable
	}

	// Считаем занятость окна по активным записям (выборка под FOR UPDATE)
	slotDate := slotStart
	filter := domain.LineEntriesFilter{
		LineID:   line.ID,
		SlotDate: &slotDate,
	}
	entries, err := uc.entryRepo.GetByLineWithFilter(txCtx, filter)
	if err != nil {
		uc.logger.Error("JoinQueue: failed to get slot entries: %v", err)
		return fmt.Errorf("%w: failed to get slot entries: %v", ErrInternal, err)
	}

	booked := countExactSlotEntries(entries, slotStart)
	if booked >= slotConfig.MaxCapacityPerSlot {
		uc.logger.Warn("JoinQueue: slot %v is full, %d/%d spots taken",
			slotStart, booked, slotConfig.MaxCapacityPerSlot)
		return ErrSlotNotAvailable
	}

	uc.logger.Info("JoinQueue: slot %v available, %d/%d spots taken",
		slotStart, booked, slotConfig.MaxCapacityPerSlot)

	entry.BookedSlotStart = &slotStart
	entry.EstimatedMinutes = 0

	return nil
}

// admitFCFS проверяет постановку в живую очередь и фиксирует оценку ожидания
// Оценка рассчитывается один раз в момент постановки и дальше не
// пересчитывается: клиент видит то число, которое ему назвали на входе
func (uc *UseCase) admitFCFS(txCtx context.Context, line *domain.ServiceLine, req *Request, entry *domain.Entry) (int, error) {
	// Для живой очереди слот не указывается
	if req.SlotStart != nil {
		return 0, fmt.Errorf("%w: slotStart is not allowed for a fcfs line", ErrInvalidInput)
	}

	waiting, err := uc.entryRepo.CountWaiting(txCtx, line.ID)
	if err != nil {
		uc.logger.Error("JoinQueue: failed to count waiting entries: %v", err)
		return 0, fmt.Errorf("%w: failed to count waiting entries: %v", ErrInternal, err)
	}

	estimate, err := uc.estimator.Estimate(txCtx, waiting, line.Category)
	if err != nil {
		// Эстиматор с резервом сам деградирует; сюда попадаем только при
		// полном отказе — тогда считаем по фиксированной норме
		uc.logger.Warn("JoinQueue: estimator failed, using fixed rate: %v", err)
		estimate = (waiting + 1) * domain.DefaultPerPersonMinutes
	}

	entry.EstimatedMinutes = estimate

	return waiting + 1, nil
}

// hasOwnSchedule проверяет, задано ли у линии собственное расписание
func hasOwnSchedule(line *domain.ServiceLine) bool {
	return line.Schedule != nil && !line.Schedule.StartTime.IsZero() && !line.Schedule.EndTime.IsZero()
}

// fetchShopSchedule получает часы работы магазина как расписание по умолчанию
func (uc *UseCase) fetchShopSchedule(ctx context.Context, shopID string) (*domain.Schedule, error) {
	shop, err := uc.shopClient.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopClient.ErrShopNotFound) {
			uc.logger.Warn("JoinQueue: shop id=%s not found", shopID)
			return nil, ErrLineNotFound
		}
		uc.logger.Error("JoinQueue: failed to get shop id=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: failed to get shop: %v", ErrInternal, err)
	}

	domainShop, err := shop.ToDomain()
	if err != nil {
		uc.logger.Error("JoinQueue: invalid shop id=%s payload: %v", shopID, err)
		return nil, fmt.Errorf("%w: invalid shop payload: %v", ErrInternal, err)
	}

	return domainShop.FallbackSchedule(), nil
}

// recordCreated пишет аудит и публикует событие о созданной записи
// Ошибки здесь не роняют запрос: запись уже зафиксирована в БД
func (uc *UseCase) recordCreated(ctx context.Context, e *domain.Entry) {
	detail := "joined fcfs queue"
	if e.BookedSlotStart != nil {
		detail = fmt.Sprintf("booked slot %s", e.BookedSlotStart.Format("2006-01-02 15:04"))
	}
	if err := uc.auditLog.Log(ctx, e.ID, audit.ActionCreated, detail); err != nil {
		uc.logger.Warn("JoinQueue: failed to write audit for entry id=%s: %v", e.ID, err)
	}

	event := events.EntryEvent{
		EntryID:    e.ID,
		LineID:     e.LineID,
		CustomerID: e.CustomerID,
		Status:     string(e.Status),
		OccurredAt: e.JoinedAt,
	}
	if err := uc.publisher.Publish(events.SubjectEntryCreated, event); err != nil {
		uc.logger.Warn("JoinQueue: failed to publish created event for entry id=%s: %v", e.ID, err)
	}
}
