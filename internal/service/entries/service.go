package entries

import (
	"context"
	"errors"
	"fmt"

	"github.com/rocketqueue/queue-service/internal/domain"
	"github.com/rocketqueue/queue-service/internal/infra/events"
	"github.com/rocketqueue/queue-service/internal/infra/storage/audit"
	entryRepo "github.com/rocketqueue/queue-service/internal/infra/storage/entry"
	linestore "github.com/rocketqueue/queue-service/internal/infra/storage/serviceline"
	shopClient "github.com/rocketqueue/queue-service/internal/integrations/shopservice"
	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

// Service сервис для работы с записями очереди
type Service struct {
	entryRepo    EntryRepository
	lineRepo     LineRepository
	auditRepo    AuditRepository
	shopClient   ShopServiceClient
	estimator    WaitEstimator
	publisher    EventPublisher
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса записей
func NewService(
	entryRepo EntryRepository,
	lineRepo LineRepository,
	auditRepo AuditRepository,
	shopClient ShopServiceClient,
	estimator WaitEstimator,
	publisher EventPublisher,
	logger Logger,
) *Service {
	return &Service{
		entryRepo:    entryRepo,
		lineRepo:     lineRepo,
		auditRepo:    auditRepo,
		shopClient:   shopClient,
		estimator:    estimator,
		publisher:    publisher,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// GetByID получает запись по ID
// Запись видит её владелец или вендор магазина линии
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.EntryResponse, error) {
	s.logger.Info("GetByID: fetching entry id=%s for user=%s", id, userID)

	entry, err := s.getEntry(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkEntryAccess(ctx, entry, userID); err != nil {
		s.logger.Warn("GetByID: access denied for user=%s to entry id=%s", userID, id)
		return nil, err
	}

	return models.FromDomainEntry(entry), nil
}

// GetPosition вычисляет позицию записи в живой очереди линии
//
// Позиция — порядковый номер (1-based) записи среди активных записей линии,
// упорядоченных по времени постановки. Она пересчитывается на каждый запрос:
// завершение или отмена впереди стоящих сразу продвигает очередь.
// Оценка ожидания НЕ пересчитывается — возвращается значение, зафиксированное
// в момент постановки
func (s *Service) GetPosition(ctx context.Context, lineID, entryID string) (*models.PositionResponse, error) {
	s.logger.Info("GetPosition: line=%s, entry=%s", lineID, entryID)

	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	// Запись другой линии или уже завершённая позиции не имеет
	if entry.LineID != lineID || !entry.IsActive() {
		s.logger.Warn("GetPosition: entry id=%s is not active in line=%s", entryID, lineID)
		return nil, ErrEntryNotFound
	}

	response := &models.PositionResponse{
		EntryID:          entry.ID,
		LineID:           entry.LineID,
		Status:           string(entry.Status),
		EstimatedMinutes: entry.EstimatedMinutes,
	}

	// У записей со слотом понятия позиции нет
	if entry.IsSlotted() {
		return response, nil
	}

	active, err := s.entryRepo.GetByLineWithFilter(ctx, domain.LineEntriesFilter{LineID: lineID})
	if err != nil {
		s.logger.Error("GetPosition: repository error for line=%s: %v", lineID, err)
		return nil, fmt.Errorf("%w: GetPosition - repository error: %v", ErrInternal, err)
	}

	for i, e := range active {
		if e.ID == entryID {
			response.Position = i + 1
			break
		}
	}

	s.logger.Info("GetPosition: entry id=%s is at position %d in line=%s", entryID, response.Position, lineID)
	return response, nil
}

// Leave выводит клиента из очереди (отмена записи)
// Операция идемпотентна: повторная отмена уже завершённой записи не ошибка,
// возвращается её текущее состояние
func (s *Service) Leave(ctx context.Context, entryID string, req *models.LeaveEntryRequest) (*models.EntryResponse, error) {
	s.logger.Info("Leave: cancelling entry id=%s by user=%s", entryID, req.UserID)

	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.checkEntryAccess(ctx, entry, req.UserID); err != nil {
		s.logger.Warn("Leave: access denied for user=%s to entry id=%s", req.UserID, entryID)
		return nil, err
	}

	// Запись уже в терминальном статусе — ничего не меняем
	if !entry.IsActive() {
		s.logger.Info("Leave: entry id=%s already terminal (%s), no-op", entryID, entry.Status)
		return models.FromDomainEntry(entry), nil
	}

	now := s.timeProvider.Now()
	entry.ApplyTransition(domain.StatusCancelled, now)

	if err := s.entryRepo.UpdateTransition(ctx, entry); err != nil {
		if errors.Is(err, entryRepo.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("Leave: repository error for entry id=%s: %v", entryID, err)
		return nil, fmt.Errorf("%w: Leave - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Leave: entry id=%s cancelled", entryID)

	detail := "cancelled by customer"
	if req.Reason != "" {
		detail = fmt.Sprintf("cancelled: %s", req.Reason)
	}
	s.record(ctx, entry, audit.ActionCancelled, detail, events.SubjectEntryCancelled)

	return models.FromDomainEntry(entry), nil
}

// AdvanceStatus переводит запись в новый статус (операция вендора)
// Допустимость перехода проверяется по доменной таблице переходов;
// из терминальных статусов переходов нет
func (s *Service) AdvanceStatus(ctx context.Context, entryID string, req *models.AdvanceStatusRequest) (*models.EntryResponse, error) {
	s.logger.Info("AdvanceStatus: entry id=%s to status=%s by user=%s", entryID, req.Status, req.UserID)

	target, err := models.ToDomainEntryStatus(req.Status)
	if err != nil {
		s.logger.Warn("AdvanceStatus: invalid status=%s for entry id=%s", req.Status, entryID)
		return nil, fmt.Errorf("%w: %s", ErrInvalidStatus, req.Status)
	}

	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	line, err := s.getLine(ctx, entry.LineID)
	if err != nil {
		return nil, err
	}

	// Статусами управляет только вендор магазина
	if err := s.checkVendorAccess(ctx, line.ShopID, req.UserID); err != nil {
		s.logger.Warn("AdvanceStatus: access denied for user=%s to entry id=%s", req.UserID, entryID)
		return nil, err
	}

	if !entry.Status.CanTransitionTo(target) {
		s.logger.Warn("AdvanceStatus: transition %s -> %s is not allowed for entry id=%s",
			entry.Status, target, entryID)
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, entry.Status, target)
	}

	now := s.timeProvider.Now()
	previous := entry.Status
	entry.ApplyTransition(target, now)

	if err := s.entryRepo.UpdateTransition(ctx, entry); err != nil {
		if errors.Is(err, entryRepo.ErrEntryNotFound) {
			return nil, ErrEntryNotFound
		}
		s.logger.Error("AdvanceStatus: repository error for entry id=%s: %v", entryID, err)
		return nil, fmt.Errorf("%w: AdvanceStatus - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("AdvanceStatus: entry id=%s moved %s -> %s", entryID, previous, target)

	s.record(ctx, entry, audit.ActionStatusChanged,
		fmt.Sprintf("%s -> %s", previous, target), events.SubjectEntryStatusChanged)

	// Фактическая длительность обслуживания уточняет будущие оценки ожидания
	if target == domain.StatusCompleted && entry.StartedAt != nil && entry.CompletedAt != nil {
		minutes := int(entry.CompletedAt.Sub(*entry.StartedAt).Minutes())
		if err := s.estimator.RecordServiceDuration(ctx, line.Category, minutes); err != nil {
			s.logger.Warn("AdvanceStatus: failed to record service duration: %v", err)
		}
	}

	return models.FromDomainEntry(entry), nil
}

// Rate сохраняет оценку и отзыв клиента по завершённому обслуживанию
// Оценить запись может только её владелец и только после завершения
func (s *Service) Rate(ctx context.Context, entryID string, req *models.RateEntryRequest) error {
	s.logger.Info("Rate: entry id=%s, rating=%d by user=%s", entryID, req.Rating, req.UserID)

	if req.Rating < domain.MinRating || req.Rating > domain.MaxRating {
		return fmt.Errorf("%w: rating must be between %d and %d",
			ErrInvalidInput, domain.MinRating, domain.MaxRating)
	}
	if req.Feedback != nil && len(*req.Feedback) > domain.MaxFeedbackLength {
		return fmt.Errorf("%w: feedback is too long (max %d)", ErrInvalidInput, domain.MaxFeedbackLength)
	}

	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return err
	}

	if entry.CustomerID != req.UserID {
		s.logger.Warn("Rate: user=%s is not the owner of entry id=%s", req.UserID, entryID)
		return ErrAccessDenied
	}

	if !entry.CanBeRated() {
		s.logger.Warn("Rate: entry id=%s cannot be rated, status=%s", entryID, entry.Status)
		return ErrCannotRate
	}

	if err := s.entryRepo.SetRating(ctx, entryID, req.Rating, req.Feedback); err != nil {
		if errors.Is(err, entryRepo.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		s.logger.Error("Rate: repository error for entry id=%s: %v", entryID, err)
		return fmt.Errorf("%w: Rate - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Rate: entry id=%s rated %d", entryID, req.Rating)

	if err := s.auditRepo.Log(ctx, entryID, audit.ActionRated, fmt.Sprintf("rated %d", req.Rating)); err != nil {
		s.logger.Warn("Rate: failed to write audit for entry id=%s: %v", entryID, err)
	}

	return nil
}

// GetLineEntries получает записи линии (панель вендора)
// По умолчанию возвращаются только активные записи
func (s *Service) GetLineEntries(ctx context.Context, req *models.GetLineEntriesRequest) (*models.EntryListResponse, error) {
	s.logger.Info("GetLineEntries: line=%s, user=%s, includeTerminal=%v", req.LineID, req.UserID, req.IncludeTerminal)

	line, err := s.getLine(ctx, req.LineID)
	if err != nil {
		return nil, err
	}

	if err := s.checkVendorAccess(ctx, line.ShopID, req.UserID); err != nil {
		s.logger.Warn("GetLineEntries: access denied for user=%s to line=%s", req.UserID, req.LineID)
		return nil, err
	}

	filter := domain.LineEntriesFilter{
		LineID:          req.LineID,
		IncludeTerminal: req.IncludeTerminal,
	}
	if req.Status != nil {
		status, err := models.ToDomainEntryStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetLineEntries: invalid status=%s", *req.Status)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		filter.Status = &status
	}

	entries, err := s.entryRepo.GetByLineWithFilter(ctx, filter)
	if err != nil {
		s.logger.Error("GetLineEntries: repository error for line=%s: %v", req.LineID, err)
		return nil, fmt.Errorf("%w: GetLineEntries - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetLineEntries: fetched %d entries for line=%s", len(entries), req.LineID)
	return models.FromDomainEntryList(entries), nil
}

// GetUserEntries получает историю записей клиента (сначала новые)
func (s *Service) GetUserEntries(ctx context.Context, req *models.GetUserEntriesRequest) (*models.EntryListResponse, error) {
	s.logger.Info("GetUserEntries: user=%s, status=%v", req.UserID, req.Status)

	var status *domain.EntryStatus
	if req.Status != nil {
		parsed, err := models.ToDomainEntryStatus(*req.Status)
		if err != nil {
			s.logger.Warn("GetUserEntries: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, fmt.Errorf("%w: invalid status", ErrInvalidInput)
		}
		status = &parsed
	}

	entries, err := s.entryRepo.GetByCustomer(ctx, req.UserID, status)
	if err != nil {
		s.logger.Error("GetUserEntries: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: GetUserEntries - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("GetUserEntries: fetched %d entries for user=%s", len(entries), req.UserID)
	return models.FromDomainEntryList(entries), nil
}

// GetLineStats считает статистику линии для панели вендора
func (s *Service) GetLineStats(ctx context.Context, lineID, userID string) (*models.LineStatsResponse, error) {
	s.logger.Info("GetLineStats: line=%s, user=%s", lineID, userID)

	line, err := s.getLine(ctx, lineID)
	if err != nil {
		return nil, err
	}

	if err := s.checkVendorAccess(ctx, line.ShopID, userID); err != nil {
		s.logger.Warn("GetLineStats: access denied for user=%s to line=%s", userID, lineID)
		return nil, err
	}

	entries, err := s.entryRepo.GetByLineWithFilter(ctx, domain.LineEntriesFilter{
		LineID:          lineID,
		IncludeTerminal: true,
	})
	if err != nil {
		s.logger.Error("GetLineStats: repository error for line=%s: %v", lineID, err)
		return nil, fmt.Errorf("%w: GetLineStats - repository error: %v", ErrInternal, err)
	}

	return buildLineStats(lineID, entries, s.timeProvider.Now()), nil
}

// GetAudit возвращает журнал аудита записи
func (s *Service) GetAudit(ctx context.Context, entryID, userID string) (*models.AuditListResponse, error) {
	s.logger.Info("GetAudit: entry=%s, user=%s", entryID, userID)

	entry, err := s.getEntry(ctx, entryID)
	if err != nil {
		return nil, err
	}

	if err := s.checkEntryAccess(ctx, entry, userID); err != nil {
		s.logger.Warn("GetAudit: access denied for user=%s to entry id=%s", userID, entryID)
		return nil, err
	}

	records, err := s.auditRepo.ListByEntry(ctx, entryID)
	if err != nil {
		s.logger.Error("GetAudit: repository error for entry id=%s: %v", entryID, err)
		return nil, fmt.Errorf("%w: GetAudit - repository error: %v", ErrInternal, err)
	}

	return models.FromAuditRecords(entryID, records), nil
}

// Вспомогательные методы

func (s *Service) getEntry(ctx context.Context, id string) (*domain.Entry, error) {
	entry, err := s.entryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, entryRepo.ErrEntryNotFound) {
			s.logger.Warn("getEntry: entry id=%s not found", id)
			return nil, ErrEntryNotFound
		}
		s.logger.Error("getEntry: repository error for entry id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: getEntry - repository error: %v", ErrInternal, err)
	}
	return entry, nil
}

func (s *Service) getLine(ctx context.Context, id string) (*domain.ServiceLine, error) {
	line, err := s.lineRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, linestore.ErrLineNotFound) {
			s.logger.Warn("getLine: line id=%s not found", id)
			return nil, ErrLineNotFound
		}
		s.logger.Error("getLine: repository error for line id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: getLine - repository error: %v", ErrInternal, err)
	}
	return line, nil
}

// checkEntryAccess проверяет, что пользователь — владелец записи
// или вендор магазина, которому принадлежит линия
func (s *Service) checkEntryAccess(ctx context.Context, entry *domain.Entry, userID string) error {
	if entry.CustomerID == userID {
		return nil
	}

	line, err := s.getLine(ctx, entry.LineID)
	if err != nil {
		return err
	}

	if err := s.checkVendorAccess(ctx, line.ShopID, userID); err != nil {
		return ErrAccessDenied
	}

	return nil
}

// checkVendorAccess проверяет, что пользователь — вендор магазина
func (s *Service) checkVendorAccess(ctx context.Context, shopID, userID string) error {
	shop, err := s.shopClient.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopClient.ErrShopNotFound) {
			s.logger.Warn("checkVendorAccess: shop id=%s not found", shopID)
			return ErrAccessDenied
		}
		s.logger.Error("checkVendorAccess: failed to get shop id=%s: %v", shopID, err)
		return fmt.Errorf("%w: checkVendorAccess - failed to get shop: %v", ErrInternal, err)
	}

	if shop.VendorID != userID {
		s.logger.Warn("checkVendorAccess: user=%s is not the vendor of shop=%s", userID, shopID)
		return ErrAccessDenied
	}

	return nil
}

// record пишет аудит и публикует событие о смене состояния записи
// Ошибки не роняют операцию: изменение уже зафиксировано в БД
func (s *Service) record(ctx context.Context, e *domain.Entry, action, detail, subject string) {
	if err := s.auditRepo.Log(ctx, e.ID, action, detail); err != nil {
		s.logger.Warn("record: failed to write audit for entry id=%s: %v", e.ID, err)
	}

	event := events.EntryEvent{
		EntryID:    e.ID,
		LineID:     e.LineID,
		CustomerID: e.CustomerID,
		Status:     string(e.Status),
		OccurredAt: s.timeProvider.Now(),
	}
	if err := s.publisher.Publish(subject, event); err != nil {
		s.logger.Warn("record: failed to publish event for entry id=%s: %v", e.ID, err)
	}
}
