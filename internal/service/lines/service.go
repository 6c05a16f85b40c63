package lines

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/rocketqueue/queue-service/internal/domain"
	linestore "github.com/rocketqueue/queue-service/internal/infra/storage/serviceline"
	shopClient "github.com/rocketqueue/queue-service/internal/integrations/shopservice"
	"github.com/rocketqueue/queue-service/internal/service/lines/models"
)

// Service сервис для управления сервисными линиями магазина
type Service struct {
	lineRepo   LineRepository
	shopClient ShopServiceClient
	logger     Logger
}

// NewService создает новый экземпляр сервиса линий
func NewService(lineRepo LineRepository, shopClient ShopServiceClient, logger Logger) *Service {
	return &Service{
		lineRepo:   lineRepo,
		shopClient: shopClient,
		logger:     logger,
	}
}

// Create создает сервисную линию в магазине
// Доступно только вендору магазина; конфигурация проверяется здесь
func (s *Service) Create(ctx context.Context, req *models.CreateLineRequest) (*models.LineResponse, error) {
	s.logger.Info("Create: creating line %q in shop=%s by user=%s", req.Name, req.ShopID, req.UserID)

	if req.ShopID == "" {
		return nil, fmt.Errorf("%w: shopID is required", ErrInvalidInput)
	}
	if err := validateName(req.Name); err != nil {
		s.logger.Warn("Create: validation failed: %v", err)
		return nil, err
	}
	normalizeSlotConfig(req.SlotConfig)
	if err := validateSlotConfig(req.SlotConfig); err != nil {
		s.logger.Warn("Create: slot config validation failed: %v", err)
		return nil, err
	}
	if err := validateSchedule(req.Schedule); err != nil {
		s.logger.Warn("Create: schedule validation failed: %v", err)
		return nil, err
	}

	if err := s.checkVendorAccess(ctx, req.ShopID, req.UserID); err != nil {
		s.logger.Warn("Create: access denied for user=%s to shop=%s", req.UserID, req.ShopID)
		return nil, err
	}

	line := &domain.ServiceLine{
		ID:         uuid.NewString(),
		ShopID:     req.ShopID,
		Name:       strings.TrimSpace(req.Name),
		Category:   req.Category,
		IsActive:   true,
		SlotConfig: req.SlotConfig.ToDomainSlotConfig(),
		Schedule:   req.Schedule.ToDomainSchedule(),
	}

	created, err := s.lineRepo.Create(ctx, line)
	if err != nil {
		s.logger.Error("Create: repository error for shop=%s: %v", req.ShopID, err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: created line id=%s in shop=%s", created.ID, req.ShopID)
	return models.FromDomainLine(created), nil
}

// GetConfig получает конфигурацию линии
func (s *Service) GetConfig(ctx context.Context, lineID string) (*models.LineResponse, error) {
	s.logger.Info("GetConfig: fetching line id=%s", lineID)

	line, err := s.getLine(ctx, lineID)
	if err != nil {
		return nil, err
	}

	return models.FromDomainLine(line), nil
}

// ListByShop получает все линии магазина
func (s *Service) ListByShop(ctx context.Context, shopID string) (*models.LineListResponse, error) {
	s.logger.Info("ListByShop: fetching lines for shop=%s", shopID)

	lines, err := s.lineRepo.ListByShop(ctx, shopID)
	if err != nil {
		s.logger.Error("ListByShop: repository error for shop=%s: %v", shopID, err)
		return nil, fmt.Errorf("%w: ListByShop - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListByShop: fetched %d lines for shop=%s", len(lines), shopID)
	return models.FromDomainLineList(lines), nil
}

// UpdateConfig обновляет конфигурацию линии (частичное обновление)
// Непереданные поля сохраняют текущие значения; слоты и расписание
// при передаче перезаписываются целиком
func (s *Service) UpdateConfig(ctx context.Context, lineID string, req *models.UpdateConfigRequest) (*models.LineResponse, error) {
	s.logger.Info("UpdateConfig: updating line id=%s by user=%s", lineID, req.UserID)

	normalizeSlotConfig(req.SlotConfig)
	if err := validateSlotConfig(req.SlotConfig); err != nil {
		s.logger.Warn("UpdateConfig: slot config validation failed: %v", err)
		return nil, err
	}
	if err := validateSchedule(req.Schedule); err != nil {
		s.logger.Warn("UpdateConfig: schedule validation failed: %v", err)
		return nil, err
	}

	line, err := s.getLine(ctx, lineID)
	if err != nil {
		return nil, err
	}

	if err := s.checkVendorAccess(ctx, line.ShopID, req.UserID); err != nil {
		s.logger.Warn("UpdateConfig: access denied for user=%s to line=%s", req.UserID, lineID)
		return nil, err
	}

	if req.Name != nil {
		if err := validateName(*req.Name); err != nil {
			s.logger.Warn("UpdateConfig: name validation failed: %v", err)
			return nil, err
		}
		line.Name = strings.TrimSpace(*req.Name)
	}
	if req.IsActive != nil {
		line.IsActive = *req.IsActive
	}
	if req.SlotConfig != nil {
		line.SlotConfig = req.SlotConfig.ToDomainSlotConfig()
	}
	if req.Schedule != nil {
		line.Schedule = req.Schedule.ToDomainSchedule()
	}

	updated, err := s.lineRepo.UpdateConfig(ctx, line)
	if err != nil {
		if errors.Is(err, linestore.ErrLineNotFound) {
			return nil, ErrLineNotFound
		}
		s.logger.Error("UpdateConfig: repository error for line=%s: %v", lineID, err)
		return nil, fmt.Errorf("%w: UpdateConfig - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("UpdateConfig: updated line id=%s", lineID)
	return models.FromDomainLine(updated), nil
}

// Вспомогательные методы

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

// checkVendorAccess проверяет, что пользователь — вендор магазина
func (s *Service) checkVendorAccess(ctx context.Context, shopID, userID string) error {
	shop, err := s.shopClient.GetShop(ctx, shopID)
	if err != nil {
		if errors.Is(err, shopClient.ErrShopNotFound) {
			s.logger.Warn("checkVendorAccess: shop id=%s not found", shopID)
			return ErrShopNotFound
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
