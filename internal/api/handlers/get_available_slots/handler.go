package get_available_slots

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/api/middleware"
	getAvailableSlots "github.com/rocketqueue/queue-service/internal/usecase/get_available_slots"
)

const (
	msgMissingDate    = "дата обязательна"
	msgInvalidDate    = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgShopNotFound   = "магазин не найден"
	msgLineNotFound   = "сервисная линия не найдена"
	msgLineNotInShop  = "линия не принадлежит этому магазину"
	msgLineNotSlotted = "у линии живой очереди нет сетки слотов"
	msgInvalidRequest = "некорректные параметры запроса"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/shops/{shopId}/lines/{lineId}/slots
// Query params: date (required, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	shopID := vars["shopId"]
	lineID := vars["lineId"]

	dateStr := r.URL.Query().Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /shops/{id}/lines/{id}/slots - Missing date")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	useCaseReq, err := ToUseCaseRequest(middleware.UserID(r.Context()), shopID, lineID, dateStr)
	if err != nil {
		h.logger.Warn("GET /shops/{id}/lines/{id}/slots - Invalid date format: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrShopNotFound):
			h.logger.Warn("GET /shops/{id}/lines/{id}/slots - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, getAvailableSlots.ErrLineNotFound):
			h.logger.Warn("GET /shops/{id}/lines/{id}/slots - Line not found: line_id=%s", lineID)
			handlers.RespondNotFound(w, msgLineNotFound)

		case errors.Is(err, getAvailableSlots.ErrLineNotInShop):
			h.logger.Warn("GET /shops/{id}/lines/{id}/slots - Line not in shop: shop_id=%s, line_id=%s", shopID, lineID)
			handlers.RespondNotFound(w, msgLineNotInShop)

		case errors.Is(err, getAvailableSlots.ErrLineNotSlotted):
			h.logger.Warn("GET /shops/{id}/lines/{id}/slots - Line not slotted: line_id=%s", lineID)
			handlers.RespondBadRequest(w, msgLineNotSlotted)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /shops/{id}/lines/{id}/slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("GET /shops/{id}/lines/{id}/slots - Failed to get slots: shop_id=%s, line_id=%s, error=%v",
				shopID, lineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /shops/{id}/lines/{id}/slots - Slots retrieved: shop_id=%s, line_id=%s, slots_count=%d",
		shopID, lineID, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(result))
}
