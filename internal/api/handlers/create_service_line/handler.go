package create_service_line

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/api/middleware"
	"github.com/rocketqueue/queue-service/internal/service/lines"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgShopNotFound       = "магазин не найден"
	msgAccessDenied       = "создавать линии может только вендор магазина"
	msgInvalidConfig      = "некорректная конфигурация линии"
	msgInvalidRequest     = "некорректные параметры запроса"
)

type Handler struct {
	service LinesService
	logger  Logger
}

func NewHandler(service LinesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/shops/{shopId}/lines
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopId"]
	userID := middleware.UserID(r.Context())

	var req CreateLineRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /shops/{id}/lines - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), req.ToServiceRequest(userID, shopID))
	if err != nil {
		switch {
		case errors.Is(err, lines.ErrShopNotFound):
			h.logger.Warn("POST /shops/{id}/lines - Shop not found: shop_id=%s", shopID)
			handlers.RespondNotFound(w, msgShopNotFound)

		case errors.Is(err, lines.ErrAccessDenied):
			h.logger.Warn("POST /shops/{id}/lines - Access denied: shop_id=%s, user_id=%s", shopID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, lines.ErrInvalidConfig):
			h.logger.Warn("POST /shops/{id}/lines - Invalid config: %v", err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		case errors.Is(err, lines.ErrInvalidInput):
			h.logger.Warn("POST /shops/{id}/lines - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /shops/{id}/lines - Failed to create line: shop_id=%s, error=%v", shopID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /shops/{id}/lines - Line created: line_id=%s, shop_id=%s", result.ID, shopID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
