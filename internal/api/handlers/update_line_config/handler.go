package update_line_config

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
	msgLineNotFound       = "сервисная линия не найдена"
	msgAccessDenied       = "менять конфигурацию может только вендор магазина"
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

// Handle PUT /api/v1/lines/{lineId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lineID := mux.Vars(r)["lineId"]
	userID := middleware.UserID(r.Context())

	var req UpdateLineConfigRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /lines/{id}/config - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.UpdateConfig(r.Context(), lineID, req.ToServiceRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, lines.ErrLineNotFound):
			h.logger.Warn("PUT /lines/{id}/config - Line not found: line_id=%s", lineID)
			handlers.RespondNotFound(w, msgLineNotFound)

		case errors.Is(err, lines.ErrAccessDenied):
			h.logger.Warn("PUT /lines/{id}/config - Access denied: line_id=%s, user_id=%s", lineID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, lines.ErrInvalidConfig):
			h.logger.Warn("PUT /lines/{id}/config - Invalid config: %v", err)
			handlers.RespondBadRequest(w, msgInvalidConfig)

		case errors.Is(err, lines.ErrInvalidInput):
			h.logger.Warn("PUT /lines/{id}/config - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("PUT /lines/{id}/config - Failed to update config: line_id=%s, error=%v", lineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /lines/{id}/config - Config updated: line_id=%s", lineID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
