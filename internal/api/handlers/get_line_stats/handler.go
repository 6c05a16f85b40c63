package get_line_stats

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/api/middleware"
	"github.com/rocketqueue/queue-service/internal/service/entries"
)

const (
	msgLineNotFound = "сервисная линия не найдена"
	msgAccessDenied = "статистику линии видит только вендор магазина"
)

type Handler struct {
	service EntriesService
	logger  Logger
}

func NewHandler(service EntriesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/lines/{lineId}/stats
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lineID := mux.Vars(r)["lineId"]
	userID := middleware.UserID(r.Context())

	result, err := h.service.GetLineStats(r.Context(), lineID, userID)
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrLineNotFound):
			h.logger.Warn("GET /lines/{id}/stats - Line not found: line_id=%s", lineID)
			handlers.RespondNotFound(w, msgLineNotFound)

		case errors.Is(err, entries.ErrAccessDenied):
			h.logger.Warn("GET /lines/{id}/stats - Access denied: line_id=%s, user_id=%s", lineID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /lines/{id}/stats - Failed to get stats: line_id=%s, error=%v", lineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /lines/{id}/stats - Stats retrieved: line_id=%s", lineID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
