package get_line_entries

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/api/middleware"
	"github.com/rocketqueue/queue-service/internal/service/entries"
	"github.com/rocketqueue/queue-service/internal/service/entries/models"
	"github.com/rocketqueue/queue-service/pkg/ptr"
)

const (
	msgLineNotFound  = "сервисная линия не найдена"
	msgAccessDenied  = "записи линии видит только вендор магазина"
	msgInvalidStatus = "неизвестный статус"
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

// Handle GET /api/v1/lines/{lineId}/entries
// Query params: status (опционально), include_terminal (опционально, "true")
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lineID := mux.Vars(r)["lineId"]
	userID := middleware.UserID(r.Context())

	req := &models.GetLineEntriesRequest{
		UserID:          userID,
		LineID:          lineID,
		IncludeTerminal: r.URL.Query().Get("include_terminal") == "true",
	}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	result, err := h.service.GetLineEntries(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrLineNotFound):
			h.logger.Warn("GET /lines/{id}/entries - Line not found: line_id=%s", lineID)
			handlers.RespondNotFound(w, msgLineNotFound)

		case errors.Is(err, entries.ErrAccessDenied):
			h.logger.Warn("GET /lines/{id}/entries - Access denied: line_id=%s, user_id=%s", lineID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, entries.ErrInvalidInput):
			h.logger.Warn("GET /lines/{id}/entries - Invalid status filter: line_id=%s", lineID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /lines/{id}/entries - Failed to get entries: line_id=%s, error=%v", lineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /lines/{id}/entries - Entries retrieved: line_id=%s, count=%d", lineID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
