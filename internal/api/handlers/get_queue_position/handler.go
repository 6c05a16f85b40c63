package get_queue_position

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/service/entries"
)

const (
	msgEntryNotFound = "запись не найдена или уже завершена"
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

// Handle GET /api/v1/lines/{lineId}/entries/{entryId}/position
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lineID := vars["lineId"]
	entryID := vars["entryId"]

	result, err := h.service.GetPosition(r.Context(), lineID, entryID)
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrEntryNotFound):
			h.logger.Warn("GET /lines/{id}/entries/{id}/position - Entry not found: line_id=%s, entry_id=%s",
				lineID, entryID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		default:
			h.logger.Error("GET /lines/{id}/entries/{id}/position - Failed to get position: line_id=%s, entry_id=%s, error=%v",
				lineID, entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /lines/{id}/entries/{id}/position - Position retrieved: entry_id=%s, position=%d",
		entryID, result.Position)
	handlers.RespondJSON(w, http.StatusOK, result)
}
