package get_entry

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/api/middleware"
	"github.com/rocketqueue/queue-service/internal/service/entries"
)

const (
	msgEntryNotFound = "запись не найдена"
	msgAccessDenied  = "нет доступа к этой записи"
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

// Handle GET /api/v1/entries/{entryId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]
	userID := middleware.UserID(r.Context())

	result, err := h.service.GetByID(r.Context(), entryID, userID)
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrEntryNotFound):
			h.logger.Warn("GET /entries/{id} - Entry not found: entry_id=%s", entryID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, entries.ErrAccessDenied):
			h.logger.Warn("GET /entries/{id} - Access denied: entry_id=%s, user_id=%s", entryID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("GET /entries/{id} - Failed to get entry: entry_id=%s, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /entries/{id} - Entry retrieved: entry_id=%s", entryID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
