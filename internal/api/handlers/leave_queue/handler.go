package leave_queue

import (
	"errors"
	"io"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/api/middleware"
	"github.com/rocketqueue/queue-service/internal/service/entries"
	"github.com/rocketqueue/queue-service/internal/service/entries/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgEntryNotFound      = "запись не найдена"
	msgAccessDenied       = "нет доступа к этой записи"
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

// Handle PATCH /api/v1/entries/{entryId}/cancel
// Повторная отмена завершённой записи — не ошибка: возвращается её
// текущее состояние
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]
	userID := middleware.UserID(r.Context())

	var req LeaveQueueRequest
	if err := handlers.DecodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.Warn("PATCH /entries/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Leave(r.Context(), entryID, &models.LeaveEntryRequest{
		UserID: userID,
		Reason: req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrEntryNotFound):
			h.logger.Warn("PATCH /entries/{id}/cancel - Entry not found: entry_id=%s", entryID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, entries.ErrAccessDenied):
			h.logger.Warn("PATCH /entries/{id}/cancel - Access denied: entry_id=%s, user_id=%s", entryID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		default:
			h.logger.Error("PATCH /entries/{id}/cancel - Failed to cancel: entry_id=%s, user_id=%s, error=%v",
				entryID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /entries/{id}/cancel - Entry cancelled: entry_id=%s, user_id=%s", entryID, userID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
