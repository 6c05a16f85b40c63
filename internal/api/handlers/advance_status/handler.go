package advance_status

import (
	"errors"
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
	msgLineNotFound       = "сервисная линия не найдена"
	msgAccessDenied       = "менять статус может только вендор магазина"
	msgInvalidStatus      = "неизвестный статус"
	msgInvalidTransition  = "недопустимый переход статуса"
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

// Handle PATCH /api/v1/entries/{entryId}/status
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]
	userID := middleware.UserID(r.Context())

	var req AdvanceStatusRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /entries/{id}/status - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AdvanceStatus(r.Context(), entryID, &models.AdvanceStatusRequest{
		UserID: userID,
		Status: req.Status,
	})
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrEntryNotFound):
			h.logger.Warn("PATCH /entries/{id}/status - Entry not found: entry_id=%s", entryID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, entries.ErrLineNotFound):
			h.logger.Warn("PATCH /entries/{id}/status - Line not found for entry: entry_id=%s", entryID)
			handlers.RespondNotFound(w, msgLineNotFound)

		case errors.Is(err, entries.ErrAccessDenied):
			h.logger.Warn("PATCH /entries/{id}/status - Access denied: entry_id=%s, user_id=%s", entryID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, entries.ErrInvalidStatus):
			h.logger.Warn("PATCH /entries/{id}/status - Invalid status: entry_id=%s, status=%s", entryID, req.Status)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		case errors.Is(err, entries.ErrInvalidTransition):
			h.logger.Warn("PATCH /entries/{id}/status - Invalid transition: entry_id=%s, status=%s", entryID, req.Status)
			handlers.RespondError(w, http.StatusConflict, msgInvalidTransition)

		default:
			h.logger.Error("PATCH /entries/{id}/status - Failed to advance status: entry_id=%s, user_id=%s, error=%v",
				entryID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PATCH /entries/{id}/status - Status advanced: entry_id=%s, status=%s", entryID, result.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
