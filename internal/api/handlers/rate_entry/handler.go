package rate_entry

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
	msgAccessDenied       = "оценить запись может только её владелец"
	msgCannotRate         = "оценить можно только завершённое обслуживание"
	msgInvalidRating      = "некорректная оценка"
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

// Handle POST /api/v1/entries/{entryId}/rating
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	entryID := mux.Vars(r)["entryId"]
	userID := middleware.UserID(r.Context())

	var req RateEntryRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /entries/{id}/rating - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	err := h.service.Rate(r.Context(), entryID, &models.RateEntryRequest{
		UserID:   userID,
		Rating:   req.Rating,
		Feedback: req.Feedback,
	})
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrEntryNotFound):
			h.logger.Warn("POST /entries/{id}/rating - Entry not found: entry_id=%s", entryID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, entries.ErrAccessDenied):
			h.logger.Warn("POST /entries/{id}/rating - Access denied: entry_id=%s, user_id=%s", entryID, userID)
			handlers.RespondForbidden(w, msgAccessDenied)

		case errors.Is(err, entries.ErrCannotRate):
			h.logger.Warn("POST /entries/{id}/rating - Cannot rate: entry_id=%s", entryID)
			handlers.RespondError(w, http.StatusConflict, msgCannotRate)

		case errors.Is(err, entries.ErrInvalidInput):
			h.logger.Warn("POST /entries/{id}/rating - Invalid rating: entry_id=%s, rating=%d", entryID, req.Rating)
			handlers.RespondBadRequest(w, msgInvalidRating)

		default:
			h.logger.Error("POST /entries/{id}/rating - Failed to rate: entry_id=%s, error=%v", entryID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /entries/{id}/rating - Entry rated: entry_id=%s, rating=%d", entryID, req.Rating)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
