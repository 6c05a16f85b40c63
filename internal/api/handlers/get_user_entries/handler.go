package get_user_entries

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
	msgAccessDenied  = "можно смотреть только свою историю"
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

// Handle GET /api/v1/users/{userId}/entries
// Query params: status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	targetUserID := mux.Vars(r)["userId"]
	userID := middleware.UserID(r.Context())

	// Историю записей видит только сам клиент
	if targetUserID != userID {
		h.logger.Warn("GET /users/{id}/entries - Access denied: target=%s, user_id=%s", targetUserID, userID)
		handlers.RespondForbidden(w, msgAccessDenied)
		return
	}

	req := &models.GetUserEntriesRequest{UserID: userID}
	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = ptr.Ptr(status)
	}

	result, err := h.service.GetUserEntries(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, entries.ErrInvalidInput):
			h.logger.Warn("GET /users/{id}/entries - Invalid status filter: user_id=%s", userID)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /users/{id}/entries - Failed to get entries: user_id=%s, error=%v", userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /users/{id}/entries - Entries retrieved: user_id=%s, count=%d", userID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
