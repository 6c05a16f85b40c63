package get_line_config

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/service/lines"
)

const (
	msgLineNotFound = "сервисная линия не найдена"
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

// Handle GET /api/v1/lines/{lineId}/config
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lineID := mux.Vars(r)["lineId"]

	result, err := h.service.GetConfig(r.Context(), lineID)
	if err != nil {
		switch {
		case errors.Is(err, lines.ErrLineNotFound):
			h.logger.Warn("GET /lines/{id}/config - Line not found: line_id=%s", lineID)
			handlers.RespondNotFound(w, msgLineNotFound)

		default:
			h.logger.Error("GET /lines/{id}/config - Failed to get config: line_id=%s, error=%v", lineID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("GET /lines/{id}/config - Config retrieved: line_id=%s", lineID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
