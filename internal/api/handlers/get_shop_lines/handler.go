package get_shop_lines

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
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

// Handle GET /api/v1/shops/{shopId}/lines
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	shopID := mux.Vars(r)["shopId"]

	result, err := h.service.ListByShop(r.Context(), shopID)
	if err != nil {
		h.logger.Error("GET /shops/{id}/lines - Failed to list lines: shop_id=%s, error=%v", shopID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /shops/{id}/lines - Lines retrieved: shop_id=%s, count=%d", shopID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
