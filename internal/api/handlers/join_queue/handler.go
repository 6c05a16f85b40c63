package join_queue

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/api/middleware"
	joinQueue "github.com/rocketqueue/queue-service/internal/usecase/join_queue"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidSlotStart   = "некорректный формат времени слота, ожидается RFC3339"
	msgLineNotFound       = "сервисная линия не найдена"
	msgLineInactive       = "линия сейчас не принимает клиентов"
	msgSlotNotAvailable   = "выбранное временное окно недоступно"
	msgAlreadyInQueue     = "у вас уже есть активная запись в этой очереди"
	msgInvalidRequest     = "некорректные параметры запроса"
)

type Handler struct {
	useCase JoinQueueUseCase
	logger  Logger
}

func NewHandler(useCase JoinQueueUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/lines/{lineId}/entries
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	lineID := mux.Vars(r)["lineId"]
	userID := middleware.UserID(r.Context())

	var req JoinQueueRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /lines/{id}/entries - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, lineID)
	if err != nil {
		h.logger.Warn("POST /lines/{id}/entries - Invalid slotStart: %v", err)
		handlers.RespondBadRequest(w, msgInvalidSlotStart)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		switch {
		case errors.Is(err, joinQueue.ErrLineNotFound):
			h.logger.Warn("POST /lines/{id}/entries - Line not found: line_id=%s", lineID)
			handlers.RespondNotFound(w, msgLineNotFound)

		case errors.Is(err, joinQueue.ErrLineInactive):
			h.logger.Warn("POST /lines/{id}/entries - Line inactive: line_id=%s", lineID)
			handlers.RespondError(w, http.StatusConflict, msgLineInactive)

		case errors.Is(err, joinQueue.ErrSlotNotAvailable):
			h.logger.Warn("POST /lines/{id}/entries - Slot not available: line_id=%s, user_id=%s", lineID, userID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotAvailable)

		case errors.Is(err, joinQueue.ErrAlreadyInQueue):
			h.logger.Warn("POST /lines/{id}/entries - Already in queue: line_id=%s, user_id=%s", lineID, userID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyInQueue)

		case errors.Is(err, joinQueue.ErrInvalidInput):
			h.logger.Warn("POST /lines/{id}/entries - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidRequest)

		default:
			h.logger.Error("POST /lines/{id}/entries - Failed to join queue: line_id=%s, user_id=%s, error=%v",
				lineID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /lines/{id}/entries - Entry created: entry_id=%s, line_id=%s, user_id=%s",
		result.ID, lineID, userID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
