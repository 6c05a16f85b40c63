package watch_position

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
	"github.com/rocketqueue/queue-service/internal/service/entries"
)

const (
	msgEntryNotFound = "запись не найдена"

	// pushInterval — период отправки снапшотов позиции клиенту.
	pushInterval = 5 * time.Second
	writeTimeout = 10 * time.Second
)

type Handler struct {
	service  EntriesService
	upgrader websocket.Upgrader
	logger   Logger
}

func NewHandler(service EntriesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Принимаем только соединения с того же хоста: наружу
			// сервис смотрит через собственные мобильные клиенты.
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return u.Host == r.Host
			},
		},
		logger: logger,
	}
}

// Handle GET /ws/lines/{lineId}/entries/{entryId}
//
// Отправляет клиенту снапшот позиции сразу после апгрейда и далее раз в
// pushInterval. Соединение закрывается, когда запись переходит в
// терминальный статус или пропадает.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	lineID := vars["lineId"]
	entryID := vars["entryId"]

	// Шаг 1: валидируем запись до апгрейда, чтобы отдать нормальный HTTP-статус
	if _, err := h.service.GetPosition(r.Context(), lineID, entryID); err != nil {
		if errors.Is(err, entries.ErrEntryNotFound) {
			h.logger.Warn("WS /lines/{id}/entries/{id} - Entry not found: entry_id=%s", entryID)
			handlers.RespondNotFound(w, msgEntryNotFound)
			return
		}
		h.logger.Error("WS /lines/{id}/entries/{id} - Failed to get position: entry_id=%s, error=%v", entryID, err)
		handlers.RespondInternalError(w)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("WS /lines/{id}/entries/{id} - Upgrade failed: entry_id=%s, error=%v", entryID, err)
		return
	}
	defer conn.Close()

	h.logger.Info("WS /lines/{id}/entries/{id} - Client connected: line_id=%s, entry_id=%s", lineID, entryID)

	// Шаг 2: читаем входящие фреймы в фоне, чтобы обрабатывать close от клиента
	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pushInterval)
	defer ticker.Stop()

	for {
		if done := h.push(r.Context(), conn, lineID, entryID); done {
			return
		}

		select {
		case <-ticker.C:
		case <-clientClosed:
			h.logger.Info("WS /lines/{id}/entries/{id} - Client disconnected: entry_id=%s", entryID)
			return
		case <-r.Context().Done():
			return
		}
	}
}

// push отправляет клиенту текущий снапшот. Возвращает true, когда наблюдение
// пора завершать.
func (h *Handler) push(ctx context.Context, conn *websocket.Conn, lineID, entryID string) bool {
	result, err := h.service.GetPosition(ctx, lineID, entryID)
	if err != nil {
		// Запись завершилась или удалена — закрываем соединение штатно
		h.logger.Info("WS /lines/{id}/entries/{id} - Entry gone, closing: entry_id=%s", entryID)
		_ = conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, "entry is no longer active"),
			time.Now().Add(writeTimeout),
		)
		return true
	}

	_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
	if err := conn.WriteJSON(result); err != nil {
		h.logger.Warn("WS /lines/{id}/entries/{id} - Write failed: entry_id=%s, error=%v", entryID, err)
		return true
	}

	return false
}
