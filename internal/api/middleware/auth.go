package middleware

import (
	"context"
	"net/http"

	"github.com/rocketqueue/queue-service/internal/api/handlers"
)

type contextKey string

const userIDKey contextKey = "userID"

// UserIDHeader заголовок с ID пользователя
// Аутентификацию выполняет внешний шлюз, сервис доверяет заголовку
const UserIDHeader = "X-User-ID"

// Auth проверяет наличие заголовка X-User-ID и кладёт его в контекст запроса
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get(UserIDHeader)
		if userID == "" {
			handlers.RespondUnauthorized(w, "требуется заголовок X-User-ID")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// UserID извлекает ID пользователя из контекста запроса
// Возвращает пустую строку, если запрос прошёл мимо Auth middleware
func UserID(ctx context.Context) string {
	userID, _ := ctx.Value(userIDKey).(string)
	return userID
}
