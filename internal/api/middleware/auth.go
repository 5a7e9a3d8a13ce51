package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/m04kA/appointweb-booking/internal/api/handlers"
)

// UserIDHeader заголовок с идентификатором владельца бизнеса
const UserIDHeader = "X-User-ID"

type userIDKey struct{}

// Auth кладёт X-User-ID в контекст запроса; без заголовка отвечает 401
func Auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := strings.TrimSpace(r.Header.Get(UserIDHeader))
		if userID == "" {
			handlers.RespondUnauthorized(w)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUserID(r.Context(), userID)))
	})
}

// WithUserID возвращает контекст с идентификатором пользователя
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFromContext достаёт идентификатор пользователя, положенный Auth
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey{}).(string)
	return userID, ok && userID != ""
}
