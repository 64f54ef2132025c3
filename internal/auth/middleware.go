package auth

import (
	"net/http"
	"strings"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Authenticator resolves the bearer credential into an identity and stores
// it in the request context. Requests without a valid credential terminate
// with 401 before reaching the handler.
func Authenticator(service *Service) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				w.Header().Set("WWW-Authenticate", "Bearer")
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			user, err := service.ResolveIdentity(r.Context(), token)
			if err != nil {
				w.Header().Set("WWW-Authenticate", "Bearer")
				httpx.RespondError(w, err)
				return
			}
			ctx := shared.ContextWithIdentity(r.Context(), shared.Identity{
				UserID:   user.ID,
				Username: user.Username,
				Role:     user.Role,
			})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
