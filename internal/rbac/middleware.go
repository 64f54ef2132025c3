package rbac

import (
	"net/http"

	"log/slog"

	"github.com/rubankumarsankar/new-b/internal/platform/httpx"
	"github.com/rubankumarsankar/new-b/internal/shared"
)

// Middleware wires authorization helpers for HTTP handlers. It assumes the
// authenticator already resolved an identity into the request context.
type Middleware struct {
	Logger *slog.Logger
}

// RequireRoles ensures the current identity's role is in the allow-list.
func (m Middleware) RequireRoles(allowed ...Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if err := RequireRoles(id, allowed...); err != nil {
				if m.Logger != nil {
					m.Logger.Warn("rbac deny",
						slog.String("path", r.URL.Path),
						slog.String("role", id.Role))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequirePermission ensures the current identity's role carries the
// permission.
func (m Middleware) RequirePermission(perm Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := shared.IdentityFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if err := RequirePermission(id, perm); err != nil {
				if m.Logger != nil {
					m.Logger.Warn("rbac deny",
						slog.String("path", r.URL.Path),
						slog.String("role", id.Role),
						slog.String("permission", string(perm)))
				}
				httpx.RespondError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
