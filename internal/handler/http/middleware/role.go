package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/auth"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/domain/user"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/handler/http/response"
	"github.com/cmlabs-hris/mobile-portal-backend/internal/pkg/identity"
)

// RequirePermission checks if user has specific permission
func RequirePermission(permission user.Permission) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !user.HasPermission(actor, permission) {
				response.Forbidden(w, fmt.Sprintf("Insufficient permissions: required '%s', but user role is '%s'", permission, actor.Role))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireModule checks the module access flag granted to the user
func RequireModule(module identity.Module) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			actor, ok := ActorFromContext(r.Context())
			if !ok {
				response.HandleError(w, auth.ErrInvalidToken)
				return
			}

			if !actor.HasModule(module) {
				response.Forbidden(w, "Module access required: '"+string(module)+"'")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
